package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"showwise/internal/metrics"

	"go.uber.org/zap"
)

// NamedAnnouncer pairs a transport with the name used in logs
type NamedAnnouncer struct {
	Name      string
	Announcer Announcer
}

// ErrNothingToDeliver is returned by a transport that had nobody to deliver the
// announcement to. Fanout counts it as skipped rather than as delivered or failed.
var ErrNothingToDeliver = errors.New("nothing to deliver")

// Fanout delivers an announcement through every transport in turn.
// It succeeds when at least one transport delivered the message, or when every
// transport skipped it. Partial failures are logged. An empty Fanout is a successful no-op.
type Fanout struct {
	transports []NamedAnnouncer
	logger     *zap.Logger
}

// NewFanout creates a fanout over the given transports
func NewFanout(logger *zap.Logger, transports ...NamedAnnouncer) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{transports: transports, logger: logger}
}

func (f *Fanout) Announce(ctx context.Context, a Announcement) error {
	var (
		errs      []error
		delivered int
	)
	for _, t := range f.transports {
		start := time.Now()
		err := t.Announcer.Announce(ctx, a)

		status := "ok"
		switch {
		case errors.Is(err, ErrNothingToDeliver):
			status = "skipped"
		case err != nil:
			status = "error"
		}
		metrics.AnnounceDuration.WithLabelValues(t.Name, status).Observe(time.Since(start).Seconds())

		switch status {
		case "ok":
			delivered++
		case "skipped":
			f.logger.Debug("transport skipped announcement",
				zap.String("transport", t.Name),
				zap.Uint("event_id", a.EventID),
				zap.Error(err),
			)
		default:
			f.logger.Warn("transport failed",
				zap.String("transport", t.Name),
				zap.Uint("event_id", a.EventID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}
	if delivered == 0 && len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
