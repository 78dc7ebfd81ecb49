package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanout(t *testing.T) {
	ctx := context.Background()
	ann := Announcement{EventID: 1, Kind: DayOf}

	t.Run("no transports", func(t *testing.T) {
		assert.NoError(t, NewFanout(nil).Announce(ctx, ann))
	})

	t.Run("partial failure succeeds", func(t *testing.T) {
		ok := &fakeAnnouncer{}
		bad := &fakeAnnouncer{err: errTransport}
		f := NewFanout(nil, NamedAnnouncer{"discord", bad}, NamedAnnouncer{"email", ok})

		assert.NoError(t, f.Announce(ctx, ann))
		assert.Equal(t, 1, ok.count())
		assert.Equal(t, 1, bad.count())
	})

	t.Run("all failing", func(t *testing.T) {
		f := NewFanout(nil,
			NamedAnnouncer{"discord", &fakeAnnouncer{err: errTransport}},
			NamedAnnouncer{"rocketchat", &fakeAnnouncer{err: errTransport}},
		)

		err := f.Announce(ctx, ann)
		assert.ErrorIs(t, err, errTransport)
		assert.Contains(t, err.Error(), "rocketchat")
	})

	skipping := func() *fakeAnnouncer {
		return &fakeAnnouncer{err: fmt.Errorf("no address on file: %w", ErrNothingToDeliver)}
	}

	t.Run("failure next to a skipping transport fails", func(t *testing.T) {
		bad := &fakeAnnouncer{err: errTransport}
		skip := skipping()
		f := NewFanout(nil, NamedAnnouncer{"discord", bad}, NamedAnnouncer{"email", skip})

		err := f.Announce(ctx, ann)
		assert.ErrorIs(t, err, errTransport)
		assert.NotErrorIs(t, err, ErrNothingToDeliver)
		assert.Equal(t, 1, skip.count())
	})

	t.Run("delivery next to a skipping transport succeeds", func(t *testing.T) {
		f := NewFanout(nil, NamedAnnouncer{"discord", &fakeAnnouncer{}}, NamedAnnouncer{"email", skipping()})
		assert.NoError(t, f.Announce(ctx, ann))
	})

	t.Run("every transport skipping is a no-op", func(t *testing.T) {
		f := NewFanout(nil, NamedAnnouncer{"email", skipping()}, NamedAnnouncer{"sms", skipping()})
		assert.NoError(t, f.Announce(ctx, ann))
	})
}
