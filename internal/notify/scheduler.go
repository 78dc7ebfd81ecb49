package notify

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"showwise/internal/metrics"
	"showwise/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSource is the system of record the scheduler re-reads at fire time
type EventSource interface {
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
}

// Resolver maps an event's assigned crew to participants with external handles
type Resolver interface {
	Resolve(ctx context.Context, event *models.Event) ([]Participant, error)
}

// Announcer delivers an announcement. A nil error means the message was accepted.
type Announcer interface {
	Announce(ctx context.Context, a Announcement) error
}

// Outcome is how a single fire attempt ended
type Outcome string

const (
	OutcomeSent       Outcome = "sent"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeAbandoned  Outcome = "abandoned"
	OutcomeFailed     Outcome = "failed"
)

const defaultFireTimeout = 30 * time.Second

// Task is a registered deferred action for one (event, kind) pair
type Task struct {
	ID      string    `json:"id"`
	EventID uint      `json:"event_id"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
}

type pendingTask struct {
	Task
	timer Timer
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the wall clock and timer source
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLocation sets the zone in which the day-of reminder hour is evaluated
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

// WithDayOfHour sets the local hour of the day-of reminder
func WithDayOfHour(hour int) Option {
	return func(s *Scheduler) { s.dayOfHour = hour }
}

// WithLogger sets the logger used for registrations and fire outcomes
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithFireTimeout bounds how long a timer-triggered fire may take
func WithFireTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.fireTimeout = d }
}

// Scheduler turns event start times into reminder deadlines and delivers each
// (event, kind) reminder at most once.
type Scheduler struct {
	events    EventSource
	resolver  Resolver
	tracker   Tracker
	announcer Announcer

	clock       Clock
	loc         *time.Location
	dayOfHour   int
	fireTimeout time.Duration
	logger      *zap.Logger

	mu      sync.Mutex
	pending map[trackerKey]*pendingTask
	stopped bool

	locks keyedLocks
}

// NewScheduler creates a scheduler. The tracker outlives individual events and should be
// created once at application start.
func NewScheduler(events EventSource, resolver Resolver, tracker Tracker, announcer Announcer, opts ...Option) *Scheduler {
	s := &Scheduler{
		events:      events,
		resolver:    resolver,
		tracker:     tracker,
		announcer:   announcer,
		clock:       RealClock(),
		loc:         time.UTC,
		dayOfHour:   DefaultDayOfHour,
		fireTimeout: defaultFireTimeout,
		logger:      zap.NewNop(),
		pending:     make(map[trackerKey]*pendingTask),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone used for local reminder times
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Schedule registers a deferred fire for every reminder of the event whose deadline is
// still in the future. Past deadlines are skipped without catch-up. A pending task for
// the same (event, kind) is replaced, so calling Schedule again after an edit moves the
// reminders. It never blocks on delivery.
func (s *Scheduler) Schedule(event *models.Event) []Task {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn("scheduler stopped, reminders not registered", zap.Uint("event_id", event.ID))
		return nil
	}

	var tasks []Task
	for _, kind := range Kinds() {
		key := trackerKey{event.ID, kind}
		s.dropLocked(key)

		at := kind.Target(event.StartsAt, s.loc, s.dayOfHour)
		delay := at.Sub(now)
		if delay <= 0 {
			s.logger.Debug("reminder deadline already passed",
				zap.Uint("event_id", event.ID),
				zap.String("kind", string(kind)),
				zap.Time("at", at),
			)
			continue
		}

		task := &pendingTask{Task: Task{
			ID:      uuid.NewString(),
			EventID: event.ID,
			Kind:    kind,
			At:      at,
		}}
		id := task.ID
		task.timer = s.clock.AfterFunc(delay, func() { s.run(key, id) })
		s.pending[key] = task
		metrics.NotificationsPending.Inc()

		s.logger.Info("scheduled reminder",
			zap.Uint("event_id", event.ID),
			zap.String("kind", string(kind)),
			zap.Time("at", at),
			zap.Duration("in", delay),
		)
		tasks = append(tasks, task.Task)
	}
	return tasks
}

// Cancel withdraws every pending reminder of an event and reports how many were removed
func (s *Scheduler) Cancel(eventID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, kind := range Kinds() {
		if s.dropLocked(trackerKey{eventID, kind}) {
			n++
		}
	}
	if n > 0 {
		s.logger.Info("cancelled reminders", zap.Uint("event_id", eventID), zap.Int("count", n))
	}
	return n
}

// Pending returns the event's registered reminders ordered by deadline
func (s *Scheduler) Pending(eventID uint) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for key, t := range s.pending {
		if key.eventID == eventID {
			out = append(out, t.Task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// Stop withdraws all pending reminders and refuses new ones. Reminders are not
// persisted, so whatever was pending is lost; the count is returned for logging.
func (s *Scheduler) Stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.pending)
	for key := range s.pending {
		s.dropLocked(key)
	}
	s.stopped = true
	return n
}

func (s *Scheduler) dropLocked(key trackerKey) bool {
	t, ok := s.pending[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.pending, key)
	metrics.NotificationsPending.Dec()
	return true
}

// run is the timer body. A task that was replaced or cancelled after its timer
// already fired is recognised by id and skipped.
func (s *Scheduler) run(key trackerKey, id string) {
	s.mu.Lock()
	t, ok := s.pending[key]
	if !ok || t.ID != id {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	metrics.NotificationsPending.Dec()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.fireTimeout)
	defer cancel()
	s.Fire(ctx, key.eventID, key.kind)
}

// Fire attempts delivery of one reminder. The event and its crew are re-read so changes
// since scheduling are honoured. Deleted events are abandoned, already-sent pairs are
// suppressed, and a failed delivery is not recorded and not retried.
func (s *Scheduler) Fire(ctx context.Context, eventID uint, kind Kind) Outcome {
	unlock := s.locks.lock(trackerKey{eventID, kind})
	defer unlock()

	outcome := s.fire(ctx, eventID, kind)
	metrics.NotificationsTotal.WithLabelValues(string(kind), string(outcome)).Inc()
	return outcome
}

func (s *Scheduler) fire(ctx context.Context, eventID uint, kind Kind) Outcome {
	log := s.logger.With(zap.Uint("event_id", eventID), zap.String("kind", string(kind)))

	event, err := s.events.GetEvent(ctx, eventID)
	if errors.Is(err, models.ErrNotFound) {
		log.Debug("event no longer exists, reminder abandoned")
		return OutcomeAbandoned
	}
	if err != nil {
		log.Warn("failed to load event for reminder", zap.Error(err))
		return OutcomeFailed
	}

	sent, err := s.tracker.IsSent(ctx, eventID, kind)
	if err != nil {
		log.Warn("failed to read notification record", zap.Error(err))
		return OutcomeFailed
	}
	if sent {
		log.Info("reminder already sent, skipping")
		return OutcomeSuppressed
	}

	participants, err := s.resolver.Resolve(ctx, event)
	if err != nil {
		log.Warn("failed to resolve crew handles, sending without mentions", zap.Error(err))
		participants = unresolved(event)
	}

	announcement := Compose(event, kind, participants, s.loc)
	if err := s.announcer.Announce(ctx, announcement); err != nil {
		log.Error("failed to post reminder", zap.Error(err))
		return OutcomeFailed
	}

	delivery := Delivery{
		EventID:  eventID,
		Kind:     kind,
		Mentions: announcement.Mentions,
		SentAt:   s.clock.Now(),
	}
	if err := s.tracker.MarkSent(ctx, delivery); err != nil {
		log.Error("reminder posted but not recorded", zap.Error(err))
	}
	log.Info("posted reminder",
		zap.String("title", event.Title),
		zap.Int("mentions", len(announcement.Mentions)),
		zap.Int("unlinked", len(announcement.Unlinked)),
	)
	return OutcomeSent
}

func unresolved(event *models.Event) []Participant {
	names := event.CrewNames()
	out := make([]Participant, 0, len(names))
	for _, name := range names {
		out = append(out, Participant{Name: name})
	}
	return out
}

type refMutex struct {
	sync.Mutex
	refs int
}

// keyedLocks serialises fire attempts per (event, kind)
type keyedLocks struct {
	mu    sync.Mutex
	locks map[trackerKey]*refMutex
}

func (k *keyedLocks) lock(key trackerKey) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[trackerKey]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
