package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"showwise/internal/models"
)

type fakeTimer struct {
	clock   *fakeClock
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock records registered timers instead of running them
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, delay: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) active() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs a timer body as the runtime would once its delay elapsed, even if it was stopped
func (c *fakeClock) fire(t *fakeTimer) {
	c.mu.Lock()
	t.fired = true
	c.now = c.now.Add(t.delay)
	c.mu.Unlock()
	t.f()
}

type fakeEvents struct {
	mu     sync.Mutex
	events map[uint]*models.Event
	err    error
}

func newFakeEvents(events ...*models.Event) *fakeEvents {
	f := &fakeEvents{events: make(map[uint]*models.Event)}
	for _, e := range events {
		f.events[e.ID] = e
	}
	return f
}

func (f *fakeEvents) GetEvent(_ context.Context, id uint) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return e, nil
}

func (f *fakeEvents) delete(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
}

// fakeResolver resolves crew names from a fixed handle table
type fakeResolver struct {
	handles map[string]string
	err     error
}

func (r *fakeResolver) Resolve(_ context.Context, event *models.Event) ([]Participant, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []Participant
	for _, name := range event.CrewNames() {
		out = append(out, Participant{Name: name, Handle: r.handles[name]})
	}
	return out, nil
}

type fakeAnnouncer struct {
	mu    sync.Mutex
	calls []Announcement
	err   error
	delay time.Duration
}

func (a *fakeAnnouncer) Announce(_ context.Context, ann Announcement) error {
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, ann)
	return a.err
}

func (a *fakeAnnouncer) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *fakeAnnouncer) setErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

var errTransport = errors.New("webhook returned 500")

func crewEvent(id uint, title string, start time.Time, crew ...string) *models.Event {
	e := &models.Event{ID: id, Title: title, StartsAt: start, Location: "Main Hall"}
	for i, name := range crew {
		e.CrewAssignments = append(e.CrewAssignments, models.CrewAssignment{
			ID:         uint(i + 1),
			EventID:    id,
			CrewMember: name,
		})
	}
	return e
}
