package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"showwise/internal/models"
	"showwise/internal/notify"
)

type fakeEvents struct {
	mu          sync.Mutex
	events      map[uint]*models.Event
	assignments map[uint]models.CrewAssignment
	nextID      uint
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{events: map[uint]*models.Event{}, assignments: map[uint]models.CrewAssignment{}}
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) GetEvent(_ context.Context, id uint) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *e
	cp.CrewAssignments = nil
	for _, a := range f.assignments {
		if a.EventID == id {
			cp.CrewAssignments = append(cp.CrewAssignments, a)
		}
	}
	return &cp, nil
}

func (f *fakeEvents) List(_ context.Context, from, to time.Time) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Event
	for _, e := range f.events {
		if (!from.IsZero() && e.StartsAt.Before(from)) || (!to.IsZero() && !e.StartsAt.Before(to)) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEvents) AssignCrew(_ context.Context, a *models.CrewAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[a.EventID]; !ok {
		return models.ErrNotFound
	}
	f.nextID++
	a.ID = f.nextID
	f.assignments[a.ID] = *a
	return nil
}

func (f *fakeEvents) RemoveCrew(_ context.Context, id uint) (*models.CrewAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(f.assignments, id)
	return &a, nil
}

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[string]*models.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[a.Username]; ok {
		return models.ErrConflict
	}
	a.ID = uint(len(f.accounts) + 1)
	cp := *a
	f.accounts[a.Username] = &cp
	return nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) TouchLogin(_ context.Context, username string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[username]; ok {
		a.LastLogin = at
	}
	return nil
}

func (f *fakeAccounts) LinkDiscord(_ context.Context, username, discordID, discordUsername string) (*models.Account, error) {
	f.mu.Lock()
	a, ok := f.accounts[username]
	if !ok {
		f.mu.Unlock()
		return nil, models.ErrNotFound
	}
	a.DiscordID = nil
	if discordID != "" {
		a.DiscordID = &discordID
	}
	a.DiscordUsername = discordUsername
	f.mu.Unlock()
	return f.GetByUsername(context.Background(), username)
}

type fireCall struct {
	eventID uint
	kind    notify.Kind
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []uint
	cancelled []uint
	fired     []fireCall
	outcome   notify.Outcome
	pending   map[uint][]notify.Task
}

func (f *fakeScheduler) Schedule(e *models.Event) []notify.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, e.ID)
	var tasks []notify.Task
	for _, k := range notify.Kinds() {
		tasks = append(tasks, notify.Task{ID: string(k), EventID: e.ID, Kind: k, At: k.Target(e.StartsAt, time.UTC, notify.DefaultDayOfHour)})
	}
	return tasks
}

func (f *fakeScheduler) Cancel(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	return 3
}

func (f *fakeScheduler) Pending(id uint) []notify.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[id]
}

func (f *fakeScheduler) Fire(_ context.Context, id uint, kind notify.Kind) notify.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fired = append(f.fired, fireCall{id, kind})
	return f.outcome
}

func (f *fakeScheduler) Location() *time.Location { return time.UTC }

type fakeAnnouncer struct {
	mu    sync.Mutex
	calls []notify.Announcement
}

func (f *fakeAnnouncer) Announce(_ context.Context, a notify.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, a)
	return nil
}

type mailCall struct {
	address string
	eventID uint
	role    string
}

type fakeMailer struct {
	mu    sync.Mutex
	calls []mailCall
}

func (f *fakeMailer) SendCrewAssignment(_ context.Context, address, _ string, e *models.Event, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, mailCall{address, e.ID, role})
	return nil
}
