package notify

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Delivery is one NotificationRecord entry: the reminder of a kind went out for an event
type Delivery struct {
	EventID  uint      `json:"event_id"`
	Kind     Kind      `json:"kind"`
	Mentions []string  `json:"mentions"`
	SentAt   time.Time `json:"sent_at"`
}

// Tracker stores which (event, kind) reminders have been delivered.
// Implementations only record successful deliveries; a missing entry means the
// reminder may still be attempted.
type Tracker interface {
	IsSent(ctx context.Context, eventID uint, kind Kind) (bool, error)
	MarkSent(ctx context.Context, d Delivery) error
	Deliveries(ctx context.Context, eventID uint) ([]Delivery, error)
}

type trackerKey struct {
	eventID uint
	kind    Kind
}

// MemoryTracker is a process-local Tracker. Entries never expire and are lost on restart.
type MemoryTracker struct {
	mu   sync.RWMutex
	sent map[trackerKey]Delivery
}

// NewMemoryTracker returns an empty in-memory NotificationRecord
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{sent: make(map[trackerKey]Delivery)}
}

func (t *MemoryTracker) IsSent(_ context.Context, eventID uint, kind Kind) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.sent[trackerKey{eventID, kind}]
	return ok, nil
}

// MarkSent keeps the first delivery recorded for a pair; later calls are no-ops
func (t *MemoryTracker) MarkSent(_ context.Context, d Delivery) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := trackerKey{d.EventID, d.Kind}
	if _, ok := t.sent[key]; ok {
		return nil
	}
	t.sent[key] = d
	return nil
}

func (t *MemoryTracker) Deliveries(_ context.Context, eventID uint) ([]Delivery, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Delivery
	for key, d := range t.sent {
		if key.eventID == eventID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}
