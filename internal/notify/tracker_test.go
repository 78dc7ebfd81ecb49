package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTracker()

	sent, err := tr.IsSent(ctx, 1, DayOf)
	require.NoError(t, err)
	assert.False(t, sent)

	first := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, tr.MarkSent(ctx, Delivery{EventID: 1, Kind: DayOf, Mentions: []string{"1"}, SentAt: first}))
	require.NoError(t, tr.MarkSent(ctx, Delivery{EventID: 1, Kind: DayOf, SentAt: first.Add(time.Hour)}))
	require.NoError(t, tr.MarkSent(ctx, Delivery{EventID: 1, Kind: OneWeekBefore, SentAt: first.Add(-7 * 24 * time.Hour)}))
	require.NoError(t, tr.MarkSent(ctx, Delivery{EventID: 2, Kind: DayOf, SentAt: first}))

	sent, err = tr.IsSent(ctx, 1, DayOf)
	require.NoError(t, err)
	assert.True(t, sent)

	deliveries, err := tr.Deliveries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, OneWeekBefore, deliveries[0].Kind)
	assert.Equal(t, DayOf, deliveries[1].Kind)
	// the first record wins
	assert.Equal(t, first, deliveries[1].SentAt)
	assert.Equal(t, []string{"1"}, deliveries[1].Mentions)
}
