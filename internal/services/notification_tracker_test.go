package services

import (
	"context"
	"testing"
	"time"

	"showwise/internal/notify"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTracker_IsSent(t *testing.T) {
	for _, count := range []int{0, 1} {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "notification_sent" WHERE event_id = \$1 AND kind = \$2`).
			WithArgs(5, "one_day_before").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))

		sent, err := NewGormTracker(db).IsSent(context.Background(), 5, notify.OneDayBefore)
		require.NoError(t, err)
		assert.Equal(t, count > 0, sent)
		require.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestGormTracker_MarkSent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO "notification_sent" .* ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := NewGormTracker(db).MarkSent(context.Background(), notify.Delivery{
		EventID:  5,
		Kind:     notify.DayOf,
		Mentions: []string{"111"},
		SentAt:   time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTracker_Deliveries(t *testing.T) {
	db, mock := newMockDB(t)
	sentAt := time.Date(2026, 11, 13, 19, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "notification_sent" WHERE event_id = \$1 ORDER BY sent_at asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "kind", "mentions", "sent_at"}).
			AddRow(1, 5, "one_week_before", []byte(`["111","222"]`), sentAt).
			AddRow(2, 5, "legacy_1hour", []byte(`[]`), sentAt))

	deliveries, err := NewGormTracker(db).Deliveries(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, notify.OneWeekBefore, deliveries[0].Kind)
	assert.Equal(t, []string{"111", "222"}, deliveries[0].Mentions)
	require.NoError(t, mock.ExpectationsWereMet())
}
