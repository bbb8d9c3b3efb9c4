package notify

import (
	"testing"
	"time"

	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCenter() (*store.Store, *Center) {
	ts := time.Date(2025, 8, 6, 8, 0, 0, 0, time.UTC)
	s := store.New(store.NewMemorySlot(nil), nil).WithClock(func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	})
	return s, NewCenter(s)
}

func TestCenter_NotifyAndList(t *testing.T) {
	s, center := newTestCenter()

	center.Notify(models.SeverityWarning, "Product low in stock", models.NotificationDetails{Type: "product_low_stock", ProductID: 201})
	center.Notify(models.SeveritySuccess, "Production complete", models.NotificationDetails{ProductID: 201})

	all := center.List(false)
	require.Len(t, all, 2)
	assert.Equal(t, "Production complete", all[0].Message, "newest first")

	events := s.Trail().Events()
	require.Len(t, events, 2)
	assert.Equal(t, "NOTIFICATION_GENERATED_WARNING", events[0].Action)
	assert.Equal(t, "NOTIFICATION_GENERATED_SUCCESS", events[1].Action)
}

func TestCenter_MarkReadAndDedup(t *testing.T) {
	_, center := newTestCenter()
	details := models.NotificationDetails{Type: "product_low_stock", ProductID: 201}
	center.Notify(models.SeverityWarning, "low", details)

	assert.True(t, center.HasUnread(details))
	assert.False(t, center.HasUnread(models.NotificationDetails{Type: "product_low_stock", ProductID: 202}))

	id := center.List(true)[0].ID
	require.NoError(t, center.MarkRead(id))
	assert.False(t, center.HasUnread(details))
	assert.Empty(t, center.List(true))

	assert.Error(t, center.MarkRead(999))
}

func TestCenter_MarkAllReadAndClear(t *testing.T) {
	_, center := newTestCenter()
	center.Notify(models.SeverityInfo, "a", models.NotificationDetails{})
	center.Notify(models.SeverityInfo, "b", models.NotificationDetails{})

	assert.Equal(t, 2, center.MarkAllRead())
	assert.Empty(t, center.List(true))
	assert.Equal(t, 2, center.Clear())
	assert.Empty(t, center.List(false))
}

func TestFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	sink := Fanout(a, nil, b)
	sink.Notify(models.SeverityError, "boom", models.NotificationDetails{})
	assert.Len(t, a.Entries, 1)
	assert.Equal(t, 1, b.Count(models.SeverityError))
}
