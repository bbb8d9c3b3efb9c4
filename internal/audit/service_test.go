package audit

import (
	"testing"
	"time"

	"distribution-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2025, 8, 6, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		ts = ts.Add(time.Minute)
		return ts
	}
}

func TestTrail_IdsAreMonotonic(t *testing.T) {
	trail := NewTrail(nil).WithClock(fixedClock())

	first := trail.WriteLog(LogOptions{Action: "CREATED_ORDER", Details: "Created order #1"})
	second := trail.WriteLog(LogOptions{Action: "UPDATED_ORDER", Details: "Updated order #1", User: "Sys (admin)"})

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, models.GuestUser, first.User)
	assert.Equal(t, "Sys (admin)", second.User)
	assert.True(t, second.Timestamp.After(first.Timestamp))
}

func TestTrail_ResumesAfterLoadedEvents(t *testing.T) {
	trail := NewTrail([]models.Event{{ID: 4}, {ID: 9}, {ID: 7}})
	ev := trail.WriteLog(LogOptions{Action: "X"})
	assert.Equal(t, 10, ev.ID)
	assert.Equal(t, 4, trail.Len())
}

func TestTrail_List(t *testing.T) {
	trail := NewTrail(nil).WithClock(fixedClock())
	trail.WriteLog(LogOptions{Action: "CREATED_ORDER", User: "John Doe (john.doe)"})
	trail.WriteLog(LogOptions{Action: "CREATED_INVOICE", User: "Finance User (finance.user)"})
	trail.WriteLog(LogOptions{Action: "DELETED_LEAD", User: "John Doe (john.doe)"})

	created := trail.List(Filter{Action: "CREATED_"})
	require.Len(t, created, 2)
	assert.Equal(t, "CREATED_INVOICE", created[0].Action, "newest first")

	johns := trail.List(Filter{User: "john.doe"})
	assert.Len(t, johns, 2)

	limited := trail.List(Filter{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "DELETED_LEAD", limited[0].Action)
}

func TestActionName(t *testing.T) {
	assert.Equal(t, "CREATED_PURCHASE_ORDER", ActionName("created", "purchase order"))
	assert.Equal(t, "DELETED_PRODUCT", ActionName("DELETED", "product"))
}

func TestTrail_EventsIsACopy(t *testing.T) {
	trail := NewTrail(nil)
	trail.WriteLog(LogOptions{Action: "A"})
	events := trail.Events()
	events[0].Action = "tampered"
	assert.Equal(t, "A", trail.Events()[0].Action)
}
