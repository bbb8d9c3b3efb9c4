package audit

import (
	"strings"
	"sync"
	"time"

	"distribution-backend/internal/models"
)

type LogOptions struct {
	User    string
	Action  string
	Details string
	Context map[string]any
}

// Trail is the append-only audit log. Event ids never repeat, even across
// restarts, because the counter resumes from the highest loaded id.
type Trail struct {
	mu     sync.RWMutex
	events []models.Event
	lastID int
	now    func() time.Time
}

func NewTrail(events []models.Event) *Trail {
	t := &Trail{now: time.Now}
	t.events = append(t.events, events...)
	for _, e := range events {
		if e.ID > t.lastID {
			t.lastID = e.ID
		}
	}
	return t
}

// WithClock replaces the timestamp source. Used by tests.
func (t *Trail) WithClock(now func() time.Time) *Trail {
	t.now = now
	return t
}

func (t *Trail) WriteLog(opts LogOptions) models.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	user := opts.User
	if user == "" {
		user = models.GuestUser
	}

	t.lastID++
	ev := models.Event{
		ID:        t.lastID,
		Timestamp: t.now().UTC(),
		User:      user,
		Action:    opts.Action,
		Details:   opts.Details,
		Context:   opts.Context,
	}
	t.events = append(t.events, ev)
	return ev
}

// Events returns a copy in append order.
func (t *Trail) Events() []models.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Event, len(t.events))
	copy(out, t.events)
	return out
}

func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.events)
}

type Filter struct {
	Action string // prefix match, e.g. "CREATED_" or "PRODUCTION_ORDER_EXECUTED"
	User   string // substring match
	Since  time.Time
	Limit  int
}

// List returns matching events newest first.
func (t *Trail) List(f Filter) []models.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.Event, 0)
	for i := len(t.events) - 1; i >= 0; i-- {
		ev := t.events[i]
		if f.Action != "" && !strings.HasPrefix(ev.Action, f.Action) {
			continue
		}
		if f.User != "" && !strings.Contains(strings.ToLower(ev.User), strings.ToLower(f.User)) {
			continue
		}
		if !f.Since.IsZero() && ev.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, ev)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// ActionName builds names like CREATED_ORDER from a verb and an entity name.
func ActionName(verb, entity string) string {
	return strings.ToUpper(verb) + "_" + strings.ToUpper(strings.ReplaceAll(entity, " ", "_"))
}
