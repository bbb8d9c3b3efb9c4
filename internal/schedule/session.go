package schedule

import (
	"sync"
	"time"

	"distribution-backend/internal/models"
)

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Sessions keeps each agent's visited customers and live position for the
// current day. Everything resets when the day changes. Sessions are not
// persisted.
type Sessions struct {
	mu        sync.Mutex
	now       func() time.Time
	day       models.Date
	visited   map[int]map[int]bool
	positions map[int]Position
}

func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{now: now}
}

func (s *Sessions) rollover() {
	today := models.DateOf(s.now())
	if s.visited != nil && s.day.Equal(today) {
		return
	}
	s.day = today
	s.visited = make(map[int]map[int]bool)
	s.positions = make(map[int]Position)
}

// Toggle flips the visited flag and returns the new state.
func (s *Sessions) Toggle(agentID, customerID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()

	set := s.visited[agentID]
	if set == nil {
		set = make(map[int]bool)
		s.visited[agentID] = set
	}
	if set[customerID] {
		delete(set, customerID)
		return false
	}
	set[customerID] = true
	return true
}

// MarkVisited sets the flag without toggling.
func (s *Sessions) MarkVisited(agentID, customerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()

	if s.visited[agentID] == nil {
		s.visited[agentID] = make(map[int]bool)
	}
	s.visited[agentID][customerID] = true
}

func (s *Sessions) Visited(agentID, customerID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	return s.visited[agentID][customerID]
}

func (s *Sessions) VisitedCount(agentID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	return len(s.visited[agentID])
}

func (s *Sessions) Move(agentID int, p Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	s.positions[agentID] = p
}

// Position returns the last reported position, if any today.
func (s *Sessions) Position(agentID int) (Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	p, ok := s.positions[agentID]
	return p, ok
}
