// Package schedule orders an agent's visits for the day and asks a
// routing service for the driving route through the remaining stops.
package schedule

import (
	"context"
	"sort"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"go.uber.org/zap"
)

type Stop struct {
	Customer   *models.Customer `json:"customer"`
	DistanceKm float64          `json:"distanceKm"`
	Visited    bool             `json:"visited"`
}

type Router struct {
	store    *store.Store
	sessions *Sessions
	planner  RoutePlanner
	log      *zap.Logger
}

func NewRouter(s *store.Store, sessions *Sessions, planner RoutePlanner, log *zap.Logger) *Router {
	return &Router{store: s, sessions: sessions, planner: planner, log: log.Named("schedule")}
}

// Position is the agent's live position when one was reported today,
// otherwise the position stored on the agent.
func (r *Router) Position(agent *models.Agent) Position {
	if p, ok := r.sessions.Position(agent.ID); ok {
		return p
	}
	return Position{Lat: agent.Lat, Lng: agent.Lng}
}

// TodaysSchedule lists the agent's customers whose visit day is today,
// nearest first.
func (r *Router) TodaysSchedule(agentID int) ([]Stop, error) {
	agent, err := r.store.Agents.Find(agentID)
	if err != nil {
		return nil, err
	}
	weekday := r.store.Now().Weekday().String()
	from := r.Position(agent)

	stops := make([]Stop, 0)
	for _, c := range r.store.Customers.All() {
		if c.AgentID != agentID || c.VisitSchedule.Day != weekday {
			continue
		}
		stops = append(stops, Stop{
			Customer:   c,
			DistanceKm: Haversine(from.Lat, from.Lng, c.Lat, c.Lng),
			Visited:    r.sessions.Visited(agentID, c.ID),
		})
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].DistanceKm < stops[j].DistanceKm })
	return stops, nil
}

// RemainingRoute is TodaysSchedule without the customers visited today.
func (r *Router) RemainingRoute(agentID int) ([]Stop, error) {
	stops, err := r.TodaysSchedule(agentID)
	if err != nil {
		return nil, err
	}
	remaining := stops[:0]
	for _, s := range stops {
		if !s.Visited {
			remaining = append(remaining, s)
		}
	}
	return remaining, nil
}

// ToggleVisit flips a customer's visited flag for today.
func (r *Router) ToggleVisit(agentID, customerID int) (bool, error) {
	if err := r.checkAssigned(agentID, customerID); err != nil {
		return false, err
	}
	return r.sessions.Toggle(agentID, customerID), nil
}

// checkAssigned fails unless both exist and the customer belongs to the agent.
func (r *Router) checkAssigned(agentID, customerID int) error {
	if _, err := r.store.Agents.Find(agentID); err != nil {
		return err
	}
	c, err := r.store.Customers.Find(customerID)
	if err != nil {
		return err
	}
	if c.AgentID != agentID {
		return apperror.Validation("customer #%d is not assigned to agent #%d", customerID, agentID)
	}
	return nil
}

// NextStop marks customerID visited (when non-zero) and returns the
// nearest remaining stop, or nil when the day is done.
func (r *Router) NextStop(agentID, customerID int) (*Stop, error) {
	if customerID != 0 {
		if err := r.checkAssigned(agentID, customerID); err != nil {
			return nil, err
		}
		r.sessions.MarkVisited(agentID, customerID)
	}
	remaining, err := r.RemainingRoute(agentID)
	if err != nil {
		return nil, err
	}
	if len(remaining) == 0 {
		return nil, nil
	}
	return &remaining[0], nil
}

// MovePosition records the agent's live position for today.
func (r *Router) MovePosition(agentID int, p Position) error {
	if _, err := r.store.Agents.Find(agentID); err != nil {
		return err
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return apperror.Validation("position %f,%f is out of range", p.Lat, p.Lng)
	}
	r.sessions.Move(agentID, p)
	return nil
}

// RouteGeometry asks the planner for the route from the agent's position
// through the remaining stops in schedule order.
func (r *Router) RouteGeometry(ctx context.Context, agentID int) (*Route, error) {
	if r.planner == nil {
		return nil, apperror.Precondition("no routing service configured")
	}
	agent, err := r.store.Agents.Find(agentID)
	if err != nil {
		return nil, err
	}
	remaining, err := r.RemainingRoute(agentID)
	if err != nil {
		return nil, err
	}
	if len(remaining) == 0 {
		return nil, apperror.Precondition("agent #%d has no remaining stops today", agentID)
	}

	waypoints := make([]Position, 0, len(remaining)+1)
	waypoints = append(waypoints, r.Position(agent))
	for _, s := range remaining {
		waypoints = append(waypoints, Position{Lat: s.Customer.Lat, Lng: s.Customer.Lng})
	}

	route, err := r.planner.Route(ctx, waypoints)
	if err != nil {
		r.log.Warn("route calculation failed", zap.Int("agent_id", agentID), zap.Error(err))
		return nil, err
	}
	return route, nil
}
