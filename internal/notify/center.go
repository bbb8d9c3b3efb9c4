package notify

import (
	"fmt"
	"sort"
	"strings"

	"distribution-backend/internal/models"
	"distribution-backend/internal/store"
)

// Center persists notifications in the store so users can read them later.
// Callers hold the store lock.
type Center struct {
	store *store.Store
}

func NewCenter(s *store.Store) *Center {
	return &Center{store: s}
}

func (c *Center) Notify(severity models.Severity, message string, details models.NotificationDetails) {
	c.store.Notifications.AddAs(models.Notification{
		Timestamp: c.store.Now().UTC(),
		Type:      severity,
		Message:   message,
		Details:   details,
	}, "NOTIFICATION_GENERATED_"+strings.ToUpper(string(severity)), message, nil)
}

// List returns notifications newest first.
func (c *Center) List(unreadOnly bool) []*models.Notification {
	out := c.store.Notifications.Filter(func(n *models.Notification) bool {
		return !unreadOnly || !n.Read
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (c *Center) MarkRead(id int) error {
	_, err := c.store.Notifications.Update(id, func(n *models.Notification) error {
		n.Read = true
		return nil
	})
	if err != nil {
		return err
	}
	c.store.Record("NOTIFICATION_MARKED_READ", fmt.Sprintf("Marked notification #%d as read.", id), nil)
	return nil
}

func (c *Center) MarkAllRead() int {
	marked := 0
	for _, n := range c.store.Notifications.Filter(func(n *models.Notification) bool { return !n.Read }) {
		n.Read = true
		marked++
	}
	c.store.Record("ALL_NOTIFICATIONS_MARKED_READ", "All notifications marked as read.", map[string]any{"count": marked})
	return marked
}

func (c *Center) Clear() int {
	return c.store.Notifications.Clear("NOTIFICATIONS_CLEARED", "All notifications cleared from history.")
}

// HasUnread reports whether an unread notification already covers details.
// Type must match; entity references are compared when set.
func (c *Center) HasUnread(details models.NotificationDetails) bool {
	for _, n := range c.store.Notifications.All() {
		if n.Read || n.Details.Type != details.Type {
			continue
		}
		if n.Details.ProductID == details.ProductID &&
			n.Details.ComponentID == details.ComponentID &&
			n.Details.OrderID == details.OrderID &&
			n.Details.InvoiceID == details.InvoiceID &&
			n.Details.LotNumber == details.LotNumber {
			return true
		}
	}
	return false
}
