package store

import (
	"encoding/json"
	"fmt"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
)

// Collection is an id-keyed list of entities owned by a Store. Every
// mutation appends an audit event; none of them persist on their own.
type Collection[T any, PT interface {
	*T
	models.Entity
}] struct {
	entity string
	items  []PT
	owner  *Store
}

func newCollection[T any, PT interface {
	*T
	models.Entity
}](owner *Store, entity string) *Collection[T, PT] {
	return &Collection[T, PT]{entity: entity, owner: owner}
}

func (c *Collection[T, PT]) load(items []T) {
	c.items = make([]PT, 0, len(items))
	for i := range items {
		v := items[i]
		c.items = append(c.items, PT(&v))
	}
}

func (c *Collection[T, PT]) values() []T {
	out := make([]T, 0, len(c.items))
	for _, p := range c.items {
		out = append(out, *p)
	}
	return out
}

// Entity returns the singular name used in audit actions.
func (c *Collection[T, PT]) Entity() string { return c.entity }

func (c *Collection[T, PT]) Len() int { return len(c.items) }

func (c *Collection[T, PT]) Get(id int) (PT, bool) {
	for _, p := range c.items {
		if p.EntityID() == id {
			return p, true
		}
	}
	return nil, false
}

// Find is Get with a NotFound error instead of a flag.
func (c *Collection[T, PT]) Find(id int) (PT, error) {
	if p, ok := c.Get(id); ok {
		return p, nil
	}
	return nil, apperror.NotFound("%s #%d not found", c.entity, id)
}

// All returns the entities in insertion order. The slice is a copy; the
// pointed-to entities are live and must be changed through Update.
func (c *Collection[T, PT]) All() []PT {
	out := make([]PT, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T, PT]) Filter(keep func(PT) bool) []PT {
	out := make([]PT, 0)
	for _, p := range c.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// NextID is the id the next Add will assign.
func (c *Collection[T, PT]) NextID() int { return c.nextID() }

func (c *Collection[T, PT]) nextID() int {
	highest := 0
	for _, p := range c.items {
		if id := p.EntityID(); id > highest {
			highest = id
		}
	}
	return highest + 1
}

// Add stores item under a fresh id (highest id + 1) and returns it.
func (c *Collection[T, PT]) Add(item T) PT {
	p := c.insert(item)
	id := p.EntityID()
	c.owner.Record(actionName("CREATED", c.entity), fmt.Sprintf("Created %s #%d", c.entity, id), map[string]any{"id": id})
	return p
}

// AddAs is Add with a caller-chosen audit action instead of CREATED_<ENTITY>.
// The new id is added to fields under "id".
func (c *Collection[T, PT]) AddAs(item T, action, details string, fields map[string]any) PT {
	p := c.insert(item)
	ctx := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		ctx[k] = v
	}
	ctx["id"] = p.EntityID()
	c.owner.Record(action, details, ctx)
	return p
}

func (c *Collection[T, PT]) insert(item T) PT {
	p := PT(&item)
	p.SetEntityID(c.nextID())
	c.items = append(c.items, p)
	return p
}

// Update applies mutate to a deep copy of the entity and writes the copy
// back only when mutate succeeds. The id cannot be changed.
func (c *Collection[T, PT]) Update(id int, mutate func(PT) error) (PT, error) {
	current, err := c.Find(id)
	if err != nil {
		return nil, err
	}

	draft, err := deepCopy((*T)(current))
	if err != nil {
		return nil, err
	}
	if err := mutate(PT(&draft)); err != nil {
		return nil, err
	}
	PT(&draft).SetEntityID(id)
	*current = draft

	c.owner.Record(actionName("UPDATED", c.entity), fmt.Sprintf("Updated %s #%d", c.entity, id), map[string]any{"id": id})
	return current, nil
}

// deepCopy clones v through its JSON form so the copy shares no slices,
// maps or pointers with the stored entity. Entities are plain JSON
// documents, so nothing is lost on the way.
func deepCopy[T any](v *T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("copy entity: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("copy entity: %w", err)
	}
	return out, nil
}

// UpdateJSON merges a JSON object onto the entity. Unknown fields are rejected.
func (c *Collection[T, PT]) UpdateJSON(id int, partial []byte) (PT, error) {
	return c.Update(id, func(p PT) error {
		return DecodeStrict(partial, p)
	})
}

// Delete removes the entity. Missing ids are ignored and leave no event.
func (c *Collection[T, PT]) Delete(id int) bool {
	for i, p := range c.items {
		if p.EntityID() != id {
			continue
		}
		c.items = append(c.items[:i], c.items[i+1:]...)
		c.owner.Record(
			actionName("DELETED", c.entity),
			fmt.Sprintf("Deleted %s #%d (%s)", c.entity, id, identifier(p)),
			map[string]any{"id": id},
		)
		return true
	}
	return false
}

func identifier(v any) string {
	switch e := v.(type) {
	case *models.PurchaseOrder:
		return e.PONumber
	case *models.Quote:
		return e.QuoteNumber
	case *models.Invoice:
		return e.InvoiceNumber
	case *models.CreditNote:
		return e.CreditNoteNumber
	case *models.ProductionOrder:
		return e.LotNumber
	case interface{ DisplayName() string }:
		return e.DisplayName()
	}
	return ""
}

// Clear removes every entity and records a single event for the batch.
func (c *Collection[T, PT]) Clear(action, details string) int {
	n := len(c.items)
	c.items = nil
	c.owner.Record(action, details, map[string]any{"count": n})
	return n
}
