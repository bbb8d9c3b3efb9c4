package store

import (
	"fmt"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"
)

// CurrencyCollection is keyed by currency code instead of an integer id.
type CurrencyCollection struct {
	items []models.Currency
	owner *Store
}

func (c *CurrencyCollection) All() []models.Currency {
	out := make([]models.Currency, len(c.items))
	copy(out, c.items)
	return out
}

func (c *CurrencyCollection) Get(code string) (models.Currency, bool) {
	for _, cur := range c.items {
		if cur.Code == code {
			return cur, true
		}
	}
	return models.Currency{}, false
}

func (c *CurrencyCollection) Add(cur models.Currency) (models.Currency, error) {
	if cur.Code == "" {
		return models.Currency{}, apperror.Validation("currency code is required")
	}
	if _, exists := c.Get(cur.Code); exists {
		return models.Currency{}, apperror.Precondition("currency %s already exists", cur.Code)
	}
	c.items = append(c.items, cur)
	c.owner.Record("CREATED_CURRENCY", fmt.Sprintf("Created currency %s", cur.Code), map[string]any{"code": cur.Code})
	return cur, nil
}

func (c *CurrencyCollection) UpdateJSON(code string, partial []byte) (models.Currency, error) {
	for i, cur := range c.items {
		if cur.Code != code {
			continue
		}
		draft := cur
		if err := DecodeStrict(partial, &draft); err != nil {
			return models.Currency{}, err
		}
		draft.Code = code
		c.items[i] = draft
		c.owner.Record("UPDATED_CURRENCY", fmt.Sprintf("Updated currency #%s", code), map[string]any{"code": code})
		return draft, nil
	}
	return models.Currency{}, apperror.NotFound("currency %s not found", code)
}

func (c *CurrencyCollection) Delete(code string) bool {
	for i, cur := range c.items {
		if cur.Code != code {
			continue
		}
		c.items = append(c.items[:i], c.items[i+1:]...)
		c.owner.Record("DELETED_CURRENCY", fmt.Sprintf("Deleted currency #%s (%s)", code, cur.Name), map[string]any{"code": code})
		return true
	}
	return false
}
