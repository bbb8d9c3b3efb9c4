package store

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Serialize runs each request while holding the store lock, so engine
// operations never interleave.
func Serialize(s *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.Lock()
		defer s.Unlock()
		return c.Next()
	}
}

// Hooks customise the generic CRUD routes for one collection.
type Hooks[T any, PT interface {
	*T
	models.Entity
}] struct {
	// Validate runs on the merged entity before create and update.
	Validate func(PT) error
	// Create replaces the plain Add, e.g. to enforce cross-entity rules.
	Create func(T) (PT, error)
	// Update runs after Validate on updates with the stored and merged entity.
	Update func(before, after PT) error
}

// RegisterCRUD mounts list/get/create/update/delete for c under path.
// Every successful mutation saves the snapshot.
func RegisterCRUD[T any, PT interface {
	*T
	models.Entity
}](r fiber.Router, path string, s *Store, c *Collection[T, PT], hooks Hooks[T, PT]) {
	RegisterReadOnly(r, path, c)

	// POST /api/<path>
	r.Post(path, func(ctx *fiber.Ctx) error {
		var item T
		if err := DecodeStrict(ctx.Body(), &item); err != nil {
			return apperror.ToFiber(err)
		}
		if hooks.Validate != nil {
			if err := hooks.Validate(PT(&item)); err != nil {
				return apperror.ToFiber(err)
			}
		}

		var created PT
		if hooks.Create != nil {
			var err error
			if created, err = hooks.Create(item); err != nil {
				return apperror.ToFiber(err)
			}
		} else {
			created = c.Add(item)
		}

		if err := s.Save(ctx.UserContext()); err != nil {
			return err
		}
		return ctx.Status(fiber.StatusCreated).JSON(created)
	})

	// PUT /api/<path>/:id
	r.Put(path+"/:id", func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		updated, err := c.Update(id, func(p PT) error {
			before, err := deepCopy((*T)(p))
			if err != nil {
				return err
			}
			if err := DecodeStrict(ctx.Body(), p); err != nil {
				return err
			}
			if hooks.Validate != nil {
				if err := hooks.Validate(p); err != nil {
					return err
				}
			}
			if hooks.Update != nil {
				return hooks.Update(PT(&before), p)
			}
			return nil
		})
		if err != nil {
			return apperror.ToFiber(err)
		}

		if err := s.Save(ctx.UserContext()); err != nil {
			return err
		}
		return ctx.JSON(updated)
	})

	// DELETE /api/<path>/:id
	r.Delete(path+"/:id", func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		if c.Delete(id) {
			if err := s.Save(ctx.UserContext()); err != nil {
				return err
			}
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	})
}

// RegisterReadOnly mounts list and get for c under path.
func RegisterReadOnly[T any, PT interface {
	*T
	models.Entity
}](r fiber.Router, path string, c *Collection[T, PT]) {
	// GET /api/<path>
	r.Get(path, func(ctx *fiber.Ctx) error {
		return ctx.JSON(c.All())
	})

	// GET /api/<path>/:id
	r.Get(path+"/:id", func(ctx *fiber.Ctx) error {
		id, err := ctx.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		item, err := c.Find(id)
		if err != nil {
			return apperror.ToFiber(err)
		}
		return ctx.JSON(item)
	})
}

// RegisterCurrencies mounts CRUD for the code-keyed currency collection.
func RegisterCurrencies(r fiber.Router, s *Store) {
	r.Get("/currencies", func(ctx *fiber.Ctx) error {
		return ctx.JSON(s.Currencies.All())
	})

	r.Get("/currencies/:code", func(ctx *fiber.Ctx) error {
		cur, ok := s.Currencies.Get(ctx.Params("code"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "currency not found")
		}
		return ctx.JSON(cur)
	})

	r.Post("/currencies", func(ctx *fiber.Ctx) error {
		var cur models.Currency
		if err := DecodeStrict(ctx.Body(), &cur); err != nil {
			return apperror.ToFiber(err)
		}
		created, err := s.Currencies.Add(cur)
		if err != nil {
			return apperror.ToFiber(err)
		}
		if err := s.Save(ctx.UserContext()); err != nil {
			return err
		}
		return ctx.Status(fiber.StatusCreated).JSON(created)
	})

	r.Put("/currencies/:code", func(ctx *fiber.Ctx) error {
		updated, err := s.Currencies.UpdateJSON(ctx.Params("code"), ctx.Body())
		if err != nil {
			return apperror.ToFiber(err)
		}
		if err := s.Save(ctx.UserContext()); err != nil {
			return err
		}
		return ctx.JSON(updated)
	})

	r.Delete("/currencies/:code", func(ctx *fiber.Ctx) error {
		if s.Currencies.Delete(ctx.Params("code")) {
			if err := s.Save(ctx.UserContext()); err != nil {
				return err
			}
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	})
}
