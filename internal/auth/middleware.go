package auth

import (
	"strings"

	"distribution-backend/internal/config"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const CtxClaimsKey = "auth_claims"

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(CtxClaimsKey, claims)
		return c.Next()
	}
}

// Claims returns the verified claims of the request, or nil.
func Claims(c *fiber.Ctx) *JWTCustomClaims {
	claims, _ := c.Locals(CtxClaimsKey).(*JWTCustomClaims)
	return claims
}

// RequireRole lets the request through when the caller has one of roles.
// Admins are always allowed.
func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusForbidden, "no role on request")
		}
		if claims.Role == models.RoleAdmin {
			return c.Next()
		}
		for _, r := range allowedRoles {
			if r == claims.Role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "not allowed for role "+string(claims.Role))
	}
}

// ActingUser makes the caller the store's current user for the rest of the
// request so audit events are attributed to them. It must run inside
// store.Serialize.
func ActingUser(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Next()
		}
		previous := s.CurrentUser()
		s.SetCurrentUser(claims.SessionUser())
		defer s.SetCurrentUser(previous)
		return c.Next()
	}
}
