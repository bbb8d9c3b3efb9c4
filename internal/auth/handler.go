package auth

import (
	"fmt"
	"strings"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/config"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func findUser(s *store.Store, username string) *models.User {
	for _, u := range s.Users.All() {
		if strings.EqualFold(u.Username, username) {
			return u
		}
	}
	return nil
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := store.DecodeStrict(c.Body(), &body); err != nil {
			return apperror.ToFiber(err)
		}
		body.Username = strings.TrimSpace(body.Username)

		user := findUser(s, body.Username)
		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
			s.Record("LOGIN_FAILED", fmt.Sprintf("Failed login attempt for username: %s", body.Username), nil)
			if err := s.Save(c.UserContext()); err != nil {
				return err
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid username or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, user, cfg.JWTExpiration, s.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		session := &models.SessionUser{ID: user.ID, Username: user.Username, Name: user.Name, Role: user.Role}
		s.SetCurrentUser(session)
		s.Record("USER_LOGIN", fmt.Sprintf("User %s logged in successfully (Role: %s)", user.Username, user.Role), nil)
		if err := s.Save(c.UserContext()); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  session,
		})
	}
}

// GET /api/auth/me
func MeHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not logged in")
		}
		if u, ok := s.Users.Get(claims.UserID); ok {
			return c.JSON(models.SessionUser{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role})
		}
		return c.JSON(claims.SessionUser())
	}
}

// bcrypt only reads the first 72 bytes and rejects anything longer.
const maxPasswordBytes = 72

// ValidateUser checks the role and replaces a plaintext password with its
// bcrypt hash. Values that already are bcrypt hashes are kept.
func ValidateUser(u *models.User) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return apperror.Validation("username is required")
	}
	switch u.Role {
	case models.RoleAdmin, models.RoleSales, models.RoleInventory, models.RoleFinance:
	default:
		return apperror.Validation("unknown role %q", u.Role)
	}
	if u.Password == "" {
		return apperror.Validation("password is required")
	}
	if len(u.Password) > maxPasswordBytes {
		return apperror.Validation("password cannot be longer than %d bytes", maxPasswordBytes)
	}
	if _, err := bcrypt.Cost([]byte(u.Password)); err == nil {
		return nil
	}
	hash, err := HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// CreateUser returns a create hook that rejects duplicate usernames.
func CreateUser(s *store.Store) func(models.User) (*models.User, error) {
	return func(u models.User) (*models.User, error) {
		if findUser(s, u.Username) != nil {
			return nil, apperror.Precondition("username %q is taken", u.Username)
		}
		return s.Users.Add(u), nil
	}
}
