package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/audit"
	"distribution-backend/internal/config"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTExpiration: time.Hour}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	s := store.New(store.NewMemorySlot(nil), nil)
	s.Restore(store.Document{Entities: store.Entities{
		Users: []models.User{{ID: 1, Username: "admin", Password: string(hash), Role: models.RoleAdmin, Name: "Admin User"}},
	}})
	return s
}

func newTestApp(cfg *config.Config, s *store.Store) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", store.Serialize(s))
	api.Post("/auth/login", LoginHandler(cfg, s))

	protected := api.Group("", JWTMiddleware(cfg), ActingUser(s))
	protected.Get("/auth/me", MeHandler(s))
	protected.Post("/touch", RequireRole(models.RoleFinance), func(c *fiber.Ctx) error {
		s.Record("TOUCHED", "touched", nil)
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func login(t *testing.T, app *fiber.App, username, password string) *http.Response {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 7, Username: "jdoe", Name: "John Doe", Role: models.RoleSales}

	token, err := GenerateToken(testSecret, user, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, models.RoleSales, claims.Role)
	assert.Equal(t, "John Doe (jdoe)", claims.SessionUser().AuditName())

	_, err = ParseToken("another-secret-another-secret-xx", token)
	assert.Error(t, err)

	expired, err := GenerateToken(testSecret, user, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.Error(t, err)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(testConfig(), s)

	resp := login(t, app, "admin", "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Len(t, s.Trail().List(audit.Filter{Action: "LOGIN_FAILED"}), 1)

	resp = login(t, app, "Admin", "password123")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var out struct {
		Token string             `json:"token"`
		User  models.SessionUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User.Username)

	events := s.Trail().List(audit.Filter{Action: "USER_LOGIN"})
	require.Len(t, events, 1)
	assert.Equal(t, "Admin User (admin)", events[0].User)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleAndActingUser(t *testing.T) {
	s := newTestStore(t)
	app := newTestApp(testConfig(), s)

	sales, err := GenerateToken(testSecret, &models.User{ID: 2, Username: "jdoe", Name: "John Doe", Role: models.RoleSales}, time.Hour, time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/touch", nil)
	req.Header.Set("Authorization", "Bearer "+sales)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	finance, err := GenerateToken(testSecret, &models.User{ID: 3, Username: "mkay", Name: "Mia Kay", Role: models.RoleFinance}, time.Hour, time.Now())
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/touch", nil)
	req.Header.Set("Authorization", "Bearer "+finance)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	events := s.Trail().List(audit.Filter{Action: "TOUCHED"})
	require.Len(t, events, 1)
	assert.Equal(t, "Mia Kay (mkay)", events[0].User)
	assert.Nil(t, s.CurrentUser(), "acting user is reset after the request")
}

func TestValidateUser(t *testing.T) {
	u := &models.User{Username: " jdoe ", Password: "secret", Role: models.RoleSales}
	require.NoError(t, ValidateUser(u))
	assert.Equal(t, "jdoe", u.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")))

	hashed := u.Password
	require.NoError(t, ValidateUser(u))
	assert.Equal(t, hashed, u.Password, "hashes are not hashed twice")

	err := ValidateUser(&models.User{Username: "x", Password: "y", Role: "owner"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	err = ValidateUser(&models.User{Username: "x", Password: strings.Repeat("p", 73), Role: models.RoleSales})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	require.NoError(t, ValidateUser(&models.User{Username: "x", Password: strings.Repeat("p", 72), Role: models.RoleSales}))

	s := newTestStore(t)
	_, err = CreateUser(s)(models.User{Username: "ADMIN"})
	assert.True(t, apperror.Is(err, apperror.KindPrecondition))
}
