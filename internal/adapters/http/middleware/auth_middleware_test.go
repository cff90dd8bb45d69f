package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/config"
	"librahub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:    "test-secret",
			Issuer:    "librahub",
			Audience:  "librahub-clients",
			TokenDays: 7,
		},
	}
}

func signToken(t *testing.T, cfg *config.Config, userID uint, roles ...string) string {
	t.Helper()

	token, err := jwt.GenerateAccessToken(userID, "user@x.com", "User", roles,
		cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenDays)
	require.NoError(t, err)
	return token
}

func newProtectedApp(cfg *config.Config, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()

	handlers := []fiber.Handler{AuthMiddleware(cfg)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})

	app.Get("/protected", handlers...)
	return app
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	app := newProtectedApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	cfg := testConfig()
	app := newProtectedApp(cfg)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, 7, models.RoleUser))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	cfg := testConfig()
	app := newProtectedApp(cfg)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signToken(t, cfg, 7, models.RoleUser)})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_CookieWinsOverHeader(t *testing.T) {
	cfg := testConfig()
	app := newProtectedApp(cfg)

	// Valid cookie beside a garbage header: the cookie is read first
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signToken(t, cfg, 7, models.RoleUser)})
	req.Header.Set("Authorization", "Bearer garbage")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	app := newProtectedApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleMiddleware_ExplicitAllowList(t *testing.T) {
	cfg := testConfig()
	app := newProtectedApp(cfg, RoleMiddleware(models.RoleManager, models.RoleAdmin))

	// ADMIN does not imply MANAGER and vice versa; both are listed
	// explicitly, a plain USER is refused.
	cases := []struct {
		roles []string
		want  int
	}{
		{[]string{models.RoleUser}, http.StatusForbidden},
		{[]string{models.RoleManager}, http.StatusOK},
		{[]string{models.RoleAdmin}, http.StatusOK},
		{[]string{models.RoleUser, models.RoleManager}, http.StatusOK},
		{[]string{}, http.StatusForbidden},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, 1, tc.roles...))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, "roles %v", tc.roles)
	}
}

func TestAdminOnly_RejectsManager(t *testing.T) {
	cfg := testConfig()
	app := newProtectedApp(cfg, AdminOnly())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, 1, models.RoleManager))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIsStaff(t *testing.T) {
	cfg := testConfig()
	app := fiber.New()
	app.Get("/check", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"staff": IsStaff(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, 1, models.RoleManager))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
