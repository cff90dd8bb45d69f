package middleware

import (
	"strings"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/config"
	"librahub/internal/pkg/jwt"
	"librahub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie is the session cookie name shared with the gateway
const AccessTokenCookie = "access_token"

// AuthMiddleware creates authentication middleware. The principal is
// resolved once here; claims go into locals and handlers read them
// from there, never from ambient state.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFromRequest(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("name", claims.Name)
		c.Locals("roles", claims.Roles)

		return c.Next()
	}
}

// tokenFromRequest reads the session cookie first, then the
// Authorization header.
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// RoleMiddleware creates role-based authorization middleware. The
// allowed-role list is explicit per route group; there is no inferred
// role hierarchy.
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, ok := c.Locals("roles").([]string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, role := range roles {
			for _, allowed := range allowedRoles {
				if role == allowed {
					return c.Next()
				}
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(models.RoleAdmin)
}

// ManagerOrAdmin middleware allows MANAGER or ADMIN roles
func ManagerOrAdmin() fiber.Handler {
	return RoleMiddleware(models.RoleManager, models.RoleAdmin)
}

// UserID reads the authenticated user's ID from locals. It is zero
// on routes that do not run AuthMiddleware.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// HasRole reports whether the authenticated principal holds the role
func HasRole(c *fiber.Ctx, name string) bool {
	roles, ok := c.Locals("roles").([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == name {
			return true
		}
	}
	return false
}

// IsStaff reports whether the principal is MANAGER or ADMIN
func IsStaff(c *fiber.Ctx) bool {
	return HasRole(c, models.RoleManager) || HasRole(c, models.RoleAdmin)
}
