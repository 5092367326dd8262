package middleware

import (
	"context"
	"strings"

	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middlewares
const (
	LocalSession  = "session"
	LocalIdentity = "identity"
)

// Authenticator resolves a bearer token to a live session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.LoginSession, *domain.Identity, error)
}

func bearerToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware rejects requests without a live session
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return response.Unauthorized(c, "Token akses diperlukan")
		}

		sess, identity, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return response.Unauthorized(c, "Sesi tidak sah atau telah tamat")
		}

		c.Locals(LocalSession, sess)
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// OptionalAuth sets the session when a valid token is present and never rejects
func OptionalAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if sess, identity, err := auth.Authenticate(c.UserContext(), token); err == nil {
				c.Locals(LocalSession, sess)
				c.Locals(LocalIdentity, identity)
			}
		}
		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := CurrentIdentity(c)
		if identity == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if identity.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Condition(c, fiber.StatusForbidden, domain.ErrForbidden)
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// TeacherOnly middleware allows only TEACHER role
func TeacherOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleTeacher)
}

// ParentOnly middleware allows only PARENT role
func ParentOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleParent)
}

// CurrentIdentity returns the identity bound to the request, or nil
func CurrentIdentity(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(LocalIdentity).(*domain.Identity)
	return identity
}

// CurrentSession returns the session bound to the request, or nil
func CurrentSession(c *fiber.Ctx) *services.LoginSession {
	sess, _ := c.Locals(LocalSession).(*services.LoginSession)
	return sess
}
