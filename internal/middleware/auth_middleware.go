package middleware

import (
	"strings"

	"mathquiz/internal/domain"
	"mathquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// Protected requires a valid token and resolves the acting user id into the
// request context. A missing, malformed or expired token always fails with
// NOT_AUTHENTICATED before any other validation runs.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" || !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewNotAuthenticatedError()
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			return domain.NewNotAuthenticatedError()
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			return err
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID pulls the authenticated user id set by Protected.
func UserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewNotAuthenticatedError()
	}
	return userID, nil
}
