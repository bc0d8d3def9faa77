package middleware

import (
	"strings"

	"github.com/fathima-sithara/contacts-api/internal/models"
	"github.com/fathima-sithara/contacts-api/internal/repository"
	"github.com/fathima-sithara/contacts-api/internal/token"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserKey is the Locals key the authenticated user is attached under.
const UserKey = "user"

// Auth verifies the bearer token, loads the referenced user and rejects with
// 401 on any failure. Every rejection path returns immediately. A token that
// no longer matches the stored session token (logout) is rejected too.
func Auth(tokens *token.Manager, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return notAuthorized()
		}
		presented := parts[1]

		claims, err := tokens.Parse(presented)
		if err != nil {
			return notAuthorized()
		}
		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			return notAuthorized()
		}
		u, err := users.FindByID(c.Context(), id)
		if err != nil {
			return notAuthorized()
		}
		if u.Token != presented {
			return notAuthorized()
		}

		c.Locals(UserKey, u)
		return c.Next()
	}
}

// CurrentUser returns the user attached by Auth, or nil outside the
// middleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(UserKey).(*models.User)
	return u
}

func notAuthorized() error {
	return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
}
