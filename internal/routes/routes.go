package routes

import (
	"github.com/fathima-sithara/contacts-api/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, auth *handlers.AuthHandler, contacts *handlers.ContactHandler, authMW, loginLimit fiber.Handler) {
	users := app.Group("/users")
	users.Post("/signup", loginLimit, auth.SignUp)
	users.Post("/login", loginLimit, auth.SignIn)
	users.Get("/verify/:verificationToken", auth.Verify)
	users.Post("/verify", auth.ResendVerification)
	users.Get("/current", authMW, auth.Current)
	users.Post("/logout", authMW, auth.Logout)
	users.Patch("/avatar", authMW, auth.UpdateAvatar)

	ct := app.Group("/contacts", authMW)
	ct.Get("/", contacts.List)
	ct.Post("/", contacts.Create)
	ct.Get("/:contactId", contacts.GetByID)
	ct.Put("/:contactId", contacts.Update)
	ct.Patch("/:contactId/status", contacts.UpdateStatus)
	ct.Delete("/:contactId", contacts.Delete)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
}
