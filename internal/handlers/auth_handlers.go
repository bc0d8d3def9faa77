package handlers

import (
	"errors"
	"io"

	"github.com/fathima-sithara/contacts-api/internal/avatar"
	"github.com/fathima-sithara/contacts-api/internal/middleware"
	"github.com/fathima-sithara/contacts-api/internal/models"
	"github.com/fathima-sithara/contacts-api/internal/services"
	"github.com/fathima-sithara/contacts-api/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc      *services.AuthService
	validate *validator.Validate
	log      *zap.Logger
}

func NewAuthHandler(svc *services.AuthService, validate *validator.Validate, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, validate: validate, log: log}
}

type signUpReq struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Subscription string `json:"subscription" validate:"omitempty,oneof=starter pro business"`
}

type signInReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type emailReq struct {
	Email string `json:"email" validate:"required"`
}

// POST /users/signup
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	u, err := h.svc.SignUp(c.Context(), req.Email, req.Password, req.Subscription)
	if err != nil {
		if errors.Is(err, services.ErrEmailInUse) {
			return fiber.NewError(fiber.StatusConflict, "Email in use")
		}
		h.log.Error("signup failed", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": userPayloadWithAvatar(u)})
}

// GET /users/verify/:verificationToken
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	err := h.svc.Verify(c.Context(), c.Params("verificationToken"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrAlreadyVerified):
			return fiber.NewError(fiber.StatusBadRequest, "Verification has already been passed")
		}
		h.log.Error("verification failed", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Verification successful"})
}

// POST /users/verify
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req emailReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	if err := h.svc.ResendVerification(c.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrNotAuthorized):
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
		case errors.Is(err, services.ErrAlreadyVerified):
			return fiber.NewError(fiber.StatusBadRequest, "Verification has already been passed")
		}
		h.log.Error("resend verification failed", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Verification email sent"})
}

// POST /users/login
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	signed, u, err := h.svc.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusUnauthorized, "Email or password is wrong")
		case errors.Is(err, services.ErrNotVerified):
			return fiber.NewError(fiber.StatusUnauthorized, "Email is not verified")
		}
		h.log.Error("login failed", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": signed,
		"user":  userPayload(u),
	})
}

// GET /users/current
func (h *AuthHandler) Current(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	return c.Status(fiber.StatusOK).JSON(userPayload(u))
}

// POST /users/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	if err := h.svc.Logout(c.Context(), u.ID); err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
		}
		h.log.Error("logout failed", zap.Error(err))
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PATCH /users/avatar (multipart field "file")
func (h *AuthHandler) UpdateAvatar(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file field")
	}
	f, err := fileHeader.Open()
	if err != nil {
		h.log.Error("failed to open upload", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "cannot open file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Error("failed to read upload", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "cannot read file")
	}

	url, err := h.svc.UpdateAvatar(c.Context(), u.ID, data)
	if err != nil {
		if errors.Is(err, avatar.ErrNotAnImage) {
			return fiber.NewError(fiber.StatusBadRequest, "uploaded file is not an image")
		}
		h.log.Error("avatar update failed", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"avatarURL": url})
}

func userPayload(u *models.User) fiber.Map {
	return fiber.Map{
		"email":        u.Email,
		"subscription": u.Subscription,
	}
}

func userPayloadWithAvatar(u *models.User) fiber.Map {
	p := userPayload(u)
	p["avatarURL"] = u.AvatarURL
	return p
}
