package handlers

import (
	"errors"
	"fmt"

	"github.com/fathima-sithara/contacts-api/internal/middleware"
	"github.com/fathima-sithara/contacts-api/internal/repository"
	"github.com/fathima-sithara/contacts-api/internal/services"
	"github.com/fathima-sithara/contacts-api/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ContactHandler struct {
	svc      *services.ContactService
	validate *validator.Validate
	log      *zap.Logger
}

func NewContactHandler(svc *services.ContactService, validate *validator.Validate, log *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, validate: validate, log: log}
}

type contactReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Favorite bool   `json:"favorite"`
}

type statusReq struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

// GET /contacts?page=&limit=
func (h *ContactHandler) List(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	contacts, err := h.svc.List(c.Context(), u.ID, page, limit)
	if err != nil {
		h.log.Error("list contacts failed", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusOK).JSON(contacts)
}

// GET /contacts/:contactId
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return err
	}

	contact, err := h.svc.Get(c.Context(), u.ID, id)
	if err != nil {
		return h.contactErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(contact)
}

// POST /contacts
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	var req contactReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	contact, err := h.svc.Create(c.Context(), u.ID, req.Name, req.Email, req.Phone, req.Favorite)
	if err != nil {
		h.log.Error("create contact failed", zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// PUT /contacts/:contactId
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return err
	}
	var req contactReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	contact, err := h.svc.Update(c.Context(), u.ID, id, repository.ContactUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	})
	if err != nil {
		return h.contactErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(contact)
}

// PATCH /contacts/:contactId/status
func (h *ContactHandler) UpdateStatus(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return err
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing field favorite")
	}

	contact, err := h.svc.SetFavorite(c.Context(), u.ID, id, *req.Favorite)
	if err != nil {
		return h.contactErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(contact)
}

// DELETE /contacts/:contactId
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authorized")
	}
	id, err := contactID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Context(), u.ID, id); err != nil {
		return h.contactErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "contact deleted"})
}

// contactID parses the path parameter; a malformed id cannot reference any
// contact, so it reads as not found.
func contactID(c *fiber.Ctx) (primitive.ObjectID, error) {
	raw := c.Params("contactId")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusNotFound, notFoundMsg(raw))
	}
	return id, nil
}

func (h *ContactHandler) contactErr(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrContactNotFound) {
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg(c.Params("contactId")))
	}
	h.log.Error("contact operation failed", zap.Error(err))
	return err
}

func notFoundMsg(id string) string {
	return fmt.Sprintf("Contact with id=%s not found", id)
}
