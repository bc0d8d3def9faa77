package services

import (
	"context"

	"github.com/fathima-sithara/contacts-api/internal/models"
	"github.com/fathima-sithara/contacts-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type ContactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// List returns the owner's page of contacts; page and limit fall back to
// their defaults when out of range.
func (s *ContactService) List(ctx context.Context, owner primitive.ObjectID, page, limit int) ([]models.Contact, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	skip := int64(page-1) * int64(limit)
	return s.contacts.ListByOwner(ctx, owner, skip, int64(limit))
}

func (s *ContactService) Get(ctx context.Context, owner, id primitive.ObjectID) (*models.Contact, error) {
	return s.contacts.GetByID(ctx, owner, id)
}

func (s *ContactService) Create(ctx context.Context, owner primitive.ObjectID, name, email, phone string, favorite bool) (*models.Contact, error) {
	c := &models.Contact{
		Owner:    owner,
		Name:     name,
		Email:    email,
		Phone:    phone,
		Favorite: favorite,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, owner, id primitive.ObjectID, upd repository.ContactUpdate) (*models.Contact, error) {
	return s.contacts.Update(ctx, owner, id, upd)
}

func (s *ContactService) SetFavorite(ctx context.Context, owner, id primitive.ObjectID, favorite bool) (*models.Contact, error) {
	return s.contacts.SetFavorite(ctx, owner, id, favorite)
}

func (s *ContactService) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	return s.contacts.Delete(ctx, owner, id)
}
