package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/contacts-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrContactNotFound = errors.New("contact not found")

// ContactUpdate carries the replaceable contact fields for a full update.
type ContactUpdate struct {
	Name     string `bson:"name"`
	Email    string `bson:"email"`
	Phone    string `bson:"phone"`
	Favorite bool   `bson:"favorite"`
}

// ContactRepository scopes every by-id operation to the owning user, so a
// contact belonging to someone else is indistinguishable from a missing one.
type ContactRepository interface {
	ListByOwner(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]models.Contact, error)
	GetByID(ctx context.Context, owner, id primitive.ObjectID) (*models.Contact, error)
	Create(ctx context.Context, c *models.Contact) error
	Update(ctx context.Context, owner, id primitive.ObjectID, upd ContactUpdate) (*models.Contact, error)
	SetFavorite(ctx context.Context, owner, id primitive.ObjectID, favorite bool) (*models.Contact, error)
	Delete(ctx context.Context, owner, id primitive.ObjectID) error
}

type mongoContactRepo struct {
	col *mongo.Collection
}

func NewMongoContactRepo(db *mongo.Database) ContactRepository {
	col := db.Collection("contacts")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "_id", Value: 1}},
	})
	return &mongoContactRepo{col: col}
}

func (r *mongoContactRepo) ListByOwner(ctx context.Context, owner primitive.ObjectID, skip, limit int64) ([]models.Contact, error) {
	opts := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"created_at": 0, "updated_at": 0})
	cursor, err := r.col.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	contacts := []models.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *mongoContactRepo) GetByID(ctx context.Context, owner, id primitive.ObjectID) (*models.Contact, error) {
	var c models.Contact
	err := r.col.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoContactRepo) Create(ctx context.Context, c *models.Contact) error {
	now := time.Now().UTC()
	c.CreatedAt = &now
	c.UpdatedAt = &now
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

func (r *mongoContactRepo) Update(ctx context.Context, owner, id primitive.ObjectID, upd ContactUpdate) (*models.Contact, error) {
	return r.findOneAndUpdate(ctx, owner, id, bson.M{
		"name":       upd.Name,
		"email":      upd.Email,
		"phone":      upd.Phone,
		"favorite":   upd.Favorite,
		"updated_at": time.Now().UTC(),
	})
}

func (r *mongoContactRepo) SetFavorite(ctx context.Context, owner, id primitive.ObjectID, favorite bool) (*models.Contact, error) {
	return r.findOneAndUpdate(ctx, owner, id, bson.M{
		"favorite":   favorite,
		"updated_at": time.Now().UTC(),
	})
}

func (r *mongoContactRepo) findOneAndUpdate(ctx context.Context, owner, id primitive.ObjectID, set bson.M) (*models.Contact, error) {
	var c models.Contact
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner": owner},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoContactRepo) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrContactNotFound
	}
	return nil
}
