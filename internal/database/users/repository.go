// Package users provides Mongo-backed user persistence.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByUsername(ctx, "alice")
package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lucasnneto/book-api/internal/entities"
	userssvc "github.com/lucasnneto/book-api/internal/users"
)

// Repository handles all user collection operations.
type Repository struct {
	col *mongo.Collection
}

// NewRepository creates a users repository over the given database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection("users")}
}

// Create inserts a new user. A duplicate username maps to ErrUserExists via
// the unique index.
func (r *Repository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, userssvc.ErrUserExists
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetByID retrieves a user by id.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var user entities.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userssvc.ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

// GetByIDs retrieves a batch of users keyed by id. Missing ids are simply
// absent from the result.
func (r *Repository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]entities.User, error) {
	out := make(map[primitive.ObjectID]entities.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("finding users: %w", err)
	}
	defer cursor.Close(ctx)

	var found []entities.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	for _, u := range found {
		out[u.ID] = u
	}
	return out, nil
}
