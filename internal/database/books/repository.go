// Package books provides Mongo-backed book persistence.
//
// This package implements the books.Store interface; all mutations carry the
// owner in their filter so they can never touch another user's books.
//
// # Interface Implementation
//
//	var _ bookssvc.Store = (*Repository)(nil)
package books

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookssvc "github.com/lucasnneto/book-api/internal/books"
	"github.com/lucasnneto/book-api/internal/entities"
)

var _ bookssvc.Store = (*Repository)(nil)

// Repository handles all book collection operations.
type Repository struct {
	col *mongo.Collection
}

// NewRepository creates a books repository over the given database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection("books")}
}

// Find returns the books matching the query, sorted by title for a stable
// listing order.
func (r *Repository) Find(ctx context.Context, q bookssvc.Query) ([]entities.Book, error) {
	cursor, err := r.col.Find(ctx, searchFilter(q), options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding books: %w", err)
	}
	defer cursor.Close(ctx)

	var found []entities.Book
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decoding books: %w", err)
	}
	return found, nil
}

// Insert writes the batch. Unordered, so one bad document does not abort the
// rest of the batch; partial success across items is acceptable.
func (r *Repository) Insert(ctx context.Context, docs []entities.Book) ([]entities.Book, error) {
	toInsert := make([]interface{}, len(docs))
	for i := range docs {
		toInsert[i] = docs[i]
	}

	res, err := r.col.InsertMany(ctx, toInsert, options.InsertMany().SetOrdered(false))
	if err != nil {
		return nil, fmt.Errorf("inserting books: %w", err)
	}
	for i, inserted := range res.InsertedIDs {
		if id, ok := inserted.(primitive.ObjectID); ok && i < len(docs) {
			docs[i].ID = id
		}
	}
	return docs, nil
}

// CountOwned counts how many of the given books belong to the owner.
func (r *Repository) CountOwned(ctx context.Context, ids []primitive.ObjectID, owner primitive.ObjectID) (int64, error) {
	n, err := r.col.CountDocuments(ctx, ownedFilter(ids, owner))
	if err != nil {
		return 0, fmt.Errorf("counting owned books: %w", err)
	}
	return n, nil
}

// Update applies the patch to every listed book still owned by the caller
// and reports how many documents matched.
func (r *Repository) Update(ctx context.Context, ids []primitive.ObjectID, owner primitive.ObjectID, patch bookssvc.Patch) (int64, error) {
	res, err := r.col.UpdateMany(ctx, ownedFilter(ids, owner), updateDocument(patch))
	if err != nil {
		return 0, fmt.Errorf("updating books: %w", err)
	}
	return res.MatchedCount, nil
}

// Delete removes every listed book still owned by the caller.
func (r *Repository) Delete(ctx context.Context, ids []primitive.ObjectID, owner primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, ownedFilter(ids, owner))
	if err != nil {
		return 0, fmt.Errorf("deleting books: %w", err)
	}
	return res.DeletedCount, nil
}
