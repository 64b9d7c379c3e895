// Package books implements the core lending-tracker pipeline: search query
// construction, owner population, series grouping, and ownership-verified
// bulk mutation.
package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lucasnneto/book-api/internal/entities"
	"github.com/lucasnneto/book-api/internal/normalize"
)

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrAuthorRequired   = errors.New("author is required")
	ErrBorrowerRequired = errors.New("borrower name is required")
	ErrNoBooks          = errors.New("no books provided")
	ErrNoIDs            = errors.New("no book ids provided")
	ErrInvalidID        = errors.New("invalid book id")
	ErrInvalidOwnerID   = errors.New("invalid owner id")
	ErrEmptyUpdate      = errors.New("no fields to update")

	// ErrNotOwner is returned when any id in a bulk request does not belong
	// to the caller. The whole operation is rejected and nothing is mutated.
	ErrNotOwner = errors.New("not authorized for every requested book")
)

// Query selects books for listing. Owner restricts to an exact owner id and
// takes precedence over Filter; Filter is a folded search key matched as a
// substring against the shadow fields.
type Query struct {
	Owner  *primitive.ObjectID
	Filter string
}

// Patch is a partial update applied to every book in a batch. Nil fields are
// left untouched. A non-nil empty value clears the field. Shadow fields are
// always carried alongside their source field.
type Patch struct {
	Title     *string
	Author    *string
	Series    *string
	TitleRaw  *string
	AuthorRaw *string
	SeriesRaw *string

	BorrowedTo *string
}

// Store is the book persistence contract. Mutations are owner-scoped at the
// storage level: Update and Delete only ever touch documents whose owner
// matches, so a cross-user write is impossible even if the set of books
// changes between the ownership check and the mutation.
type Store interface {
	Find(ctx context.Context, q Query) ([]entities.Book, error)
	Insert(ctx context.Context, books []entities.Book) ([]entities.Book, error)
	CountOwned(ctx context.Context, ids []primitive.ObjectID, owner primitive.ObjectID) (int64, error)
	Update(ctx context.Context, ids []primitive.ObjectID, owner primitive.ObjectID, patch Patch) (int64, error)
	Delete(ctx context.Context, ids []primitive.ObjectID, owner primitive.ObjectID) (int64, error)
}

// UserDirectory resolves owner identities for listing responses.
type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]entities.User, error)
}

// Draft is a book submitted for creation.
type Draft struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Series string `json:"series"`
}

// Update is the shared partial payload of a bulk update. The same values are
// applied to every id in the batch.
type Update struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Series *string `json:"series"`
}

// Service implements the search/listing pipeline and the ownership-scoped
// repository operations.
type Service struct {
	store Store
	users UserDirectory
}

// NewService creates a book service over the given store and user directory.
func NewService(store Store, users UserDirectory) *Service {
	return &Service{store: store, users: users}
}

// buildQuery turns the optional filter/owner parameters into a store query.
// The filter text is folded into the same normalized space as the shadow
// fields; an explicit owner takes precedence over the filter.
func buildQuery(filter, owner string) (Query, error) {
	if owner != "" {
		id, err := primitive.ObjectIDFromHex(owner)
		if err != nil {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidOwnerID, owner)
		}
		return Query{Owner: &id}, nil
	}
	return Query{Filter: normalize.Fold(filter)}, nil
}

// Search returns the flat list of books matching the optional filter and
// owner parameters, with owner identities populated.
func (s *Service) Search(ctx context.Context, filter, owner string) ([]entities.Book, error) {
	q, err := buildQuery(filter, owner)
	if err != nil {
		return nil, err
	}

	found, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("searching books: %w", err)
	}
	if found == nil {
		found = []entities.Book{}
	}
	if err := s.populateOwners(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Service) populateOwners(ctx context.Context, found []entities.Book) error {
	if len(found) == 0 {
		return nil
	}

	seen := make(map[primitive.ObjectID]struct{}, len(found))
	ids := make([]primitive.ObjectID, 0, len(found))
	for _, b := range found {
		if _, ok := seen[b.OwnerID]; ok {
			continue
		}
		seen[b.OwnerID] = struct{}{}
		ids = append(ids, b.OwnerID)
	}

	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolving owners: %w", err)
	}

	for i := range found {
		if owner, ok := owners[found[i].OwnerID]; ok {
			owner.Password = ""
			found[i].Owner = &owner
		}
	}
	return nil
}

// CreateBatch inserts a batch of drafts under one owner. Text fields are
// trimmed and their shadow fields computed before insertion.
func (s *Service) CreateBatch(ctx context.Context, ownerID string, drafts []Draft) ([]entities.Book, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOwnerID, ownerID)
	}
	if len(drafts) == 0 {
		return nil, ErrNoBooks
	}

	docs := make([]entities.Book, 0, len(drafts))
	for _, d := range drafts {
		title := strings.TrimSpace(d.Title)
		author := strings.TrimSpace(d.Author)
		series := strings.TrimSpace(d.Series)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if author == "" {
			return nil, ErrAuthorRequired
		}

		docs = append(docs, entities.Book{
			Title:     title,
			Author:    author,
			Series:    series,
			TitleRaw:  normalize.Fold(title),
			AuthorRaw: normalize.Fold(author),
			SeriesRaw: normalize.Fold(series),
			OwnerID:   owner,
		})
	}

	inserted, err := s.store.Insert(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("inserting books: %w", err)
	}
	return inserted, nil
}

// UpdateBatch applies the shared partial payload to every id in the batch
// after verifying the caller owns all of them. Shadow fields are recomputed
// for every source field the payload touches.
func (s *Service) UpdateBatch(ctx context.Context, ownerID string, ids []string, update Update) (int64, error) {
	if update.Title == nil && update.Author == nil && update.Series == nil {
		return 0, ErrEmptyUpdate
	}

	patch := Patch{}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return 0, ErrTitleRequired
		}
		patch.Title = &title
		patch.TitleRaw = folded(title)
	}
	if update.Author != nil {
		author := strings.TrimSpace(*update.Author)
		if author == "" {
			return 0, ErrAuthorRequired
		}
		patch.Author = &author
		patch.AuthorRaw = folded(author)
	}
	if update.Series != nil {
		series := strings.TrimSpace(*update.Series)
		patch.Series = &series
		patch.SeriesRaw = folded(series)
	}

	return s.mutateOwned(ctx, ownerID, ids, patch)
}

// DeleteBatch removes every id in the batch after verifying the caller owns
// all of them.
func (s *Service) DeleteBatch(ctx context.Context, ownerID string, ids []string) (int64, error) {
	owner, parsed, err := s.verifyOwnership(ctx, ownerID, ids)
	if err != nil {
		return 0, err
	}

	deleted, err := s.store.Delete(ctx, parsed, owner)
	if err != nil {
		return 0, fmt.Errorf("deleting books: %w", err)
	}
	return deleted, nil
}

// Lend marks every book in the batch as lent to the given borrower name.
func (s *Service) Lend(ctx context.Context, ownerID string, ids []string, borrower string) (int64, error) {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return 0, ErrBorrowerRequired
	}
	return s.mutateOwned(ctx, ownerID, ids, Patch{BorrowedTo: &borrower})
}

// Return clears the borrower on every book in the batch, marking them
// available again.
func (s *Service) Return(ctx context.Context, ownerID string, ids []string) (int64, error) {
	empty := ""
	return s.mutateOwned(ctx, ownerID, ids, Patch{BorrowedTo: &empty})
}

func (s *Service) mutateOwned(ctx context.Context, ownerID string, ids []string, patch Patch) (int64, error) {
	owner, parsed, err := s.verifyOwnership(ctx, ownerID, ids)
	if err != nil {
		return 0, err
	}

	updated, err := s.store.Update(ctx, parsed, owner, patch)
	if err != nil {
		return 0, fmt.Errorf("updating books: %w", err)
	}
	return updated, nil
}

// verifyOwnership parses the id set and confirms every id belongs to the
// caller. A count mismatch rejects the whole batch; the later mutation is
// additionally owner-scoped at the store, so the check-then-mutate pair can
// never touch another user's books.
func (s *Service) verifyOwnership(ctx context.Context, ownerID string, ids []string) (primitive.ObjectID, []primitive.ObjectID, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return primitive.NilObjectID, nil, fmt.Errorf("%w: %q", ErrInvalidOwnerID, ownerID)
	}
	if len(ids) == 0 {
		return primitive.NilObjectID, nil, ErrNoIDs
	}

	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	parsed := make([]primitive.ObjectID, 0, len(ids))
	for _, raw := range ids {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return primitive.NilObjectID, nil, fmt.Errorf("%w: %q", ErrInvalidID, raw)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}

	owned, err := s.store.CountOwned(ctx, parsed, owner)
	if err != nil {
		return primitive.NilObjectID, nil, fmt.Errorf("checking ownership: %w", err)
	}
	if owned != int64(len(parsed)) {
		return primitive.NilObjectID, nil, ErrNotOwner
	}
	return owner, parsed, nil
}

func folded(s string) *string {
	f := normalize.Fold(s)
	return &f
}
