package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/lucasnneto/book-api/internal/auth"
	"github.com/lucasnneto/book-api/internal/books"
	"github.com/lucasnneto/book-api/internal/entities"
	"github.com/lucasnneto/book-api/internal/users"
)

// In-memory store fakes mirroring the Mongo repository semantics, wired
// through the real services so the endpoint tests exercise the whole stack
// below the transport.

type fakeBookStore struct {
	books map[primitive.ObjectID]entities.Book
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{books: make(map[primitive.ObjectID]entities.Book)}
}

func (f *fakeBookStore) Find(_ context.Context, q books.Query) ([]entities.Book, error) {
	var out []entities.Book
	for _, b := range f.books {
		switch {
		case q.Owner != nil:
			if b.OwnerID != *q.Owner {
				continue
			}
		case q.Filter != "":
			if !strings.Contains(b.TitleRaw, q.Filter) &&
				!strings.Contains(b.AuthorRaw, q.Filter) &&
				!strings.Contains(b.SeriesRaw, q.Filter) {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookStore) Insert(_ context.Context, docs []entities.Book) ([]entities.Book, error) {
	inserted := make([]entities.Book, 0, len(docs))
	for _, b := range docs {
		b.ID = primitive.NewObjectID()
		f.books[b.ID] = b
		inserted = append(inserted, b)
	}
	return inserted, nil
}

func (f *fakeBookStore) CountOwned(_ context.Context, ids []primitive.ObjectID, owner primitive.ObjectID) (int64, error) {
	var n int64
	for _, id := range ids {
		if b, ok := f.books[id]; ok && b.OwnerID == owner {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookStore) Update(_ context.Context, ids []primitive.ObjectID, owner primitive.ObjectID, patch books.Patch) (int64, error) {
	var n int64
	for _, id := range ids {
		b, ok := f.books[id]
		if !ok || b.OwnerID != owner {
			continue
		}
		if patch.Title != nil {
			b.Title, b.TitleRaw = *patch.Title, *patch.TitleRaw
		}
		if patch.Author != nil {
			b.Author, b.AuthorRaw = *patch.Author, *patch.AuthorRaw
		}
		if patch.Series != nil {
			b.Series, b.SeriesRaw = *patch.Series, *patch.SeriesRaw
		}
		if patch.BorrowedTo != nil {
			b.BorrowedTo = *patch.BorrowedTo
		}
		f.books[id] = b
		n++
	}
	return n, nil
}

func (f *fakeBookStore) Delete(_ context.Context, ids []primitive.ObjectID, owner primitive.ObjectID) (int64, error) {
	var n int64
	for _, id := range ids {
		if b, ok := f.books[id]; ok && b.OwnerID == owner {
			delete(f.books, id)
			n++
		}
	}
	return n, nil
}

type fakeUserStore struct {
	byID       map[primitive.ObjectID]entities.User
	byUsername map[string]primitive.ObjectID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:       make(map[primitive.ObjectID]entities.User),
		byUsername: make(map[string]primitive.ObjectID),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *entities.User) (*entities.User, error) {
	if _, taken := f.byUsername[user.Username]; taken {
		return nil, users.ErrUserExists
	}
	u := *user
	u.ID = primitive.NewObjectID()
	f.byID[u.ID] = u
	f.byUsername[u.Username] = u.ID
	out := u
	return &out, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	id, ok := f.byUsername[username]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	u := f.byID[id]
	return &u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*entities.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]entities.User, error) {
	out := make(map[primitive.ObjectID]entities.User)
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type testAPI struct {
	router    *gin.Engine
	bookStore *fakeBookStore
	userStore *fakeUserStore
	t         *testing.T
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	userStore := newFakeUserStore()
	bookStore := newFakeBookStore()

	router := NewRouter(RouterConfig{
		Users:        users.NewService(userStore, tokens, bcrypt.MinCost),
		Books:        books.NewService(bookStore, userStore),
		Tokens:       tokens,
		AllowOrigins: []string{"*"},
		Version:      "test",
	})
	return &testAPI{router: router, bookStore: bookStore, userStore: userStore, t: t}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account through the API and returns its token.
func (a *testAPI) registerAndLogin(username string) string {
	a.t.Helper()
	w := a.do("POST", "/users/register", "", gin.H{"username": username, "password": "s3cret"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	w = a.do("POST", "/users/login", "", gin.H{"username": username, "password": "s3cret"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
