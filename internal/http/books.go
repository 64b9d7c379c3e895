package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucasnneto/book-api/internal/auth"
	"github.com/lucasnneto/book-api/internal/books"
)

// BooksController handles listing, grouping, and the bulk book mutations.
type BooksController struct {
	books *books.Service
}

// NewBooksController creates a new BooksController.
func NewBooksController(service *books.Service) *BooksController {
	return &BooksController{books: service}
}

// List returns the flat book listing, optionally narrowed by the free-text
// `filter` or exact `owner` query parameters.
func (bc *BooksController) List(c *gin.Context) {
	found, err := bc.books.Search(c.Request.Context(), c.Query("filter"), c.Query("owner"))
	if err != nil {
		respondServiceError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListSeries returns the series-grouped listing with the same parameters as
// List.
func (bc *BooksController) ListSeries(c *gin.Context) {
	groups, err := bc.books.GroupBySeries(c.Request.Context(), c.Query("filter"), c.Query("owner"))
	if err != nil {
		respondServiceError(c, err, "list series")
		return
	}
	c.JSON(http.StatusOK, groups)
}

type createBooksRequest struct {
	Books []books.Draft `json:"books"`
}

// Create inserts a batch of books owned by the caller.
func (bc *BooksController) Create(c *gin.Context) {
	var req createBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	inserted, err := bc.books.CreateBatch(c.Request.Context(), auth.GetUserID(c), req.Books)
	if err != nil {
		respondServiceError(c, err, "create books")
		return
	}
	c.JSON(http.StatusOK, inserted)
}

type updateBooksRequest struct {
	IDs   []string     `json:"ids"`
	Books books.Update `json:"books"`
}

// Update applies one shared partial payload to every book in the id set.
func (bc *BooksController) Update(c *gin.Context) {
	var req updateBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	updated, err := bc.books.UpdateBatch(c.Request.Context(), auth.GetUserID(c), req.IDs, req.Books)
	if err != nil {
		respondServiceError(c, err, "update books")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "books updated", Count: updated})
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// Delete removes every book in the id set.
func (bc *BooksController) Delete(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	deleted, err := bc.books.DeleteBatch(c.Request.Context(), auth.GetUserID(c), req.IDs)
	if err != nil {
		respondServiceError(c, err, "delete books")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "books removed", Count: deleted})
}

type borrowRequest struct {
	IDsBook    []string `json:"idsBook"`
	NameBorrow string   `json:"nameBorrow"`
}

// Borrow marks every book in the id set as lent to the named borrower.
func (bc *BooksController) Borrow(c *gin.Context) {
	var req borrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	lent, err := bc.books.Lend(c.Request.Context(), auth.GetUserID(c), req.IDsBook, req.NameBorrow)
	if err != nil {
		respondServiceError(c, err, "borrow books")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "books lent", Count: lent})
}

type returnRequest struct {
	IDsBook []string `json:"idsBook"`
}

// Return clears the borrower on every book in the id set.
func (bc *BooksController) Return(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	returned, err := bc.books.Return(c.Request.Context(), auth.GetUserID(c), req.IDsBook)
	if err != nil {
		respondServiceError(c, err, "return books")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "books returned", Count: returned})
}
