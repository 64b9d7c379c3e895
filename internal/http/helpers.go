package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucasnneto/book-api/internal/books"
	"github.com/lucasnneto/book-api/internal/users"
)

// ErrorResponse is the standard error body for all API errors.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the standard confirmation body for mutations.
type MessageResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count,omitempty"`
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Message: message})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but never exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// validationErrors are service failures that map to a 400 with their own
// message.
var validationErrors = []error{
	books.ErrTitleRequired,
	books.ErrAuthorRequired,
	books.ErrBorrowerRequired,
	books.ErrNoBooks,
	books.ErrNoIDs,
	books.ErrInvalidID,
	books.ErrInvalidOwnerID,
	books.ErrEmptyUpdate,
	users.ErrUsernameRequired,
	users.ErrPasswordRequired,
}

// respondServiceError maps a service failure onto the HTTP error taxonomy:
// validation 400, ownership mismatch 401, missing record 404, anything else
// a logged 500.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, books.ErrNotOwner):
		respondError(c, http.StatusUnauthorized, "not authorized")
	case errors.Is(err, users.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
	case errors.Is(err, users.ErrUserExists),
		errors.Is(err, users.ErrInvalidCredentials),
		isValidationError(err):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

func isValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
