package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucasnneto/book-api/internal/auth"
	"github.com/lucasnneto/book-api/internal/users"
)

// UsersController handles registration, login, and the current-user lookup.
type UsersController struct {
	users *users.Service
}

// NewUsersController creates a new UsersController.
func NewUsersController(service *users.Service) *UsersController {
	return &UsersController{users: service}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account.
func (uc *UsersController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	created, err := uc.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "register")
		return
	}
	c.JSON(http.StatusOK, created)
}

// Login verifies credentials and returns a bearer token.
func (uc *UsersController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	token, err := uc.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me returns the authenticated user's account.
func (uc *UsersController) Me(c *gin.Context) {
	user, err := uc.users.Me(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "me")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
