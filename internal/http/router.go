package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lucasnneto/book-api/internal/auth"
	"github.com/lucasnneto/book-api/internal/books"
	"github.com/lucasnneto/book-api/internal/users"
)

// RouterConfig carries all router dependencies so tests can substitute
// fakes behind the service interfaces.
type RouterConfig struct {
	Users  *users.Service
	Books  *books.Service
	Tokens *auth.Tokens
	Store  Pinger

	AllowOrigins []string
	Version      string
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Listing stays public; every mutation and the current-user lookup sit
// behind the bearer guard.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	requireAuth := auth.RequireAuth(cfg.Tokens)

	health := NewHealthController(cfg.Store, cfg.Version)
	usersController := NewUsersController(cfg.Users)
	booksController := NewBooksController(cfg.Books)

	router.GET("/health", health.Status)

	usersGroup := router.Group("/users")
	{
		usersGroup.POST("/register", usersController.Register)
		usersGroup.POST("/login", usersController.Login)
		usersGroup.GET("/me", requireAuth, usersController.Me)
	}

	booksGroup := router.Group("/books")
	{
		booksGroup.GET("", booksController.List)
		booksGroup.GET("/series", booksController.ListSeries)

		booksGroup.POST("", requireAuth, booksController.Create)
		booksGroup.PUT("", requireAuth, booksController.Update)
		booksGroup.POST("/delete", requireAuth, booksController.Delete)
		booksGroup.POST("/borrow", requireAuth, booksController.Borrow)
		booksGroup.POST("/return", requireAuth, booksController.Return)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AddAllowHeaders("Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	return corsCfg
}
