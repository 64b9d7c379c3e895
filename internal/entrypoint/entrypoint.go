// Package entrypoint wires the store, services, and router together and runs
// the HTTP server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/lucasnneto/book-api/internal/auth"
	"github.com/lucasnneto/book-api/internal/books"
	"github.com/lucasnneto/book-api/internal/config"
	"github.com/lucasnneto/book-api/internal/database"
	booksrepo "github.com/lucasnneto/book-api/internal/database/books"
	usersrepo "github.com/lucasnneto/book-api/internal/database/users"
	httpapi "github.com/lucasnneto/book-api/internal/http"
	"github.com/lucasnneto/book-api/internal/users"
)

// mongoPinger adapts the client to the health controller.
type mongoPinger struct {
	ping func(ctx context.Context) error
}

func (p mongoPinger) Ping(ctx context.Context) error { return p.ping(ctx) }

// Run connects to the store, builds the router, and serves until a shutdown
// signal arrives.
func Run(cfg *config.Config, version string) {
	if cfg.Auth.TokenSecret == "" {
		log.Fatalf("TOKEN_SECRET is not set; refusing to start with an unsigned token secret")
	}

	tokens, err := auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiry)
	if err != nil {
		log.Fatalf("Configuring tokens: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.Connect(connectCtx, cfg.Mongo.URL)
	if err != nil {
		log.Fatalf("Connecting to store: %v", err)
	}
	db := client.Database(cfg.Mongo.Database)

	if err := database.EnsureIndexes(connectCtx, db); err != nil {
		log.Fatalf("Creating indexes: %v", err)
	}

	userRepo := usersrepo.NewRepository(db)
	bookRepo := booksrepo.NewRepository(db)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Users:  users.NewService(userRepo, tokens, cfg.Auth.BcryptCost),
		Books:  books.NewService(bookRepo, userRepo),
		Tokens: tokens,
		Store: mongoPinger{ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}},
		AllowOrigins: cfg.HTTP.AllowOrigins,
		Version:      version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Disconnecting store: %v", err)
		}
	})
}

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	log.Println("Server exiting")
}
