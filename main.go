package main

import (
	"github.com/lucasnneto/book-api/internal/config"
	"github.com/lucasnneto/book-api/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
)

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
