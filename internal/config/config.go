package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Mongo
		Auth
		Global
	}

	HTTP struct {
		Port         int32
		Host         string
		AllowOrigins []string
	}
	Mongo struct {
		URL      string
		Database string
	}
	Auth struct {
		// TokenSecret signs bearer tokens. Injected at startup, never a
		// source literal. The server refuses to start without it.
		TokenSecret string
		TokenExpiry time.Duration
		BcryptCost  int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_allow_origins", []string{"*"})
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("mongo_url", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "bookapi")

	// Auth defaults
	v.SetDefault("token_secret", "")
	v.SetDefault("token_expiry", "2400h") // 100 days
	v.SetDefault("bcrypt_cost", 10)

	return &Config{
		HTTP: HTTP{
			Port:         v.GetInt32("PORT"),
			Host:         v.GetString("HOST"),
			AllowOrigins: v.GetStringSlice("CORS_ALLOW_ORIGINS"),
		},
		Mongo: Mongo{
			URL:      v.GetString("MONGO_URL"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Auth: Auth{
			TokenSecret: v.GetString("TOKEN_SECRET"),
			TokenExpiry: v.GetDuration("TOKEN_EXPIRY"),
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
