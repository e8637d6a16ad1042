package config

import (
	"errors"
	"os"
	"strings"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DatabaseURL    string
	Port           string
	AllowedOrigins []string
}

// Load reads required values from environment variables.
//
//	DATABASE_URL     Postgres connection string (required)
//	PORT             listen port, default 8000
//	ALLOWED_ORIGINS  comma-separated CORS origins, default "*"
func Load() (Config, error) {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return Config{}, errors.New("DATABASE_URL required")
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	origins := []string{"*"}
	if raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return Config{}, errors.New("ALLOWED_ORIGINS must list at least one origin")
		}
	}

	return Config{
		DatabaseURL:    dbURL,
		Port:           port,
		AllowedOrigins: origins,
	}, nil
}
