package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DATABASE_URL is the runtime connection (may point at a pooler);
	// DIRECT_URL is a direct connection used for migrations.
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Auth AuthConfig

	// ClientAllowedOrigins is a comma-separated allowlist of origins for the
	// separate React client. Example:
	//   https://app.sapaghor.com,http://localhost:5173
	ClientAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// AuthConfig describes the session tokens issued by the external auth service.
// This backend only verifies them; login/logout live elsewhere.
type AuthConfig struct {
	SessionSecret string
	Issuer        string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "sapaghor"),
			User:     env("DB_USER", "sapaghor"),
			Password: env("DB_PASSWORD", "sapaghor"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			SessionSecret: os.Getenv("AUTH_SESSION_SECRET"),
			Issuer:        env("AUTH_ISSUER", "sapaghor-auth"),
		},
		ClientAllowedOrigins: envList("CLIENT_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
