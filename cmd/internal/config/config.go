package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port       string
	CorsOrigin string
	JWTSecret  string
	TokenTTL   time.Duration
	AdminSub   string // bootstrap admin, created at startup when set
	AdminEmail string
	Database   DatabaseConfig
}

type DatabaseConfig struct {
	Driver string // sqlite or mysql
	DSN    string
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	db := DatabaseConfig{
		Driver: getEnv("DB_DRIVER", "sqlite"),
		DSN:    getEnv("DB_DSN", "./database.db"),
	}
	if db.Driver != "sqlite" && db.Driver != "mysql" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}

	return &Config{
		Port:       getEnv("PORT", "6060"),
		CorsOrigin: getEnv("CORS_ORIGIN", "*"),
		JWTSecret:  getEnv("JWT_SECRET", "dev_jwt_secret"),
		TokenTTL:   ttl,
		AdminSub:   getEnv("ADMIN_SUB", ""),
		AdminEmail: getEnv("ADMIN_EMAIL", "admin@clinic.local"),
		Database:   db,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
