package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5431"`
	DBUser     string `env:"DB_USER" envDefault:"taskdash_user"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"taskdash_pass"`
	DBName     string `env:"DB_NAME" envDefault:"taskdash_db"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"supersecretkey"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`

	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
	PollInterval   time.Duration `env:"NOTIFICATION_POLL_INTERVAL" envDefault:"15s"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	return parse(env.Options{})
}

// ParseEnv builds a Config from the given variables instead of the
// process environment.
func ParseEnv(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.JWTExpiryHours <= 0 {
		return nil, fmt.Errorf("parse config: JWT_EXPIRY_HOURS must be positive, got %d", cfg.JWTExpiryHours)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("parse config: NOTIFICATION_POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	return &cfg, nil
}

// DSN is the postgres connection string for the session store.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}
