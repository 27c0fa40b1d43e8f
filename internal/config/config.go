// Package config loads the engine configuration from an optional YAML file,
// an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	HabitStorePostgres = "postgres"
	HabitStoreMemory   = "memory"

	DocumentStoreMemory = "memory"
	DocumentStoreGorm   = "gorm"
	DocumentStoreMongo  = "mongo"

	defaultJWTSecret = "change-me-in-production"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Documents DocumentsConfig `yaml:"documents"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Worker    WorkerConfig    `yaml:"worker"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Mode           string   `yaml:"mode"` // debug, release, test
	AllowedOrigins []string `yaml:"allowed_origins"`
	ShutdownGrace  string   `yaml:"shutdown_grace"`
}

type DatabaseConfig struct {
	// Driver selects where habits, entries and users live: postgres or memory.
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	CacheTTL string `yaml:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
	TokenTTL  string `yaml:"token_ttl"`
}

type DocumentsConfig struct {
	Store       string `yaml:"store"` // memory, gorm, mongo
	DatabaseURL string `yaml:"database_url"`
	MongoURI    string `yaml:"mongo_uri"`
	MongoDB     string `yaml:"mongo_db"`
}

type RateLimitConfig struct {
	Requests int    `yaml:"requests"`
	Window   string `yaml:"window"`
}

type WorkerConfig struct {
	QueueSize int `yaml:"queue_size"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Mode:           "debug",
			AllowedOrigins: []string{"http://localhost:3000"},
			ShutdownGrace:  "5s",
		},
		Database: DatabaseConfig{
			Driver: HabitStorePostgres,
			Host:   "localhost",
			Port:   "5432",
			User:   "learnify_user",
			Name:   "learnify_db",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			CacheTTL: "30m",
		},
		Auth: AuthConfig{
			JWTSecret: defaultJWTSecret,
			Issuer:    "learnify-engine",
			TokenTTL:  "24h",
		},
		Documents: DocumentsConfig{
			Store:       DocumentStoreGorm,
			DatabaseURL: "learnify_documents.db",
			MongoURI:    "mongodb://localhost:27017",
			MongoDB:     "learnify",
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   "1m",
		},
		Worker: WorkerConfig{QueueSize: 100},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path when it exists, then envFiles, then the environment. A
// missing YAML or .env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Mode, "GIN_MODE")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Database.Driver, "HABIT_STORE")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")

	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_ENABLED %q: %w", v, err)
		}
		c.Redis.Enabled = enabled
	}

	setString(&c.Auth.JWTSecret, "JWT_SECRET")

	setString(&c.Documents.Store, "DOCUMENT_STORE")
	setString(&c.Documents.DatabaseURL, "DATABASE_URL")
	setString(&c.Documents.MongoURI, "MONGODB_URI")

	setString(&c.Logging.Level, "LOG_LEVEL")
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case HabitStorePostgres, HabitStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown habit store %q", c.Database.Driver))
	}

	switch c.Documents.Store {
	case DocumentStoreMemory, DocumentStoreMongo:
	case DocumentStoreGorm:
		if c.Documents.DatabaseURL == "" {
			errs = append(errs, errors.New("gorm document store needs database_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown document store %q", c.Documents.Store))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is empty"))
	} else if c.Server.Mode == "release" && c.Auth.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("jwt secret must be set in release mode"))
	}

	for name, v := range map[string]string{
		"server.shutdown_grace": c.Server.ShutdownGrace,
		"redis.cache_ttl":       c.Redis.CacheTTL,
		"auth.token_ttl":        c.Auth.TokenTTL,
		"rate_limit.window":     c.RateLimit.Window,
	} {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", name, v))
		}
	}

	if c.RateLimit.Requests <= 0 {
		errs = append(errs, errors.New("rate_limit.requests must be positive"))
	}
	if c.Worker.QueueSize <= 0 {
		errs = append(errs, errors.New("worker.queue_size must be positive"))
	}

	return errors.Join(errs...)
}

// PostgresDSN is the connection string of the habit database.
func (c *Config) PostgresDSN() string {
	d := c.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

// Duration parses a setting that Validate already accepted.
func Duration(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}
