package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DocumentStoreGorm, cfg.Documents.Store)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: "9090"
  allowed_origins: ["https://learnify.app"]
documents:
  store: mongo
  mongo_db: learnify_prod
worker:
  queue_size: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://learnify.app"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DocumentStoreMongo, cfg.Documents.Store)
	assert.Equal(t, "learnify_prod", cfg.Documents.MongoDB)
	assert.Equal(t, 10, cfg.Worker.QueueSize)
	assert.Equal(t, "learnify_user", cfg.Database.User, "unset keys keep their default")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "server: [")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  port: \"9090\"\n")
	t.Setenv("PORT", "7070")
	t.Setenv("DOCUMENT_STORE", "memory")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.test, https://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, DocumentStoreMemory, cfg.Documents.Store)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	env := writeFile(t, ".env", "JWT_SECRET=from-dotenv\n")

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
}

func TestLoad_BadBool(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "maybe")

	_, err := Load("")
	assert.ErrorContains(t, err, "REDIS_ENABLED")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "Unknown document store", mutate: func(c *Config) { c.Documents.Store = "s3" }, wantErr: `unknown document store "s3"`},
		{name: "Unknown habit store", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: `unknown habit store "mysql"`},
		{name: "Gorm without url", mutate: func(c *Config) { c.Documents.DatabaseURL = "" }, wantErr: "database_url"},
		{name: "Empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "jwt secret is empty"},
		{name: "Default secret in release", mutate: func(c *Config) { c.Server.Mode = "release" }, wantErr: "release mode"},
		{name: "Bad duration", mutate: func(c *Config) { c.Auth.TokenTTL = "forever" }, wantErr: "auth.token_ttl"},
		{name: "Zero queue", mutate: func(c *Config) { c.Worker.QueueSize = 0 }, wantErr: "queue_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}

	t.Run("Release with a real secret", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.Mode = "release"
		cfg.Auth.JWTSecret = "s3cr3t"
		assert.NoError(t, cfg.Validate())
	})
}

func TestPostgresDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Password = "pw"
	assert.Equal(t, "postgres://learnify_user:pw@localhost:5432/learnify_db?sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, 30*time.Minute, Duration(cfg.Redis.CacheTTL))
}
