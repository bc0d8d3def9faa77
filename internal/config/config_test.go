package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
app:
  env: development
  base_url: http://localhost:3000
auth:
  jwtSecret: test-secret
mongo:
  uri: mongodb://localhost:27017
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, 3000, cfg.App.Port)
	require.Equal(t, 23*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Equal(t, "local", cfg.Avatar.Backend)
	require.Equal(t, "public/avatars", cfg.Avatar.Dir)
	require.Equal(t, "contacts", cfg.Mongo.Database)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.App.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadMissingSecret(t *testing.T) {
	_, err := Load(writeConfig(t, `
app:
  base_url: http://localhost:3000
mongo:
  uri: mongodb://localhost:27017
`))
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadMissingBaseURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
auth:
  jwtSecret: test-secret
mongo:
  uri: mongodb://localhost:27017
`))
	require.ErrorContains(t, err, "BASE_URL")
}

func TestLoadS3RequiresBucket(t *testing.T) {
	_, err := Load(writeConfig(t, minimalYAML+`
avatar:
  backend: s3
`))
	require.ErrorContains(t, err, "S3_BUCKET")
}
