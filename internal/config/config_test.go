package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
session:
  signing_key: "k"
provider:
  client_secret: "s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Equal(t, "memory", cfg.Cache.Kind)
	require.Equal(t, "session", cfg.Session.CookieName)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	require.Equal(t, "patreon", cfg.Provider.Name)
	require.Equal(t, []string{"identity", "identity[email]"}, cfg.Provider.Scopes)
	require.Equal(t, 10*time.Second, cfg.ProviderTimeout())
	require.Equal(t, 10, cfg.Rate.Login.Limit)
	require.False(t, cfg.Session.Secure)
}

func TestLoadMissingSecretsFails(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9999"
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrMissingSigningKey)

	path = writeConfig(t, `
session:
  signing_key: "k"
`)
	_, err = Load(path)
	require.ErrorIs(t, err, ErrMissingClientSecret)
}

func TestLoadBadDurationFails(t *testing.T) {
	path := writeConfig(t, `
session:
  signing_key: "k"
  ttl: "una semana"
provider:
  client_secret: "s"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
session:
  signing_key: "from-file"
provider:
  client_secret: "s"
`)
	t.Setenv("SESSION_SIGNING_KEY", "from-env")
	t.Setenv("SERVER_ADDR", ":7777")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/kurso")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Session.SigningKey)
	require.Equal(t, ":7777", cfg.Server.Addr)
	require.Equal(t, "postgres", cfg.Storage.Driver)
	require.Equal(t, "postgres://localhost/kurso", cfg.Storage.DSN)
}

func TestProdForcesSecureCookie(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
session:
  signing_key: "k"
  secure: false
provider:
  client_secret: "s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Session.Secure)
}
