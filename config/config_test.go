package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
db:
  driver: sqlite
  sqlite_path: test.db
auth:
  jwt_secret: file-secret-0123456789
accreditation:
  default_slot_capacity: 4
`)
	t.Setenv("MKO_SERVER_PORT", "9191")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.SQLitePath)
	assert.Equal(t, 4, cfg.Accreditation.DefaultSlotCapacity)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, time.Minute, cfg.Accreditation.ApplyRateWindow)
}

func TestLoad_SecretFromEnvironmentOnly(t *testing.T) {
	path := writeConfig(t, "db:\n  driver: sqlite\n")
	t.Setenv("MKO_AUTH_JWT_SECRET", "env-secret-0123456789")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret-0123456789", cfg.Auth.JWTSecret)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:        ServerConfig{Port: 8080},
			Database:      DatabaseConfig{Driver: DriverPostgres},
			Auth:          AuthConfig{JWTSecret: "0123456789abcdef"},
			Accreditation: AccreditationConfig{DefaultSlotCapacity: 3},
		}
	}

	ok := base()
	assert.NoError(t, ok.Validate())

	cases := map[string]func(*Config){
		"missing secret": func(c *Config) { c.Auth.JWTSecret = "" },
		"short secret":   func(c *Config) { c.Auth.JWTSecret = "short" },
		"bad port":       func(c *Config) { c.Server.Port = 70000 },
		"bad driver":     func(c *Config) { c.Database.Driver = "mysql" },
		"zero capacity":  func(c *Config) { c.Accreditation.DefaultSlotCapacity = 0 },
	}
	for name, mutate := range cases {
		c := base()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}
