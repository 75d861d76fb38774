package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/landledger/config"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Guest.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Mock.LoadLatency)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600))
	t.Setenv("LANDLEDGER_LOGGING_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	base, err := config.Load(writeConfig(t, path, ""))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		errMsg string
	}{
		{"porta", func(c *config.Config) { c.Server.Port = 0 }, "porta inválida"},
		{"postgres sem dsn", func(c *config.Config) { c.Database.Driver = "postgres" }, "database.dsn"},
		{"driver", func(c *config.Config) { c.Database.Driver = "mysql" }, "driver de banco"},
		{"guest", func(c *config.Config) { c.Guest.Backend = "s3" }, "backend de visitante"},
		{"file sem dir", func(c *config.Config) { c.Guest.Backend = "file"; c.Guest.Dir = "" }, "guest.dir"},
		{"segredo", func(c *config.Config) { c.Auth.JWTSecret = "" }, "jwt_secret"},
		{"carteira", func(c *config.Config) { c.Wallet.Verifier = "ledger" }, "integração de carteira"},
		{"login", func(c *config.Config) { c.Server.LoginBurst = -1 }, "limites de login"},
		{"latência", func(c *config.Config) { c.Mock.Latency = -time.Second }, "negativas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func writeConfig(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
