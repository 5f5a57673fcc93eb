package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "catalog.events", cfg.RabbitMQExchange)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.AuthRequired)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_DSN", "host=db user=catalog dbname=catalog")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}

func TestValidate(t *testing.T) {
	valid := Config{DBDriver: DriverMemory, TokenTTL: time.Hour}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"postgres without dsn", func(c *Config) { c.DBDriver = DriverPostgres }},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }},
		{"auth without secret", func(c *Config) { c.AuthRequired = true }},
		{"zero token ttl", func(c *Config) { c.TokenTTL = 0 }},
	}

	require.NoError(t, valid.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
