package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"PORT", "ENV", "CORS_ORIGINS", "STORE_DRIVER", "SQLITE_PATH", "DATABASE_URL",
	"STORAGE_KEY", "CURRENCY_LOCALE", "IMPORT_RATE_LIMIT", "S3_REGION", "S3_BUCKET",
	"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "S3_ENDPOINT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "data/budgetbook.db", cfg.SQLitePath)
	assert.Equal(t, "budgetbook.document.v1", cfg.StorageKey)
	assert.Equal(t, "en-US", cfg.CurrencyLocale)
	assert.Equal(t, 10, cfg.ImportRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/budget")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("IMPORT_RATE_LIMIT", "3")
	t.Setenv("S3_BUCKET", "backups")
	t.Setenv("ENV", "production")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.ImportRateLimit)
	assert.True(t, cfg.S3.Enabled())
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "redis"}},
		{name: "postgres without url", env: map[string]string{"STORE_DRIVER": "postgres"}},
		{name: "rate limit not a number", env: map[string]string{"IMPORT_RATE_LIMIT": "ten"}},
		{name: "rate limit zero", env: map[string]string{"IMPORT_RATE_LIMIT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
