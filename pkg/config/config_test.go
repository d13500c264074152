package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("nextnest")
	require.NoError(t, err)

	assert.Equal(t, "nextnest", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxUploadSize)
	assert.Equal(t, 24, cfg.JWT.AccessExpiryHours)
	assert.Equal(t, 168, cfg.JWT.RefreshExpiryHours)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.SMTP.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "listings")
	t.Setenv("REDIS_CACHE_TTL", "90s")
	t.Setenv("SMTP_ENABLED", "true")

	cfg, err := Load("nextnest")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "listings", cfg.Storage.S3Bucket)
	assert.Equal(t, 90*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.SMTP.Enabled)
}

func TestGetDSN(t *testing.T) {
	db := DBConfig{
		Host: "db.internal", Port: "5433", User: "nextnest",
		Password: "secret", DBName: "nextnest", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=nextnest password=secret dbname=nextnest sslmode=require",
		db.GetDSN())
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("SMTP_ENABLED", "maybe")

	cfg, err := Load("nextnest")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.DB.MaxIdleConns)
	assert.False(t, cfg.SMTP.Enabled)
}
