package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 100, cfg.PageMaxLimit)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "1500ms")
	t.Setenv("PAGE_MAX_LIMIT", "50")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.PageMaxLimit)
	assert.True(t, cfg.Minio.UseSSL)
}
