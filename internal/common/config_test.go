package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "https://m.stock.naver.com", config.Clients.Naver.MobileBaseURL)
	assert.Equal(t, "https://api.stock.naver.com", config.Clients.Naver.WorldBaseURL)
	assert.Equal(t, 5, config.Clients.Naver.RateLimit)
	assert.Equal(t, 20*time.Second, config.Clients.Naver.GetTimeout())
	assert.False(t, config.IsProduction())
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"

[server]
port = 9090

[clients.naver]
rate_limit = 2
timeout = "5s"

[logging]
level = "debug"
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 2, config.Clients.Naver.RateLimit)
	assert.Equal(t, 5*time.Second, config.Clients.Naver.GetTimeout())
	assert.Equal(t, "debug", config.Logging.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "https://m.stock.naver.com", config.Clients.Naver.MobileBaseURL)
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`environment = [broken`), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("KBID_ENV", "prod")
	t.Setenv("KBID_PORT", "7070")
	t.Setenv("KBID_NAVER_MOBILE_BASE_URL", "http://localhost:9999")
	t.Setenv("KBID_NAVER_TIMEOUT", "3s")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "http://localhost:9999", config.Clients.Naver.MobileBaseURL)
	assert.Equal(t, 3*time.Second, config.Clients.Naver.GetTimeout())
}

func TestGetTimeout_InvalidFallsBack(t *testing.T) {
	naver := NaverConfig{Timeout: "soon"}
	assert.Equal(t, 20*time.Second, naver.GetTimeout())
}
