package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr)
	assert.Equal(t, "http://127.0.0.1:5100", cfg.StoreBaseURL)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 3, cfg.StoreMaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.SubmitTimeout)
	assert.False(t, cfg.DedupEnabled())
	assert.Equal(t, 41500*time.Millisecond, cfg.PendingClaimTTL())
	assert.Less(t, cfg.PendingClaimTTL(), cfg.SubmissionTTL)
}

func TestPendingClaimTTL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want time.Duration
	}{
		{"single attempt", Config{StoreTimeout: 2 * time.Second, StoreMaxAttempts: 1, StoreRetryBackoff: time.Second, SubmissionTTL: time.Hour}, 4 * time.Second},
		{"with backoff", Config{StoreTimeout: time.Second, StoreMaxAttempts: 4, StoreRetryBackoff: 100 * time.Millisecond, SubmissionTTL: time.Hour}, 5*time.Second + 700*time.Millisecond},
		{"capped by submission ttl", Config{StoreTimeout: time.Minute, StoreMaxAttempts: 3, SubmissionTTL: time.Minute}, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.PendingClaimTTL())
		})
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STORE_BASE_URL", "http://flask:5100/")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("REDIS_ADDR", "redis://cache:6379")
	t.Setenv("STORE_MAX_ATTEMPTS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://flask:5100", cfg.StoreBaseURL)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.True(t, cfg.DedupEnabled())
	assert.Equal(t, 1, cfg.StoreMaxAttempts)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "lunalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: 127.0.0.1:9000\nmongo_db: journal_test\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "journal_test", cfg.MongoDB)
}

func TestLoadRejectsRelativeStoreURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STORE_BASE_URL", "flask:5100")

	_, err := Load()
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("loud")
	require.Error(t, err)
}
