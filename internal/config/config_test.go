package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill the missing keys", func(t *testing.T) {
		// Given: a config file that only picks the terminal ui
		path := writeConfig(t, "ui: terminal\n")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: everything else falls back to the defaults
		require.NoError(t, err)
		assert.Equal(t, UITerminal, conf.UI)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, 24*time.Hour, conf.SessionTTL)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 4500*time.Millisecond, conf.Presentation.BannerDuration)
		assert.Equal(t, 250*time.Millisecond, conf.Presentation.FrameInterval)
	})

	t.Run("File values are read", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
storage: redis
redis:
  host: cache
  port: "6380"
presentation:
  banner-duration: 1s
  celebration-delay: 0s
  celebration-duration: 500ms
  frame-interval: 100ms
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())

		opts := conf.Presentation.Options()
		assert.Equal(t, time.Second, opts.BannerDuration)
		assert.Equal(t, 500*time.Millisecond, opts.CelebrationDuration)
		assert.Equal(t, 100*time.Millisecond, opts.FrameInterval)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8080\"\n")
		t.Setenv("HTTP_PORT", "7070")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Unknown ui", func(t *testing.T) {
		path := writeConfig(t, "ui: gui\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Unknown storage", func(t *testing.T) {
		path := writeConfig(t, "storage: sqlite\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
