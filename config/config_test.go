package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault verifies the out-of-the-box configuration
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Empty(t, cfg.BaseURL)
	assert.Empty(t, cfg.Cache.DSN)
	assert.Equal(t, "6h", cfg.Cache.TTL)
}

// TestLoadFile verifies YAML values merge over the defaults
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
base_url: "http://localhost:8000/bible/readings/"
cache:
  dsn: "/tmp/lectio.db"
  ttl: "30m"
`), 0o644))

	cfg := Default()
	require.NoError(t, loadFile(cfg, path))

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "http://localhost:8000/bible/readings/", cfg.BaseURL)
	assert.Equal(t, "/tmp/lectio.db", cfg.Cache.DSN)
	assert.Equal(t, "30m", cfg.Cache.TTL)
}

// TestLoadFilePartial verifies keys absent from the file keep their
// defaults
func TestLoadFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":3000\"\n"), 0o644))

	cfg := Default()
	require.NoError(t, loadFile(cfg, path))

	assert.Equal(t, ":3000", cfg.Listen)
	assert.Equal(t, "6h", cfg.Cache.TTL)
}

// TestLoadFileMissing verifies a nonexistent file is not an error
func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	require.NoError(t, loadFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Equal(t, Default(), cfg)
}

// TestLoadFileMalformed verifies unparseable YAML is an error
func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o644))

	assert.Error(t, loadFile(Default(), path))
}

// TestApplyEnv verifies environment variables override file values
func TestApplyEnv(t *testing.T) {
	t.Setenv("LECTIO_LISTEN", ":7070")
	t.Setenv("LECTIO_BASE_URL", "http://mirror.example.com/readings/")
	t.Setenv("LECTIO_CACHE_DSN", "/var/lib/lectio/cache.db")
	t.Setenv("LECTIO_CACHE_TTL", "1h")

	cfg := Default()
	applyEnv(cfg)

	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, "http://mirror.example.com/readings/", cfg.BaseURL)
	assert.Equal(t, "/var/lib/lectio/cache.db", cfg.Cache.DSN)
	assert.Equal(t, "1h", cfg.Cache.TTL)
}

// TestApplyEnvPort verifies PORT wins over LECTIO_LISTEN
func TestApplyEnvPort(t *testing.T) {
	t.Setenv("LECTIO_LISTEN", ":7070")
	t.Setenv("PORT", "8081")

	cfg := Default()
	applyEnv(cfg)

	assert.Equal(t, ":8081", cfg.Listen)
}
