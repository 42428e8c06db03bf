package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Parse([]byte("logging:\n  env: prod\n"))
	req.NoError(err)
	req.Equal(":8080", cfg.HTTP.Addr)
	req.Equal("http://localhost:8080", cfg.Site.Origin)
	req.Equal(4*time.Second, cfg.Site.PanelPeriod)
	req.Equal(3*time.Second, cfg.Site.ParticipantPeriod)
	req.Equal("#1f2937", cfg.QR.Foreground)
	req.Equal("prod", cfg.Logging.Env)
	req.Equal("epanel", cfg.Logging.Service)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("qr:\n  foreground: black\n"))
	require.Error(t, err)

	_, err = Parse([]byte("site:\n  origin: not a url\n"))
	require.Error(t, err)

	_, err = Parse([]byte("http: [\n"))
	require.Error(t, err)
}

func TestLoadConfig_FromPath(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	req.NoError(os.WriteFile(path, []byte("site:\n  origin: https://epanel.example\n  panelPeriod: 2s\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal("https://epanel.example", cfg.Site.Origin)
	req.Equal(2*time.Second, cfg.Site.PanelPeriod)
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "config.yaml")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.Site.Origin)
}
