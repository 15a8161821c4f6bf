package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("STOCKLENS_PROVIDER", "")
	t.Setenv("STOCKLENS_LOG_LEVEL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "yahoo", cfg.DataSource.Provider)
	require.Equal(t, 15*time.Second, cfg.DataSource.Timeout)
	require.Equal(t, 5*time.Minute, cfg.DataSource.CacheTTL)
	require.Equal(t, 50, cfg.Analytics.Buckets)
	require.Equal(t, 14, cfg.Analytics.RSIPeriod)
	require.Equal(t, "1y", cfg.Schedule.Period)
	require.Equal(t, "data/stocklens.db", cfg.Database.SQLitePath)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_source:
  provider: vstrader
  base_url: https://api.example.test
  timeout: 3s
analytics:
  buckets: 20
log:
  level: debug
  format: json
`), 0o644))

	t.Setenv("SQLITE_PATH", "/tmp/custom.db")
	t.Setenv("STOCKLENS_RISK_FREE_RATE", "0.04")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "vstrader", cfg.DataSource.Provider)
	require.Equal(t, 3*time.Second, cfg.DataSource.Timeout)
	require.Equal(t, 20, cfg.Analytics.Buckets)
	require.InDelta(t, 0.04, cfg.Analytics.RiskFreeRate, 1e-12)
	require.Equal(t, "/tmp/custom.db", cfg.Database.SQLitePath)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	cfg.DataSource.Provider = "vstrader"
	require.Error(t, cfg.Validate(), "vstrader needs a base url")

	cfg.DataSource.Provider = "bloomberg"
	require.Error(t, cfg.Validate())

	cfg.DataSource.Provider = "mock"
	cfg.Schedule.Period = "10y"
	require.Error(t, cfg.Validate())
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("STOCKLENS_TIMEOUT", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
