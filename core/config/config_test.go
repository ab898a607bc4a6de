package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "CL_Aeropuerto_Master_Compensaciones.xlsx", cfg.Report.MasterPath)
	assert.Equal(t, "transacciones", cfg.Report.TransactionsDir)
	assert.Equal(t, "strict", cfg.Report.MasterPolicy)
	assert.Equal(t, "Ingresar Manualmente", cfg.Report.ManualMarker)
	assert.False(t, cfg.Report.FilterReasons)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 64, cfg.Server.MaxUploadMB)
	assert.Equal(t, "reports", cfg.Storage.Bucket)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	// Registered first so the values written by the .env file are restored afterwards.
	t.Setenv("REPORT_MASTER_PATH", "")
	t.Setenv("REPORT_FILTER_REASONS", "")
	t.Setenv("SERVER_PORT", "")

	dir := t.TempDir()
	env := "REPORT_MASTER_PATH=/data/master.csv\nREPORT_FILTER_REASONS=true\nSERVER_PORT=9090\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/data/master.csv", cfg.Report.MasterPath)
	assert.True(t, cfg.Report.FilterReasons)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestReportConfig_ReasonList(t *testing.T) {
	c := ReportConfig{AllowedReasons: " usuario pierde el vuelo || otro motivo |"}
	assert.Equal(t, []string{"usuario pierde el vuelo", "otro motivo"}, c.ReasonList())
	assert.Empty(t, ReportConfig{}.ReasonList())
}
