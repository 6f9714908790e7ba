package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "console", cfg.Logger().Format)
	assert.Equal(t, "stridecanvas", cfg.Logger().ServiceName)

	assert.Equal(t, 20.0, cfg.Canvas().GridSize)
	assert.False(t, cfg.Canvas().SnapToGrid)
	assert.Equal(t, "line", cfg.Canvas().DefaultConnector)

	assert.Equal(t, "Diagram Threat Model", cfg.Analysis().ModelName)
	assert.Empty(t, cfg.Analysis().ExternalEngine)
	assert.Equal(t, "json", cfg.Analysis().ReportFormat)
	assert.Equal(t, 500*time.Millisecond, cfg.Analysis().WatchDebounce)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("canvas.grid_size", 10.0)
	v.Set("canvas.snap_to_grid", true)
	v.Set("analysis.external_engine", "acme-analyzer")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Canvas().GridSize)
	assert.True(t, cfg.Canvas().SnapToGrid)
	assert.Equal(t, "acme-analyzer", cfg.Analysis().ExternalEngine)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value any
	}{
		{"zero grid size", "canvas.grid_size", 0},
		{"negative grid size", "canvas.grid_size", -5},
		{"unknown connector", "canvas.default_connector", "zigzag"},
		{"unknown report format", "analysis.report_format", "xml"},
		{"negative debounce", "analysis.watch_debounce", "-1s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tc.key, tc.value)

			_, err := NewConfigFromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()

	cfg.SetCanvasGridSize(40)
	cfg.SetCanvasSnapToGrid(true)
	cfg.SetAnalysisModelName("Payment Flow")
	cfg.SetAnalysisExternalEngine("acme")

	assert.Equal(t, 40.0, cfg.Canvas().GridSize)
	assert.True(t, cfg.Canvas().SnapToGrid)
	assert.Equal(t, "Payment Flow", cfg.Analysis().ModelName)
	assert.Equal(t, "acme", cfg.Analysis().ExternalEngine)
}
