package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigsDefaults(t *testing.T) {
	cfg, style, err := loadConfigs(t.TempDir(), "config.json", "style.json")
	require.NoError(t, err)

	assert.Equal(t, "2) POP_GRUPO QUINQUENAL", cfg.Source.SheetName)
	assert.Equal(t, 5, cfg.Source.SkipRows)
	assert.Equal(t, "Brasil", cfg.Locality)
	assert.Equal(t, 16, cfg.Render.Workers)
	assert.Equal(t, 120, cfg.Render.HoldFrames)
	assert.Equal(t, filepath.Join("data", "projecoes_2024_tab2_grupo_quinquenal.xlsx"), cfg.SourcePath())
	assert.Equal(t, filepath.Join("data", "data.csv"), cfg.OutputPath())

	require.Len(t, cfg.Series, 2)
	assert.Equal(t, SeriesConfig{Sex: "Homens", Method: "time"}, cfg.Series[0])
	assert.Equal(t, SeriesConfig{Sex: "Mulheres", Method: "spline"}, cfg.Series[1])

	assert.Equal(t, 300, style.DPI)
	assert.Equal(t, 4.9, style.BarHeight)
}

func TestLoadConfigsOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{
		"source": {"http_timeout": "30s"},
		"render": {"workers": 4}
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.json"), []byte(`{"dpi": 72}`), 0644))

	cfg, style, err := loadConfigs(dir, "config.json", "style.json")
	require.NoError(t, err)

	assert.Equal(t, Duration(30*time.Second), cfg.Source.Timeout)
	assert.Equal(t, 4, cfg.Render.Workers)
	assert.Equal(t, 120, cfg.Render.HoldFrames, "absent keys keep defaults")
	assert.Equal(t, "Brasil", cfg.Locality)
	assert.Equal(t, 72, style.DPI)
	assert.Equal(t, 16.0, style.WidthInches)
}

func TestLoadConfigsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.json"), []byte(`{"dpi": "x"}`), 0644))

	_, _, err := loadConfigs(dir, "config.json", "style.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config")
	assert.Contains(t, err.Error(), "Style")
}

func TestGridAndMonths(t *testing.T) {
	cfg := DefaultConfig()

	start, end, err := cfg.Grid()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2070, 1, 1, 0, 0, 0, 0, time.UTC), end)

	first, last, err := cfg.Months()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2070, 2, 1, 0, 0, 0, 0, time.UTC), last)

	cfg.GridEnd = "2070"
	_, _, err = cfg.Grid()
	assert.Error(t, err)
}

func TestRGBColor(t *testing.T) {
	c := RGB{0.6, 0.25, 0.25}.Color(1)
	assert.Equal(t, uint8(153), c.R)
	assert.Equal(t, uint8(64), c.G)
	assert.Equal(t, uint8(255), c.A)

	assert.InDelta(t, 77, float64(RGB{}.Color(0.3).A), 1)
	assert.Equal(t, uint8(0), RGB{-1, 0, 0}.Color(2).R)
}
