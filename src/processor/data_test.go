package processor

import (
	"PopulationPyramid/src/config"
	"PopulationPyramid/src/storage"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testProcessor(t *testing.T, url string) (*DataProcessor, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Source.URL = url
	cfg.Source.Timeout = config.Duration(5 * time.Second)
	cfg.GridStart = "2024-01-01"
	cfg.GridEnd = "2028-01-01"
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.ExportXLSX = true

	logger, err := storage.NewLoggerWithConsole(filepath.Join(dir, "app.log"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	p, err := NewDataProcessor(cfg, logger)
	require.NoError(t, err)
	return p, cfg
}

func TestDataProcessorRun(t *testing.T) {
	src := buildProjectionWorkbook(t, []int{2024, 2025, 2026, 2027, 2028}, syntheticPopulation)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.ServeFile(w, r, src)
	}))
	defer srv.Close()

	p, cfg := testProcessor(t, srv.URL+"/projecoes.xlsx")
	require.NoError(t, p.Run(context.Background()))

	tidyFile, err := os.Open(cfg.TidyPath())
	require.NoError(t, err)
	defer tidyFile.Close()
	tidy := dataframe.ReadCSV(tidyFile)
	require.NoError(t, tidy.Err)
	assert.Equal(t, OutputColumns, tidy.Names())
	assert.Equal(t, 5*2*len(AgeGroups), tidy.Nrow())

	dataFile, err := os.Open(cfg.OutputPath())
	require.NoError(t, err)
	defer dataFile.Close()
	monthly := dataframe.ReadCSV(dataFile)
	require.NoError(t, monthly.Err)
	assert.Equal(t, OutputColumns, monthly.Names())
	// 2024-01 .. 2028-01 共 49 个月
	assert.Equal(t, 49*2*len(AgeGroups), monthly.Nrow())

	xl, err := excelize.OpenFile(filepath.Join(cfg.DataDir, "data.xlsx"))
	require.NoError(t, err)
	defer xl.Close()
	rows, err := xl.GetRows("data")
	require.NoError(t, err)
	assert.Len(t, rows, monthly.Nrow()+1)
	assert.Equal(t, OutputColumns, rows[0])

	// 第二次运行使用缓存, 不再下载
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, int32(1), hits.Load())
}

func TestDataProcessorRunDownloadFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p, cfg := testProcessor(t, srv.URL+"/missing.xlsx")
	err := p.Run(context.Background())
	assert.ErrorContains(t, err, "404")

	_, err = os.Stat(cfg.OutputPath())
	assert.True(t, os.IsNotExist(err))
}

func TestNewDataProcessorBadGrid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GridEnd = "2070"
	_, err := NewDataProcessor(cfg, nil)
	assert.ErrorContains(t, err, "grid_end")
}
