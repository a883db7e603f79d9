package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var console bytes.Buffer

	logger, err := NewLoggerWithConsole(path, &console)
	require.NoError(t, err)

	logger.Info("Saved plots/00000.png")
	logger.Error("boom")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "] INFO: Saved plots/00000.png")
	assert.Contains(t, lines[1], "] ERROR: boom")
	assert.Equal(t, string(data), console.String())

	// 关闭之后写入不应panic
	logger.Info("after close")
}

func TestCheckRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewLoggerWithConsole(path, nil)
	require.NoError(t, err)
	defer logger.Close()

	logger.Info(strings.Repeat("x", 64))
	require.NoError(t, logger.CheckRotate("1024"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "below the limit nothing rotates")

	require.NoError(t, logger.CheckRotate("2 * 16"))
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	logger.Info("fresh")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fresh")
	assert.NotContains(t, string(data), "xxxx")
}

func TestEval(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), eval("10 * 1024 * 1024"))
	assert.Equal(t, int64(512), eval("512"))
	assert.Equal(t, int64(0), eval("ten"))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "WARNING", WARNING.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
