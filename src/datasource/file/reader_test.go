package file

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "2) POP_GRUPO QUINQUENAL"

// writeWorkbook 生成带5行标题说明的测试工作簿
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(testSheet)
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	require.NoError(t, f.SetCellValue(testSheet, "A1", "PROJEÇÕES DA POPULAÇÃO"))
	require.NoError(t, f.SetCellValue(testSheet, "A3", "População por grupo quinquenal"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+6)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(testSheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "projecoes.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadSheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"GRUPO ETÁRIO", "SEXO", "CÓD.", "SIGLA", "LOCAL", 2024, 2025},
		{"00-04 ", "Homens", 0, "BR", "Brasil", 6755126, 6702206.5},
		{"90+", "Mulheres", 0, "BR", "Brasil"},
	})

	sheet, err := ReadSheet(path, testSheet, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"GRUPO ETÁRIO", "SEXO", "CÓD.", "SIGLA", "LOCAL", "2024", "2025"}, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{"00-04 ", "Homens", "0", "BR", "Brasil", "6755126", "6702206.5"}, sheet.Rows[0])
	assert.Equal(t, []string{"90+", "Mulheres", "0", "BR", "Brasil", "", ""}, sheet.Rows[1], "short rows are padded")
}

func TestReadSheetMissingSheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{{"GRUPO ETÁRIO"}})

	_, err := ReadSheet(path, "1) POP_TOTAL", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadSheetTooShort(t *testing.T) {
	path := writeWorkbook(t, nil)

	_, err := ReadSheet(path, testSheet, 5)
	assert.Error(t, err)
}

func TestReadSheetMissingFile(t *testing.T) {
	_, err := ReadSheet(filepath.Join(t.TempDir(), "nope.xlsx"), testSheet, 5)
	assert.Error(t, err)
}
