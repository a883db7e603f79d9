// reader.go
package file

import (
	"fmt"

	"github.com/tealeg/xlsx"
)

// Sheet 工作表的原始单元格, 数值保持未格式化的原值
type Sheet struct {
	Header []string
	Rows   [][]string
}

// ReadSheet 读取 filePath 中名为 sheetName 的工作表
// 跳过前 skipRows 行, 下一行作为表头, 之后的行作为数据
func ReadSheet(filePath, sheetName string, skipRows int) (*Sheet, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("xlsx open file %s: %w", filePath, err)
	}

	sheet, ok := xlFile.Sheet[sheetName]
	if !ok || sheet == nil {
		return nil, fmt.Errorf("sheet %q not found in %s", sheetName, filePath)
	}

	return convertSheet(sheet, skipRows)
}

// convertSheet 将xlsx.Sheet转换为表头和行
func convertSheet(sheet *xlsx.Sheet, skipRows int) (*Sheet, error) {
	if len(sheet.Rows) <= skipRows {
		return nil, fmt.Errorf("sheet %q has %d rows, header expected after %d", sheet.Name, len(sheet.Rows), skipRows)
	}

	header := rowValues(sheet.Rows[skipRows])
	out := &Sheet{Header: header}

	for _, row := range sheet.Rows[skipRows+1:] {
		values := rowValues(row)
		// 补齐短行, 超出表头的列丢弃
		for len(values) < len(header) {
			values = append(values, "")
		}
		out.Rows = append(out.Rows, values[:len(header)])
	}
	return out, nil
}

func rowValues(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	values := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		if cell != nil {
			values[i] = cell.Value
		}
	}
	return values
}
