package utils

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// SaveToExcel 将DataFrame写入xlsx, 第一行为列名
// 数值列写为数值单元格, 缺失值留空
func SaveToExcel(df dataframe.DataFrame, filePath, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	// 写入列名
	colNames := df.Names()
	header := make([]interface{}, len(colNames))
	for i, name := range colNames {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	cols := make([]series.Series, len(colNames))
	for i, name := range colNames {
		cols[i] = df.Col(name)
	}

	// 写入数据
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		row := make([]interface{}, len(cols))
		for colIdx, col := range cols {
			row[colIdx] = cellValue(col, rowIdx)
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func cellValue(col series.Series, i int) interface{} {
	elem := col.Elem(i)
	if elem.IsNA() {
		return nil
	}
	switch col.Type() {
	case series.Float:
		if v := elem.Float(); !math.IsNaN(v) {
			return v
		}
		return nil
	case series.Int:
		v, err := elem.Int()
		if err != nil {
			return nil
		}
		return v
	case series.Bool:
		v, err := elem.Bool()
		if err != nil {
			return nil
		}
		return v
	}
	return elem.String()
}

// ParseFloat 空字符串和 "NaN" 都返回 NaN
func ParseFloat(s string) (float64, error) {
	if s == "" || s == "NaN" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
