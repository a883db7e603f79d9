package processor

import (
	"PopulationPyramid/src/utils"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/unicode/norm"
)

// idColumns 宽表中不随年份变化的列
var idColumns = []string{ColAgeGroup, ColSex, ColCode, ColAbbrev, ColLocality}

// Reshaper 把宽格式的预测表转换成整理后的长表
type Reshaper struct {
	Locality   string // 保留的地区, 如 "Brasil"
	ExcludeSex string // 排除的汇总行, 如 "Ambos"
}

func NewReshaper(locality string) *Reshaper {
	return &Reshaper{Locality: locality, ExcludeSex: SexBoth}
}

type yearColumn struct {
	index int
	date  string
}

// Reshape 融化年份列, 过滤地区和性别, 连接年龄组代表年龄
// 返回的 DataFrame 列为 OutputColumns, 人口数值与输入完全一致
func (r *Reshaper) Reshape(header []string, rows [][]string) (dataframe.DataFrame, error) {
	idIndex := make(map[string]int, len(idColumns))
	var years []yearColumn

	for i, h := range header {
		name := normalizeHeader(h)
		if name == "" {
			continue
		}
		if isIDColumn(name) {
			idIndex[name] = i
			continue
		}
		year, err := parseYear(name)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("column %q is neither an id nor a year: %w", h, err)
		}
		years = append(years, yearColumn{index: i, date: year.Format(time.DateOnly)})
	}
	for _, name := range idColumns {
		if _, ok := idIndex[name]; !ok {
			return dataframe.DataFrame{}, fmt.Errorf("missing column %q", name)
		}
	}

	n := len(rows) * len(years)
	ages := make([]string, 0, n)
	sexes := make([]string, 0, n)
	codes := make([]string, 0, n)
	abbrevs := make([]string, 0, n)
	locals := make([]string, 0, n)
	dates := make([]string, 0, n)
	pops := make([]float64, 0, n)

	// 与 melt 一致: 先按年份, 再按行
	for _, y := range years {
		for ri, row := range rows {
			pop, err := utils.ParseFloat(strings.TrimSpace(cellAt(row, y.index)))
			if err != nil {
				return dataframe.DataFrame{}, fmt.Errorf("row %d year %s: %w", ri+1, y.date[:4], err)
			}
			ages = append(ages, strings.TrimSpace(cellAt(row, idIndex[ColAgeGroup])))
			sexes = append(sexes, cellAt(row, idIndex[ColSex]))
			codes = append(codes, cellAt(row, idIndex[ColCode]))
			abbrevs = append(abbrevs, cellAt(row, idIndex[ColAbbrev]))
			locals = append(locals, cellAt(row, idIndex[ColLocality]))
			dates = append(dates, y.date)
			pops = append(pops, pop)
		}
	}

	df := dataframe.New(
		series.New(ages, series.String, ColAgeGroup),
		series.New(sexes, series.String, ColSex),
		series.New(codes, series.String, ColCode),
		series.New(abbrevs, series.String, ColAbbrev),
		series.New(locals, series.String, ColLocality),
		series.New(dates, series.String, ColYear),
		series.New(pops, series.Float, ColPopulation),
	).Drop(ColCode)

	df = df.Filter(
		dataframe.F{Colname: ColLocality, Comparator: series.Eq, Comparando: r.Locality},
	).Filter(
		dataframe.F{Colname: ColSex, Comparator: series.Neq, Comparando: r.ExcludeSex},
	).Drop([]string{ColLocality, ColAbbrev})

	df = df.LeftJoin(AgeGroupFrame(), ColAgeGroup).Select(OutputColumns)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("reshape: %w", df.Err)
	}
	return df, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// normalizeHeader 统一 Unicode 组合形式, 避免 "ETÁRIO" 的不同编码导致匹配失败
func normalizeHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}

func isIDColumn(name string) bool {
	for _, c := range idColumns {
		if c == name {
			return true
		}
	}
	return false
}

// parseYear 接受 "2024" 或数值形式的 "2024.0"
func parseYear(s string) (time.Time, error) {
	if t, err := time.Parse("2006", s); err == nil {
		return t, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > 9999 {
		return time.Time{}, fmt.Errorf("invalid year %q", s)
	}
	return time.Date(int(f), time.January, 1, 0, 0, 0, 0, time.UTC), nil
}
