package render

import (
	"PopulationPyramid/src/processor"
	"PopulationPyramid/src/utils"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
)

// Bar 金字塔中的一根横条
type Bar struct {
	Age        float64 // 年龄组代表年龄, 即纵坐标
	Population float64
}

// Frame 一个月的金字塔数据
type Frame struct {
	Index  int
	Date   time.Time
	Male   []Bar
	Female []Bar
}

// Total 两性合计人口, 忽略缺失值
func (f Frame) Total() float64 {
	values := make([]float64, 0, len(f.Male)+len(f.Female))
	for _, bars := range [][]Bar{f.Male, f.Female} {
		for _, b := range bars {
			if !math.IsNaN(b.Population) {
				values = append(values, b.Population)
			}
		}
	}
	return floats.Sum(values)
}

// Dataset 月度数据按日期索引
type Dataset struct {
	male   map[time.Time][]Bar
	female map[time.Time][]Bar
}

// LoadDataset 读取 data.csv
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset 从 CSV 读取月度数据, 列名与 processor.OutputColumns 一致
func ReadDataset(r io.Reader) (*Dataset, error) {
	df := dataframe.ReadCSV(r, dataframe.WithTypes(map[string]series.Type{
		processor.ColYear:       series.String,
		processor.ColPopulation: series.Float,
		processor.ColSex:        series.String,
		processor.ColAgeGroup:   series.String,
		processor.ColAge:        series.Float,
	}))
	if df.Err != nil {
		return nil, fmt.Errorf("read dataset: %w", df.Err)
	}
	for _, col := range []string{processor.ColYear, processor.ColPopulation, processor.ColSex, processor.ColAge} {
		if !utils.HasColumn(df, col) {
			return nil, fmt.Errorf("dataset missing column %q", col)
		}
	}

	dates := df.Col(processor.ColYear).Records()
	pops := df.Col(processor.ColPopulation).Float()
	sexes := df.Col(processor.ColSex).Records()
	ages := df.Col(processor.ColAge).Float()

	ds := &Dataset{
		male:   make(map[time.Time][]Bar),
		female: make(map[time.Time][]Bar),
	}
	for i := range dates {
		d, err := time.Parse(time.DateOnly, dates[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		bar := Bar{Age: ages[i], Population: pops[i]}
		switch sexes[i] {
		case processor.SexMale:
			ds.male[d] = append(ds.male[d], bar)
		case processor.SexFemale:
			ds.female[d] = append(ds.female[d], bar)
		}
	}
	return ds, nil
}

// Frame 取某月的数据, 没有数据时条形为空
func (ds *Dataset) Frame(index int, date time.Time) Frame {
	return Frame{
		Index:  index,
		Date:   date,
		Male:   ds.male[date],
		Female: ds.female[date],
	}
}

// Dates 数据中出现的所有日期, 升序
func (ds *Dataset) Dates() []time.Time {
	seen := make(map[time.Time]bool)
	for d := range ds.male {
		seen[d] = true
	}
	for d := range ds.female {
		seen[d] = true
	}
	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// MonthEnds first 与 last 之间 (含) 的每个月末
func MonthEnds(first, last time.Time) []time.Time {
	var out []time.Time
	m := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	for {
		me := m.AddDate(0, 1, -1)
		if me.Before(first) {
			m = m.AddDate(0, 1, 0)
			continue
		}
		if me.After(last) {
			return out
		}
		out = append(out, me)
		m = m.AddDate(0, 1, 0)
	}
}
