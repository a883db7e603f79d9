package processor

import (
	"PopulationPyramid/src/utils"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/interp"
)

// Method 每日网格上的补值方式
type Method string

const (
	MethodTime   Method = "time"   // 按时间线性插值
	MethodSpline Method = "spline" // 三次样条 (not-a-knot)
)

// SeriesSpec 一个性别序列及其插值方式
type SeriesSpec struct {
	Sex    string
	Method Method
}

// DefaultSeries 男性线性, 女性样条
var DefaultSeries = []SeriesSpec{
	{Sex: SexMale, Method: MethodTime},
	{Sex: SexFemale, Method: MethodSpline},
}

// Interpolator 把年度长表插值为月度长表
type Interpolator struct {
	Start  time.Time // 每日网格第一天
	End    time.Time // 每日网格最后一天 (含)
	Series []SeriesSpec
}

func NewInterpolator(start, end time.Time, specs []SeriesSpec) *Interpolator {
	if len(specs) == 0 {
		specs = DefaultSeries
	}
	return &Interpolator{Start: start, End: end, Series: specs}
}

type observation struct {
	date  time.Time
	value float64
}

// Interpolate 对每个性别: 透视为 年份×年龄组, 铺到每日网格, 插值, 取月末均值, 再展开为长表
// 各性别结果按 Series 顺序拼接, 并重新连接代表年龄
func (ip *Interpolator) Interpolate(tidy dataframe.DataFrame) (dataframe.DataFrame, error) {
	if ip.End.Before(ip.Start) {
		return dataframe.DataFrame{}, fmt.Errorf("grid end %s before start %s",
			ip.End.Format(time.DateOnly), ip.Start.Format(time.DateOnly))
	}

	for _, col := range []string{ColYear, ColPopulation, ColSex, ColAgeGroup} {
		if !utils.HasColumn(tidy, col) {
			return dataframe.DataFrame{}, fmt.Errorf("missing column %q", col)
		}
	}

	years := tidy.Col(ColYear).Records()
	pops := tidy.Col(ColPopulation).Float()
	sexes := tidy.Col(ColSex).Records()
	bands := tidy.Col(ColAgeGroup).Records()
	if tidy.Err != nil {
		return dataframe.DataFrame{}, tidy.Err
	}

	months := monthEnds(ip.Start, ip.End)

	var out dataframe.DataFrame
	for i, spec := range ip.Series {
		pivot, err := pivotBySex(spec.Sex, years, pops, sexes, bands)
		if err != nil {
			return dataframe.DataFrame{}, err
		}

		df, err := ip.monthly(spec, pivot, months)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%s: %w", spec.Sex, err)
		}
		if i == 0 {
			out = df
		} else {
			out = out.RBind(df)
		}
	}

	out = out.LeftJoin(AgeGroupFrame(), ColAgeGroup).Select(OutputColumns)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("interpolate: %w", out.Err)
	}
	return out, nil
}

// pivotBySex 按 年龄组 -> 日期 汇总人口 (sum), 缺失值不参与
func pivotBySex(sex string, years []string, pops []float64, sexes, bands []string) (map[string]map[time.Time]float64, error) {
	pivot := make(map[string]map[time.Time]float64)
	for i := range years {
		if sexes[i] != sex || math.IsNaN(pops[i]) {
			continue
		}
		d, err := time.Parse(time.DateOnly, years[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		cells := pivot[bands[i]]
		if cells == nil {
			cells = make(map[time.Time]float64)
			pivot[bands[i]] = cells
		}
		cells[d] += pops[i]
	}
	return pivot, nil
}

type monthAcc struct {
	sum   float64
	count int
}

func (ip *Interpolator) monthly(spec SeriesSpec, pivot map[string]map[time.Time]float64, months []time.Time) (dataframe.DataFrame, error) {
	labels := make([]string, 0, len(pivot))
	for band := range pivot {
		labels = append(labels, band)
	}
	sort.Strings(labels)

	days := int(ip.End.Sub(ip.Start).Hours()/24) + 1
	acc := make([][]monthAcc, len(labels))

	for b, band := range labels {
		obs := gridObservations(pivot[band], ip.Start, ip.End)
		acc[b] = make([]monthAcc, len(months))
		if len(obs) == 0 {
			continue
		}

		xs := make([]float64, len(obs))
		ys := make([]float64, len(obs))
		for i, o := range obs {
			xs[i] = dayOffset(ip.Start, o.date)
			ys[i] = o.value
		}
		predict, err := fitPredictor(spec.Method, xs, ys)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("band %s: %w", band, err)
		}

		m := 0
		for d := int(xs[0]); d < days; d++ {
			day := ip.Start.AddDate(0, 0, d)
			for months[m].Before(day) {
				m++
			}
			acc[b][m].sum += predict(float64(d))
			acc[b][m].count++
		}
	}

	var (
		dates  []string
		values []float64
		sexes  []string
		groups []string
	)
	// 与 stack 一致: 先按月份, 再按年龄组; 没有数据的月份丢弃
	for m, me := range months {
		for b, band := range labels {
			a := acc[b][m]
			if a.count == 0 {
				continue
			}
			dates = append(dates, me.Format(time.DateOnly))
			values = append(values, a.sum/float64(a.count))
			sexes = append(sexes, spec.Sex)
			groups = append(groups, band)
		}
	}

	return dataframe.New(
		series.New(dates, series.String, ColYear),
		series.New(values, series.Float, ColPopulation),
		series.New(sexes, series.String, ColSex),
		series.New(groups, series.String, ColAgeGroup),
	), nil
}

// gridObservations 只保留落在网格上的观测值 (与 reindex 一致), 按日期排序
func gridObservations(cells map[time.Time]float64, start, end time.Time) []observation {
	obs := make([]observation, 0, len(cells))
	for d, v := range cells {
		if d.Before(start) || d.After(end) {
			continue
		}
		obs = append(obs, observation{date: d, value: v})
	}
	sort.Slice(obs, func(i, j int) bool { return obs[i].date.Before(obs[j].date) })
	return obs
}

// fitPredictor 在 xs 之后的日期保持最后一个观测值
func fitPredictor(method Method, xs, ys []float64) (func(float64) float64, error) {
	last := xs[len(xs)-1]
	lastY := ys[len(ys)-1]

	var p interp.Predictor
	switch method {
	case MethodTime:
		if len(xs) == 1 {
			return func(float64) float64 { return lastY }, nil
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, err
		}
		p = &pl
	case MethodSpline:
		if len(xs) < 4 {
			return nil, fmt.Errorf("cubic spline needs at least 4 observations, got %d", len(xs))
		}
		var nc interp.NotAKnotCubic
		if err := nc.Fit(xs, ys); err != nil {
			return nil, err
		}
		p = &nc
	default:
		return nil, fmt.Errorf("unknown interpolation method %q", method)
	}

	return func(x float64) float64 {
		if x >= last {
			return lastY
		}
		return p.Predict(x)
	}, nil
}

func dayOffset(start, d time.Time) float64 {
	return math.Round(d.Sub(start).Hours() / 24)
}

// monthEnds 从 start 所在月到 end 所在月的每个月末
func monthEnds(start, end time.Time) []time.Time {
	var out []time.Time
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := first; !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m.AddDate(0, 1, -1))
	}
	return out
}
