package render

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
)

// FormatPopulation x 轴标签, 两侧都显示正数
func FormatPopulation(x float64) string {
	if x == 0 {
		return "0"
	}
	return fmt.Sprintf("%.0f mi", math.Abs(x)/1e6)
}

// FormatAge y 轴标签, 宽度固定以便等宽字体对齐
func FormatAge(x float64) string {
	if x < 90 {
		return fmt.Sprintf("%2.0f-%-2.0f", x-2.5, x+1.5)
	}
	return "90+"
}

// populationTicks 沿用默认刻度位置, 只替换标签
type populationTicks struct{}

func (populationTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatPopulation(ticks[i].Value)
		}
	}
	return ticks
}

// ageTicks 2.5, 7.5, ... 92.5
type ageTicks struct{}

func (ageTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for x := 2.5; x < 95; x += 5 {
		if x < min || x > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: x, Label: FormatAge(x)})
	}
	return ticks
}
