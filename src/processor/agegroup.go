package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 列名与源表保持一致
const (
	ColAgeGroup   = "GRUPO ETÁRIO"
	ColSex        = "SEXO"
	ColCode       = "CÓD."
	ColAbbrev     = "SIGLA"
	ColLocality   = "LOCAL"
	ColYear       = "ANO"
	ColPopulation = "POPULAÇÃO"
	ColAge        = "idade"
)

// OutputColumns 整理表和月度表的列顺序
var OutputColumns = []string{ColYear, ColPopulation, ColSex, ColAgeGroup, ColAge}

// 性别取值
const (
	SexMale   = "Homens"
	SexFemale = "Mulheres"
	SexBoth   = "Ambos"
)

// AgeGroup 五岁年龄组及其代表年龄
type AgeGroup struct {
	Label    string
	Midpoint float64
}

// AgeGroups 00-04 .. 85-89 以及开放的 90+
var AgeGroups = buildAgeGroups()

func buildAgeGroups() []AgeGroup {
	groups := make([]AgeGroup, 0, 19)
	for lo := 0; lo < 90; lo += 5 {
		groups = append(groups, AgeGroup{
			Label:    fmt.Sprintf("%02d-%02d", lo, lo+4),
			Midpoint: float64(2*lo+5) / 2,
		})
	}
	return append(groups, AgeGroup{Label: "90+", Midpoint: 92.5})
}

// MidpointOf 年龄组标签对应的代表年龄
func MidpointOf(label string) (float64, bool) {
	for _, g := range AgeGroups {
		if g.Label == label {
			return g.Midpoint, true
		}
	}
	return 0, false
}

// BandOf 代表年龄对应的年龄组标签
func BandOf(midpoint float64) (string, bool) {
	for _, g := range AgeGroups {
		if g.Midpoint == midpoint {
			return g.Label, true
		}
	}
	return "", false
}

// AgeGroupFrame 年龄组查找表, 用于 LeftJoin
func AgeGroupFrame() dataframe.DataFrame {
	labels := make([]string, len(AgeGroups))
	midpoints := make([]float64, len(AgeGroups))
	for i, g := range AgeGroups {
		labels[i] = g.Label
		midpoints[i] = g.Midpoint
	}
	return dataframe.New(
		series.New(labels, series.String, ColAgeGroup),
		series.New(midpoints, series.Float, ColAge),
	)
}
