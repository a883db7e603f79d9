package config

import "image/color"

// RGB 0-1 范围的颜色分量
type RGB [3]float64

// Color 转换为 color.NRGBA, alpha 取 0-1
func (c RGB) Color(alpha float64) color.NRGBA {
	return color.NRGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: channel(alpha),
	}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Style 金字塔图的全部样式参数, 显式传给渲染器
type Style struct {
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
	DPI          int     `json:"dpi"`

	// 字体变体为 Liberation 字体族中的 "Serif" / "Sans" / "Mono"
	FontVariant      string  `json:"font_variant"`
	FontSize         float64 `json:"font_size"`
	TickFontVariant  string  `json:"tick_font_variant"`
	TitleFontVariant string  `json:"title_font_variant"`

	Title     string  `json:"title"`
	TitleSize float64 `json:"title_size"`
	TitleX    float64 `json:"title_x"`
	TitleY    float64 `json:"title_y"`

	TotalLabel string  `json:"total_label"`
	TotalSize  float64 `json:"total_size"`

	MaleLabel   string  `json:"male_label"`
	FemaleLabel string  `json:"female_label"`
	MaleColor   RGB     `json:"male_color"`
	FemaleColor RGB     `json:"female_color"`
	BarHeight   float64 `json:"bar_height"`

	XLimit float64 `json:"x_limit"`
	YMin   float64 `json:"y_min"`
	YMax   float64 `json:"y_max"`

	WatermarkSize  float64 `json:"watermark_size"`
	WatermarkAlpha float64 `json:"watermark_alpha"`
	WatermarkY     float64 `json:"watermark_y"`

	// 坐标轴区域 [左, 下, 宽, 高], 以画布比例表示
	AxesPosition [4]float64 `json:"axes_position"`

	SourceCaption string  `json:"source_caption"`
	AuthorCaption string  `json:"author_caption"`
	CaptionSize   float64 `json:"caption_size"`
	CaptionMargin float64 `json:"caption_margin"`
}

// DefaultStyle 返回与原图一致的样式
func DefaultStyle() *Style {
	return &Style{
		WidthInches:  16,
		HeightInches: 16,
		DPI:          300,

		FontVariant:      "Serif",
		FontSize:         20,
		TickFontVariant:  "Mono",
		TitleFontVariant: "Serif",

		Title:     "Projeção da População Brasileira\npor Idade e Sexo (2000-2070)",
		TitleSize: 56,
		TitleX:    0.025,
		TitleY:    0.975,

		TotalLabel: "População total: %d",
		TotalSize:  22,

		MaleLabel:   "Homens",
		FemaleLabel: "Mulheres",
		MaleColor:   RGB{0.6, 0.25, 0.25},
		FemaleColor: RGB{0.25, 0.25, 0.6},
		BarHeight:   4.9,

		XLimit: 9.5e6,
		YMin:   -1,
		YMax:   96,

		WatermarkSize:  300,
		WatermarkAlpha: 0.3,
		WatermarkY:     25,

		AxesPosition: [4]float64{0.08, 0.12, 0.89, 0.7},

		SourceCaption: "Fonte: IBGE/Projeções da População (2024)",
		AuthorCaption: "Autor: Daniel Komesu",
		CaptionSize:   18,
		CaptionMargin: 0.025,
	}
}
