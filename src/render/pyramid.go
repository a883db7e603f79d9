package render

import (
	"PopulationPyramid/src/config"
	"PopulationPyramid/src/datasource/file"
	"PopulationPyramid/src/storage"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strconv"

	xfont "golang.org/x/image/font"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const typeface = "Liberation"

// Renderer 把每月数据画成金字塔 PNG
type Renderer struct {
	style   *config.Style
	logger  *storage.Logger
	dir     string
	workers int
}

func NewRenderer(style *config.Style, logger *storage.Logger, dir string, workers int) *Renderer {
	if workers < 1 {
		workers = 1
	}
	return &Renderer{style: style, logger: logger, dir: dir, workers: workers}
}

// FramePath 第 i 帧的文件路径
func (r *Renderer) FramePath(i int) string {
	return filepath.Join(r.dir, fmt.Sprintf("%05d.png", i))
}

// RenderFrame 绘制一帧并写到 path
func (r *Renderer) RenderFrame(frame Frame, path string) error {
	s := r.style
	w := vg.Length(s.WidthInches) * vg.Inch
	h := vg.Length(s.HeightInches) * vg.Inch

	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(s.DPI))
	dc := draw.New(img)

	p := r.newPlot(frame)
	pos := s.AxesPosition
	axes := draw.Canvas{
		Canvas: img,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: w * vg.Length(pos[0]), Y: h * vg.Length(pos[1])},
			Max: vg.Point{X: w * vg.Length(pos[0]+pos[2]), Y: h * vg.Length(pos[1]+pos[3])},
		},
	}
	p.Draw(axes)
	r.drawFigureText(dc)

	return file.WriteAtomic(path, func(out io.Writer) error {
		_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(out)
		return err
	})
}

func (r *Renderer) newPlot(frame Frame) *plot.Plot {
	s := r.style

	p := plot.New()
	p.BackgroundColor = color.White
	p.Title.Text = totalTitle(s.TotalLabel, frame.Total())
	p.Title.TextStyle.Font = r.font(s.FontVariant, s.TotalSize)

	p.X.Tick.Marker = populationTicks{}
	p.X.Tick.Label.Font = r.font(s.FontVariant, s.FontSize)
	p.Y.Tick.Marker = ageTicks{}
	p.Y.Tick.Label.Font = r.font(s.TickFontVariant, s.FontSize)

	male := &pyramidBars{bars: frame.Male, sign: 1, color: s.MaleColor.Color(1), height: s.BarHeight}
	female := &pyramidBars{bars: frame.Female, sign: -1, color: s.FemaleColor.Color(1), height: s.BarHeight}
	mark := &watermark{
		text: strconv.Itoa(frame.Date.Year()),
		y:    s.WatermarkY,
		style: r.textStyle(r.font(s.FontVariant, s.WatermarkSize), color.NRGBA{A: uint8(s.WatermarkAlpha*255 + 0.5)},
			text.XCenter, text.YBottom),
	}
	p.Add(mark, male, female)

	// 右上角图例
	p.Legend.Top = true
	p.Legend.TextStyle.Font = r.font(s.FontVariant, s.FontSize)
	p.Legend.Add(s.MaleLabel, male)
	p.Legend.Add(s.FemaleLabel, female)

	// Add 会按数据扩展范围, 之后再固定坐标轴
	p.X.Min, p.X.Max = -s.XLimit, s.XLimit
	p.Y.Min, p.Y.Max = s.YMin, s.YMax
	return p
}

// drawFigureText 画标题与底部的来源和作者
func (r *Renderer) drawFigureText(dc draw.Canvas) {
	s := r.style
	w, h := dc.Max.X-dc.Min.X, dc.Max.Y-dc.Min.Y
	at := func(fx, fy float64) vg.Point {
		return vg.Point{X: dc.Min.X + w*vg.Length(fx), Y: dc.Min.Y + h*vg.Length(fy)}
	}

	title := r.font(s.TitleFontVariant, s.TitleSize)
	title.Weight = xfont.WeightBold
	dc.FillText(r.textStyle(title, color.Black, text.XLeft, text.YTop), at(s.TitleX, s.TitleY), s.Title)

	caption := r.font(s.FontVariant, s.CaptionSize)
	dc.FillText(r.textStyle(caption, color.Black, text.XLeft, text.YBottom),
		at(s.CaptionMargin, s.CaptionMargin), s.SourceCaption)
	dc.FillText(r.textStyle(caption, color.Black, text.XRight, text.YBottom),
		at(1-s.CaptionMargin, s.CaptionMargin), s.AuthorCaption)
}

func (r *Renderer) font(variant string, size float64) font.Font {
	return font.Font{
		Typeface: typeface,
		Variant:  font.Variant(variant),
		Size:     vg.Points(size),
	}
}

func (r *Renderer) textStyle(f font.Font, c color.Color, xa text.XAlignment, ya text.YAlignment) text.Style {
	return text.Style{
		Color:   c,
		Font:    f,
		XAlign:  xa,
		YAlign:  ya,
		Handler: plot.DefaultTextHandler,
	}
}

// totalTitle 按巴西葡萄牙语习惯分组, 如 213.421.037
func totalTitle(label string, total float64) string {
	if math.IsNaN(total) {
		total = 0
	}
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf(label, int64(total))
}

// pyramidBars 一侧的横条, sign 为 -1 时画在左边
type pyramidBars struct {
	bars   []Bar
	sign   float64
	color  color.Color
	height float64
}

func (b *pyramidBars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, bar := range b.bars {
		if math.IsNaN(bar.Population) {
			continue
		}
		x := math.Max(p.X.Min, math.Min(p.X.Max, b.sign*bar.Population))
		x0, x1 := trX(0), trX(x)
		y0, y1 := trY(bar.Age-b.height/2), trY(bar.Age+b.height/2)
		c.FillPolygon(b.color, []vg.Point{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		})
	}
}

func (b *pyramidBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, bar := range b.bars {
		if math.IsNaN(bar.Population) {
			continue
		}
		x := b.sign * bar.Population
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, bar.Age-b.height/2), math.Max(ymax, bar.Age+b.height/2)
	}
	if math.IsInf(ymin, 1) {
		ymin, ymax = 0, 0
	}
	return xmin, xmax, ymin, ymax
}

// Thumbnail 图例中的色块
func (b *pyramidBars) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(b.color, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	})
}

// watermark 画在数据坐标 (0, y) 处的年份
type watermark struct {
	text  string
	y     float64
	style text.Style
}

func (m *watermark) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	c.FillText(m.style, vg.Point{X: trX(0), Y: trY(m.y)}, m.text)
}
