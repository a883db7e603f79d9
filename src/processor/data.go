// data.go
package processor

import (
	"PopulationPyramid/src/config"
	"PopulationPyramid/src/datasource/file"
	"PopulationPyramid/src/storage"
	"PopulationPyramid/src/utils"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// DataProcessor 串起 下载 -> 读表 -> 整理 -> 插值 -> 写出
type DataProcessor struct {
	cfg          *config.Config
	logger       *storage.Logger
	fetcher      *file.Fetcher
	reshaper     *Reshaper
	interpolator *Interpolator
}

func NewDataProcessor(cfg *config.Config, logger *storage.Logger) (*DataProcessor, error) {
	start, end, err := cfg.Grid()
	if err != nil {
		return nil, err
	}

	specs := make([]SeriesSpec, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		specs = append(specs, SeriesSpec{Sex: s.Sex, Method: Method(s.Method)})
	}

	return &DataProcessor{
		cfg:          cfg,
		logger:       logger,
		fetcher:      file.NewFetcher(time.Duration(cfg.Source.Timeout)),
		reshaper:     NewReshaper(cfg.Locality),
		interpolator: NewInterpolator(start, end, specs),
	}, nil
}

// Run 执行完整的数据流程
func (p *DataProcessor) Run(ctx context.Context) error {
	src := p.cfg.SourcePath()
	downloaded, err := p.fetcher.Fetch(ctx, p.cfg.Source.URL, src)
	if err != nil {
		return fmt.Errorf("download %s: %w", p.cfg.Source.URL, err)
	}
	if downloaded {
		p.logger.Info(fmt.Sprintf("已下载 %s", src))
	} else {
		p.logger.Info(fmt.Sprintf("使用缓存文件 %s", src))
	}

	sheet, err := file.ReadSheet(src, p.cfg.Source.SheetName, p.cfg.Source.SkipRows)
	if err != nil {
		return err
	}
	p.logger.Debug(fmt.Sprintf("读取 %d 行, %d 列", len(sheet.Rows), len(sheet.Header)))

	tidy, err := p.reshaper.Reshape(sheet.Header, sheet.Rows)
	if err != nil {
		return err
	}
	if err := WriteCSV(p.cfg.TidyPath(), tidy); err != nil {
		return err
	}
	p.logger.Info(fmt.Sprintf("整理表 %d 行已写入 %s", tidy.Nrow(), p.cfg.TidyPath()))

	t1 := time.Now()
	monthly, err := p.interpolator.Interpolate(tidy)
	if err != nil {
		return err
	}
	p.logger.Info(fmt.Sprintf("插值完成 %d 行, 用时 %v", monthly.Nrow(), time.Since(t1)))

	if p.cfg.ExportXLSX {
		xlsxPath := strings.TrimSuffix(p.cfg.OutputPath(), filepath.Ext(p.cfg.OutputPath())) + ".xlsx"
		if err := utils.SaveToExcel(monthly, xlsxPath, "data"); err != nil {
			return err
		}
		p.logger.Info(fmt.Sprintf("已导出 %s", xlsxPath))
	}

	// data.csv 最后写出, 等待它的渲染程序看到的是完整结果
	if err := WriteCSV(p.cfg.OutputPath(), monthly); err != nil {
		return err
	}
	p.logger.Info(fmt.Sprintf("月度数据已写入 %s", p.cfg.OutputPath()))
	return nil
}

// WriteCSV 原子地写出 DataFrame
func WriteCSV(path string, df dataframe.DataFrame) error {
	err := file.WriteAtomic(path, func(w io.Writer) error {
		return df.WriteCSV(w)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
