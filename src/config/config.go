package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config 结构体定义了两个程序共用的运行参数
type Config struct {
	Source struct {
		URL       string   `json:"url"`        // 预测表下载地址
		FileName  string   `json:"file_name"`  // 本地缓存文件名
		SheetName string   `json:"sheet_name"` // 工作表名称
		SkipRows  int      `json:"skip_rows"`  // 表头之前跳过的行数
		Timeout   Duration `json:"http_timeout"`
	} `json:"source"`

	Locality   string         `json:"locality"` // 只保留该地区
	Series     []SeriesConfig `json:"series"`   // 每个性别的插值方式
	GridStart  string         `json:"grid_start"`
	GridEnd    string         `json:"grid_end"`
	DataDir    string         `json:"data_dir"`
	TidyFile   string         `json:"tidy_file"`
	OutputFile string         `json:"output_file"`
	ExportXLSX bool           `json:"export_xlsx"`

	Render struct {
		PlotsDir    string `json:"plots_dir"`
		FirstMonth  string `json:"first_month"`
		LastMonth   string `json:"last_month"`
		Workers     int    `json:"workers"`
		HoldFrames  int    `json:"hold_frames"`
		WaitForData bool   `json:"wait_for_data"`
	} `json:"render"`

	LogName    string `json:"log_name"`
	LogMaxSize string `json:"log_max_size"`
}

// SeriesConfig 指定某一性别使用的插值方法
type SeriesConfig struct {
	Sex    string `json:"sex"`
	Method string `json:"method"` // "time" 或 "spline"
}

const monthLayout = "2006-01"

// DefaultConfig 返回与原始常量一致的默认配置
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Source.URL = "https://ftp.ibge.gov.br/Projecao_da_Populacao/Projecao_da_Populacao_2024/projecoes_2024_tab2_grupo_quinquenal.xlsx"
	cfg.Source.FileName = "projecoes_2024_tab2_grupo_quinquenal.xlsx"
	cfg.Source.SheetName = "2) POP_GRUPO QUINQUENAL"
	cfg.Source.SkipRows = 5

	cfg.Locality = "Brasil"
	cfg.Series = []SeriesConfig{
		{Sex: "Homens", Method: "time"},
		{Sex: "Mulheres", Method: "spline"},
	}
	cfg.GridStart = "2000-01-01"
	cfg.GridEnd = "2070-01-01"
	cfg.DataDir = "data"
	cfg.TidyFile = "tidy.csv"
	cfg.OutputFile = "data.csv"

	cfg.Render.PlotsDir = "plots"
	cfg.Render.FirstMonth = "2000-01"
	cfg.Render.LastMonth = "2070-02"
	cfg.Render.Workers = 16
	cfg.Render.HoldFrames = 120

	cfg.LogName = "app.log"
	cfg.LogMaxSize = "10 * 1024 * 1024"
	return cfg
}

// SourcePath 源表的本地缓存路径
func (c *Config) SourcePath() string {
	return filepath.Join(c.DataDir, c.Source.FileName)
}

// TidyPath 整理后长表的路径
func (c *Config) TidyPath() string {
	return filepath.Join(c.DataDir, c.TidyFile)
}

// OutputPath 月度插值结果的路径
func (c *Config) OutputPath() string {
	return filepath.Join(c.DataDir, c.OutputFile)
}

// Grid 解析每日网格的起止日期
func (c *Config) Grid() (start, end time.Time, err error) {
	if start, err = time.Parse(time.DateOnly, c.GridStart); err != nil {
		return start, end, fmt.Errorf("grid_start %q: %w", c.GridStart, err)
	}
	if end, err = time.Parse(time.DateOnly, c.GridEnd); err != nil {
		return start, end, fmt.Errorf("grid_end %q: %w", c.GridEnd, err)
	}
	return start, end, nil
}

// Months 解析动画帧的首末月份
func (c *Config) Months() (first, last time.Time, err error) {
	if first, err = time.Parse(monthLayout, c.Render.FirstMonth); err != nil {
		return first, last, fmt.Errorf("first_month %q: %w", c.Render.FirstMonth, err)
	}
	if last, err = time.Parse(monthLayout, c.Render.LastMonth); err != nil {
		return first, last, fmt.Errorf("last_month %q: %w", c.Render.LastMonth, err)
	}
	return first, last, nil
}

var (
	once          sync.Once
	instance      *Config
	styleInstance *Style
)

// LoadConfig 只加载一次配置, 之后返回同一实例
// 文件不存在时使用默认值, 存在时覆盖默认值中出现的字段
func LoadConfig(jsonFolder, jsonFile, styleJsonFile string) (*Config, *Style, error) {
	var err error
	once.Do(func() {
		instance, styleInstance, err = loadConfigs(jsonFolder, jsonFile, styleJsonFile)
	})
	return instance, styleInstance, err
}

func loadConfigs(jsonFolder, jsonFile, styleJsonFile string) (*Config, *Style, error) {
	configData, err := readFile(filepath.Join(jsonFolder, jsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	styleData, err := readFile(filepath.Join(jsonFolder, styleJsonFile))
	if err != nil {
		return nil, nil, fmt.Errorf("读取样式文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	styleChan := make(chan *Style, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseStyle(styleData, styleChan, errChan)

	return waitForResults(cfgChan, styleChan, errChan)
}

// readFile 读取文件, 文件不存在时返回nil
func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	cfg := DefaultConfig()
	if len(data) > 0 {
		if err := json.Unmarshal(data, cfg); err != nil {
			errChan <- fmt.Errorf("解析Config失败: %w", err)
			return
		}
	}
	resultChan <- cfg
}

func parseStyle(data []byte, resultChan chan<- *Style, errChan chan<- error) {
	style := DefaultStyle()
	if len(data) > 0 {
		if err := json.Unmarshal(data, style); err != nil {
			errChan <- fmt.Errorf("解析Style失败: %w", err)
			return
		}
	}
	resultChan <- style
}

func waitForResults(
	cfgChan <-chan *Config,
	styleChan <-chan *Style,
	errChan <-chan error,
) (*Config, *Style, error) {
	var (
		cfg   *Config
		style *Style
		errs  []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case s := <-styleChan:
			style = s
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if cfg == nil || style == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, style, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
