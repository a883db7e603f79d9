package main

import (
	"PopulationPyramid/src/config"
	"PopulationPyramid/src/datasource/file"
	"PopulationPyramid/src/render"
	"PopulationPyramid/src/storage"
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	styleJsonFile := "style.json"
	cfg, style, err := config.LoadConfig(jsonFolder, jsonFile, styleJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()
	if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
		logger.Warning("日志轮转失败: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, style, logger); err != nil {
		logger.Error(err.Error())
		logger.Close()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, style *config.Style, logger *storage.Logger) error {
	if cfg.Render.WaitForData {
		logger.Info("等待数据文件 " + cfg.OutputPath())
		if err := file.WaitForFile(ctx, cfg.OutputPath()); err != nil {
			return fmt.Errorf("等待数据文件失败: %w", err)
		}
	}

	ds, err := render.LoadDataset(cfg.OutputPath())
	if err != nil {
		return fmt.Errorf("读取数据失败: %w", err)
	}

	first, last, err := cfg.Months()
	if err != nil {
		return err
	}
	dates := render.MonthEnds(first, last)

	r := render.NewRenderer(style, logger, cfg.Render.PlotsDir, cfg.Render.Workers)
	t1 := time.Now()
	if err := r.RenderAll(ctx, ds, dates); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("%d 帧渲染完成, 用时 %v", len(dates), time.Since(t1)))

	return r.HoldLastFrame(len(dates), cfg.Render.HoldFrames)
}
