package main

import (
	"PopulationPyramid/src/config"
	"PopulationPyramid/src/processor"
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
	cfg, _, err := config.LoadConfig(jsonFolder, jsonFile, styleJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()
	if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
		logger.Warning("日志轮转失败: " + err.Error())
	}

	// Ctrl+C 时取消下载
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := processor.NewDataProcessor(cfg, logger)
	if err != nil {
		logger.Error("初始化失败: " + err.Error())
		logger.Close()
		log.Fatal(err)
	}

	t1 := time.Now()
	if err := p.Run(ctx); err != nil {
		logger.Error("数据处理失败: " + err.Error())
		logger.Close()
		log.Fatal(err)
	}
	logger.Info(fmt.Sprintf("数据处理时间：%v", time.Since(t1)))
}
