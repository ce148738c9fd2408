// 导入初始账号、章节与题目
//
// 已存在的账号和同名章节会被跳过，可重复执行。
//
// 用法: go run scripts/seed.go -file scripts/seed.yaml

package main

import (
	"code_practice_backend/internal/config"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/seed"
	"code_practice_backend/pkg/database"
	"code_practice_backend/pkg/logger"
	"context"
	"flag"
	"log"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	file := flag.String("file", "scripts/seed.yaml", "种子数据文件")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	data, err := seed.Load(*file)
	if err != nil {
		log.Fatal(err)
	}

	rep, err := seed.Apply(context.Background(), repository.NewStore(db), data)
	if err != nil {
		logger.Log.Error("导入种子数据失败", zap.Error(err))
		log.Fatal(err)
	}

	logger.Log.Info("种子数据导入完成",
		zap.Int("teachers", rep.Teachers),
		zap.Int("students", rep.Students),
		zap.Int("chapters", rep.Chapters),
		zap.Int("questions", rep.Questions),
		zap.Int("skipped", rep.Skipped))
	log.Println("完成！")
}
