package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/frequentation/internal/config"
	"github.com/frequentation/internal/db"
	"github.com/frequentation/internal/handler"
	"github.com/frequentation/internal/logging"
	"github.com/frequentation/internal/router"
	"github.com/frequentation/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		fatal(logger, "failed to initialize database", err)
	}

	data := service.NewDataService(db.DB,
		service.WithLocation(cfg.Location()),
		service.WithDemoData(cfg.SeedDemoData),
	)

	// 首次启动时写入默认类型（可选示例数据），之后不再重复
	info, err := data.Info(context.Background())
	if err != nil {
		fatal(logger, "failed to initialize store", err)
	}
	logger.Info("store ready",
		"database", cfg.DatabasePath,
		"dataset_version", info.DatasetVersion,
		"seeded_at", info.SeededAt,
	)

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, data, cfg.DefaultLanguage)
	r := router.SetupRouter(api, cfg.SessionSecret)

	logger.Info("listening", "addr", cfg.ListenAddr, "timezone", cfg.Location().String())
	if err := r.Run(cfg.ListenAddr); err != nil {
		fatal(logger, "failed to run server", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
