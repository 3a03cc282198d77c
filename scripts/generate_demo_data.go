package main

import (
	"context"
	"fmt"
	"log"

	"github.com/frequentation/internal/config"
	"github.com/frequentation/internal/db"
	"github.com/frequentation/internal/logging"
	"github.com/frequentation/internal/model"
	"github.com/frequentation/internal/service"
	"gorm.io/gorm"
)

// 示例数据生成器：用默认类型与最近 30 天的随机记录替换当前数据
func main() {
	// 初始化数据库
	cfg := config.Load()
	logging.Setup()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成示例数据...")

	data, err := generateDemoData(context.Background(), db.DB, service.WithLocation(cfg.Location()))
	if err != nil {
		log.Fatal("示例数据生成失败:", err)
	}

	fmt.Println("示例数据生成完成！")
	fmt.Printf("类型: %d 个\n", len(data.Categories))
	fmt.Printf("记录: %d 天\n", len(data.Days))
	fmt.Printf("总访问: %d\n", service.ComputeStats(data).TotalVisits)
}

func generateDemoData(ctx context.Context, gdb *gorm.DB, opts ...service.Option) (model.Dataset, error) {
	svc := service.NewDataService(gdb, append(opts, service.WithDemoData(true))...)
	if err := svc.ResetToSeed(ctx); err != nil {
		return model.Dataset{}, err
	}
	return svc.Load(ctx)
}
