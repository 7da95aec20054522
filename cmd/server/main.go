package main

import (
	"log"

	"github.com/draftsmith/internal/config"
	"github.com/draftsmith/internal/db"
	"github.com/draftsmith/internal/handler"
	"github.com/draftsmith/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 初始管理员账号，仅在配置了环境变量时确保存在
	if cfg.RootUserName != "" && cfg.RootPassword != "" {
		if err := db.EnsureUser(cfg.RootUserName, cfg.RootPassword); err != nil {
			log.Fatalf("failed to ensure root user: %v", err)
		}
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB)
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
