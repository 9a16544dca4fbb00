package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/laoliu6688/douyin-yunying/api"
	"github.com/laoliu6688/douyin-yunying/internal/device"
	"github.com/laoliu6688/douyin-yunying/internal/engine"
	"github.com/laoliu6688/douyin-yunying/internal/ledger"
	"github.com/laoliu6688/douyin-yunying/internal/platform/config"
	"github.com/laoliu6688/douyin-yunying/internal/platform/database"
	"github.com/laoliu6688/douyin-yunying/internal/platform/logger"
	"github.com/laoliu6688/douyin-yunying/internal/platform/shutdown"
	"github.com/laoliu6688/douyin-yunying/internal/profile"
)

func main() {
	// .env缺失是正常情况，按内置默认值和环境变量运行
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("配置加载失败: %v", err))
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(fmt.Sprintf("日志初始化失败: %v", err))
	}

	// 1. 初始化台账库和可选的状态镜像
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 2. 迁移台账表并组装各模块
	if err := ledger.PrimeDB(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}
	device.Init(cfg.Device)
	profile.Init(cfg.Device)
	engine.Init()

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，按顺序关HTTP、停引擎
	coordinator := shutdown.NewCoordinator(engine.DefaultManager())
	coordinator.ListenForSignalsAndShutdown(server)
}
