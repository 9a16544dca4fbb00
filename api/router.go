package api

import (
	"github.com/gin-gonic/gin"
	"github.com/laoliu6688/douyin-yunying/internal/device"
	"github.com/laoliu6688/douyin-yunying/internal/engine"
	"github.com/laoliu6688/douyin-yunying/internal/ledger"
	"github.com/laoliu6688/douyin-yunying/internal/profile"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 设备列表
		api.GET("/devices", device.ListDevicesHandler)

		// 单台设备的路由组
		dev := api.Group("/devices/:serial")
		{
			// 行为配置文档
			dev.GET("/profile", profile.GetProfileHandler)
			dev.PUT("/profile", profile.PutProfileHandler)

			// 运营引擎控制
			dev.POST("/start", engine.StartHandler)
			dev.POST("/stop", engine.StopHandler)
			dev.GET("/status", engine.StatusHandler)

			// 操作流水
			dev.GET("/logs", ledger.GetOperationLogsHandler)
		}
	}
}
