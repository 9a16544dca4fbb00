package engine

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StartHandler 启动指定设备的运营引擎。
func StartHandler(c *gin.Context) {
	serial := c.Param("serial")
	if err := defaultManager.Start(serial); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "启动失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"serial": serial, "running": true})
}

// StopHandler 停止指定设备的运营引擎。
// 这里只发出停止信号，引擎完成收尾后自行退出。
func StopHandler(c *gin.Context) {
	serial := c.Param("serial")
	if err := defaultManager.Stop(serial); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "停止失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"serial": serial, "running": false})
}

// StatusHandler 返回指定设备的引擎是否在运行。
func StatusHandler(c *gin.Context) {
	serial := c.Param("serial")
	c.JSON(http.StatusOK, gin.H{
		"serial":  serial,
		"running": defaultManager.IsRunning(serial),
	})
}
