package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler 返回指定设备的配置文档，设备尚无配置时返回并落盘默认值。
func GetProfileHandler(c *gin.Context) {
	serial := c.Param("serial")
	c.JSON(http.StatusOK, defaultStore.Load(serial))
}

// PutProfileHandler 整体替换指定设备的配置文档。
// 配置在引擎启动时加载一次，修改对正在运行的引擎不生效，下次启动生效。
func PutProfileHandler(c *gin.Context) {
	serial := c.Param("serial")

	var p DeviceProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := defaultStore.Save(serial, p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存配置失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "配置已保存"})
}
