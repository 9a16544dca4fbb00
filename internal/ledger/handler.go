package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetOperationLogsHandler 分页返回指定设备的操作流水。
// 查询参数：page（默认1）、page_size（默认10）。
func GetOperationLogsHandler(c *gin.Context) {
	serial := c.Param("serial")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}

	result, err := defaultService.GetOperationLogs(serial, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询操作流水失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
