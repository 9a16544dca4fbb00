package engine

import (
	"encoding/json"
	"time"

	"github.com/laoliu6688/douyin-yunying/internal/platform/database"
	"github.com/laoliu6688/douyin-yunying/internal/platform/logger"
	"go.uber.org/zap"
)

// statusKey 是Redis中设备状态镜像的Hash键。
const statusKey = "yunying:status"

type deviceStatus struct {
	Serial    string    `json:"serial"`
	Running   bool      `json:"running"`
	UpdatedAt time.Time `json:"updated_at"`
}

// publishStatus 把设备引擎的运行状态镜像到Redis，供外部看板读取。
// 尽力而为：Redis未启用或写入失败都不影响引擎本身。
func publishStatus(serial string, running bool) {
	if database.RDB == nil {
		return
	}

	payload, _ := json.Marshal(deviceStatus{
		Serial:    serial,
		Running:   running,
		UpdatedAt: time.Now(),
	})
	if err := database.RDB.HSet(database.Ctx, statusKey, serial, payload).Err(); err != nil {
		logger.L().Warn("写入状态镜像失败", zap.String("serial", serial), zap.Error(err))
	}
}
