package profile

import (
	"github.com/laoliu6688/douyin-yunying/internal/platform/config"
	"github.com/laoliu6688/douyin-yunying/internal/platform/logger"
)

// defaultStore 是全局的配置文档存储，由main在启动时初始化。
var defaultStore *Store

// Init 根据配置初始化全局存储。
func Init(cfg config.DeviceConfig) {
	defaultStore = NewStore(cfg.ProfileDir, logger.L())
}

// DefaultStore 返回全局存储。
func DefaultStore() *Store {
	return defaultStore
}
