package device

import (
	"github.com/laoliu6688/douyin-yunying/internal/platform/config"
)

// defaultAdb 是全局的adb封装实例，由main在启动时初始化。
var defaultAdb *Adb

// Init 根据配置初始化全局adb实例。
func Init(cfg config.DeviceConfig) {
	defaultAdb = NewAdb(cfg.AdbPath)
}

// DefaultAdb 返回全局adb实例。
func DefaultAdb() *Adb {
	return defaultAdb
}
