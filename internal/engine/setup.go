package engine

import (
	"github.com/laoliu6688/douyin-yunying/internal/device"
	"github.com/laoliu6688/douyin-yunying/internal/ledger"
	"github.com/laoliu6688/douyin-yunying/internal/profile"
)

// defaultManager 是全局的引擎管理器，由main在启动时初始化。
var defaultManager *Manager

// Init 组装全局引擎管理器。必须在device、profile、ledger初始化之后调用。
func Init() {
	defaultManager = NewManager(device.DefaultAdb(), profile.DefaultStore(), ledger.DefaultService())
}

// DefaultManager 返回全局引擎管理器。
func DefaultManager() *Manager {
	return defaultManager
}
