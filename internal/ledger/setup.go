package ledger

import (
	"fmt"

	"github.com/laoliu6688/douyin-yunying/internal/platform/database"
	"github.com/laoliu6688/douyin-yunying/internal/platform/logger"
)

// defaultService 是全局的台账服务实例，由PrimeDB初始化。
var defaultService *Service

// PrimeDB 负责迁移台账的四张表并初始化全局服务。
func PrimeDB() error {
	err := database.DB.AutoMigrate(
		&OperationLog{},
		&LiveRoomRecord{},
		&InteractionStats{},
		&VideoDataInfo{},
	)
	if err != nil {
		return fmt.Errorf("无法迁移台账表: %w", err)
	}
	fmt.Println("台账数据库表迁移成功。")

	defaultService = NewService(database.DB, logger.L())
	return nil
}

// DefaultService 返回全局台账服务。
func DefaultService() *Service {
	return defaultService
}
