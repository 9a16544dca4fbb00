package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/laoliu6688/douyin-yunying/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是全局的gorm句柄，台账的所有操作都通过它执行。
// 每次操作由gorm按需获取连接并在短事务内提交，事务从不跨越设备操作或休眠。
var DB *gorm.DB

// InitDB 初始化数据库连接
func InitDB(cfg config.SqliteConfig) {
	var err error

	// 确保台账文件所在目录存在
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			panic(fmt.Sprintf("无法创建数据库目录 %s: %v", dir, err))
		}
	}

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	// 连接到SQLite数据库
	DB, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: newLogger,
	})

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	// 多台设备的引擎并发写同一个文件，WAL可以显著减少锁冲突
	if err := DB.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		fmt.Println("设置WAL模式失败", err)
	}

	fmt.Println("数据库连接成功！")
}
