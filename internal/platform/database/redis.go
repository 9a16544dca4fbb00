package database

import (
	"context"
	"fmt"

	"github.com/laoliu6688/douyin-yunying/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是全局的Redis客户端实例。Redis在本系统中只承载运行状态镜像，
// 未启用或连接失败时保持为nil，所有使用方都必须容忍nil。
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis数据库的连接。
// 与数据库不同，Redis不可用不会阻止进程启动：状态镜像是尽力而为的。
func InitRedis(cfg config.RedisConfig) {
	if !cfg.Enabled {
		fmt.Println("Redis状态镜像未启用。")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(Ctx).Result(); err != nil {
		fmt.Printf("无法连接到Redis，状态镜像将被禁用: %v\n", err)
		return
	}

	RDB = client
	fmt.Println("Redis 连接成功！")
}
