package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var root *zap.Logger

// Init 构建全局根日志器。mode为"debug"时输出更啰嗦的开发格式。
func Init(mode string) error {
	var cfg zap.Config
	if mode == "debug" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	root = l
	return nil
}

// L 返回根日志器。未初始化时退化为Nop，避免测试里到处判空。
func L() *zap.Logger {
	if root == nil {
		return zap.NewNop()
	}
	return root
}

// ForSerial 返回带设备序列号字段的子日志器。
// 每台设备的引擎在启动时拿到自己的日志器，停止时随引擎一起丢弃。
func ForSerial(serial string) *zap.Logger {
	return L().With(zap.String("serial", serial))
}

// Sync 在进程退出前刷新缓冲的日志。
func Sync() {
	if root != nil {
		_ = root.Sync()
	}
}
