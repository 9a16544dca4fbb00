package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Store 管理每台设备的配置文档，按序列号分目录存放：
// <root>/<serial>/profile.json
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore 创建配置文档存储。
func NewStore(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: root, logger: logger}
}

func (s *Store) path(serial string) string {
	return filepath.Join(s.root, serial, "profile.json")
}

// Load 读取设备的配置文档。文件缺失或解析失败都回落到默认配置，
// 并把默认配置落盘，让后续加载不再走回落路径。
func (s *Store) Load(serial string) DeviceProfile {
	path := s.path(serial)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("读取设备配置失败，使用默认配置", zap.String("serial", serial), zap.Error(err))
		}
		return s.resetToDefault(serial)
	}

	var p DeviceProfile
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("设备配置损坏，重置为默认配置", zap.String("serial", serial), zap.Error(err))
		return s.resetToDefault(serial)
	}
	return p
}

// resetToDefault 写入并返回默认配置。落盘失败只记日志，默认值照常返回。
func (s *Store) resetToDefault(serial string) DeviceProfile {
	p := DefaultProfile()
	if err := s.Save(serial, p); err != nil {
		s.logger.Warn("持久化默认配置失败", zap.String("serial", serial), zap.Error(err))
	}
	return p
}

// Save 保存设备的配置文档。
func (s *Store) Save(serial string, p DeviceProfile) error {
	path := s.path(serial)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
