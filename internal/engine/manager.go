package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/laoliu6688/douyin-yunying/internal/device"
	"github.com/laoliu6688/douyin-yunying/internal/ledger"
	"github.com/laoliu6688/douyin-yunying/internal/platform/logger"
	"github.com/laoliu6688/douyin-yunying/internal/profile"
	"github.com/laoliu6688/douyin-yunying/pkg/lifecycle"
)

// Manager 管理所有设备的运营引擎：按设备序列号启动、停止、查询。
// 每台设备同一时刻最多一个引擎。
type Manager struct {
	mu        sync.Mutex
	lifecycle *lifecycle.Manager
	adb       *device.Adb
	profiles  *profile.Store
	ledger    *ledger.Service
	handles   map[string]*lifecycle.Handle
}

// NewManager 创建引擎管理器。
func NewManager(adb *device.Adb, profiles *profile.Store, led *ledger.Service) *Manager {
	return &Manager{
		lifecycle: lifecycle.NewManager(),
		adb:       adb,
		profiles:  profiles,
		ledger:    led,
		handles:   make(map[string]*lifecycle.Handle),
	}
}

// Start 为一台设备启动运营引擎。
// 设备不可达或引擎已在运行时返回错误；启动后引擎在自己的Goroutine里运行。
func (m *Manager) Start(serial string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.handles[serial]; ok {
		return fmt.Errorf("设备 %s 的引擎已在运行", serial)
	}
	if err := m.adb.Ping(serial); err != nil {
		return err
	}

	handle, err := m.lifecycle.NewServiceHandle(serial)
	if err != nil {
		return err
	}

	prof := m.profiles.Load(serial)
	eng := New(serial, m.adb.Driver(serial), m.ledger, prof, logger.ForSerial(serial))
	m.handles[serial] = handle

	go func() {
		eng.Run(handle)
		m.mu.Lock()
		delete(m.handles, serial)
		m.mu.Unlock()
	}()
	return nil
}

// Stop 向设备的引擎发出停止信号。
// 引擎完成当前设备动作和拜访结算后自行退出，这里不等待。
func (m *Manager) Stop(serial string) error {
	m.mu.Lock()
	handle, ok := m.handles[serial]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("设备 %s 的引擎未在运行", serial)
	}
	handle.Cancel()
	return nil
}

// IsRunning 返回设备的引擎当前是否在运行。
func (m *Manager) IsRunning(serial string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.handles[serial]
	return ok
}

// StopAll 停止所有引擎并等待它们完成收尾，用于进程停机。
// 返回超时后仍未退出的设备序列号。
func (m *Manager) StopAll(timeout time.Duration) []string {
	m.lifecycle.Shutdown()
	return m.lifecycle.WaitWithTimeout(timeout)
}
