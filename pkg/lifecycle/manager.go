package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager 是后台任务的生命周期协调器。
// 它由上层模块（如engine.Manager和shutdown）创建和持有，为每个任务分发句柄(Handle)。
// 每个Handle拥有自己的子Context，因此既可以单独停止一台设备的任务，
// 也可以通过Shutdown一次性停掉所有任务。
type Manager struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	services map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager 创建一个新的生命周期管理器。
func NewManager() *Manager {
	m := &Manager{
		services: make(map[string]bool),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// NewServiceHandle 为一个任务创建一个新的生命周期句柄(Handle)。
// 管理器会自动为这个任务注册并增加WaitGroup计数。
// 同名任务不允许重复注册（一台设备同一时刻只能有一个引擎在跑）。
func (m *Manager) NewServiceHandle(name string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.services[name] {
		return nil, fmt.Errorf("生命周期管理器: 任务 '%s' 已被注册", name)
	}
	m.services[name] = true
	m.wg.Add(1)

	ctx, cancel := context.WithCancel(m.ctx)
	return &Handle{
		ctx:    ctx,
		cancel: cancel,
		close: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, exists := m.services[name]; !exists {
				return
			}
			delete(m.services, name)
			m.wg.Done()
		},
	}, nil
}

// Running 返回指定名称的任务当前是否注册在管理器中。
func (m *Manager) Running(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.services[name]
}

// Shutdown 广播全局停机信号，所有Handle的Done()都会被触发。
func (m *Manager) Shutdown() {
	fmt.Println("生命周期管理器: 广播停机信号...")
	m.cancel()
}

// WaitWithTimeout 等待所有已注册的任务完成收尾，直到指定的超时。
// 返回超时后仍未退出的任务名称列表。
func (m *Manager) WaitWithTimeout(timeout time.Duration) []string {
	doneChan := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(doneChan)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-doneChan:
		return nil
	case <-timer.C:
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.getRemainingServices()
	}
}

// getRemainingServices 是一个内部辅助函数。
func (m *Manager) getRemainingServices() []string {
	remaining := make([]string, 0, len(m.services))
	for name := range m.services {
		remaining = append(remaining, name)
	}
	return remaining
}
