package lifecycle

import (
	"context"
	"time"

	"github.com/laoliu6688/douyin-yunying/pkg/random"
)

// Handle 是分发给每个后台任务（通常是一台设备的运营引擎）的生命周期控制器。
// 它由 Manager 创建，既响应管理器的全局停机广播，也支持单独取消自己。
type Handle struct {
	ctx    context.Context
	cancel context.CancelFunc
	// close 用于通知Manager该任务已经完成收尾。
	// 应该在任务的Goroutine退出前通过 defer 来调用。
	close func()
}

// Ctx 返回Handle内部的ctx
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 返回一个channel，当该任务被要求停止时（单独停止或全局停机），该channel会关闭。
// 它允许任务在select语句中监听停止信号。
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Err 在Done()的channel关闭后，返回上下文被取消的原因。
func (h *Handle) Err() error {
	return h.ctx.Err()
}

// Stopped 返回该任务是否已经收到停止信号。
// 停止标志是单向的：一旦为true就不会再变回false。
func (h *Handle) Stopped() bool {
	select {
	case <-h.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel 单独停止该任务，不影响Manager管理的其他任务。
func (h *Handle) Cancel() {
	h.cancel()
}

// Close 通知Manager该任务的收尾工作已经完成。
func (h *Handle) Close() {
	h.close()
}

// Sleep 暂停指定的时长，但如果任务被要求停止，则会提前返回错误。
// 引擎中所有的休眠都必须经过这里，保证几小时级别的观看等待也能被立刻打断。
func (h *Handle) Sleep(duration time.Duration) error {
	timer := time.NewTimer(duration)

	select {
	case <-h.Done():
		// 确保定时器资源在函数退出时被清理
		if !timer.Stop() {
			<-timer.C
		}
		return h.Err()
	case <-timer.C:
		return nil
	}
}

// SleepRange 在[min, max]之间随机休眠一段时间，同样可以被停止信号打断。
// 用于打散引擎的机械节奏。
func (h *Handle) SleepRange(min, max time.Duration) error {
	return h.Sleep(random.Duration(min, max))
}
