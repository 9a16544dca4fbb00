package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/laoliu6688/douyin-yunying/internal/engine"
	"github.com/laoliu6688/douyin-yunying/internal/platform/logger"
)

// Coordinator 负责编排应用程序的优雅停机流程。
// 先关HTTP入口，再停所有设备引擎并等待它们完成拜访结算。
type Coordinator struct {
	Engines *engine.Manager
}

// NewCoordinator 创建一个新的停机协调器。
func NewCoordinator(engines *engine.Manager) *Coordinator {
	return &Coordinator{Engines: engines}
}

// ListenForSignalsAndShutdown 启动信号监听并阻塞，直到停机流程完成。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 阻塞直到接收到停机信号
	<-sigChan
	fmt.Println("\n收到关闭信号，开始优雅停机...")

	// 关闭HTTP服务器，不再接收新的控制请求，允许正在进行的请求完成
	httpTimeout := 15 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Gin服务器关闭错误: %v\n", err)
	} else {
		fmt.Println("Gin服务器已关闭。")
	}

	// 停掉所有设备的引擎。引擎会结算未关闭的拜访并关掉目标应用，
	// 所以给一个宽裕的窗口
	engineTimeout := 30 * time.Second
	fmt.Printf("正在停止所有设备引擎，最多等待 %v...\n", engineTimeout)
	remaining := c.Engines.StopAll(engineTimeout)
	if len(remaining) == 0 {
		fmt.Println("所有设备引擎已优雅退出。")
	} else {
		fmt.Printf("以下设备的引擎未能在限时内退出: %v\n", remaining)
	}

	logger.Sync()
	fmt.Println("优雅停机完成。")
}
