package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateServiceNameRejected(t *testing.T) {
	m := NewManager()

	h, err := m.NewServiceHandle("D1")
	require.NoError(t, err)
	defer h.Close()

	_, err = m.NewServiceHandle("D1")
	assert.Error(t, err)
	assert.True(t, m.Running("D1"))
}

func TestCancelStopsOnlyOwnHandle(t *testing.T) {
	m := NewManager()

	h1, err := m.NewServiceHandle("D1")
	require.NoError(t, err)
	defer h1.Close()
	h2, err := m.NewServiceHandle("D2")
	require.NoError(t, err)
	defer h2.Close()

	h1.Cancel()
	assert.True(t, h1.Stopped())
	assert.False(t, h2.Stopped())
}

func TestShutdownBroadcastsToAllHandles(t *testing.T) {
	m := NewManager()

	h1, err := m.NewServiceHandle("D1")
	require.NoError(t, err)
	defer h1.Close()
	h2, err := m.NewServiceHandle("D2")
	require.NoError(t, err)
	defer h2.Close()

	m.Shutdown()
	assert.True(t, h1.Stopped())
	assert.True(t, h2.Stopped())
}

func TestSleepInterruptedByCancel(t *testing.T) {
	m := NewManager()
	h, err := m.NewServiceHandle("D1")
	require.NoError(t, err)
	defer h.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		h.Cancel()
	}()

	start := time.Now()
	err = h.Sleep(10 * time.Second)
	assert.Error(t, err)
	// 长时间休眠应该在取消后立刻返回，而不是睡满
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitWithTimeoutReportsStragglers(t *testing.T) {
	m := NewManager()
	h, err := m.NewServiceHandle("D1")
	require.NoError(t, err)

	m.Shutdown()
	remaining := m.WaitWithTimeout(50 * time.Millisecond)
	assert.Equal(t, []string{"D1"}, remaining)

	h.Close()
	assert.Nil(t, m.WaitWithTimeout(time.Second))
	assert.False(t, m.Running("D1"))
}
