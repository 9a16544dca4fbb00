package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/laoliu6688/douyin-yunying/internal/device"
	"github.com/laoliu6688/douyin-yunying/internal/ledger"
	"github.com/laoliu6688/douyin-yunying/internal/profile"
	"github.com/laoliu6688/douyin-yunying/pkg/lifecycle"
)

// fakeDriver 模拟设备界面：texts里有的选择器视为存在，其余视为不存在。
// 测试中通过setText/removeText切换"屏幕内容"。
type fakeDriver struct {
	mu        sync.Mutex
	texts     map[device.Selector]string
	clicks    []device.Selector
	taps      int
	swipes    int
	typed     []string
	stops     []string
	current   string
	installed map[string]struct{}
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		texts:     make(map[device.Selector]string),
		current:   douyinPackage,
		installed: map[string]struct{}{douyinPackage: {}},
	}
}

func (f *fakeDriver) setText(sel device.Selector, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts[sel] = text
}

func (f *fakeDriver) removeText(sel device.Selector) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.texts, sel)
}

func (f *fakeDriver) Detect(sel device.Selector) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.texts[sel]
	return ok
}

func (f *fakeDriver) ReadText(sel device.Selector) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.texts[sel]
	return text, ok
}

func (f *fakeDriver) Click(sel device.Selector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, sel)
	return nil
}

func (f *fakeDriver) ClickAt(x, y int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taps++
	return nil
}

func (f *fakeDriver) LongPress(x, y int, duration time.Duration) error { return nil }

func (f *fakeDriver) Swipe(direction string, scale float64, duration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swipes++
	return nil
}

func (f *fakeDriver) SendKeys(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeDriver) CurrentApp() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeDriver) StartApp(pkg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = pkg
	return nil
}

func (f *fakeDriver) StopApp(pkg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops = append(f.stops, pkg)
	return nil
}

func (f *fakeDriver) InstalledPackages() (map[string]struct{}, error) {
	return f.installed, nil
}

func (f *fakeDriver) WindowSize() (int, int, error) { return 1080, 2340, nil }

func (f *fakeDriver) tapCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taps
}

func (f *fakeDriver) swipeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.swipes
}

// newTestLedger 在内存SQLite上建一个独立的台账服务，返回裸DB供断言用。
func newTestLedger(t *testing.T) (*ledger.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&ledger.OperationLog{}, &ledger.LiveRoomRecord{},
		&ledger.InteractionStats{}, &ledger.VideoDataInfo{},
	))
	return ledger.NewService(db, nil), db
}

func newPolicyEngine(prof profile.DeviceProfile) *Engine {
	e := New("D1", nil, nil, prof, zap.NewNop())
	e.session = &Session{Serial: "D1", StartTime: time.Now()}
	return e
}

func TestDecideBannerTargetBeatsVertical(t *testing.T) {
	prof := profile.DeviceProfile{Live: profile.LiveConfig{
		TargetRoom:   profile.TargetRoomConfig{Watch: true, RoomName: "弹幕小屋", WatchTime: 1},
		VerticalLive: profile.VerticalLiveConfig{Watch: true, VerticalType: "弹幕", WatchTime: 0.1},
	}}
	e := newPolicyEngine(prof)

	// 房间名同时命中目标和垂类关键词，目标优先
	assert.Equal(t, decisionWatchTarget, e.decideBanner("弹幕小屋", ""))
	// 只命中垂类关键词
	assert.Equal(t, decisionWatchVertical, e.decideBanner("某某弹幕游戏", ""))
	// 关键词出现在介绍里也算命中
	assert.Equal(t, decisionWatchVertical, e.decideBanner("某某直播间", "全天弹幕互动"))
}

func TestDecideBannerVerticalWatchCountLimit(t *testing.T) {
	prof := profile.DeviceProfile{Live: profile.LiveConfig{
		VerticalLive: profile.VerticalLiveConfig{Watch: true, VerticalType: "弹幕", WatchCount: 1},
	}}
	e := newPolicyEngine(prof)

	assert.Equal(t, decisionWatchVertical, e.decideBanner("弹幕游戏", ""))
	e.session.VerticalWatched = 1
	assert.Equal(t, decisionNotInterested, e.decideBanner("弹幕游戏", ""))
}

func TestDecideBannerFallsBackToNotInterested(t *testing.T) {
	e := newPolicyEngine(profile.DeviceProfile{})
	assert.Equal(t, decisionNotInterested, e.decideBanner("随便什么直播间", ""))
}

func TestShouldWatchVideoCadence(t *testing.T) {
	prof := profile.DeviceProfile{Live: profile.LiveConfig{
		WatchVideo: profile.WatchVideoConfig{Watch: true, WatchInterval: [2]int{10, 10}},
	}}
	e := newPolicyEngine(prof)

	// 还没看过，立即观看
	assert.True(t, e.shouldWatchVideo())

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	e.session.LastVideoWatchTime = base

	e.now = func() time.Time { return base.Add(5 * time.Second) }
	assert.False(t, e.shouldWatchVideo())

	e.now = func() time.Time { return base.Add(11 * time.Second) }
	assert.True(t, e.shouldWatchVideo())
}

func TestExceededMaxRunTime(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)

	e := newPolicyEngine(profile.DeviceProfile{Live: profile.LiveConfig{MaxRunTime: 0}})
	e.session.StartTime = start
	e.now = func() time.Time { return start.Add(100 * time.Hour) }
	// 0表示不限制
	assert.False(t, e.exceededMaxRunTime())

	e = newPolicyEngine(profile.DeviceProfile{Live: profile.LiveConfig{MaxRunTime: 1}})
	e.session.StartTime = start
	e.now = func() time.Time { return start.Add(30 * time.Minute) }
	assert.False(t, e.exceededMaxRunTime())
	e.now = func() time.Time { return start.Add(2 * time.Hour) }
	assert.True(t, e.exceededMaxRunTime())
}

// 直播间拜访的完整生命周期：进入、互动、离开时一次性落库。
func TestVisitLifecycle(t *testing.T) {
	drv := newFakeDriver()
	drv.setText(selRoomUserName, "主播小美")
	drv.setText(selFollow, "关注")

	svc, db := newTestLedger(t)
	prof := profile.DeviceProfile{
		Nurture: profile.NurtureConfig{
			CommentProbability: 100,
			FollowProbability:  100,
			CommentTexts:       []string{"支持一下"},
		},
	}

	e := New("D1", drv, svc, prof, zap.NewNop())
	e.roomDwell = 0

	lm := lifecycle.NewManager()
	handle, err := lm.NewServiceHandle("D1")
	require.NoError(t, err)
	defer handle.Close()
	e.handle = handle
	e.session = &Session{Serial: "D1", StartTime: time.Now()}

	// 第一轮：在直播间里，完成点赞、评论、关注
	e.step()
	assert.GreaterOrEqual(t, drv.tapCount(), 20)
	assert.LessOrEqual(t, drv.tapCount(), 40)
	assert.Equal(t, []string{"支持一下"}, drv.typed)
	assert.True(t, e.session.inVisit())

	// 第二轮：直播间已经退出，拜访结算落库
	drv.removeText(selRoomUserName)
	e.step()
	assert.False(t, e.session.inVisit())

	var stats ledger.InteractionStats
	require.NoError(t, db.Where("serial = ? AND live_account = ?", "D1", "主播小美").
		First(&stats).Error)
	assert.Equal(t, drv.tapCount(), stats.LikesCount)
	assert.Equal(t, 1, stats.CommentsCount)
	assert.True(t, stats.HasFollowed)
	require.NotNil(t, stats.LeaveTime)

	var record ledger.LiveRoomRecord
	require.NoError(t, db.Where("serial = ? AND streamer_account = ?", "D1", "主播小美").
		First(&record).Error)
	assert.True(t, record.HasLiked)
	assert.True(t, record.HasCommented)
	assert.True(t, record.HasFollowed)
}

// 视频流中登记视频信息并翻页。
func TestNextPageCapturesVideoInfo(t *testing.T) {
	drv := newFakeDriver()
	drv.setText(selVideoAuthor, "游戏主播")
	drv.setText(selVideoDesc, "弹幕游戏直播精彩时刻")

	svc, db := newTestLedger(t)
	prof := profile.DeviceProfile{
		Nurture: profile.NurtureConfig{GameLiveKeyword: "弹幕游戏"},
		Live:    profile.LiveConfig{},
	}

	e := New("D1", drv, svc, prof, zap.NewNop())
	lm := lifecycle.NewManager()
	handle, err := lm.NewServiceHandle("D1")
	require.NoError(t, err)
	defer handle.Close()
	e.handle = handle
	e.session = &Session{Serial: "D1", StartTime: time.Now()}
	handle.Cancel() // 让翻页后的等待立即返回

	e.step()
	assert.Equal(t, 1, drv.swipeCount())

	var video ledger.VideoDataInfo
	require.NoError(t, db.Where("serial = ? AND streamer_account = ?", "D1", "游戏主播").
		First(&video).Error)
	assert.Equal(t, "弹幕游戏直播精彩时刻", video.VideoTitle)
	assert.True(t, video.IsGame)
}

// 停止信号能立即打断主循环里的休眠。
func TestRunStopsOnSignal(t *testing.T) {
	drv := newFakeDriver()
	svc, _ := newTestLedger(t)
	prof := profile.DeviceProfile{Live: profile.LiveConfig{IsAutoOpenDouyin: true}}

	e := New("D1", drv, svc, prof, zap.NewNop())
	lm := lifecycle.NewManager()
	handle, err := lm.NewServiceHandle("D1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		e.Run(handle)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	handle.Cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("引擎没有在停止信号后及时退出")
	}
	assert.False(t, lm.Running("D1"))
	// 引擎接管过前台，收尾时要负责关掉应用
	assert.Equal(t, []string{douyinPackage}, drv.stops)
}

// 观测到停止信号后，除收尾外不得再发起任何新的设备动作。
func TestStopPreventsFurtherEngagement(t *testing.T) {
	drv := newFakeDriver()
	drv.setText(selRoomUserName, "主播小美")
	drv.setText(selFollow, "关注")

	svc, _ := newTestLedger(t)
	prof := profile.DeviceProfile{
		Nurture: profile.NurtureConfig{
			CommentProbability: 100,
			FollowProbability:  100,
			CommentTexts:       []string{"支持一下"},
		},
	}

	e := New("D1", drv, svc, prof, zap.NewNop())
	e.roomDwell = 0

	lm := lifecycle.NewManager()
	handle, err := lm.NewServiceHandle("D1")
	require.NoError(t, err)
	defer handle.Close()
	e.handle = handle
	e.session = &Session{Serial: "D1", StartTime: time.Now()}

	handle.Cancel()
	e.step()

	// 没有点赞、没有评论、没有关注
	assert.Zero(t, drv.tapCount())
	assert.Empty(t, drv.typed)
	assert.Empty(t, drv.clicks)
}

// 从未接管前台时，退出不去强停应用。
func TestTeardownSkipsStopAppWhenNeverStarted(t *testing.T) {
	drv := newFakeDriver()
	svc, _ := newTestLedger(t)
	prof := profile.DeviceProfile{Live: profile.LiveConfig{IsAutoOpenDouyin: false}}

	e := New("D1", drv, svc, prof, zap.NewNop())
	lm := lifecycle.NewManager()
	handle, err := lm.NewServiceHandle("D1")
	require.NoError(t, err)

	e.Run(handle)
	assert.Empty(t, drv.stops)
}

// 目标直播间横幅按配置的时长观看，时长用完才返回。
func TestHandleBannerTargetRoomWatchesConfiguredTime(t *testing.T) {
	drv := newFakeDriver()
	svc, db := newTestLedger(t)
	// 0.0001小时 = 360毫秒
	prof := profile.DeviceProfile{Live: profile.LiveConfig{
		TargetRoom: profile.TargetRoomConfig{Watch: true, RoomName: "@Sawubona", WatchTime: 0.0001},
	}}

	e := New("D1", drv, svc, prof, zap.NewNop())
	lm := lifecycle.NewManager()
	handle, err := lm.NewServiceHandle("D1")
	require.NoError(t, err)
	defer handle.Close()
	e.handle = handle
	e.session = &Session{Serial: "D1", StartTime: time.Now()}

	start := time.Now()
	e.handleBanner("@Sawubona", "")
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 360*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)

	var entry ledger.OperationLog
	require.NoError(t, db.Where("serial = ? AND operation_type = ?", "D1", "watch_target_room").
		First(&entry).Error)
	assert.Equal(t, "@Sawubona", entry.LiveAccount)
}
