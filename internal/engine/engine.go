package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/laoliu6688/douyin-yunying/internal/device"
	"github.com/laoliu6688/douyin-yunying/internal/ledger"
	"github.com/laoliu6688/douyin-yunying/internal/profile"
	"github.com/laoliu6688/douyin-yunying/pkg/lifecycle"
	"github.com/laoliu6688/douyin-yunying/pkg/random"
	"go.uber.org/zap"
)

// Engine 是一台设备的直播运营引擎：轮询设备界面、分类当前场景、
// 按配置决策并执行动作、把互动事件记入台账。
// 每台设备一个实例，运行在自己的Goroutine里，独占自己的Driver连接。
type Engine struct {
	serial  string
	driver  device.Driver
	ledger  *ledger.Service
	profile profile.DeviceProfile
	logger  *zap.Logger

	session *Session
	handle  *lifecycle.Handle
	now     func() time.Time

	// roomDwell 是直播间内每轮互动后的停留时长
	roomDwell time.Duration

	// appReady 表示本引擎已确认或拉起过抖音，收尾时才有资格去关它
	appReady bool
}

// New 创建一台设备的运营引擎。
func New(serial string, drv device.Driver, led *ledger.Service, prof profile.DeviceProfile, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		serial:  serial,
		driver:  drv,
		ledger:  led,
		profile: prof,
		logger:  log,
		now:     time.Now,

		roomDwell: 10 * time.Second,
	}
}

// Run 是引擎的主循环，阻塞运行直到收到停止信号或超出运行时间预算。
// 由Manager在独立的Goroutine中调用。
func (e *Engine) Run(handle *lifecycle.Handle) {
	defer handle.Close()
	e.handle = handle
	e.session = &Session{Serial: e.serial, StartTime: e.now()}
	publishStatus(e.serial, true)
	defer e.teardown()

	if !e.ensureAppReady() {
		return
	}
	e.logger.Info("直播运营引擎启动")

	for {
		if handle.Stopped() {
			e.logger.Info("收到停止信号，直播运营停止")
			return
		}
		if e.exceededMaxRunTime() {
			e.logger.Info("已达到最大运行时间", zap.Float64("hours", e.profile.Live.MaxRunTime))
			return
		}

		e.step()

		// 每轮之间随机休眠，打散机械节奏；休眠可被停止信号立即打断
		if err := handle.SleepRange(2*time.Second, 10*time.Second); err != nil {
			return
		}
	}
}

// step 执行一轮观察-决策-动作。
// 驱动层的任何失败都被当作"元素不存在/动作未执行"，循环照常进入下一轮，
// 下一轮的重新观察就是天然的重试。
func (e *Engine) step() {
	// 主播昵称元素存在，说明人在直播间里
	if nickname, ok := e.driver.ReadText(selRoomUserName); ok && nickname != "" {
		e.stayInRoom(nickname)
		return
	}

	// 已经不在直播间里，结算可能还开着的拜访
	e.finishVisitIfOpen()

	// 视频流中出现直播间入口横幅
	if e.driver.Detect(selRoomEntryBanner) {
		if roomName, ok := e.driver.ReadText(selRoomName); ok && roomName != "" {
			roomIntro, _ := e.driver.ReadText(selRoomIntro)
			e.handleBanner(roomName, roomIntro)
			return
		}
	}

	// 普通视频流，翻下一条
	e.nextPage()
}

// stayInRoom 处理身处直播间的一轮：必要时开启拜访，执行互动，停留后重新观察。
func (e *Engine) stayInRoom(nickname string) {
	// 界面上只能读到昵称，用它同时作为账号标识
	account := nickname
	if !e.session.inVisit() || e.session.currentAccount != account {
		e.finishVisitIfOpen()
		if _, err := e.ledger.OpenRoomVisit(e.serial, nickname, account); err != nil {
			e.logger.Warn("开启拜访记录失败", zap.Error(err))
		}
		e.session.openVisit(account, nickname)
		e.logger.Info("进入直播间", zap.String("account", account))
		e.ledger.LogOperation(e.serial, "enter_room", "success", account, "进入直播间", ledger.EnterTypeLive)
	}

	// 每个互动步骤之间都要重新确认停止信号：
	// 一旦观测到停止，不再发起任何新的设备动作，直接返回让主循环进入收尾
	e.likeBurst()
	if e.handle.Stopped() {
		return
	}
	e.maybeComment()
	if e.handle.Stopped() {
		return
	}
	e.maybeFollow()

	// 直播随时可能结束，停留片刻后重新观察
	_ = e.handle.Sleep(e.roomDwell)
}

// likeBurst 在屏幕中心偏右下的区域连续点赞20-40次，间隔随机。
// 点赞数只累计在内存里，拜访结束时一次性合并进台账。
func (e *Engine) likeBurst() {
	w, h, err := e.driver.WindowSize()
	if err != nil {
		e.logger.Warn("获取屏幕尺寸失败", zap.Error(err))
		return
	}
	cx, cy := w/2, h/2

	count := random.Between(20, 40)
	done := 0
	for i := 0; i < count; i++ {
		if e.handle.Stopped() {
			break
		}
		x := cx + random.Between(100, 200)
		y := cy + random.Between(300, 400)
		if err := e.driver.ClickAt(x, y); err != nil {
			e.logger.Warn("点赞失败", zap.Error(err))
			break
		}
		done++
		in := e.profile.Nurture.LikeInterval
		if err := e.handle.Sleep(random.Seconds(in[0], in[1])); err != nil {
			break
		}
	}

	if done > 0 {
		e.session.tally.likes += done
		e.ledger.LogOperation(e.serial, "like", "success", e.session.currentAccount,
			fmt.Sprintf("连续点赞%d次", done), ledger.EnterTypeLive)
	}
}

// maybeComment 按配置概率发一条评论，文案从评论池里随机挑选。
func (e *Engine) maybeComment() {
	if !random.Chance(e.profile.Nurture.CommentProbability) {
		return
	}
	text := random.Pick(e.profile.Nurture.CommentTexts)
	if text == "" {
		return
	}

	if err := e.sendComment(text); err != nil {
		// 被停止信号打断不算评论失败，直接返回进入收尾
		if e.handle.Stopped() {
			return
		}
		e.logger.Warn("评论失败", zap.Error(err))
		e.ledger.LogOperation(e.serial, "comment", "failed", e.session.currentAccount,
			err.Error(), ledger.EnterTypeLive)
		return
	}

	e.session.tally.comments++
	e.logger.Info("评论成功", zap.String("text", text))
	e.ledger.LogOperation(e.serial, "comment", "success", e.session.currentAccount,
		"评论: "+text, ledger.EnterTypeLive)

	in := e.profile.Nurture.CommentInterval
	_ = e.handle.Sleep(random.Seconds(in[0], in[1]))
}

// sendComment 执行评论流程：点输入框、通过输入法写入、点发送。
// 步骤间的等待被停止信号打断时立刻中止，不再碰设备。
func (e *Engine) sendComment(text string) error {
	if err := e.driver.Click(selCommentBox); err != nil {
		return fmt.Errorf("未找到评论输入框: %w", err)
	}
	if err := e.handle.Sleep(time.Second); err != nil {
		return err
	}

	if err := e.driver.SendKeys(text); err != nil {
		return fmt.Errorf("输入评论失败: %w", err)
	}
	if err := e.handle.Sleep(time.Second); err != nil {
		return err
	}

	if err := e.driver.Click(selCommentSend); err != nil {
		return fmt.Errorf("未找到发送按钮: %w", err)
	}
	return nil
}

// maybeFollow 按配置概率关注主播。一次拜访最多关注一次。
func (e *Engine) maybeFollow() {
	if e.session.tally.followed {
		return
	}
	if !random.Chance(e.profile.Nurture.FollowProbability) {
		return
	}
	if !e.driver.Detect(selFollow) {
		return
	}
	if err := e.driver.Click(selFollow); err != nil {
		e.logger.Warn("关注失败", zap.Error(err))
		e.ledger.LogOperation(e.serial, "follow", "failed", e.session.currentAccount,
			err.Error(), ledger.EnterTypeLive)
		return
	}

	e.session.tally.followed = true
	// 粘性布尔当场落库；计数类互动留到拜访结束一次性合并，两条路径不重叠
	if err := e.ledger.RecordAction(e.serial, e.session.currentAccount, ledger.ActionFollow); err != nil {
		e.logger.Warn("记录关注失败", zap.Error(err))
	}
	e.logger.Info("关注主播", zap.String("account", e.session.currentAccount))
	e.ledger.LogOperation(e.serial, "follow", "success", e.session.currentAccount,
		"关注主播", ledger.EnterTypeLive)

	in := e.profile.Nurture.FollowInterval
	_ = e.handle.Sleep(random.Seconds(in[0], in[1]))
}

// finishVisitIfOpen 结算当前拜访：合并内存里的互动数并关闭台账记录。
// 台账失败只记日志，不影响行为循环。
func (e *Engine) finishVisitIfOpen() {
	if !e.session.inVisit() {
		return
	}
	account, nickname, tally := e.session.closeVisit()

	if err := e.ledger.ApplyVisitTotals(e.serial, account, nickname,
		tally.likes, tally.comments, tally.followed); err != nil {
		e.logger.Warn("合并拜访数据失败", zap.Error(err))
	}
	if err := e.ledger.CloseRoomVisit(e.serial, account); err != nil {
		e.logger.Warn("关闭拜访记录失败", zap.Error(err))
	}

	e.logger.Info("离开直播间",
		zap.String("account", account),
		zap.Int("likes", tally.likes),
		zap.Int("comments", tally.comments),
		zap.Bool("followed", tally.followed))

	// 拜访结算也刷新一次状态镜像的时间戳，相当于心跳
	publishStatus(e.serial, true)
}

// handleBanner 处理直播间入口横幅，按优先级决策。
func (e *Engine) handleBanner(roomName, roomIntro string) {
	switch e.decideBanner(roomName, roomIntro) {
	case decisionWatchTarget:
		cfg := e.profile.Live.TargetRoom
		e.logger.Info("进入目标直播间", zap.String("room", roomName))
		e.ledger.LogOperation(e.serial, "watch_target_room", "success", roomName,
			fmt.Sprintf("观看%.2f小时", cfg.WatchTime), ledger.EnterTypeLive)
		e.watchFor(random.HoursToDuration(cfg.WatchTime))

	case decisionWatchVertical:
		cfg := e.profile.Live.VerticalLive
		e.session.VerticalWatched++
		e.logger.Info("进入垂类直播间",
			zap.String("room", roomName), zap.String("vertical", cfg.VerticalType))
		e.ledger.LogOperation(e.serial, "watch_vertical_live", "success", roomName,
			fmt.Sprintf("%s直播间，观看%.2f小时", cfg.VerticalType, cfg.WatchTime), ledger.EnterTypeLive)
		e.watchFor(random.HoursToDuration(cfg.WatchTime))

	case decisionWatchVideo:
		e.session.LastVideoWatchTime = e.now()
		e.logger.Info("观看普通视频")
		e.ledger.LogOperation(e.serial, "watch_video", "success", "",
			"按节奏观看普通视频", ledger.EnterTypeVideo)

	case decisionNotInterested:
		e.logger.Info("不是关注的直播间", zap.String("room", roomName))
		e.markNotInterested(roomName)
	}
}

// watchFor 在当前界面停留观看。停止信号可以立即打断几小时级别的观看。
func (e *Engine) watchFor(d time.Duration) {
	if d <= 0 {
		return
	}
	_ = e.handle.Sleep(d)
}

// markNotInterested 长按屏幕并在弹出菜单里点"不感兴趣"，有"减少此类型"时一并点掉。
func (e *Engine) markNotInterested(roomName string) {
	w, h, err := e.driver.WindowSize()
	if err != nil {
		e.logger.Warn("获取屏幕尺寸失败", zap.Error(err))
		return
	}
	if err := e.driver.LongPress(w/2, h/2, random.Duration(500*time.Millisecond, time.Second)); err != nil {
		e.logger.Warn("长按屏幕失败", zap.Error(err))
		return
	}
	if !e.driver.Detect(selNotInterested) {
		return
	}
	if err := e.driver.Click(selNotInterested); err != nil {
		e.logger.Warn("点击不感兴趣失败", zap.Error(err))
		return
	}

	_ = e.handle.Sleep(random.Seconds(0.5, 1))
	if e.driver.Detect(selReduceType) {
		if err := e.driver.Click(selReduceType); err != nil {
			e.logger.Warn("点击减少此类型失败", zap.Error(err))
		}
	}

	if err := e.ledger.RecordAction(e.serial, roomName, ledger.ActionNotInterested); err != nil {
		e.logger.Warn("记录不感兴趣失败", zap.Error(err))
	}
	e.ledger.LogOperation(e.serial, "not_interested", "success", roomName,
		"标记不感兴趣", ledger.EnterTypeLive)
}

// nextPage 翻到下一条内容：优先用翻页按钮，否则按随机幅度上滑。
func (e *Engine) nextPage() {
	e.captureVideoInfo()

	if e.driver.Detect(selNextPage) {
		if err := e.driver.Click(selNextPage); err != nil {
			e.logger.Warn("点击翻页失败", zap.Error(err))
		}
	} else {
		scale := random.Uniform(0.2, 0.4)
		if err := e.driver.Swipe(device.SwipeUp, scale, 300*time.Millisecond); err != nil {
			e.logger.Warn("翻页失败", zap.Error(err))
			return
		}
	}
	_ = e.handle.Sleep(time.Second)
}

// captureVideoInfo 在刷走之前登记当前视频的作者和标题，读不到就跳过。
func (e *Engine) captureVideoInfo() {
	author, ok := e.driver.ReadText(selVideoAuthor)
	if !ok || author == "" {
		return
	}
	title, _ := e.driver.ReadText(selVideoDesc)

	keyword := e.profile.Nurture.GameLiveKeyword
	isGame := keyword != "" && strings.Contains(title, keyword)
	if err := e.ledger.UpsertVideoInfo(e.serial, author, title, isGame); err != nil {
		e.logger.Warn("登记视频信息失败", zap.Error(err))
	}
}

// ensureAppReady 确认抖音已安装并在前台，必要时拉起。
// 这里的失败意味着这台设备这次运行无法进行，引擎直接退出。
func (e *Engine) ensureAppReady() bool {
	if !e.profile.Live.IsAutoOpenDouyin {
		e.logger.Info("自动打开抖音功能已禁用")
		return false
	}

	packages, err := e.driver.InstalledPackages()
	if err != nil {
		e.logger.Error("无法获取应用列表", zap.Error(err))
		return false
	}
	if _, ok := packages[douyinPackage]; !ok {
		e.logger.Error("抖音未安装", zap.String("package", douyinPackage))
		return false
	}

	if current, err := e.driver.CurrentApp(); err == nil && current == douyinPackage {
		e.appReady = true
		return true
	}
	if err := e.driver.StartApp(douyinPackage); err != nil {
		e.logger.Error("抖音打开失败", zap.Error(err))
		return false
	}
	e.appReady = true

	// 等待应用加载
	in := e.profile.Nurture.PageLoadInterval
	_ = e.handle.Sleep(random.Seconds(in[0], in[1]))
	return true
}

// teardown 是引擎退出前的收尾：结算未关闭的拜访、关掉目标应用、更新状态镜像。
func (e *Engine) teardown() {
	e.finishVisitIfOpen()

	// 只关自己确认或拉起过的应用，从未接管前台时不动它
	if e.appReady {
		if err := e.driver.StopApp(douyinPackage); err != nil {
			e.logger.Warn("关闭应用失败", zap.Error(err))
		} else {
			e.logger.Info("关闭应用", zap.String("package", douyinPackage))
		}
	}

	publishStatus(e.serial, false)
	e.logger.Info("引擎已退出")
	_ = e.logger.Sync()
}
