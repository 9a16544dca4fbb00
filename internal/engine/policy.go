package engine

import (
	"strings"
	"time"

	"github.com/laoliu6688/douyin-yunying/pkg/random"
)

// bannerDecision 是看到直播间入口横幅后的选型结果。
type bannerDecision int

const (
	// decisionWatchTarget 目标直播间，按配置时长观看
	decisionWatchTarget bannerDecision = iota
	// decisionWatchVertical 垂类直播间，按配置时长观看
	decisionWatchVertical
	// decisionWatchVideo 到了看普通视频的节奏，当作已观看继续刷
	decisionWatchVideo
	// decisionNotInterested 都不匹配，标记不感兴趣
	decisionNotInterested
)

// decideBanner 对一条直播间横幅做决策。
// 严格按优先级匹配：目标直播间 > 垂类直播间 > 普通视频节奏 > 不感兴趣，
// 命中即返回，后面的分支不再评估。
func (e *Engine) decideBanner(roomName, roomIntro string) bannerDecision {
	live := e.profile.Live

	if live.TargetRoom.Watch && roomName == live.TargetRoom.RoomName {
		return decisionWatchTarget
	}

	vt := live.VerticalLive.VerticalType
	if live.VerticalLive.Watch && vt != "" &&
		(live.VerticalLive.WatchCount <= 0 || e.session.VerticalWatched < live.VerticalLive.WatchCount) &&
		(strings.Contains(roomName, vt) || strings.Contains(roomIntro, vt)) {
		return decisionWatchVertical
	}

	if e.shouldWatchVideo() {
		return decisionWatchVideo
	}

	return decisionNotInterested
}

// shouldWatchVideo 检查是否到了看普通视频的节奏。
// 第一次调用视为立即观看；之后距上次观看超过随机间隔才再次观看。
func (e *Engine) shouldWatchVideo() bool {
	cfg := e.profile.Live.WatchVideo
	if !cfg.Watch {
		return false
	}

	if e.session.LastVideoWatchTime.IsZero() {
		return true
	}

	interval := time.Duration(random.Between(cfg.WatchInterval[0], cfg.WatchInterval[1])) * time.Second
	return e.now().Sub(e.session.LastVideoWatchTime) >= interval
}

// exceededMaxRunTime 检查是否超过最大运行时间。0表示不限制，永远不会因此停止。
func (e *Engine) exceededMaxRunTime() bool {
	maxRunTime := e.profile.Live.MaxRunTime
	if maxRunTime <= 0 {
		return false
	}
	return e.now().Sub(e.session.StartTime) > random.HoursToDuration(maxRunTime)
}
