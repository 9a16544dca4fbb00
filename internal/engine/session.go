package engine

import "time"

// visitTally 是一次拜访期间在内存里累计的互动数。
// 计数类互动不逐条落库，拜访结束时通过ApplyVisitTotals一次性合并进台账，
// 这是计数的唯一落库路径（粘性布尔走RecordAction，两条路径不重叠）。
type visitTally struct {
	likes    int
	comments int
	followed bool
}

// Session 是一台设备一次运行的内存状态，引擎启动时创建、停止时销毁。
// 引擎之间不共享任何内存状态。
type Session struct {
	Serial    string
	StartTime time.Time

	// LastVideoWatchTime 上次观看普通视频的时间，零值表示还没看过
	LastVideoWatchTime time.Time

	// VerticalWatched 本次运行已观看的垂类直播间数量
	VerticalWatched int

	// 当前打开的拜访。currentAccount为空表示不在直播间里
	currentAccount  string
	currentNickname string
	tally           visitTally
}

// openVisit 在内存里登记一次新拜访。
func (s *Session) openVisit(account, nickname string) {
	s.currentAccount = account
	s.currentNickname = nickname
	s.tally = visitTally{}
}

// closeVisit 清空当前拜访并返回累计的互动数。
func (s *Session) closeVisit() (account, nickname string, tally visitTally) {
	account = s.currentAccount
	nickname = s.currentNickname
	tally = s.tally
	s.currentAccount = ""
	s.currentNickname = ""
	s.tally = visitTally{}
	return
}

// inVisit 返回当前是否有打开的拜访。
func (s *Session) inVisit() bool {
	return s.currentAccount != ""
}
