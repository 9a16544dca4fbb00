package ledger

import (
	"time"
)

// OperationLog 是操作流水表：每一次尝试过的动作追加一行，只增不改不删。
// enter_type标记动作发生的入口：'l'直播间、'v'视频流。
type OperationLog struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Serial          string    `gorm:"index" json:"serial"`
	OperationType   string    `json:"operation_type"`
	OperationResult string    `json:"operation_result"`
	LiveAccount     string    `json:"live_account"`
	Details         string    `json:"details"`
	EnterType       string    `gorm:"type:varchar(1);check:enter_type IN ('l','v')" json:"enter_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// LiveRoomRecord 是直播间信息表，身份是(serial, streamer_account)，一个主播一行。
// 没有按天分表：再次进入同一主播的直播间时互动标志整体清零，
// 因此这张表只保留最近一次拜访的互动状态，
// 历史明细在InteractionStats和OperationLog里。
type LiveRoomRecord struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Serial           string    `gorm:"uniqueIndex:idx_room_serial_account" json:"serial"`
	StreamerNickname string    `json:"streamer_nickname"`
	StreamerAccount  string    `gorm:"uniqueIndex:idx_room_serial_account" json:"streamer_account"`
	HasLiked         bool      `json:"has_liked"`
	HasCommented     bool      `json:"has_commented"`
	HasFollowed      bool      `json:"has_followed"`
	HasNotInterested bool      `json:"has_not_interested"`
	IsGame           bool      `json:"is_game"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// InteractionStats 是互动统计表，身份是(serial, live_account, day)，一天一行。
// Day在开启拜访时计算一次并落库，之后的所有更新都按存下来的Day寻址，
// 跨越零点的拜访继续更新进入当天的那一行，不会在半夜悄悄换行。
// 计数只增不减；has_followed/has_not_interested是粘性布尔，当天内只会false→true。
type InteractionStats struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	Serial           string     `gorm:"uniqueIndex:idx_stats_serial_account_day" json:"serial"`
	LiveAccount      string     `gorm:"uniqueIndex:idx_stats_serial_account_day" json:"live_account"`
	Day              string     `gorm:"type:date;uniqueIndex:idx_stats_serial_account_day" json:"day"`
	LikesCount       int        `json:"likes_count"`
	CommentsCount    int        `json:"comments_count"`
	HasFollowed      bool       `json:"has_followed"`
	HasNotInterested bool       `json:"has_not_interested"`
	EnterTime        *time.Time `json:"enter_time"`
	LeaveTime        *time.Time `json:"leave_time"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// VideoDataInfo 是视频信息表，逻辑身份是(serial, streamer_account)，
// 主键是生成的UUID。记录视频流入口的互动状态，与直播间流程互相独立。
type VideoDataInfo struct {
	VideoID          string    `gorm:"primarykey;type:varchar(36)" json:"video_id"`
	Serial           string    `gorm:"uniqueIndex:idx_video_serial_account" json:"serial"`
	StreamerAccount  string    `gorm:"uniqueIndex:idx_video_serial_account" json:"streamer_account"`
	VideoTitle       string    `json:"video_title"`
	HasFollowed      bool      `json:"has_followed"`
	HasLiked         bool      `json:"has_liked"`
	HasCollected     bool      `json:"has_collected"`
	CommentCount     int       `json:"comment_count"`
	HasNotInterested bool      `json:"has_not_interested"`
	IsGame           bool      `json:"is_game"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ActionKind 是单次互动动作的类型。
type ActionKind string

const (
	ActionLike          ActionKind = "like"
	ActionComment       ActionKind = "comment"
	ActionFollow        ActionKind = "follow"
	ActionNotInterested ActionKind = "not_interested"
)

// 操作入口类型
const (
	EnterTypeLive  = "l"
	EnterTypeVideo = "v"
)
