package profile

// DeviceProfile 是一台设备的全部行为配置，按用途分为两个子节。
// 历史上养号配置和直播运营配置是两份独立加载的JSON文档，容易各改各的产生漂移，
// 现在统一为一份文档、一次加载。
type DeviceProfile struct {
	Nurture NurtureConfig `json:"nurture"`
	Live    LiveConfig    `json:"live"`
}

// NurtureConfig 是养号行为的参数：各类互动的概率、间隔和评论文案。
// 概率取值0-100，间隔均为[min, max]区间，实际值每次在区间内随机。
type NurtureConfig struct {
	AutoOpenDouyin  bool   `json:"auto_open_douyin"`
	MaxRunTime      int    `json:"max_run_time"` // 小时，0不限制
	RunTimeRange    [2]int `json:"run_time_range"`
	GameLiveKeyword string `json:"game_live_keyword"`

	LikeProbability    int `json:"like_probability"`
	CommentProbability int `json:"comment_probability"`
	FollowProbability  int `json:"follow_probability"`
	ShareProbability   int `json:"share_probability"`

	WatchInterval    [2]float64 `json:"watch_interval"`
	FollowInterval   [2]float64 `json:"follow_interval"`
	LikeInterval     [2]float64 `json:"like_interval"`
	CommentInterval  [2]float64 `json:"comment_interval"`
	SwipeInterval    [2]float64 `json:"swipe_interval"`
	PageLoadInterval [2]float64 `json:"page_load_interval"`

	CommentTexts []string `json:"comment_texts"`
}

// LiveConfig 是直播运营的参数：普通视频、垂类直播和目标直播间三条策略的开关与时长。
type LiveConfig struct {
	IsAutoOpenDouyin bool    `json:"is_auto_open_douyin"`
	MaxRunTime       float64 `json:"max_run_time"` // 小时，0不限制

	WatchVideo   WatchVideoConfig   `json:"watch_video"`
	VerticalLive VerticalLiveConfig `json:"vertical_live"`
	TargetRoom   TargetRoomConfig   `json:"target_room"`
}

// WatchVideoConfig 是普通视频观看节奏的配置。
type WatchVideoConfig struct {
	Watch         bool   `json:"watch"`
	WatchInterval [2]int `json:"watch_interval"` // 秒
}

// VerticalLiveConfig 是垂类直播间的配置。
// VerticalType是垂类关键词，出现在直播间名称或介绍中即判定命中。
type VerticalLiveConfig struct {
	Watch        bool    `json:"watch"`
	VerticalType string  `json:"vertical_type"`
	WatchCount   int     `json:"watch_count"` // 0不限制
	WatchTime    float64 `json:"watch_time"`  // 小时
}

// TargetRoomConfig 是目标直播间的配置。RoomName要求完整匹配。
type TargetRoomConfig struct {
	Watch     bool    `json:"watch"`
	RoomName  string  `json:"room_name"`
	WatchTime float64 `json:"watch_time"` // 小时
}

// DefaultProfile 返回默认的设备配置。
// 配置文件缺失或损坏时引擎以这套参数运行，同时会把它落盘，保证后续加载成功。
func DefaultProfile() DeviceProfile {
	return DeviceProfile{
		Nurture: NurtureConfig{
			AutoOpenDouyin:     true,
			MaxRunTime:         0,
			RunTimeRange:       [2]int{9, 22},
			GameLiveKeyword:    "弹幕游戏直播",
			LikeProbability:    60,
			CommentProbability: 30,
			FollowProbability:  20,
			ShareProbability:   10,
			WatchInterval:      [2]float64{10, 15},
			FollowInterval:     [2]float64{5, 8},
			LikeInterval:       [2]float64{0.1, 0.2},
			CommentInterval:    [2]float64{5, 8},
			SwipeInterval:      [2]float64{2, 3},
			PageLoadInterval:   [2]float64{3, 5},
			CommentTexts: []string{
				"真不错👍",
				"支持一下",
				"厉害了",
				"学到了",
				"666",
			},
		},
		Live: LiveConfig{
			IsAutoOpenDouyin: true,
			MaxRunTime:       0,
			WatchVideo: WatchVideoConfig{
				Watch:         true,
				WatchInterval: [2]int{10, 30},
			},
			VerticalLive: VerticalLiveConfig{
				Watch:        true,
				VerticalType: "弹幕",
				WatchCount:   0,
				WatchTime:    0.1,
			},
			TargetRoom: TargetRoomConfig{
				Watch:     true,
				RoomName:  "@Sawubona",
				WatchTime: 1,
			},
		},
	}
}
