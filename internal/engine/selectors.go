package engine

import "github.com/laoliu6688/douyin-yunying/internal/device"

// douyinPackage 是抖音的包名。
const douyinPackage = "com.ss.android.ugc.aweme"

// 抖音界面元素的定位器。resource-id在不同版本间会变化，集中在这里方便跟进。
var (
	// 直播间内：主播昵称，存在即表示人在直播间里
	selRoomUserName = device.ByID("com.ss.android.ugc.aweme:id/user_name")
	// 视频流中的直播间入口横幅
	selRoomEntryBanner = device.ByText("点击进入直播间")
	// 横幅上的直播间名称与介绍
	selRoomName  = device.ByID("com.ss.android.ugc.aweme:id/1tz")
	selRoomIntro = device.ByID("com.ss.android.ugc.aweme:id/xr7")
	// 视频流中的作者昵称与视频描述
	selVideoAuthor = device.ByID("com.ss.android.ugc.aweme:id/title")
	selVideoDesc   = device.ByID("com.ss.android.ugc.aweme:id/desc")
	// 长按弹出的菜单项
	selNotInterested = device.ByText("不感兴趣")
	selReduceType    = device.ByText("减少此类型")
	// 翻页按钮（部分定制ROM的无障碍入口）
	selNextPage = device.ByDescription("Next Page")
	// 直播间内的关注按钮
	selFollow = device.ByText("关注")
	// 评论输入框与发送按钮
	selCommentBox  = device.ByClass("android.widget.EditText")
	selCommentSend = device.ByText("发送")
)
