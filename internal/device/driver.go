package device

import "time"

// Selector 描述一个界面元素的定位方式，与uiautomator的定位语义保持一致。
// 四个字段互斥，只应设置其中一个。
type Selector struct {
	ResourceID  string
	Text        string
	Description string
	Class       string
}

// ByID 按resource-id定位元素
func ByID(id string) Selector {
	return Selector{ResourceID: id}
}

// ByText 按完整文本定位元素
func ByText(text string) Selector {
	return Selector{Text: text}
}

// ByDescription 按content-desc定位元素
func ByDescription(desc string) Selector {
	return Selector{Description: desc}
}

// ByClass 按控件类名定位元素，如"android.widget.EditText"
func ByClass(class string) Selector {
	return Selector{Class: class}
}

// Driver 是策略引擎对设备自动化能力的全部依赖。
// 引擎只面向这个接口编程，具体用什么自动化通道（adb、远端agent等）由适配器决定。
//
// 约定：Detect和ReadText把任何底层失败都当作"元素不存在"处理，
// 不向上抛错，观察失败驱动决策走向下一个分支，而不是中断循环。
type Driver interface {
	// Detect 检查元素是否存在于当前界面
	Detect(sel Selector) bool
	// ReadText 读取元素文本，第二个返回值表示元素是否存在
	ReadText(sel Selector) (string, bool)
	// Click 点击一个通过选择器定位的元素
	Click(sel Selector) error
	// ClickAt 点击屏幕上的绝对坐标
	ClickAt(x, y int) error
	// LongPress 在指定坐标长按一段时间
	LongPress(x, y int, duration time.Duration) error
	// Swipe 朝指定方向滑动。scale是滑动距离占屏幕的比例，duration是手势时长
	Swipe(direction string, scale float64, duration time.Duration) error
	// SendKeys 通过输入法向当前焦点控件输入文本
	SendKeys(text string) error
	// CurrentApp 返回前台应用的包名
	CurrentApp() (string, error)
	// StartApp 启动指定包名的应用
	StartApp(pkg string) error
	// StopApp 强制停止指定包名的应用
	StopApp(pkg string) error
	// InstalledPackages 返回设备上安装的所有包名集合
	InstalledPackages() (map[string]struct{}, error)
	// WindowSize 返回屏幕宽高（像素）
	WindowSize() (width, height int, err error)
}

// 滑动方向常量
const (
	SwipeUp    = "up"
	SwipeDown  = "down"
	SwipeLeft  = "left"
	SwipeRight = "right"
)
