package device

import (
	"fmt"
	"strings"
	"time"
)

// AdbDriver 是Driver接口的adb实现，绑定一台设备的序列号。
// 每台设备的引擎独占自己的AdbDriver实例，不会有两个引擎并发驱动同一台设备。
type AdbDriver struct {
	adb    *Adb
	serial string

	// 屏幕尺寸在第一次查询后缓存
	width  int
	height int
}

// Driver 为指定序列号创建一个绑定的驱动实例。
func (a *Adb) Driver(serial string) *AdbDriver {
	return &AdbDriver{adb: a, serial: serial}
}

// dump 抓取当前界面的uiautomator层级。
// 先dump到设备端临时文件再读回，比/dev/tty的方式在各机型上更稳定。
func (d *AdbDriver) dump() (*uiHierarchy, error) {
	if _, err := d.adb.shell(d.serial, "uiautomator", "dump", "/sdcard/window_dump.xml"); err != nil {
		return nil, err
	}
	out, err := d.adb.shell(d.serial, "cat", "/sdcard/window_dump.xml")
	if err != nil {
		return nil, err
	}
	return parseHierarchy(out)
}

// Detect 检查元素是否存在。任何底层失败都视为"不存在"。
func (d *AdbDriver) Detect(sel Selector) bool {
	h, err := d.dump()
	if err != nil {
		return false
	}
	return h.find(sel) != nil
}

// ReadText 读取元素文本。元素不存在或读取失败时第二个返回值为false。
func (d *AdbDriver) ReadText(sel Selector) (string, bool) {
	h, err := d.dump()
	if err != nil {
		return "", false
	}
	node := h.find(sel)
	if node == nil {
		return "", false
	}
	return node.Text, true
}

// Click 定位元素并点击其中心点。
func (d *AdbDriver) Click(sel Selector) error {
	h, err := d.dump()
	if err != nil {
		return err
	}
	node := h.find(sel)
	if node == nil {
		return fmt.Errorf("元素不存在: %+v", sel)
	}
	x, y, err := node.center()
	if err != nil {
		return err
	}
	return d.ClickAt(x, y)
}

// ClickAt 点击绝对坐标。
func (d *AdbDriver) ClickAt(x, y int) error {
	_, err := d.adb.shell(d.serial, "input", "tap", fmt.Sprint(x), fmt.Sprint(y))
	return err
}

// LongPress 通过同点swipe模拟长按。
func (d *AdbDriver) LongPress(x, y int, duration time.Duration) error {
	ms := fmt.Sprint(duration.Milliseconds())
	_, err := d.adb.shell(d.serial, "input", "swipe",
		fmt.Sprint(x), fmt.Sprint(y), fmt.Sprint(x), fmt.Sprint(y), ms)
	return err
}

// Swipe 以屏幕中心为基准朝指定方向滑动，scale为滑动距离占屏幕的比例。
func (d *AdbDriver) Swipe(direction string, scale float64, duration time.Duration) error {
	w, h, err := d.WindowSize()
	if err != nil {
		return err
	}

	cx, cy := w/2, h/2
	var x1, y1, x2, y2 int
	switch direction {
	case SwipeUp:
		dist := int(float64(h) * scale / 2)
		x1, y1, x2, y2 = cx, cy+dist, cx, cy-dist
	case SwipeDown:
		dist := int(float64(h) * scale / 2)
		x1, y1, x2, y2 = cx, cy-dist, cx, cy+dist
	case SwipeLeft:
		dist := int(float64(w) * scale / 2)
		x1, y1, x2, y2 = cx+dist, cy, cx-dist, cy
	case SwipeRight:
		dist := int(float64(w) * scale / 2)
		x1, y1, x2, y2 = cx-dist, cy, cx+dist, cy
	default:
		return fmt.Errorf("未知的滑动方向: %s", direction)
	}

	ms := fmt.Sprint(duration.Milliseconds())
	_, err = d.adb.shell(d.serial, "input", "swipe",
		fmt.Sprint(x1), fmt.Sprint(y1), fmt.Sprint(x2), fmt.Sprint(y2), ms)
	return err
}

// SendKeys 通过ADBKeyboard输入法广播输入文本，支持中文。
func (d *AdbDriver) SendKeys(text string) error {
	_, err := d.adb.shell(d.serial, "am", "broadcast",
		"-a", "ADB_INPUT_TEXT", "--es", "msg", text)
	return err
}

// CurrentApp 返回前台应用包名。
func (d *AdbDriver) CurrentApp() (string, error) {
	out, err := d.adb.shell(d.serial, "dumpsys", "window")
	if err != nil {
		return "", err
	}
	return parseCurrentApp(out)
}

// StartApp 用monkey拉起应用的启动Activity。
func (d *AdbDriver) StartApp(pkg string) error {
	_, err := d.adb.shell(d.serial, "monkey",
		"-p", pkg, "-c", "android.intent.category.LAUNCHER", "1")
	return err
}

// StopApp 强制停止应用。
func (d *AdbDriver) StopApp(pkg string) error {
	_, err := d.adb.shell(d.serial, "am", "force-stop", pkg)
	return err
}

// InstalledPackages 返回已安装的包名集合。
func (d *AdbDriver) InstalledPackages() (map[string]struct{}, error) {
	out, err := d.adb.shell(d.serial, "pm", "list", "packages")
	if err != nil {
		return nil, err
	}
	packages := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, "package:"); ok {
			packages[name] = struct{}{}
		}
	}
	return packages, nil
}

// WindowSize 返回屏幕宽高，首次查询后缓存。
func (d *AdbDriver) WindowSize() (int, int, error) {
	if d.width > 0 && d.height > 0 {
		return d.width, d.height, nil
	}
	out, err := d.adb.shell(d.serial, "wm", "size")
	if err != nil {
		return 0, 0, err
	}
	w, h, err := parseWindowSize(out)
	if err != nil {
		return 0, 0, err
	}
	d.width, d.height = w, h
	return w, h, nil
}
