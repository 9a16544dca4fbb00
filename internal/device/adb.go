package device

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Adb 封装对adb二进制的调用，是所有设备能力的底座。
// runner字段允许测试注入假的命令执行器。
type Adb struct {
	path   string
	runner func(args ...string) (string, error)
}

// NewAdb 创建一个adb封装。path为空时使用PATH中的adb。
func NewAdb(path string) *Adb {
	if path == "" {
		path = "adb"
	}
	a := &Adb{path: path}
	a.runner = func(args ...string) (string, error) {
		out, err := exec.Command(a.path, args...).CombinedOutput()
		return string(out), err
	}
	return a
}

// run 执行一条adb命令并返回修剪后的输出。
func (a *Adb) run(args ...string) (string, error) {
	out, err := a.runner(args...)
	if err != nil {
		return "", fmt.Errorf("adb %s 执行失败: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(out), nil
}

// shell 对指定设备执行adb shell命令。
func (a *Adb) shell(serial string, args ...string) (string, error) {
	full := append([]string{"-s", serial, "shell"}, args...)
	return a.run(full...)
}

// ListDevices 获取已连接的设备序列号列表。
func (a *Adb) ListDevices() ([]string, error) {
	out, err := a.run("devices")
	if err != nil {
		return nil, err
	}
	return parseDeviceList(out), nil
}

// parseDeviceList 解析`adb devices`的输出，忽略标题行和未授权设备。
func parseDeviceList(out string) []string {
	var devices []string
	lines := strings.Split(out, "\n")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "device" {
			devices = append(devices, fields[0])
		}
	}
	return devices
}

// Ping 检查设备是否在线。引擎启动前的致命性检查：
// 设备不在线时启动失败一次性上报，不做重试循环。
func (a *Adb) Ping(serial string) error {
	devices, err := a.ListDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		if d == serial {
			return nil
		}
	}
	return fmt.Errorf("设备 %s 未连接", serial)
}

// BatteryInfo 获取设备电量和充电状态。
func (a *Adb) BatteryInfo(serial string) (level int, charging bool, err error) {
	out, err := a.shell(serial, "dumpsys", "battery")
	if err != nil {
		return 0, false, err
	}
	level, charging = parseBatteryInfo(out)
	return level, charging, nil
}

// parseBatteryInfo 解析dumpsys battery的输出。status为2表示充电中。
func parseBatteryInfo(out string) (int, bool) {
	level := 0
	charging := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "level: "); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				level = n
			}
		}
		if v, ok := strings.CutPrefix(line, "status: "); ok {
			if strings.TrimSpace(v) == "2" {
				charging = true
			}
		}
	}
	return level, charging
}

// Info 汇总桌面管理端展示所需的设备信息。
type Info struct {
	Serial     string `json:"serial"`
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	AndroidVer string `json:"android_ver"`
	Resolution string `json:"resolution"`
}

// DeviceInfo 获取设备的品牌、型号、系统版本和分辨率。
// 单项读取失败不阻塞其余字段。
func (a *Adb) DeviceInfo(serial string) Info {
	info := Info{Serial: serial}
	if v, err := a.shell(serial, "getprop", "ro.product.brand"); err == nil {
		info.Brand = v
	}
	if v, err := a.shell(serial, "getprop", "ro.product.model"); err == nil {
		info.Model = v
	}
	if v, err := a.shell(serial, "getprop", "ro.build.version.release"); err == nil {
		info.AndroidVer = v
	}
	if v, err := a.shell(serial, "wm", "size"); err == nil {
		info.Resolution = strings.TrimPrefix(v, "Physical size: ")
	}
	return info
}

var windowSizePattern = regexp.MustCompile(`Physical size:\s*(\d+)x(\d+)`)

// parseWindowSize 解析`wm size`的输出。
func parseWindowSize(out string) (int, int, error) {
	m := windowSizePattern.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, fmt.Errorf("无法解析屏幕尺寸: %q", out)
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h, nil
}

var currentFocusPattern = regexp.MustCompile(`mCurrentFocus=Window\{\S+\s+\S+\s+([\w.]+)/`)

// parseCurrentApp 从dumpsys window的输出中提取前台应用包名。
func parseCurrentApp(out string) (string, error) {
	m := currentFocusPattern.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("无法识别前台应用")
	}
	return m[1], nil
}
