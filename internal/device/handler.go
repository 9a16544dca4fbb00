package device

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// douyinPackage 是抖音的包名，管理端需要展示每台设备是否已安装。
const douyinPackage = "com.ss.android.ugc.aweme"

// deviceView 是设备列表接口返回的单台设备信息。
type deviceView struct {
	Info
	BatteryLevel    int  `json:"battery_level"`
	Charging        bool `json:"charging"`
	DouyinInstalled bool `json:"douyin_installed"`
}

// ListDevicesHandler 返回当前连接的所有设备及其基础信息。
func ListDevicesHandler(c *gin.Context) {
	serials, err := defaultAdb.ListDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取设备列表失败: " + err.Error()})
		return
	}

	views := make([]deviceView, 0, len(serials))
	for _, serial := range serials {
		view := deviceView{Info: defaultAdb.DeviceInfo(serial)}
		if level, charging, err := defaultAdb.BatteryInfo(serial); err == nil {
			view.BatteryLevel = level
			view.Charging = charging
		}
		if packages, err := defaultAdb.Driver(serial).InstalledPackages(); err == nil {
			_, view.DouyinInstalled = packages[douyinPackage]
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"devices": views})
}
