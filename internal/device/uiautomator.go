package device

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// uiNode 对应uiautomator dump输出中的一个<node>元素。
type uiNode struct {
	ResourceID  string   `xml:"resource-id,attr"`
	Text        string   `xml:"text,attr"`
	Description string   `xml:"content-desc,attr"`
	Class       string   `xml:"class,attr"`
	Bounds      string   `xml:"bounds,attr"`
	Children    []uiNode `xml:"node"`
}

// uiHierarchy 对应dump输出的根元素<hierarchy>。
type uiHierarchy struct {
	XMLName xml.Name `xml:"hierarchy"`
	Nodes   []uiNode `xml:"node"`
}

// parseHierarchy 解析uiautomator dump产生的XML文本。
func parseHierarchy(data string) (*uiHierarchy, error) {
	// dump命令有时会在XML前后拼上提示文字，截取纯XML部分
	start := strings.Index(data, "<?xml")
	if start < 0 {
		start = strings.Index(data, "<hierarchy")
	}
	if start < 0 {
		return nil, fmt.Errorf("dump输出中找不到XML内容")
	}
	end := strings.LastIndex(data, "</hierarchy>")
	if end < 0 {
		return nil, fmt.Errorf("dump输出的XML不完整")
	}
	data = data[start : end+len("</hierarchy>")]

	var h uiHierarchy
	if err := xml.Unmarshal([]byte(data), &h); err != nil {
		return nil, fmt.Errorf("解析界面XML失败: %w", err)
	}
	return &h, nil
}

// matches 判断节点是否命中选择器。
func (n *uiNode) matches(sel Selector) bool {
	switch {
	case sel.ResourceID != "":
		return n.ResourceID == sel.ResourceID
	case sel.Text != "":
		return n.Text == sel.Text
	case sel.Description != "":
		return n.Description == sel.Description
	case sel.Class != "":
		return n.Class == sel.Class
	}
	return false
}

// find 深度优先查找第一个命中选择器的节点。
func (h *uiHierarchy) find(sel Selector) *uiNode {
	var walk func(nodes []uiNode) *uiNode
	walk = func(nodes []uiNode) *uiNode {
		for i := range nodes {
			if nodes[i].matches(sel) {
				return &nodes[i]
			}
			if found := walk(nodes[i].Children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(h.Nodes)
}

var boundsPattern = regexp.MustCompile(`\[(\d+),(\d+)\]\[(\d+),(\d+)\]`)

// center 从bounds属性（形如"[0,72][1080,264]"）计算节点中心点坐标。
func (n *uiNode) center() (int, int, error) {
	m := boundsPattern.FindStringSubmatch(n.Bounds)
	if m == nil {
		return 0, 0, fmt.Errorf("无法解析元素边界: %q", n.Bounds)
	}
	l, _ := strconv.Atoi(m[1])
	t, _ := strconv.Atoi(m[2])
	r, _ := strconv.Atoi(m[3])
	b, _ := strconv.Atoi(m[4])
	return (l + r) / 2, (t + b) / 2, nil
}
