package types

import "strings"

// ============================================================================
//                              EventMask - 拓扑事件掩码
// ============================================================================

// EventMask 拓扑监听器关心的事件位集合
type EventMask uint32

const (
	// EventNodeOnline 节点上线
	EventNodeOnline EventMask = 0x1
	// EventNodeOffline 节点下线
	EventNodeOffline EventMask = 0x2
	// EventNodeInfoChanged 节点信息变更
	EventNodeInfoChanged EventMask = 0x4

	// EventNodeAll 全部事件
	EventNodeAll = EventNodeOnline | EventNodeOffline | EventNodeInfoChanged
)

// Has 检查掩码是否包含指定事件位
func (m EventMask) Has(event EventMask) bool {
	return m&event != 0
}

// IsValid 检查掩码非空且没有未定义的位
func (m EventMask) IsValid() bool {
	return m != 0 && m&^EventNodeAll == 0
}

// String 返回掩码的字符串表示
func (m EventMask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	if m.Has(EventNodeOnline) {
		parts = append(parts, "online")
	}
	if m.Has(EventNodeOffline) {
		parts = append(parts, "offline")
	}
	if m.Has(EventNodeInfoChanged) {
		parts = append(parts, "info-changed")
	}
	if m&^EventNodeAll != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}
