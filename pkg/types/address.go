package types

import (
	"fmt"
	"strings"
)

// ============================================================================
//                              ConnectionAddr - 候选对端地址
// ============================================================================

const (
	// BTMacLen 蓝牙 MAC 缓冲区长度（含结束符）
	BTMacLen = 18

	// IPLen IP 字符串缓冲区长度（含结束符）
	IPLen = 46
)

// ConnectionAddrType 地址介质类型
type ConnectionAddrType int

const (
	// ConnectionAddrWLAN 无线局域网
	ConnectionAddrWLAN ConnectionAddrType = iota
	// ConnectionAddrBR 经典蓝牙
	ConnectionAddrBR
	// ConnectionAddrBLE 低功耗蓝牙
	ConnectionAddrBLE
	// ConnectionAddrETH 以太网
	ConnectionAddrETH
)

// String 返回地址类型的字符串表示
func (t ConnectionAddrType) String() string {
	switch t {
	case ConnectionAddrWLAN:
		return "wlan"
	case ConnectionAddrBR:
		return "br"
	case ConnectionAddrBLE:
		return "ble"
	case ConnectionAddrETH:
		return "eth"
	default:
		return "unknown"
	}
}

// IsValid 检查地址类型是否在枚举范围内
func (t ConnectionAddrType) IsValid() bool {
	return t >= ConnectionAddrWLAN && t <= ConnectionAddrETH
}

// ConnectionAddr 候选对端地址
//
// 按 Type 区分变体：
//   - BR/BLE: 只使用 Mac
//   - WLAN/ETH: 使用 IP + Port
type ConnectionAddr struct {
	Type ConnectionAddrType
	Mac  string
	IP   string
	Port uint16
}

// NewBRAddr 创建经典蓝牙地址
func NewBRAddr(mac string) ConnectionAddr {
	return ConnectionAddr{Type: ConnectionAddrBR, Mac: mac}
}

// NewBLEAddr 创建低功耗蓝牙地址
func NewBLEAddr(mac string) ConnectionAddr {
	return ConnectionAddr{Type: ConnectionAddrBLE, Mac: mac}
}

// NewWLANAddr 创建 WLAN 地址
func NewWLANAddr(ip string, port uint16) ConnectionAddr {
	return ConnectionAddr{Type: ConnectionAddrWLAN, IP: ip, Port: port}
}

// NewETHAddr 创建以太网地址
func NewETHAddr(ip string, port uint16) ConnectionAddr {
	return ConnectionAddr{Type: ConnectionAddrETH, IP: ip, Port: port}
}

// Validate 校验地址变体及其负载长度
func (a *ConnectionAddr) Validate() error {
	if a == nil {
		return ErrNilConnectionAddr
	}
	switch a.Type {
	case ConnectionAddrBR, ConnectionAddrBLE:
		if a.Mac == "" || len(a.Mac) >= BTMacLen {
			return fmt.Errorf("%w: mac %q", ErrInvalidConnectionAddr, a.Mac)
		}
	case ConnectionAddrWLAN, ConnectionAddrETH:
		if len(a.IP) >= IPLen {
			return fmt.Errorf("%w: ip %q", ErrInvalidConnectionAddr, a.IP)
		}
	default:
		return fmt.Errorf("%w: type %d", ErrInvalidConnectionAddr, a.Type)
	}
	return nil
}

// Matches 判断 other 是否与 a 指向同一对端
//
// a 为已登记的地址，other 为待匹配地址。
// BR/BLE 按前 BTMacLen 字节比较 MAC；
// WLAN/ETH 以 a.IP 的长度比较前缀，端口必须相同，
// 因此 "10.0.0.5" 会匹配 "10.0.0.50"（同端口时）。
func (a *ConnectionAddr) Matches(other *ConnectionAddr) bool {
	if a == nil || other == nil {
		return false
	}
	if a.Type != other.Type {
		return false
	}
	switch a.Type {
	case ConnectionAddrBR, ConnectionAddrBLE:
		return boundedString(a.Mac, BTMacLen) == boundedString(other.Mac, BTMacLen)
	case ConnectionAddrWLAN, ConnectionAddrETH:
		return strings.HasPrefix(other.IP, a.IP) && a.Port == other.Port
	default:
		return false
	}
}

// String 返回地址的字符串表示
func (a ConnectionAddr) String() string {
	switch a.Type {
	case ConnectionAddrBR, ConnectionAddrBLE:
		return a.Type.String() + "/" + a.Mac
	case ConnectionAddrWLAN, ConnectionAddrETH:
		return fmt.Sprintf("%s/%s:%d", a.Type, a.IP, a.Port)
	default:
		return "unknown"
	}
}

// boundedString 截取前 n 字节，模拟定长缓冲区比较
func boundedString(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
