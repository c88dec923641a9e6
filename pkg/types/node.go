package types

import "fmt"

// ============================================================================
//                              节点描述
// ============================================================================

const (
	// NetworkIDBufLen 网络 ID 缓冲区长度（含结束符）
	NetworkIDBufLen = 65

	// DeviceNameBufLen 设备名缓冲区长度（含结束符）
	DeviceNameBufLen = 128

	// PkgNameSizeMax 包名缓冲区长度（含结束符）
	PkgNameSizeMax = 65
)

// NodeBasicInfo 节点基础信息
//
// 对注册表而言是不透明负载，只透传给监听器。
type NodeBasicInfo struct {
	NetworkID    string
	DeviceName   string
	DeviceTypeID uint16
}

// NodeBasicInfoType 节点信息变更类型
type NodeBasicInfoType int32

const (
	// TypeNetworkID 网络 ID 变更
	TypeNetworkID NodeBasicInfoType = iota
	// TypeDeviceName 设备名变更
	TypeDeviceName
)

// String 返回变更类型的字符串表示
func (t NodeBasicInfoType) String() string {
	switch t {
	case TypeNetworkID:
		return "network-id"
	case TypeDeviceName:
		return "device-name"
	default:
		return "unknown"
	}
}

// IsValid 检查变更类型是否在枚举范围内
func (t NodeBasicInfoType) IsValid() bool {
	return t >= TypeNetworkID && t <= TypeDeviceName
}

// NodeDeviceInfoKey 节点关键信息键
type NodeDeviceInfoKey int32

const (
	// NodeKeyUDID 设备 UDID
	NodeKeyUDID NodeDeviceInfoKey = iota
	// NodeKeyUUID 设备 UUID
	NodeKeyUUID
)

// String 返回键的字符串表示
func (k NodeDeviceInfoKey) String() string {
	switch k {
	case NodeKeyUDID:
		return "udid"
	case NodeKeyUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// ValidateNetworkID 校验网络 ID 能否放入定长缓冲区
//
// 超长不截断，直接返回 ErrNetworkIDTooLong。
func ValidateNetworkID(networkID string) error {
	if networkID == "" {
		return ErrEmptyNetworkID
	}
	if len(networkID) >= NetworkIDBufLen {
		return fmt.Errorf("%w: %d bytes", ErrNetworkIDTooLong, len(networkID))
	}
	return nil
}

// ValidatePkgName 校验包名
func ValidatePkgName(pkgName string) error {
	if pkgName == "" || len(pkgName) >= PkgNameSizeMax {
		return fmt.Errorf("%w: %q", ErrInvalidPkgName, pkgName)
	}
	return nil
}
