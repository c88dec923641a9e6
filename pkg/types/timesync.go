package types

// ============================================================================
//                              时间同步
// ============================================================================

// TimeSyncAccuracy 时间同步精度
type TimeSyncAccuracy int32

const (
	// LowAccuracy 低精度
	LowAccuracy TimeSyncAccuracy = iota
	// NormalAccuracy 普通精度
	NormalAccuracy
	// HighAccuracy 高精度
	HighAccuracy
	// SuperHighAccuracy 超高精度
	SuperHighAccuracy
	// UnavailAccuracy 精度不可用（仅出现在结果中）
	UnavailAccuracy TimeSyncAccuracy = 0xFFFF
)

// IsRequestable 检查精度能否用于发起同步请求
func (a TimeSyncAccuracy) IsRequestable() bool {
	return a >= LowAccuracy && a <= SuperHighAccuracy
}

// String 返回精度的字符串表示
func (a TimeSyncAccuracy) String() string {
	switch a {
	case LowAccuracy:
		return "low"
	case NormalAccuracy:
		return "normal"
	case HighAccuracy:
		return "high"
	case SuperHighAccuracy:
		return "super-high"
	case UnavailAccuracy:
		return "unavailable"
	default:
		return "unknown"
	}
}

// TimeSyncPeriod 时间同步周期
type TimeSyncPeriod int32

const (
	// ShortPeriod 短周期
	ShortPeriod TimeSyncPeriod = iota
	// NormalPeriod 普通周期
	NormalPeriod
	// LongPeriod 长周期
	LongPeriod
)

// IsValid 检查周期是否在枚举范围内
func (p TimeSyncPeriod) IsValid() bool {
	return p >= ShortPeriod && p <= LongPeriod
}

// String 返回周期的字符串表示
func (p TimeSyncPeriod) String() string {
	switch p {
	case ShortPeriod:
		return "short"
	case NormalPeriod:
		return "normal"
	case LongPeriod:
		return "long"
	default:
		return "unknown"
	}
}

// TimeSyncFlag 同步结果来源
type TimeSyncFlag int32

const (
	// NodeSpecific 与指定节点同步
	NodeSpecific TimeSyncFlag = iota
	// AllLNN 与整个网络同步
	AllLNN
	// WriteRTC 写入 RTC
	WriteRTC
)

// TimeSyncResult 时钟偏移结果
type TimeSyncResult struct {
	Millisecond int32
	Microsecond int32
	Accuracy    TimeSyncAccuracy
}

// TimeSyncResultInfo 时间同步结果
//
// Target 标识结果所属的目标网络 ID，用于匹配已登记的同步请求。
type TimeSyncResultInfo struct {
	Result TimeSyncResult
	Flag   TimeSyncFlag
	Target TimeSyncTarget
}

// TimeSyncTarget 时间同步目标
type TimeSyncTarget struct {
	TargetNetworkID string
}
