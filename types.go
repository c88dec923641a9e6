package buscenter

import (
	bc "github.com/dep2p/go-buscenter/internal/buscenter"
	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              客户端状态
// ════════════════════════════════════════════════════════════════════════════

// ClientState 客户端状态
type ClientState int

const (
	// StateIdle 已创建，未启动
	StateIdle ClientState = iota

	// StateStarting 启动中（Fx App 启动中）
	StateStarting

	// StateRunning 运行中
	StateRunning

	// StateStopping 停止中
	StateStopping

	// StateClosed 已关闭，不可重新启动
	StateClosed
)

// String 返回状态的字符串表示
func (s ClientState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// ConnectionAddr 连接地址
	ConnectionAddr = types.ConnectionAddr
	// NodeBasicInfo 节点基本信息
	NodeBasicInfo = types.NodeBasicInfo
	// NodeBasicInfoType 节点信息变更类型
	NodeBasicInfoType = types.NodeBasicInfoType
	// NodeDeviceInfoKey 节点关键信息键
	NodeDeviceInfoKey = types.NodeDeviceInfoKey
	// EventMask 拓扑事件掩码
	EventMask = types.EventMask
	// TimeSyncAccuracy 时间同步精度
	TimeSyncAccuracy = types.TimeSyncAccuracy
	// TimeSyncPeriod 时间同步周期
	TimeSyncPeriod = types.TimeSyncPeriod
	// TimeSyncResultInfo 时间同步结果
	TimeSyncResultInfo = types.TimeSyncResultInfo

	// JoinResultListener 入网结果监听器
	JoinResultListener = pkgif.JoinResultListener
	// LeaveResultListener 退网结果监听器
	LeaveResultListener = pkgif.LeaveResultListener
	// TimeSyncResultListener 时间同步结果监听器
	TimeSyncResultListener = pkgif.TimeSyncResultListener
	// TopologyListener 拓扑监听器
	TopologyListener = pkgif.TopologyListener
	// JoinResultFunc 函数形式的入网结果监听器
	JoinResultFunc = pkgif.JoinResultFunc
	// LeaveResultFunc 函数形式的退网结果监听器
	LeaveResultFunc = pkgif.LeaveResultFunc
	// TimeSyncResultFunc 函数形式的时间同步结果监听器
	TimeSyncResultFunc = pkgif.TimeSyncResultFunc

	// Notifier 服务端回送入口
	Notifier = pkgif.Notifier
	// ServerProxy 服务端代理
	ServerProxy = pkgif.ServerProxy

	// PendingRequest 待处理请求快照
	PendingRequest = bc.PendingRequest
)

// 事件掩码
const (
	EventNodeOnline      = types.EventNodeOnline
	EventNodeOffline     = types.EventNodeOffline
	EventNodeInfoChanged = types.EventNodeInfoChanged
	EventNodeAll         = types.EventNodeAll
)

// 地址构造函数
var (
	NewBRAddr   = types.NewBRAddr
	NewBLEAddr  = types.NewBLEAddr
	NewWLANAddr = types.NewWLANAddr
	NewETHAddr  = types.NewETHAddr
)
