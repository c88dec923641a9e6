// Package interfaces 定义 bus center 客户端的公共接口
//
// 本文件定义监听器能力接口、远端服务代理接口以及入站通知接口。
package interfaces

import (
	"context"

	"github.com/dep2p/go-buscenter/pkg/types"
)

// ============================================================================
//                              监听器接口
// ============================================================================

// JoinResultListener 入网结果监听器
//
// 每个入网请求只会收到一次结果，收到后登记即被消费。
type JoinResultListener interface {
	OnJoinResult(addr *types.ConnectionAddr, networkID string, retCode int32)
}

// LeaveResultListener 退网结果监听器
type LeaveResultListener interface {
	OnLeaveResult(networkID string, retCode int32)
}

// TimeSyncResultListener 时间同步结果监听器
//
// 同一登记可以收到多次结果，直到显式 StopTimeSync。
type TimeSyncResultListener interface {
	OnTimeSyncResult(info *types.TimeSyncResultInfo, retCode int32)
}

// TopologyListener 拓扑变化监听器
//
// 只有在注册掩码中打开的事件才会回调。
type TopologyListener interface {
	OnNodeOnline(info *types.NodeBasicInfo)
	OnNodeOffline(info *types.NodeBasicInfo)
	OnNodeBasicInfoChanged(infoType types.NodeBasicInfoType, info *types.NodeBasicInfo)
}

// JoinResultFunc 函数形式的入网结果监听器
type JoinResultFunc func(addr *types.ConnectionAddr, networkID string, retCode int32)

// OnJoinResult 实现 JoinResultListener
func (f JoinResultFunc) OnJoinResult(addr *types.ConnectionAddr, networkID string, retCode int32) {
	f(addr, networkID, retCode)
}

// LeaveResultFunc 函数形式的退网结果监听器
type LeaveResultFunc func(networkID string, retCode int32)

// OnLeaveResult 实现 LeaveResultListener
func (f LeaveResultFunc) OnLeaveResult(networkID string, retCode int32) {
	f(networkID, retCode)
}

// TimeSyncResultFunc 函数形式的时间同步结果监听器
type TimeSyncResultFunc func(info *types.TimeSyncResultInfo, retCode int32)

// OnTimeSyncResult 实现 TimeSyncResultListener
func (f TimeSyncResultFunc) OnTimeSyncResult(info *types.TimeSyncResultInfo, retCode int32) {
	f(info, retCode)
}

// ============================================================================
//                              远端服务代理
// ============================================================================

// ServerProxy 远端 bus center 服务代理
//
// 所有调用都是同步的，返回 nil 表示远端已受理。
// 结果通过 Notifier 异步回送。
type ServerProxy interface {
	// Init 初始化代理
	Init(ctx context.Context) error

	// JoinLNN 请求加入网络
	JoinLNN(ctx context.Context, pkgName string, addr *types.ConnectionAddr) error

	// LeaveLNN 请求离开网络
	LeaveLNN(ctx context.Context, pkgName, networkID string) error

	// StartTimeSync 请求开始时间同步
	StartTimeSync(ctx context.Context, pkgName, networkID string,
		accuracy types.TimeSyncAccuracy, period types.TimeSyncPeriod) error

	// StopTimeSync 请求停止时间同步
	StopTimeSync(ctx context.Context, pkgName, networkID string) error

	// GetAllOnlineNodeInfo 查询全部在线节点
	GetAllOnlineNodeInfo(ctx context.Context, pkgName string) ([]types.NodeBasicInfo, error)

	// GetLocalDeviceInfo 查询本地节点
	GetLocalDeviceInfo(ctx context.Context, pkgName string) (*types.NodeBasicInfo, error)

	// GetNodeKeyInfo 查询节点关键信息
	GetNodeKeyInfo(ctx context.Context, pkgName, networkID string,
		key types.NodeDeviceInfoKey, maxLen int) ([]byte, error)
}

// ============================================================================
//                              入站通知
// ============================================================================

// Notifier 远端服务回送异步结果的入口
type Notifier interface {
	OnJoinResult(addr *types.ConnectionAddr, networkID string, retCode int32) error
	OnLeaveResult(networkID string, retCode int32) error
	OnNodeOnline(info *types.NodeBasicInfo) error
	OnNodeOffline(info *types.NodeBasicInfo) error
	OnNodeBasicInfoChanged(info *types.NodeBasicInfo, infoType types.NodeBasicInfoType) error
	OnTimeSyncResult(info *types.TimeSyncResultInfo, retCode int32) error
}
