package buscenter

import (
	"fmt"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// ============================================================================
//                              入站通知分发
// ============================================================================

// 通知事件标签
const (
	eventJoinResult     = "join_result"
	eventLeaveResult    = "leave_result"
	eventNodeOnline     = "node_online"
	eventNodeOffline    = "node_offline"
	eventInfoChanged    = "node_info_changed"
	eventTimeSyncResult = "time_sync_result"
)

var _ pkgif.Notifier = (*Registry)(nil)

// OnJoinResult 分发入网结果
//
// 逐个摘除目标地址上的全部入网登记（不区分监听器），
// 每摘除一个就释放锁回调一次，再重新加锁继续查找。
// 回调顺序为最新登记优先。
func (r *Registry) OnJoinResult(addr *types.ConnectionAddr, networkID string, retCode int32) error {
	if addr == nil {
		return fmt.Errorf("%w: nil addr", ErrInvalidArgument)
	}
	if !r.initialized.Load() {
		return ErrNotInitialized
	}

	delivered := 0
	r.mu.Lock()
	for {
		i := r.findJoin(addr, nil)
		if i < 0 {
			break
		}
		entry := r.joins.removeAt(i)
		r.metrics.setPending(RequestJoin, r.joins.len())
		r.mu.Unlock()

		entry.listener.OnJoinResult(addr, networkID, retCode)
		delivered++

		r.mu.Lock()
	}
	r.mu.Unlock()

	logger.Debug("入网结果已分发", "addr", addr.String(), "networkID", networkID,
		"retCode", retCode, "listeners", delivered)
	r.metrics.observeNotification(eventJoinResult, delivered)
	return nil
}

// OnLeaveResult 分发退网结果
func (r *Registry) OnLeaveResult(networkID string, retCode int32) error {
	if networkID == "" {
		logger.Error("退网结果缺少网络 ID")
		return fmt.Errorf("%w: empty network ID", ErrInvalidArgument)
	}
	if !r.initialized.Load() {
		logger.Error("退网结果分发失败：未初始化")
		return ErrNotInitialized
	}

	delivered := 0
	r.mu.Lock()
	for {
		i := r.findLeave(networkID, nil)
		if i < 0 {
			break
		}
		entry := r.leaves.removeAt(i)
		r.metrics.setPending(RequestLeave, r.leaves.len())
		r.mu.Unlock()

		entry.listener.OnLeaveResult(networkID, retCode)
		delivered++

		r.mu.Lock()
	}
	r.mu.Unlock()

	logger.Debug("退网结果已分发", "networkID", networkID, "retCode", retCode, "listeners", delivered)
	r.metrics.observeNotification(eventLeaveResult, delivered)
	return nil
}

// OnNodeOnline 分发节点上线
func (r *Registry) OnNodeOnline(info *types.NodeBasicInfo) error {
	return r.notifyNodeState(eventNodeOnline, info, types.EventNodeOnline,
		func(l pkgif.TopologyListener) { l.OnNodeOnline(info) })
}

// OnNodeOffline 分发节点下线
func (r *Registry) OnNodeOffline(info *types.NodeBasicInfo) error {
	return r.notifyNodeState(eventNodeOffline, info, types.EventNodeOffline,
		func(l pkgif.TopologyListener) { l.OnNodeOffline(info) })
}

// OnNodeBasicInfoChanged 分发节点信息变更
//
// infoType 超出枚举范围时直接拒绝，不做任何分发。
func (r *Registry) OnNodeBasicInfoChanged(info *types.NodeBasicInfo, infoType types.NodeBasicInfoType) error {
	if info == nil {
		logger.Error("节点信息变更缺少节点信息")
		return fmt.Errorf("%w: nil node info", ErrInvalidArgument)
	}
	if !r.initialized.Load() {
		return ErrNotInitialized
	}
	if !infoType.IsValid() {
		logger.Error("节点信息变更类型无效", "type", int32(infoType))
		return fmt.Errorf("%w: info type %d", ErrInvalidArgument, infoType)
	}
	return r.notifyNodeState(eventInfoChanged, info, types.EventNodeInfoChanged,
		func(l pkgif.TopologyListener) { l.OnNodeBasicInfoChanged(infoType, info) })
}

// notifyNodeState 在锁内复制监听器表，释放锁后按掩码回调
func (r *Registry) notifyNodeState(event string, info *types.NodeBasicInfo, bit types.EventMask,
	invoke func(pkgif.TopologyListener)) error {
	if info == nil {
		return fmt.Errorf("%w: nil node info", ErrInvalidArgument)
	}
	if !r.initialized.Load() {
		return ErrNotInitialized
	}

	r.mu.Lock()
	dup := r.subs.snapshot()
	r.mu.Unlock()

	delivered := 0
	for _, s := range dup {
		if !s.mask.Has(bit) {
			continue
		}
		invoke(s.listener)
		delivered++
	}

	logger.Debug("拓扑事件已分发", "event", event, "networkID", info.NetworkID, "listeners", delivered)
	r.metrics.observeNotification(event, delivered)
	return nil
}

// OnTimeSyncResult 分发时间同步结果
//
// 只复制目标网络 ID 匹配的登记，登记本身保留，
// 直到调用方显式 StopTimeSync。
func (r *Registry) OnTimeSyncResult(info *types.TimeSyncResultInfo, retCode int32) error {
	if info == nil {
		logger.Error("时间同步结果为空")
		return fmt.Errorf("%w: nil time sync result", ErrInvalidArgument)
	}
	if !r.initialized.Load() {
		logger.Error("时间同步结果分发失败：未初始化")
		return ErrNotInitialized
	}

	target := info.Target.TargetNetworkID
	r.mu.Lock()
	dup := r.timeSyncs.snapshot(func(e *timeSyncEntry) bool {
		return e.networkID == target
	})
	r.mu.Unlock()

	for _, e := range dup {
		e.listener.OnTimeSyncResult(info, retCode)
	}

	logger.Debug("时间同步结果已分发", "networkID", target, "retCode", retCode, "listeners", len(dup))
	r.metrics.observeNotification(eventTimeSyncResult, len(dup))
	return nil
}
