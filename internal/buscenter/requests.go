package buscenter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// ============================================================================
//                              请求 API
// ============================================================================

// JoinLNN 发起入网请求
//
// 同一地址与监听器的请求未完成前不能重复发起；
// 远端受理后才登记，结果由 OnJoinResult 回送。
func (r *Registry) JoinLNN(ctx context.Context, pkgName string, target *types.ConnectionAddr,
	listener pkgif.JoinResultListener) (err error) {
	defer func() { r.metrics.observeRequest(RequestJoin, resultOf(err)) }()

	if !r.initialized.Load() {
		logger.Error("入网失败：未初始化", "pkg", pkgName)
		return ErrNotInitialized
	}
	if isNilListener(listener) {
		return fmt.Errorf("%w: nil join listener", ErrInvalidArgument)
	}
	if verr := target.Validate(); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, verr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findJoin(target, listener) >= 0 {
		logger.Warn("入网请求已存在", "pkg", pkgName, "addr", target.String())
		return ErrDuplicateRequest
	}
	if perr := r.proxy.JoinLNN(ctx, pkgName, target); perr != nil {
		logger.Error("请求入网失败", "pkg", pkgName, "addr", target.String(), "error", perr)
		return fmt.Errorf("%w: join lnn: %w", ErrRemoteRejected, perr)
	}
	return r.addJoin(target, listener)
}

// LeaveLNN 发起退网请求
func (r *Registry) LeaveLNN(ctx context.Context, pkgName, networkID string,
	listener pkgif.LeaveResultListener) (err error) {
	defer func() { r.metrics.observeRequest(RequestLeave, resultOf(err)) }()

	if !r.initialized.Load() {
		logger.Error("退网失败：未初始化", "pkg", pkgName)
		return ErrNotInitialized
	}
	if isNilListener(listener) {
		return fmt.Errorf("%w: nil leave listener", ErrInvalidArgument)
	}
	if verr := validateNetworkID(networkID); verr != nil {
		return verr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLeave(networkID, listener) >= 0 {
		logger.Warn("退网请求已存在", "pkg", pkgName, "networkID", networkID)
		return ErrDuplicateRequest
	}
	if perr := r.proxy.LeaveLNN(ctx, pkgName, networkID); perr != nil {
		logger.Error("请求退网失败", "pkg", pkgName, "networkID", networkID, "error", perr)
		return fmt.Errorf("%w: leave lnn: %w", ErrRemoteRejected, perr)
	}
	return r.addLeave(networkID, listener)
}

// StartTimeSync 发起时间同步
//
// 同一网络 ID 可以被多个不同监听器分别订阅；
// 同一监听器重复订阅需先 StopTimeSync。
func (r *Registry) StartTimeSync(ctx context.Context, pkgName, networkID string,
	accuracy types.TimeSyncAccuracy, period types.TimeSyncPeriod,
	listener pkgif.TimeSyncResultListener) (err error) {
	defer func() { r.metrics.observeRequest(RequestTimeSync, resultOf(err)) }()

	if !r.initialized.Load() {
		logger.Error("开始时间同步失败：未初始化", "pkg", pkgName)
		return ErrNotInitialized
	}
	if isNilListener(listener) {
		return fmt.Errorf("%w: nil time sync listener", ErrInvalidArgument)
	}
	if verr := validateNetworkID(networkID); verr != nil {
		return verr
	}
	if !accuracy.IsRequestable() || !period.IsValid() {
		return fmt.Errorf("%w: accuracy=%s period=%s", ErrInvalidArgument, accuracy, period)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findTimeSync(networkID, listener) >= 0 {
		logger.Warn("重复的时间同步请求，请先 StopTimeSync", "pkg", pkgName, "networkID", networkID)
		return ErrDuplicateRequest
	}
	if perr := r.proxy.StartTimeSync(ctx, pkgName, networkID, accuracy, period); perr != nil {
		logger.Error("开始时间同步失败", "pkg", pkgName, "networkID", networkID, "error", perr)
		return fmt.Errorf("%w: start time sync: %w", ErrRemoteRejected, perr)
	}
	return r.addTimeSync(networkID, accuracy, period, listener)
}

// StopTimeSync 停止目标网络 ID 上的全部时间同步
//
// 每个匹配登记各转发一次停止请求，成功的登记被移除；
// 被远端拒绝的登记保留，拒绝原因合并后返回。
func (r *Registry) StopTimeSync(ctx context.Context, pkgName, networkID string) (err error) {
	defer func() { r.metrics.observeRequest(RequestStopTimeSync, resultOf(err)) }()

	if !r.initialized.Load() {
		logger.Error("停止时间同步失败：未初始化", "pkg", pkgName)
		return ErrNotInitialized
	}
	if verr := validateNetworkID(networkID); verr != nil {
		return verr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		rejected error
		matched  int
		skipped  = make(map[uuid.UUID]struct{})
	)
	for {
		i := r.timeSyncs.find(func(e *timeSyncEntry) bool {
			if e.networkID != networkID {
				return false
			}
			_, skip := skipped[e.id]
			return !skip
		})
		if i < 0 {
			break
		}
		matched++
		if perr := r.proxy.StopTimeSync(ctx, pkgName, networkID); perr != nil {
			logger.Error("停止时间同步失败", "pkg", pkgName, "networkID", networkID, "error", perr)
			skipped[r.timeSyncs.entries[i].id] = struct{}{}
			rejected = multierr.Append(rejected, perr)
			continue
		}
		r.timeSyncs.removeAt(i)
	}
	r.metrics.setPending(RequestTimeSync, r.timeSyncs.len())

	if matched == 0 {
		return fmt.Errorf("%w: no time sync for %s", ErrRequestNotFound, networkID)
	}
	if rejected != nil {
		return fmt.Errorf("%w: stop time sync: %w", ErrRemoteRejected, rejected)
	}
	return nil
}

// RegNodeDeviceStateCb 注册拓扑监听器
//
// 达到上限后返回 ErrSubscriptionLimitReached，调用方需先注销其他监听器。
func (r *Registry) RegNodeDeviceStateCb(pkgName string, listener pkgif.TopologyListener,
	mask types.EventMask) (err error) {
	defer func() { r.metrics.observeRequest(RequestNodeState, resultOf(err)) }()

	if !r.initialized.Load() {
		logger.Error("注册拓扑监听器失败：未初始化", "pkg", pkgName)
		return ErrNotInitialized
	}
	if isNilListener(listener) {
		return fmt.Errorf("%w: nil topology listener", ErrInvalidArgument)
	}
	if !mask.IsValid() {
		return fmt.Errorf("%w: event mask %s", ErrInvalidArgument, mask)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if aerr := r.subs.add(listener, mask); aerr != nil {
		logger.Warn("注册拓扑监听器失败", "pkg", pkgName, "count", r.subs.count, "error", aerr)
		return aerr
	}
	r.metrics.setCallbacks(r.subs.count)
	return nil
}

// UnregNodeDeviceStateCb 注销拓扑监听器
//
// 未找到匹配项不视为错误。
func (r *Registry) UnregNodeDeviceStateCb(listener pkgif.TopologyListener) error {
	if !r.initialized.Load() {
		logger.Error("注销拓扑监听器失败：未初始化")
		return ErrNotInitialized
	}
	if isNilListener(listener) {
		return fmt.Errorf("%w: nil topology listener", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.subs.remove(listener) {
		logger.Debug("注销的拓扑监听器不存在")
	}
	r.metrics.setCallbacks(r.subs.count)
	return nil
}

// ============================================================================
//                              只读查询（透传）
// ============================================================================

// GetAllNodeDeviceInfo 查询全部在线节点
func (r *Registry) GetAllNodeDeviceInfo(ctx context.Context, pkgName string) ([]types.NodeBasicInfo, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	infos, err := r.proxy.GetAllOnlineNodeInfo(ctx, pkgName)
	if err != nil {
		logger.Error("查询在线节点失败", "pkg", pkgName, "error", err)
		return nil, fmt.Errorf("%w: get all online node info: %w", ErrRemoteRejected, err)
	}
	return infos, nil
}

// GetLocalNodeDeviceInfo 查询本地节点
func (r *Registry) GetLocalNodeDeviceInfo(ctx context.Context, pkgName string) (*types.NodeBasicInfo, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	info, err := r.proxy.GetLocalDeviceInfo(ctx, pkgName)
	if err != nil {
		logger.Error("查询本地节点失败", "pkg", pkgName, "error", err)
		return nil, fmt.Errorf("%w: get local device info: %w", ErrRemoteRejected, err)
	}
	return info, nil
}

// GetNodeKeyInfo 查询节点关键信息
func (r *Registry) GetNodeKeyInfo(ctx context.Context, pkgName, networkID string,
	key types.NodeDeviceInfoKey, maxLen int) ([]byte, error) {
	if !r.initialized.Load() {
		return nil, ErrNotInitialized
	}
	if err := validateNetworkID(networkID); err != nil {
		return nil, err
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: maxLen %d", ErrInvalidArgument, maxLen)
	}
	buf, err := r.proxy.GetNodeKeyInfo(ctx, pkgName, networkID, key, maxLen)
	if err != nil {
		logger.Error("查询节点关键信息失败", "pkg", pkgName, "key", key.String(), "error", err)
		return nil, fmt.Errorf("%w: get node key info: %w", ErrRemoteRejected, err)
	}
	return buf, nil
}

// validateNetworkID 把类型层的校验错误映射为注册表错误
func validateNetworkID(networkID string) error {
	err := types.ValidateNetworkID(networkID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNetworkIDTooLong):
		return fmt.Errorf("%w: %w", ErrKeyTooLong, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
}
