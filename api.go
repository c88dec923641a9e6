package buscenter

import (
	"context"

	"github.com/dep2p/go-buscenter/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              入网 / 退网
// ════════════════════════════════════════════════════════════════════════════

// JoinLNN 请求通过 target 加入网络
//
// 结果通过 listener 一次性送达。同一地址与监听器的请求未完成前
// 再次发起返回 ErrDuplicateRequest。
func (c *Client) JoinLNN(ctx context.Context, pkgName string, target *ConnectionAddr,
	listener JoinResultListener) error {
	if err := c.ready(pkgName); err != nil {
		return err
	}
	return c.registry.JoinLNN(ctx, pkgName, target, listener)
}

// LeaveLNN 请求离开网络
func (c *Client) LeaveLNN(ctx context.Context, pkgName, networkID string, listener LeaveResultListener) error {
	if err := c.ready(pkgName); err != nil {
		return err
	}
	return c.registry.LeaveLNN(ctx, pkgName, networkID, listener)
}

// ════════════════════════════════════════════════════════════════════════════
//                              时间同步
// ════════════════════════════════════════════════════════════════════════════

// StartTimeSync 开始与 networkID 的时间同步
//
// 结果持续送达，直到 StopTimeSync。
func (c *Client) StartTimeSync(ctx context.Context, pkgName, networkID string,
	accuracy TimeSyncAccuracy, period TimeSyncPeriod, listener TimeSyncResultListener) error {
	if err := c.ready(pkgName); err != nil {
		return err
	}
	return c.registry.StartTimeSync(ctx, pkgName, networkID, accuracy, period, listener)
}

// StopTimeSync 停止与 networkID 的全部时间同步
func (c *Client) StopTimeSync(ctx context.Context, pkgName, networkID string) error {
	if err := c.ready(pkgName); err != nil {
		return err
	}
	return c.registry.StopTimeSync(ctx, pkgName, networkID)
}

// ════════════════════════════════════════════════════════════════════════════
//                              拓扑监听
// ════════════════════════════════════════════════════════════════════════════

// RegNodeDeviceStateCb 注册拓扑监听器
func (c *Client) RegNodeDeviceStateCb(pkgName string, listener TopologyListener, mask EventMask) error {
	if err := c.ready(pkgName); err != nil {
		return err
	}
	return c.registry.RegNodeDeviceStateCb(pkgName, listener, mask)
}

// UnregNodeDeviceStateCb 注销拓扑监听器
func (c *Client) UnregNodeDeviceStateCb(listener TopologyListener) error {
	switch c.State() {
	case StateRunning:
	case StateClosed:
		return ErrClientClosed
	default:
		return ErrNotStarted
	}
	return c.registry.UnregNodeDeviceStateCb(listener)
}

// ════════════════════════════════════════════════════════════════════════════
//                              查询
// ════════════════════════════════════════════════════════════════════════════

// GetAllNodeDeviceInfo 查询全部在线节点
func (c *Client) GetAllNodeDeviceInfo(ctx context.Context, pkgName string) ([]NodeBasicInfo, error) {
	if err := c.ready(pkgName); err != nil {
		return nil, err
	}
	return c.registry.GetAllNodeDeviceInfo(ctx, pkgName)
}

// GetLocalNodeDeviceInfo 查询本地节点
func (c *Client) GetLocalNodeDeviceInfo(ctx context.Context, pkgName string) (*NodeBasicInfo, error) {
	if err := c.ready(pkgName); err != nil {
		return nil, err
	}
	return c.registry.GetLocalNodeDeviceInfo(ctx, pkgName)
}

// GetNodeKeyInfo 查询节点关键信息，结果不超过 maxLen 字节
func (c *Client) GetNodeKeyInfo(ctx context.Context, pkgName, networkID string,
	key types.NodeDeviceInfoKey, maxLen int) ([]byte, error) {
	if err := c.ready(pkgName); err != nil {
		return nil, err
	}
	return c.registry.GetNodeKeyInfo(ctx, pkgName, networkID, key, maxLen)
}
