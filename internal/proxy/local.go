// Package proxy 实现 bus center 的进程内服务代理
//
// Local 把 ServerProxy 调用转发给同进程的 LnnServer，
// 并把服务端的整数状态码转换为 Go 错误。
package proxy

import (
	"context"
	"errors"
	"fmt"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/lib/log"
	"github.com/dep2p/go-buscenter/pkg/types"
)

var logger = log.Logger("buscenter/proxy")

// StatusOK 服务端成功状态码
const StatusOK int32 = 0

// ErrNoServer 未提供本地服务端
var ErrNoServer = errors.New("proxy: no local server")

// ============================================================================
//                              本地服务端接口
// ============================================================================

// LnnServer 同进程的 LNN 服务端
//
// 所有方法返回整数状态码，0 表示成功。
type LnnServer interface {
	ServerJoin(pkgName string, addr *types.ConnectionAddr) int32
	ServerLeave(pkgName, networkID string) int32
	StartTimeSync(pkgName, networkID string, accuracy types.TimeSyncAccuracy, period types.TimeSyncPeriod) int32
	StopTimeSync(pkgName, networkID string) int32
	GetAllOnlineNodeInfo(pkgName string) ([]types.NodeBasicInfo, int32)
	GetLocalDeviceInfo(pkgName string) (types.NodeBasicInfo, int32)
	GetNodeKeyInfo(pkgName, networkID string, key types.NodeDeviceInfoKey, buf []byte) int32
}

// StatusError 服务端返回的非零状态码
type StatusError struct {
	Op   string
	Code int32
}

// Error 实现 error 接口
func (e *StatusError) Error() string {
	return fmt.Sprintf("proxy: %s failed with status %d", e.Op, e.Code)
}

// statusErr 非零状态码转换为 *StatusError
func statusErr(op string, code int32) error {
	if code == StatusOK {
		return nil
	}
	return &StatusError{Op: op, Code: code}
}

// ============================================================================
//                              Local
// ============================================================================

// Local 进程内服务代理
type Local struct {
	server LnnServer
}

var _ pkgif.ServerProxy = (*Local)(nil)

// NewLocal 创建进程内服务代理
func NewLocal(server LnnServer) *Local {
	return &Local{server: server}
}

// Init 初始化代理
func (p *Local) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.server == nil {
		logger.Error("bus center 获取服务端代理失败")
		return ErrNoServer
	}
	logger.Info("bus center 获取服务端代理成功")
	return nil
}

// JoinLNN 转发入网请求
func (p *Local) JoinLNN(ctx context.Context, pkgName string, addr *types.ConnectionAddr) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	return statusErr("join lnn", p.server.ServerJoin(pkgName, addr))
}

// LeaveLNN 转发退网请求
func (p *Local) LeaveLNN(ctx context.Context, pkgName, networkID string) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	return statusErr("leave lnn", p.server.ServerLeave(pkgName, networkID))
}

// StartTimeSync 转发开始时间同步
func (p *Local) StartTimeSync(ctx context.Context, pkgName, networkID string,
	accuracy types.TimeSyncAccuracy, period types.TimeSyncPeriod) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	return statusErr("start time sync", p.server.StartTimeSync(pkgName, networkID, accuracy, period))
}

// StopTimeSync 转发停止时间同步
func (p *Local) StopTimeSync(ctx context.Context, pkgName, networkID string) error {
	if err := p.ready(ctx); err != nil {
		return err
	}
	return statusErr("stop time sync", p.server.StopTimeSync(pkgName, networkID))
}

// GetAllOnlineNodeInfo 查询全部在线节点
func (p *Local) GetAllOnlineNodeInfo(ctx context.Context, pkgName string) ([]types.NodeBasicInfo, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	infos, code := p.server.GetAllOnlineNodeInfo(pkgName)
	if err := statusErr("get all online node info", code); err != nil {
		return nil, err
	}
	return infos, nil
}

// GetLocalDeviceInfo 查询本地节点
func (p *Local) GetLocalDeviceInfo(ctx context.Context, pkgName string) (*types.NodeBasicInfo, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	info, code := p.server.GetLocalDeviceInfo(pkgName)
	if err := statusErr("get local device info", code); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetNodeKeyInfo 查询节点关键信息，结果不超过 maxLen 字节
func (p *Local) GetNodeKeyInfo(ctx context.Context, pkgName, networkID string,
	key types.NodeDeviceInfoKey, maxLen int) ([]byte, error) {
	if err := p.ready(ctx); err != nil {
		return nil, err
	}
	buf := make([]byte, maxLen)
	if err := statusErr("get node key info", p.server.GetNodeKeyInfo(pkgName, networkID, key, buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (p *Local) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.server == nil {
		return ErrNoServer
	}
	return nil
}
