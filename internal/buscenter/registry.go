package buscenter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/lib/log"
	"github.com/dep2p/go-buscenter/pkg/types"
)

var logger = log.Logger("buscenter/registry")

// ============================================================================
//                              请求类型
// ============================================================================

// RequestKind 请求类型
type RequestKind int

const (
	// RequestJoin 入网请求
	RequestJoin RequestKind = iota
	// RequestLeave 退网请求
	RequestLeave
	// RequestTimeSync 时间同步请求
	RequestTimeSync
	// RequestNodeState 拓扑监听器注册
	RequestNodeState
	// RequestStopTimeSync 停止时间同步，只用于请求计数
	RequestStopTimeSync
)

// String 返回请求类型的字符串表示
func (k RequestKind) String() string {
	switch k {
	case RequestJoin:
		return "join"
	case RequestLeave:
		return "leave"
	case RequestTimeSync:
		return "time_sync"
	case RequestNodeState:
		return "node_state"
	case RequestStopTimeSync:
		return "stop_time_sync"
	default:
		return "unknown"
	}
}

// PendingRequest 待处理请求快照
type PendingRequest struct {
	ID     string
	Kind   RequestKind
	Target string
	Age    time.Duration
}

// ============================================================================
//                              Registry
// ============================================================================

// Registry 回调注册表
//
// 持有三个请求账本、拓扑监听器表和一把保护它们的互斥锁。
// 多个 Registry 实例互不影响。
type Registry struct {
	mu sync.Mutex

	config  *Config
	proxy   pkgif.ServerProxy
	clock   clock.Clock
	metrics *Metrics

	joins     ledger[joinEntry]
	leaves    ledger[leaveEntry]
	timeSyncs ledger[timeSyncEntry]
	subs      subscriptionTable

	initialized atomic.Bool
}

// Option 注册表选项
type Option func(*Registry)

// WithClock 设置时钟（测试中使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithMetrics 设置指标
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry 创建注册表
//
// 返回的注册表尚未初始化，需要调用 Init。
func NewRegistry(config *Config, proxy pkgif.ServerProxy, opts ...Option) *Registry {
	if config == nil {
		config = DefaultConfig()
	}
	r := &Registry{
		config: config,
		proxy:  proxy,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init 初始化注册表
//
// 清空所有账本并标记为已初始化；若服务端代理初始化失败，
// 回退到未初始化状态并返回错误。
func (r *Registry) Init(ctx context.Context) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	if r.proxy == nil {
		return fmt.Errorf("%w: nil server proxy", ErrInvalidArgument)
	}

	r.mu.Lock()
	r.joins.clear()
	r.leaves.clear()
	r.timeSyncs.clear()
	r.subs.reset(r.config.MaxNodeStateCallbacks)
	r.syncGaugesLocked()
	r.mu.Unlock()
	r.initialized.Store(true)

	logger.Info("拓扑监听器上限", "max", r.config.MaxNodeStateCallbacks)

	if err := r.proxy.Init(ctx); err != nil {
		logger.Error("服务端代理初始化失败", "error", err)
		r.Deinit()
		return fmt.Errorf("init server proxy: %w", err)
	}

	logger.Info("bus center 客户端初始化成功")
	return nil
}

// Deinit 反初始化注册表
//
// 清空所有账本和监听器，部分初始化时调用也是安全的。
func (r *Registry) Deinit() {
	r.initialized.Store(false)

	r.mu.Lock()
	r.joins.clear()
	r.leaves.clear()
	r.timeSyncs.clear()
	r.subs.reset(r.subs.max)
	r.syncGaugesLocked()
	r.mu.Unlock()

	logger.Debug("bus center 客户端已反初始化")
}

// IsInitialized 是否已初始化
func (r *Registry) IsInitialized() bool {
	return r.initialized.Load()
}

// NodeStateCallbackCount 返回已注册的拓扑监听器数量
func (r *Registry) NodeStateCallbackCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs.count
}

// Pending 返回所有待处理请求的快照
func (r *Registry) Pending() []PendingRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	out := make([]PendingRequest, 0, r.joins.len()+r.leaves.len()+r.timeSyncs.len())
	for _, e := range r.joins.snapshot(nil) {
		out = append(out, PendingRequest{
			ID: e.id.String(), Kind: RequestJoin, Target: e.addr.String(), Age: now.Sub(e.createdAt),
		})
	}
	for _, e := range r.leaves.snapshot(nil) {
		out = append(out, PendingRequest{
			ID: e.id.String(), Kind: RequestLeave, Target: e.networkID, Age: now.Sub(e.createdAt),
		})
	}
	for _, e := range r.timeSyncs.snapshot(nil) {
		out = append(out, PendingRequest{
			ID: e.id.String(), Kind: RequestTimeSync, Target: e.networkID, Age: now.Sub(e.createdAt),
		})
	}
	return out
}

// ============================================================================
//                              查找与登记（调用方持锁）
// ============================================================================

// findJoin 查找入网登记，listener 为 nil 时匹配任意监听器
func (r *Registry) findJoin(addr *types.ConnectionAddr, listener pkgif.JoinResultListener) int {
	return r.joins.find(func(e *joinEntry) bool {
		return e.addr.Matches(addr) && (listener == nil || sameListener(e.listener, listener))
	})
}

// findLeave 查找退网登记，listener 为 nil 时匹配任意监听器
func (r *Registry) findLeave(networkID string, listener pkgif.LeaveResultListener) int {
	return r.leaves.find(func(e *leaveEntry) bool {
		return e.networkID == networkID && (listener == nil || sameListener(e.listener, listener))
	})
}

// findTimeSync 查找时间同步登记，listener 为 nil 时匹配任意监听器
func (r *Registry) findTimeSync(networkID string, listener pkgif.TimeSyncResultListener) int {
	return r.timeSyncs.find(func(e *timeSyncEntry) bool {
		return e.networkID == networkID && (listener == nil || sameListener(e.listener, listener))
	})
}

func (r *Registry) addJoin(addr *types.ConnectionAddr, listener pkgif.JoinResultListener) error {
	id, err := newEntryID()
	if err != nil {
		logger.Error("分配入网登记失败", "error", err)
		return err
	}
	r.joins.push(joinEntry{
		id:        id,
		addr:      *addr,
		listener:  listener,
		createdAt: r.clock.Now(),
	})
	r.metrics.setPending(RequestJoin, r.joins.len())
	return nil
}

func (r *Registry) addLeave(networkID string, listener pkgif.LeaveResultListener) error {
	id, err := newEntryID()
	if err != nil {
		logger.Error("分配退网登记失败", "error", err)
		return err
	}
	key, err := copyNetworkID(networkID)
	if err != nil {
		logger.Error("复制网络 ID 失败", "error", err)
		return err
	}
	r.leaves.push(leaveEntry{
		id:        id,
		networkID: key,
		listener:  listener,
		createdAt: r.clock.Now(),
	})
	r.metrics.setPending(RequestLeave, r.leaves.len())
	return nil
}

func (r *Registry) addTimeSync(networkID string, accuracy types.TimeSyncAccuracy,
	period types.TimeSyncPeriod, listener pkgif.TimeSyncResultListener) error {
	id, err := newEntryID()
	if err != nil {
		logger.Error("分配时间同步登记失败", "error", err)
		return err
	}
	key, err := copyNetworkID(networkID)
	if err != nil {
		logger.Error("复制网络 ID 失败", "error", err)
		return err
	}
	r.timeSyncs.push(timeSyncEntry{
		id:        id,
		networkID: key,
		accuracy:  accuracy,
		period:    period,
		listener:  listener,
		createdAt: r.clock.Now(),
	})
	r.metrics.setPending(RequestTimeSync, r.timeSyncs.len())
	return nil
}

// syncGaugesLocked 刷新全部计数类指标
func (r *Registry) syncGaugesLocked() {
	r.metrics.setPending(RequestJoin, r.joins.len())
	r.metrics.setPending(RequestLeave, r.leaves.len())
	r.metrics.setPending(RequestTimeSync, r.timeSyncs.len())
	r.metrics.setCallbacks(r.subs.count)
}
