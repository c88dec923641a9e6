package buscenter

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-buscenter/pkg/types"
)

// ============================================================================
//                              测试替身
// ============================================================================

var errMockRejected = errors.New("mock: rejected")

// mockProxy 记录调用并按配置返回错误的服务端代理
type mockProxy struct {
	mu sync.Mutex

	initErr     error
	joinErr     error
	leaveErr    error
	startErr    error
	stopErrs    []error // 依次返回，耗尽后返回 nil
	queryErr    error
	nodes       []types.NodeBasicInfo
	local       types.NodeBasicInfo
	keyInfo     []byte
	initCalls   int
	joinCalls   int
	leaveCalls  int
	startCalls  int
	stopCalls   int
	lastPkgName string
}

func (p *mockProxy) Init(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initCalls++
	return p.initErr
}

func (p *mockProxy) JoinLNN(_ context.Context, pkgName string, _ *types.ConnectionAddr) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.joinCalls++
	p.lastPkgName = pkgName
	return p.joinErr
}

func (p *mockProxy) LeaveLNN(_ context.Context, pkgName, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.leaveCalls++
	p.lastPkgName = pkgName
	return p.leaveErr
}

func (p *mockProxy) StartTimeSync(_ context.Context, pkgName, _ string,
	_ types.TimeSyncAccuracy, _ types.TimeSyncPeriod) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startCalls++
	p.lastPkgName = pkgName
	return p.startErr
}

func (p *mockProxy) StopTimeSync(_ context.Context, pkgName, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCalls++
	p.lastPkgName = pkgName
	if len(p.stopErrs) == 0 {
		return nil
	}
	err := p.stopErrs[0]
	p.stopErrs = p.stopErrs[1:]
	return err
}

func (p *mockProxy) GetAllOnlineNodeInfo(_ context.Context, _ string) ([]types.NodeBasicInfo, error) {
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return p.nodes, nil
}

func (p *mockProxy) GetLocalDeviceInfo(_ context.Context, _ string) (*types.NodeBasicInfo, error) {
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	info := p.local
	return &info, nil
}

func (p *mockProxy) GetNodeKeyInfo(_ context.Context, _, _ string, _ types.NodeDeviceInfoKey, maxLen int) ([]byte, error) {
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	if len(p.keyInfo) > maxLen {
		return p.keyInfo[:maxLen], nil
	}
	return p.keyInfo, nil
}

func (p *mockProxy) calls() (join, leave, start, stop int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.joinCalls, p.leaveCalls, p.startCalls, p.stopCalls
}

// joinCall 一次入网结果回调
type joinCall struct {
	addr      types.ConnectionAddr
	networkID string
	retCode   int32
}

// joinRecorder 记录入网结果的监听器
type joinRecorder struct {
	mu    sync.Mutex
	name  string
	calls []joinCall
	onRun func()
}

func (l *joinRecorder) OnJoinResult(addr *types.ConnectionAddr, networkID string, retCode int32) {
	l.mu.Lock()
	l.calls = append(l.calls, joinCall{addr: *addr, networkID: networkID, retCode: retCode})
	l.mu.Unlock()
	if l.onRun != nil {
		l.onRun()
	}
}

func (l *joinRecorder) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

// leaveRecorder 记录退网结果的监听器
type leaveRecorder struct {
	mu    sync.Mutex
	codes []int32
}

func (l *leaveRecorder) OnLeaveResult(_ string, retCode int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.codes = append(l.codes, retCode)
}

func (l *leaveRecorder) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.codes)
}

// timeSyncRecorder 记录时间同步结果的监听器
type timeSyncRecorder struct {
	mu      sync.Mutex
	results []types.TimeSyncResultInfo
}

func (l *timeSyncRecorder) OnTimeSyncResult(info *types.TimeSyncResultInfo, _ int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, *info)
}

func (l *timeSyncRecorder) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results)
}

// topologyRecorder 记录拓扑事件的监听器
type topologyRecorder struct {
	mu       sync.Mutex
	online   []string
	offline  []string
	changed  []types.NodeBasicInfoType
	onOnline func()
}

func (l *topologyRecorder) OnNodeOnline(info *types.NodeBasicInfo) {
	l.mu.Lock()
	l.online = append(l.online, info.NetworkID)
	l.mu.Unlock()
	if l.onOnline != nil {
		l.onOnline()
	}
}

func (l *topologyRecorder) OnNodeOffline(info *types.NodeBasicInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.offline = append(l.offline, info.NetworkID)
}

func (l *topologyRecorder) OnNodeBasicInfoChanged(t types.NodeBasicInfoType, _ *types.NodeBasicInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed = append(l.changed, t)
}

func (l *topologyRecorder) counts() (online, offline, changed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.online), len(l.offline), len(l.changed)
}

// newTestRegistry 创建并初始化注册表
func newTestRegistry(t *testing.T, proxy *mockProxy, opts ...Option) *Registry {
	t.Helper()
	return newTestRegistryWithMax(t, proxy, DefaultMaxNodeStateCallbacks, opts...)
}

func newTestRegistryWithMax(t *testing.T, proxy *mockProxy, limit int, opts ...Option) *Registry {
	t.Helper()
	if proxy == nil {
		proxy = &mockProxy{}
	}
	reg := NewRegistry(&Config{MaxNodeStateCallbacks: limit}, proxy, opts...)
	require.NoError(t, reg.Init(context.Background()))
	t.Cleanup(reg.Deinit)
	return reg
}

const testPkg = "com.example.test"
