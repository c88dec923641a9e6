package buscenter

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-buscenter/config"
	"github.com/dep2p/go-buscenter/pkg/types"
)

const testPkg = "com.example.client"

// loopbackServer 受理请求后异步回送结果的本地服务端
type loopbackServer struct {
	mu       sync.Mutex
	notifier Notifier
	code     int32
	wg       sync.WaitGroup
}

func (s *loopbackServer) bind(n Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

func (s *loopbackServer) reply(fn func(Notifier)) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()
	if n == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(n)
	}()
}

func (s *loopbackServer) ServerJoin(_ string, addr *types.ConnectionAddr) int32 {
	if s.code != 0 {
		return s.code
	}
	target := *addr
	s.reply(func(n Notifier) { _ = n.OnJoinResult(&target, "net-"+target.IP, 0) })
	return 0
}

func (s *loopbackServer) ServerLeave(_, networkID string) int32 {
	s.reply(func(n Notifier) { _ = n.OnLeaveResult(networkID, 0) })
	return s.code
}

func (s *loopbackServer) StartTimeSync(_, _ string, _ types.TimeSyncAccuracy, _ types.TimeSyncPeriod) int32 {
	return s.code
}

func (s *loopbackServer) StopTimeSync(_, _ string) int32 { return s.code }

func (s *loopbackServer) GetAllOnlineNodeInfo(_ string) ([]types.NodeBasicInfo, int32) {
	return []types.NodeBasicInfo{{NetworkID: "net-1"}}, s.code
}

func (s *loopbackServer) GetLocalDeviceInfo(_ string) (types.NodeBasicInfo, int32) {
	return types.NodeBasicInfo{NetworkID: "local", DeviceName: "gateway"}, s.code
}

func (s *loopbackServer) GetNodeKeyInfo(_, _ string, _ types.NodeDeviceInfoKey, buf []byte) int32 {
	copy(buf, "udid")
	return s.code
}

// newStartedClient 创建并启动客户端，注册 testPkg
func newStartedClient(t *testing.T, server *loopbackServer, opts ...Option) *Client {
	t.Helper()
	client, err := New(append([]Option{WithServer(server)}, opts...)...)
	require.NoError(t, err)
	server.bind(client.Notifier())

	require.NoError(t, client.Start(context.Background()))
	require.NoError(t, client.InitPackage(testPkg))
	t.Cleanup(func() {
		server.wg.Wait()
		_ = client.Close()
	})
	return client
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

func TestNew_RequiresServer(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoServer)

	_, err = New(WithServer(nil))
	assert.ErrorIs(t, err, ErrNoServer)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(WithServer(&loopbackServer{}), WithMaxNodeStateCallbacks(0))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = New(WithConfig(nil))
	assert.Error(t, err)
}

func TestClient_Lifecycle(t *testing.T) {
	ctx := context.Background()
	client, err := New(WithServer(&loopbackServer{}))
	require.NoError(t, err)
	assert.Equal(t, StateIdle, client.State())

	require.NoError(t, client.InitPackage(testPkg))
	assert.ErrorIs(t, client.LeaveLNN(ctx, testPkg, "net-1", LeaveResultFunc(func(string, int32) {})),
		ErrNotStarted)

	require.NoError(t, client.Start(ctx))
	assert.Equal(t, StateRunning, client.State())
	assert.ErrorIs(t, client.Start(ctx), ErrAlreadyStarted)

	require.NoError(t, client.Close())
	assert.Equal(t, StateClosed, client.State())
	require.NoError(t, client.Close())

	assert.ErrorIs(t, client.Start(ctx), ErrClientClosed)
	assert.ErrorIs(t, client.InitPackage(testPkg), ErrClientClosed)
	assert.ErrorIs(t, client.StopTimeSync(ctx, testPkg, "net-1"), ErrClientClosed)
	assert.Equal(t, "closed", client.State().String())
}

func TestNew_AppliesLogConfig(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := config.NewConfig()
	cfg.Log.Level = "debug"
	cfg.Log.JSON = true

	var buf bytes.Buffer
	client, err := New(WithServer(&loopbackServer{}), WithConfig(cfg), WithLogOutput(&buf))
	require.NoError(t, err)
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	require.NoError(t, client.Start(context.Background()))
	require.NoError(t, client.Close())
	assert.Contains(t, buf.String(), `"component":"buscenter"`)
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}

func TestNew_LogConfigNotAppliedByDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := New(WithServer(&loopbackServer{}))
	require.NoError(t, err)
	assert.Same(t, prev, slog.Default())

	_, err = New(WithServer(&loopbackServer{}), WithLogOutput(nil))
	assert.Error(t, err)
}

// ════════════════════════════════════════════════════════════════════════════
//                              包名注册
// ════════════════════════════════════════════════════════════════════════════

func TestClient_InitPackage(t *testing.T) {
	client, err := New(WithServer(&loopbackServer{}))
	require.NoError(t, err)

	assert.ErrorIs(t, client.InitPackage(""), ErrInvalidPackageName)
	long := make([]byte, types.PkgNameSizeMax)
	for i := range long {
		long[i] = 'p'
	}
	assert.ErrorIs(t, client.InitPackage(string(long)), ErrInvalidPackageName)

	for i := 0; i < config.DefaultMaxPackages; i++ {
		require.NoError(t, client.InitPackage("com.example.pkg"+string(rune('a'+i))))
	}
	// 重复注册不占用名额
	require.NoError(t, client.InitPackage("com.example.pkga"))
	assert.ErrorIs(t, client.InitPackage("com.example.overflow"), ErrTooManyPackages)
	assert.Len(t, client.Packages(), config.DefaultMaxPackages)
}

func TestClient_PackageNotRegistered(t *testing.T) {
	client := newStartedClient(t, &loopbackServer{})

	addr := NewWLANAddr("10.0.0.5", 6000)
	err := client.JoinLNN(context.Background(), "com.example.stranger", &addr,
		JoinResultFunc(func(*ConnectionAddr, string, int32) {}))
	assert.ErrorIs(t, err, ErrPackageNotRegistered)
	assert.Empty(t, client.Pending())
}

// ════════════════════════════════════════════════════════════════════════════
//                              端到端
// ════════════════════════════════════════════════════════════════════════════

func TestClient_JoinRoundTrip(t *testing.T) {
	server := &loopbackServer{}
	client := newStartedClient(t, server)

	type result struct {
		networkID string
		code      int32
	}
	done := make(chan result, 1)
	addr := NewWLANAddr("10.0.0.5", 6000)
	err := client.JoinLNN(context.Background(), testPkg, &addr,
		JoinResultFunc(func(_ *ConnectionAddr, networkID string, code int32) {
			done <- result{networkID, code}
		}))
	require.NoError(t, err)

	select {
	case r := <-done:
		assert.Equal(t, "net-10.0.0.5", r.networkID)
		assert.Equal(t, int32(0), r.code)
	case <-time.After(5 * time.Second):
		t.Fatal("入网结果未送达")
	}

	server.wg.Wait()
	assert.Empty(t, client.Pending())
}

func TestClient_RemoteRejected(t *testing.T) {
	server := &loopbackServer{code: -1}
	client := newStartedClient(t, server)

	addr := NewBLEAddr("11:22:33:44:55:66")
	err := client.JoinLNN(context.Background(), testPkg, &addr,
		JoinResultFunc(func(*ConnectionAddr, string, int32) {}))
	assert.ErrorIs(t, err, ErrRemoteRejected)

	_, err = client.GetLocalNodeDeviceInfo(context.Background(), testPkg)
	assert.ErrorIs(t, err, ErrRemoteRejected)
}

func TestClient_TopologyAndQueries(t *testing.T) {
	ctx := context.Background()
	promReg := prometheus.NewRegistry()
	client := newStartedClient(t, &loopbackServer{}, WithMetricsRegisterer(promReg))

	l := &countingTopology{}
	require.NoError(t, client.RegNodeDeviceStateCb(testPkg, l, EventNodeOnline|EventNodeOffline))
	assert.Equal(t, 1, client.NodeStateCallbackCount())

	info := &NodeBasicInfo{NetworkID: "net-1"}
	require.NoError(t, client.Notifier().OnNodeOnline(info))
	require.NoError(t, client.Notifier().OnNodeBasicInfoChanged(info, types.TypeDeviceName))
	assert.Equal(t, 1, l.online)
	assert.Equal(t, 0, l.changed)

	require.NoError(t, client.UnregNodeDeviceStateCb(l))
	assert.Equal(t, 0, client.NodeStateCallbackCount())

	nodes, err := client.GetAllNodeDeviceInfo(ctx, testPkg)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	local, err := client.GetLocalNodeDeviceInfo(ctx, testPkg)
	require.NoError(t, err)
	assert.Equal(t, "gateway", local.DeviceName)
	key, err := client.GetNodeKeyInfo(ctx, testPkg, "net-1", types.NodeKeyUDID, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("udid"), key)

	n, err := testutil.GatherAndCount(promReg, "buscenter_notifications_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestClient_TimeSync(t *testing.T) {
	ctx := context.Background()
	client := newStartedClient(t, &loopbackServer{})

	var got int
	listener := TimeSyncResultFunc(func(*TimeSyncResultInfo, int32) { got++ })
	require.NoError(t, client.StartTimeSync(ctx, testPkg, "net-1", types.HighAccuracy, types.NormalPeriod, listener))

	info := &TimeSyncResultInfo{Target: types.TimeSyncTarget{TargetNetworkID: "net-1"}}
	require.NoError(t, client.Notifier().OnTimeSyncResult(info, 0))
	require.NoError(t, client.Notifier().OnTimeSyncResult(info, 0))
	assert.Equal(t, 2, got)

	require.NoError(t, client.StopTimeSync(ctx, testPkg, "net-1"))
	require.NoError(t, client.Notifier().OnTimeSyncResult(info, 0))
	assert.Equal(t, 2, got)
	assert.ErrorIs(t, client.StopTimeSync(ctx, testPkg, "net-1"), ErrRequestNotFound)
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)
}

// countingTopology 计数拓扑监听器
type countingTopology struct {
	online, offline, changed int
}

func (c *countingTopology) OnNodeOnline(*NodeBasicInfo) { c.online++ }
func (c *countingTopology) OnNodeOffline(*NodeBasicInfo) { c.offline++ }
func (c *countingTopology) OnNodeBasicInfoChanged(NodeBasicInfoType, *NodeBasicInfo) {
	c.changed++
}
