package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-buscenter/pkg/lib/log"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// recordingNotifier 记录回送的通知
type recordingNotifier struct {
	mu      sync.Mutex
	joins   []string
	leaves  []string
	syncs   int
	online  int
	offline int
	changed int
	err     error
}

func (r *recordingNotifier) OnJoinResult(_ *types.ConnectionAddr, networkID string, _ int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joins = append(r.joins, networkID)
	return r.err
}

func (r *recordingNotifier) OnLeaveResult(networkID string, _ int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaves = append(r.leaves, networkID)
	return r.err
}

func (r *recordingNotifier) OnNodeOnline(*types.NodeBasicInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online++
	return r.err
}

func (r *recordingNotifier) OnNodeOffline(*types.NodeBasicInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline++
	return r.err
}

func (r *recordingNotifier) OnNodeBasicInfoChanged(*types.NodeBasicInfo, types.NodeBasicInfoType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed++
	return r.err
}

func (r *recordingNotifier) OnTimeSyncResult(*types.TimeSyncResultInfo, int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncs++
	return r.err
}

func (r *recordingNotifier) snapshot() (joins, leaves int, syncs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.joins), len(r.leaves), r.syncs
}

func TestSimServer_RepliesAsync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSimServer(ctx, clock.New(), time.Millisecond)
	n := &recordingNotifier{}
	s.bind(n)

	addr := types.NewWLANAddr("10.0.0.5", 6000)
	assert.Equal(t, int32(0), s.ServerJoin("pkg", &addr))
	assert.Equal(t, int32(0), s.ServerLeave("pkg", "net-1"))

	require.Eventually(t, func() bool {
		joins, leaves, _ := n.snapshot()
		return joins == 1 && leaves == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "net-10005", n.joins[0])

	cancel()
	require.NoError(t, s.wait())
}

func TestSimServer_TimeSyncStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mock := clock.NewMock()
	s := newSimServer(ctx, mock, 0)
	n := &recordingNotifier{}
	s.bind(n)

	require.Equal(t, int32(0), s.StartTimeSync("pkg", "net-1", types.HighAccuracy, types.ShortPeriod))
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		_, _, syncs := n.snapshot()
		return syncs > 0
	}, 2*time.Second, 5*time.Millisecond)

	require.Equal(t, int32(0), s.StopTimeSync("pkg", "net-1"))
	s.mu.Lock()
	assert.Empty(t, s.syncs)
	s.mu.Unlock()

	cancel()
	require.NoError(t, s.wait())
}

func TestSimServer_Step(t *testing.T) {
	s := newSimServer(context.Background(), clock.New(), 0)
	n := &recordingNotifier{}
	s.bind(n)

	// 单节点：第一次必定上线，之后下线或改名
	s.step(1)
	n.mu.Lock()
	assert.Equal(t, 1, n.online)
	n.mu.Unlock()

	s.step(1)
	n.mu.Lock()
	assert.Equal(t, 1, n.offline+n.changed)
	n.mu.Unlock()

	nodes, code := s.GetAllOnlineNodeInfo("pkg")
	assert.Equal(t, int32(0), code)
	assert.LessOrEqual(t, len(nodes), 1)
}

func TestSimServer_LogsNotifierErrors(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	log.SetDefault(log.New(&buf, nil))

	s := newSimServer(context.Background(), clock.New(), 0)
	n := &recordingNotifier{err: errors.New("buscenter: not initialized")}
	s.bind(n)

	s.step(1)
	assert.Contains(t, buf.String(), "拓扑事件回送失败")
	assert.Contains(t, buf.String(), "event=online")
	assert.Contains(t, buf.String(), "not initialized")
}
