package buscenter

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-buscenter/pkg/types"
)

// TestMetrics_RequestsAndNotifications 测试请求与通知计数
func TestMetrics_RequestsAndNotifications(t *testing.T) {
	ctx := context.Background()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	reg := newTestRegistry(t, nil, WithMetrics(m))

	addr := types.NewWLANAddr("10.0.0.5", 6000)
	l := &joinRecorder{}
	require.NoError(t, reg.JoinLNN(ctx, testPkg, &addr, l))
	require.ErrorIs(t, reg.JoinLNN(ctx, testPkg, &addr, l), ErrDuplicateRequest)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("join", resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("join", resultDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pending.WithLabelValues("join")))

	require.NoError(t, reg.OnJoinResult(&addr, "net-1", 0))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues(eventJoinResult)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues(eventJoinResult)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.pending.WithLabelValues("join")))

	require.NoError(t, reg.RegNodeDeviceStateCb(testPkg, &topologyRecorder{}, types.EventNodeAll))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callbacks))

	require.ErrorIs(t, reg.StopTimeSync(ctx, testPkg, "net-1"), ErrRequestNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("stop_time_sync", resultNotFound)))

	// 启动与停止分开计数
	require.NoError(t, reg.StartTimeSync(ctx, testPkg, "net-1", types.HighAccuracy, types.NormalPeriod,
		&timeSyncRecorder{}))
	require.NoError(t, reg.StopTimeSync(ctx, testPkg, "net-1"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("time_sync", resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("stop_time_sync", resultOK)))
}

// TestNewMetrics_Reuse 重复注册复用已有收集器
func TestNewMetrics_Reuse(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m1, err := NewMetrics(promReg)
	require.NoError(t, err)
	m2, err := NewMetrics(promReg)
	require.NoError(t, err)

	m1.observeRequest(RequestLeave, resultOK)
	assert.Equal(t, 1.0, testutil.ToFloat64(m2.requests.WithLabelValues("leave", resultOK)))
}

// TestMetrics_NilSafe nil 指标不会 panic
func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeRequest(RequestJoin, resultOK)
		m.observeNotification(eventNodeOnline, 3)
		m.setPending(RequestJoin, 1)
		m.setCallbacks(2)
	})

	m, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

// TestResultOf 测试错误到标签的映射
func TestResultOf(t *testing.T) {
	assert.Equal(t, resultOK, resultOf(nil))
	assert.Equal(t, resultDuplicate, resultOf(ErrDuplicateRequest))
	assert.Equal(t, resultRejected, resultOf(ErrRemoteRejected))
	assert.Equal(t, resultLimit, resultOf(ErrSubscriptionLimitReached))
	assert.Equal(t, resultNotFound, resultOf(ErrRequestNotFound))
	assert.Equal(t, resultAllocation, resultOf(ErrAllocationFailure))
	assert.Equal(t, resultNotInit, resultOf(ErrNotInitialized))
	assert.Equal(t, resultInvalid, resultOf(ErrInvalidArgument))
}
