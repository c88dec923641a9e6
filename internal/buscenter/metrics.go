package buscenter

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
//                              指标
// ============================================================================

const metricsNamespace = "buscenter"

// 请求结果标签
const (
	resultOK         = "ok"
	resultDuplicate  = "duplicate"
	resultRejected   = "rejected"
	resultInvalid    = "invalid"
	resultLimit      = "limit"
	resultNotFound   = "not_found"
	resultAllocation = "allocation"
	resultNotInit    = "not_initialized"
)

// Metrics 注册表指标
//
// 所有方法对 nil 接收者安全，未启用指标时直接跳过。
type Metrics struct {
	requests      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
	pending       *prometheus.GaugeVec
	callbacks     prometheus.Gauge
}

// NewMetrics 创建并注册指标
//
// 若指标已被注册过，复用已注册的收集器。
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Requests issued through the registry, by kind and result.",
		}, []string{"kind", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "Inbound notifications accepted from the server, by event.",
		}, []string{"event"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "listener_invocations_total",
			Help:      "Listener callbacks invoked, by event.",
		}, []string{"event"}),
		pending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "pending_requests",
			Help:      "Outstanding requests awaiting a result, by kind.",
		}, []string{"kind"}),
		callbacks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "node_state_callbacks",
			Help:      "Registered topology listeners.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	m.requests, err = registerOrReuse(reg, m.requests)
	if err != nil {
		return nil, err
	}
	m.notifications, err = registerOrReuse(reg, m.notifications)
	if err != nil {
		return nil, err
	}
	m.deliveries, err = registerOrReuse(reg, m.deliveries)
	if err != nil {
		return nil, err
	}
	m.pending, err = registerOrReuse(reg, m.pending)
	if err != nil {
		return nil, err
	}
	m.callbacks, err = registerOrReuse(reg, m.callbacks)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse 注册收集器，重复注册时返回已存在的收集器
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observeRequest(kind RequestKind, result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind.String(), result).Inc()
}

func (m *Metrics) observeNotification(event string, delivered int) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(event).Inc()
	if delivered > 0 {
		m.deliveries.WithLabelValues(event).Add(float64(delivered))
	}
}

func (m *Metrics) setPending(kind RequestKind, n int) {
	if m == nil {
		return
	}
	m.pending.WithLabelValues(kind.String()).Set(float64(n))
}

func (m *Metrics) setCallbacks(n int) {
	if m == nil {
		return
	}
	m.callbacks.Set(float64(n))
}

// resultOf 把错误映射为结果标签
func resultOf(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrDuplicateRequest):
		return resultDuplicate
	case errors.Is(err, ErrRemoteRejected):
		return resultRejected
	case errors.Is(err, ErrSubscriptionLimitReached):
		return resultLimit
	case errors.Is(err, ErrRequestNotFound):
		return resultNotFound
	case errors.Is(err, ErrAllocationFailure):
		return resultAllocation
	case errors.Is(err, ErrNotInitialized):
		return resultNotInit
	default:
		return resultInvalid
	}
}
