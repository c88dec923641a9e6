package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-buscenter"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// ============================================================================
//                              模拟 LNN 服务端
// ============================================================================

// simServer 进程内模拟服务端
//
// 受理请求后在独立 goroutine 中回送结果，并周期性地制造拓扑事件。
// 回送必须异步进行：请求转发期间注册表锁仍被持有。
type simServer struct {
	clock   clock.Clock
	latency time.Duration

	mu       sync.Mutex
	notifier buscenter.Notifier
	nodes    map[string]types.NodeBasicInfo
	syncs    map[string]context.CancelFunc

	g   *errgroup.Group
	ctx context.Context
}

func newSimServer(ctx context.Context, clk clock.Clock, latency time.Duration) *simServer {
	g, gctx := errgroup.WithContext(ctx)
	return &simServer{
		clock:   clk,
		latency: latency,
		nodes:   make(map[string]types.NodeBasicInfo),
		syncs:   make(map[string]context.CancelFunc),
		g:       g,
		ctx:     gctx,
	}
}

func (s *simServer) bind(n buscenter.Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// later 延迟 latency 后回送
func (s *simServer) later(fn func(buscenter.Notifier) error) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()
	if n == nil {
		return
	}
	s.g.Go(func() error {
		select {
		case <-s.ctx.Done():
			return nil
		case <-s.clock.After(s.latency):
		}
		if err := fn(n); err != nil {
			logger.Warn("回送失败", "error", err)
		}
		return nil
	})
}

func (s *simServer) ServerJoin(_ string, addr *types.ConnectionAddr) int32 {
	target := *addr
	networkID := "net-" + strings.NewReplacer(".", "", ":", "").Replace(target.IP+target.Mac)
	s.later(func(n buscenter.Notifier) error {
		return n.OnJoinResult(&target, networkID, 0)
	})
	return 0
}

func (s *simServer) ServerLeave(_, networkID string) int32 {
	s.later(func(n buscenter.Notifier) error {
		return n.OnLeaveResult(networkID, 0)
	})
	return 0
}

func (s *simServer) StartTimeSync(_, networkID string, accuracy types.TimeSyncAccuracy,
	period types.TimeSyncPeriod) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.syncs[networkID]; ok {
		return 0
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.syncs[networkID] = cancel

	interval := time.Second << uint(period)
	s.g.Go(func() error {
		ticker := s.clock.Ticker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			s.mu.Lock()
			n := s.notifier
			s.mu.Unlock()
			info := &types.TimeSyncResultInfo{
				Result: types.TimeSyncResult{
					Millisecond: rand.Int32N(20) - 10,
					Microsecond: rand.Int32N(1000),
					Accuracy:    accuracy,
				},
				Flag:   types.NodeSpecific,
				Target: types.TimeSyncTarget{TargetNetworkID: networkID},
			}
			if n == nil {
				continue
			}
			if err := n.OnTimeSyncResult(info, 0); err != nil {
				logger.Warn("时间同步结果回送失败", "networkID", networkID, "error", err)
			}
		}
	})
	return 0
}

func (s *simServer) StopTimeSync(_, networkID string) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.syncs[networkID]; ok {
		cancel()
		delete(s.syncs, networkID)
	}
	return 0
}

func (s *simServer) GetAllOnlineNodeInfo(_ string) ([]types.NodeBasicInfo, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.NodeBasicInfo, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out, 0
}

func (s *simServer) GetLocalDeviceInfo(_ string) (types.NodeBasicInfo, int32) {
	return types.NodeBasicInfo{NetworkID: "net-local", DeviceName: "buscenter-sim"}, 0
}

func (s *simServer) GetNodeKeyInfo(_, networkID string, key types.NodeDeviceInfoKey, buf []byte) int32 {
	copy(buf, fmt.Sprintf("%s-%s", key, networkID))
	return 0
}

// churn 周期性地让模拟节点上线、下线或改名
func (s *simServer) churn(interval time.Duration, count int) {
	s.g.Go(func() error {
		ticker := s.clock.Ticker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return nil
			case <-ticker.C:
			}
			s.step(count)
		}
	})
}

func (s *simServer) step(count int) {
	networkID := fmt.Sprintf("net-sim-%d", rand.IntN(count))

	s.mu.Lock()
	n := s.notifier
	node, online := s.nodes[networkID]
	switch {
	case !online:
		node = types.NodeBasicInfo{NetworkID: networkID, DeviceName: "device-" + networkID[8:], DeviceTypeID: 0x0E}
		s.nodes[networkID] = node
	case rand.IntN(2) == 0:
		delete(s.nodes, networkID)
	default:
		node.DeviceName += "'"
		s.nodes[networkID] = node
	}
	s.mu.Unlock()

	if n == nil {
		return
	}
	var (
		event string
		err   error
	)
	switch {
	case !online:
		event, err = "online", n.OnNodeOnline(&node)
	case s.hasNode(networkID):
		event, err = "info_changed", n.OnNodeBasicInfoChanged(&node, types.TypeDeviceName)
	default:
		event, err = "offline", n.OnNodeOffline(&node)
	}
	if err != nil {
		logger.Warn("拓扑事件回送失败", "event", event, "networkID", networkID, "error", err)
	}
}

func (s *simServer) hasNode(networkID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.nodes[networkID]
	return ok
}

// wait 等待所有回送 goroutine 退出
func (s *simServer) wait() error {
	return s.g.Wait()
}
