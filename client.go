package buscenter

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	bc "github.com/dep2p/go-buscenter/internal/buscenter"
	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/lib/log"
)

var logger = log.Logger("buscenter")

const (
	startTimeout = 15 * time.Second
	stopTimeout  = 10 * time.Second
)

// Client bus center 客户端
//
// 通过 New 创建，Start 后可用，Close 后不可重新启动。
type Client struct {
	mu sync.Mutex

	config *clientConfig
	app    *fx.App
	state  ClientState

	registry *bc.Registry
	notifier pkgif.Notifier

	pkgs *packageSet
}

// New 创建客户端
//
// 至少需要 WithServer 或 WithServerProxy 之一。
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	client := &Client{
		config: cfg,
		state:  StateIdle,
		pkgs:   newPackageSet(cfg.config.BusCenter.MaxPackages),
	}

	var err error
	client.app, err = buildFxApp(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	if cfg.applyLog {
		applyLogConfig(cfg)
	}
	return client, nil
}

// applyLogConfig 按 config.Log 设置 slog 默认 logger
func applyLogConfig(cfg *clientConfig) {
	out := cfg.logOutput
	if out == nil {
		out = os.Stderr
	}
	log.SetDefault(cfg.config.Log.NewLogger(out))
	logger.Debug("已应用日志配置", "level", cfg.config.Log.Level, "json", cfg.config.Log.JSON)
}

// Start 启动客户端
//
// 初始化注册表和服务端代理。
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateClosed:
		return ErrClientClosed
	case StateRunning:
		return ErrAlreadyStarted
	}

	c.state = StateStarting
	logger.Info("正在启动 bus center 客户端")

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := c.app.Start(startCtx); err != nil {
		c.state = StateIdle
		logger.Error("bus center 客户端启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}

	c.state = StateRunning
	logger.Info("bus center 客户端已启动",
		"maxNodeStateCallbacks", c.config.config.BusCenter.MaxNodeStateCallbacks)
	return nil
}

// Close 关闭客户端
//
// 清空所有待处理请求和监听器，重复调用返回 nil。
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return nil
	}

	var errs error
	if c.state == StateRunning {
		c.state = StateStopping
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		errs = multierr.Append(errs, c.app.Stop(ctx))
		cancel()
	}
	c.pkgs.reset()
	c.state = StateClosed

	if errs != nil {
		logger.Warn("关闭 bus center 客户端时出错", "error", errs)
		return fmt.Errorf("close: %w", errs)
	}
	logger.Info("bus center 客户端已关闭")
	return nil
}

// State 返回客户端状态
func (c *Client) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Notifier 返回服务端回送结果的入口
//
// 服务端实现用它把入网/退网/时间同步结果和拓扑事件送回客户端。
func (c *Client) Notifier() Notifier {
	return c.notifier
}

// Pending 返回所有待处理请求的快照
func (c *Client) Pending() []PendingRequest {
	return c.registry.Pending()
}

// NodeStateCallbackCount 返回已注册的拓扑监听器数量
func (c *Client) NodeStateCallbackCount() int {
	return c.registry.NodeStateCallbackCount()
}

// ready 检查客户端已启动且包名已注册
func (c *Client) ready(pkgName string) error {
	switch c.State() {
	case StateRunning:
	case StateClosed:
		return ErrClientClosed
	default:
		return ErrNotStarted
	}
	return c.pkgs.check(pkgName)
}
