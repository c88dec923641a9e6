package buscenter

import (
	"errors"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-buscenter/config"
	"github.com/dep2p/go-buscenter/internal/proxy"
	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*clientConfig) error

// LnnServer 同进程的 LNN 服务端
type LnnServer = proxy.LnnServer

// clientConfig 内部选项结构
type clientConfig struct {
	config *config.Config

	// 服务端：server 经 proxy.Local 包装；serverProxy 直接使用
	server      LnnServer
	serverProxy pkgif.ServerProxy

	registerer prometheus.Registerer
	clock      clock.Clock

	userFxOptions []fx.Option

	// applyLog 为 true 时 New 按 config.Log 替换 slog 默认 logger
	applyLog  bool
	logOutput io.Writer
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		config: config.NewConfig(),
	}
}

// WithConfig 使用完整配置
//
// 其中的日志配置（级别、JSON）会在 New 时设置为 slog 默认 logger。
func WithConfig(cfg *config.Config) Option {
	return func(c *clientConfig) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		c.config = cfg.Clone()
		c.applyLog = true
		return nil
	}
}

// WithLogOutput 设置日志输出目标，默认 os.Stderr
//
// 同时启用日志配置，与 WithConfig 一样在 New 时生效。
func WithLogOutput(w io.Writer) Option {
	return func(c *clientConfig) error {
		if w == nil {
			return errors.New("log output is nil")
		}
		c.logOutput = w
		c.applyLog = true
		return nil
	}
}

// WithMaxNodeStateCallbacks 设置拓扑监听器上限
func WithMaxNodeStateCallbacks(n int) Option {
	return func(c *clientConfig) error {
		c.config.BusCenter.MaxNodeStateCallbacks = n
		return nil
	}
}

// WithEnv 用环境变量覆盖当前配置
//
// 需要放在 WithConfig 之后。设置了 BUSCENTER_LOG_LEVEL 时同时启用日志配置。
func WithEnv() Option {
	return func(c *clientConfig) error {
		c.config.ApplyEnv()
		if os.Getenv(config.EnvLogLevel) != "" {
			c.applyLog = true
		}
		return nil
	}
}

// WithServer 使用同进程的 LNN 服务端
func WithServer(server LnnServer) Option {
	return func(c *clientConfig) error {
		if server == nil {
			return ErrNoServer
		}
		c.server = server
		return nil
	}
}

// WithServerProxy 直接使用服务端代理（如跨进程代理）
//
// 与 WithServer 同时设置时优先使用代理。
func WithServerProxy(sp ServerProxy) Option {
	return func(c *clientConfig) error {
		if sp == nil {
			return ErrNoServer
		}
		c.serverProxy = sp
		return nil
	}
}

// WithMetricsRegisterer 启用 Prometheus 指标
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *clientConfig) error {
		c.registerer = reg
		return nil
	}
}

// WithClock 设置时钟（测试中使用 clock.NewMock）
func WithClock(clk clock.Clock) Option {
	return func(c *clientConfig) error {
		c.clock = clk
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(c *clientConfig) error {
		c.userFxOptions = append(c.userFxOptions, opts...)
		return nil
	}
}
