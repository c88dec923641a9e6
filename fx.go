package buscenter

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	bc "github.com/dep2p/go-buscenter/internal/buscenter"
	"github.com/dep2p/go-buscenter/internal/proxy"
	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/lib/log"
)

var fxLogger = log.Logger("buscenter/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置
//  2. 服务端代理：WithServerProxy 直接注入，否则由 proxy.Module 包装 LnnServer
//  3. 可选组件：指标、时钟
//  4. 注册表：buscenter.Module
func buildFxApp(cfg *clientConfig, client *Client) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(cfg.config),
		fx.Supply(&bc.Config{
			MaxNodeStateCallbacks: cfg.config.BusCenter.MaxNodeStateCallbacks,
		}),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 服务端代理
	// ════════════════════════════════════════════════════════════════════════
	switch {
	case cfg.serverProxy != nil:
		sp := cfg.serverProxy
		modules = append(modules, fx.Provide(func() pkgif.ServerProxy { return sp }))
		fxLogger.Debug("使用外部服务端代理")
	case cfg.server != nil:
		server := cfg.server
		modules = append(modules,
			fx.Provide(func() proxy.LnnServer { return server }),
			proxy.Module(),
		)
		fxLogger.Debug("使用进程内服务端代理")
	default:
		return nil, ErrNoServer
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 可选组件
	// ════════════════════════════════════════════════════════════════════════
	if cfg.registerer != nil {
		reg := cfg.registerer
		modules = append(modules, fx.Provide(func() (*bc.Metrics, error) {
			return bc.NewMetrics(reg)
		}))
	}
	if cfg.clock != nil {
		clk := cfg.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. 注册表
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		bc.Module(),
		fx.Populate(&client.registry, &client.notifier),
	)

	if len(cfg.userFxOptions) > 0 {
		modules = append(modules, cfg.userFxOptions...)
	}

	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("assemble fx app: %w", err)
	}
	return app, nil
}
