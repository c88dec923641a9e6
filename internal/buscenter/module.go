package buscenter

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params 注册表依赖参数
type Params struct {
	fx.In

	Proxy pkgif.ServerProxy

	Config  *Config     `optional:"true"`
	Metrics *Metrics    `optional:"true"`
	Clock   clock.Clock `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Registry *Registry
	Notifier pkgif.Notifier
}

// Module 返回 Fx 模块
//
// 启动时 Init，停止时 Deinit。
func Module() fx.Option {
	return fx.Module("buscenter",
		fx.Provide(ProvideRegistry),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideRegistry 提供注册表实例
func ProvideRegistry(p Params) Result {
	reg := NewRegistry(p.Config, p.Proxy, WithMetrics(p.Metrics), WithClock(p.Clock))
	return Result{
		Registry: reg,
		Notifier: reg,
	}
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC       fx.Lifecycle
	Registry *Registry
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Registry.Init(ctx)
		},
		OnStop: func(_ context.Context) error {
			input.Registry.Deinit()
			return nil
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "buscenter"
	// Description 模块描述
	Description = "bus center 客户端回调注册表，管理入网/退网/时间同步请求与拓扑监听器"
)
