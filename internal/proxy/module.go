package proxy

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
)

// Module 返回 Fx 模块
//
// 需要容器中已提供 LnnServer，输出 ServerProxy。
func Module() fx.Option {
	return fx.Module("proxy",
		fx.Provide(
			fx.Annotate(
				NewLocal,
				fx.As(new(pkgif.ServerProxy)),
			),
		),
	)
}
