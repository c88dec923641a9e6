package buscenter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// TestModule_Lifecycle 测试 Fx 模块生命周期
func TestModule_Lifecycle(t *testing.T) {
	proxy := &mockProxy{}
	var (
		reg      *Registry
		notifier pkgif.Notifier
	)

	app := fxtest.New(t,
		fx.Provide(func() pkgif.ServerProxy { return proxy }),
		fx.Supply(&Config{MaxNodeStateCallbacks: 3}),
		Module(),
		fx.Populate(&reg, &notifier),
	)
	require.NotNil(t, reg)
	assert.False(t, reg.IsInitialized())

	app.RequireStart()
	assert.True(t, reg.IsInitialized())
	assert.Equal(t, 1, proxy.initCalls)
	assert.Same(t, reg, notifier)

	addr := types.NewBLEAddr("11:22:33:44:55:66")
	l := &joinRecorder{}
	require.NoError(t, reg.JoinLNN(context.Background(), testPkg, &addr, l))
	require.NoError(t, notifier.OnJoinResult(&addr, "net-1", 0))
	assert.Equal(t, 1, l.count())

	app.RequireStop()
	assert.False(t, reg.IsInitialized())
}

// TestModule_StartFailure 代理初始化失败时启动失败
func TestModule_StartFailure(t *testing.T) {
	proxy := &mockProxy{initErr: errMockRejected}

	app := fxtest.New(t,
		fx.Provide(func() pkgif.ServerProxy { return proxy }),
		Module(),
	)
	err := app.Start(context.Background())
	assert.ErrorIs(t, err, errMockRejected)
}

func TestModuleInfo(t *testing.T) {
	assert.Equal(t, "buscenter", Name)
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, Description)
}
