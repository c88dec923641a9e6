package buscenter

import (
	"errors"

	bc "github.com/dep2p/go-buscenter/internal/buscenter"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 客户端生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 客户端未启动
	ErrNotStarted = errors.New("client not started")

	// ErrAlreadyStarted 客户端已启动
	ErrAlreadyStarted = errors.New("client already started")

	// ErrClientClosed 客户端已关闭
	ErrClientClosed = errors.New("client closed")

	// ErrNoServer 未提供服务端或服务端代理
	ErrNoServer = errors.New("no server configured")

	// ────────────────────────────────────────────────────────────────────────
	// 包名相关错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidPackageName 无效的包名
	ErrInvalidPackageName = errors.New("invalid package name")

	// ErrPackageNotRegistered 包名未通过 InitPackage 注册
	ErrPackageNotRegistered = errors.New("package not registered")

	// ErrTooManyPackages 注册的包名数量已达上限
	ErrTooManyPackages = errors.New("too many packages")
)

// 注册表错误
var (
	// ErrNotInitialized 注册表未初始化
	ErrNotInitialized = bc.ErrNotInitialized

	// ErrDuplicateRequest 相同目标与监听器的请求已存在
	ErrDuplicateRequest = bc.ErrDuplicateRequest

	// ErrAllocationFailure 登记项分配失败
	ErrAllocationFailure = bc.ErrAllocationFailure

	// ErrInvalidArgument 无效参数
	ErrInvalidArgument = bc.ErrInvalidArgument

	// ErrKeyTooLong 网络 ID 超出容量
	ErrKeyTooLong = bc.ErrKeyTooLong

	// ErrRemoteRejected 服务端拒绝请求
	ErrRemoteRejected = bc.ErrRemoteRejected

	// ErrSubscriptionLimitReached 拓扑监听器数量已达上限
	ErrSubscriptionLimitReached = bc.ErrSubscriptionLimitReached

	// ErrRequestNotFound 没有匹配的待处理请求
	ErrRequestNotFound = bc.ErrRequestNotFound
)
