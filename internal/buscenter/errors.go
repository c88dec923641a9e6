package buscenter

import "errors"

var (
	// ErrNotInitialized 注册表未初始化或已反初始化
	ErrNotInitialized = errors.New("buscenter: not initialized")

	// ErrDuplicateRequest 相同目标与监听器的请求已存在
	ErrDuplicateRequest = errors.New("buscenter: duplicate request")

	// ErrAllocationFailure 登记项分配失败
	ErrAllocationFailure = errors.New("buscenter: allocation failure")

	// ErrInvalidArgument 无效参数
	ErrInvalidArgument = errors.New("buscenter: invalid argument")

	// ErrKeyTooLong 网络 ID 超出容量
	ErrKeyTooLong = errors.New("buscenter: key too long")

	// ErrRemoteRejected 远端服务拒绝请求
	ErrRemoteRejected = errors.New("buscenter: remote rejected")

	// ErrSubscriptionLimitReached 拓扑监听器数量已达上限
	ErrSubscriptionLimitReached = errors.New("buscenter: subscription limit reached")

	// ErrRequestNotFound 没有匹配的待处理请求
	ErrRequestNotFound = errors.New("buscenter: request not found")

	// ErrInvalidConfig 无效的配置
	ErrInvalidConfig = errors.New("buscenter: invalid config")
)
