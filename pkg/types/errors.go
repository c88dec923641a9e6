// Package types 定义 bus center 客户端的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              地址相关错误
// ============================================================================

var (
	// ErrNilConnectionAddr 地址为空
	ErrNilConnectionAddr = errors.New("nil connection addr")

	// ErrInvalidConnectionAddr 无效的地址
	ErrInvalidConnectionAddr = errors.New("invalid connection addr")
)

// ============================================================================
//                              标识相关错误
// ============================================================================

var (
	// ErrEmptyNetworkID 空网络 ID
	ErrEmptyNetworkID = errors.New("empty network ID")

	// ErrNetworkIDTooLong 网络 ID 超出缓冲区容量
	ErrNetworkIDTooLong = errors.New("network ID too long")

	// ErrInvalidPkgName 无效的包名
	ErrInvalidPkgName = errors.New("invalid package name")
)
