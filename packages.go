package buscenter

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dep2p/go-buscenter/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              包名注册
// ════════════════════════════════════════════════════════════════════════════

// packageSet 已注册的应用包名
//
// 每个公开 API 都要求调用方的包名已注册。
type packageSet struct {
	mu    sync.RWMutex
	names []string
	max   int
}

func newPackageSet(limit int) *packageSet {
	return &packageSet{max: limit}
}

// add 注册包名，已注册时直接返回
func (s *packageSet) add(pkgName string) error {
	if err := types.ValidatePkgName(pkgName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPackageName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.names, pkgName) {
		return nil
	}
	if len(s.names) >= s.max {
		return fmt.Errorf("%w: limit %d", ErrTooManyPackages, s.max)
	}
	s.names = append(s.names, pkgName)
	return nil
}

// check 检查包名已注册
func (s *packageSet) check(pkgName string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !slices.Contains(s.names, pkgName) {
		return fmt.Errorf("%w: %q", ErrPackageNotRegistered, pkgName)
	}
	return nil
}

func (s *packageSet) list() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.names)
}

func (s *packageSet) reset() {
	s.mu.Lock()
	s.names = nil
	s.mu.Unlock()
}

// InitPackage 注册应用包名
//
// 包名非空且不超过 64 字节；重复注册不是错误。
func (c *Client) InitPackage(pkgName string) error {
	if c.State() == StateClosed {
		return ErrClientClosed
	}
	if err := c.pkgs.add(pkgName); err != nil {
		logger.Error("注册包名失败", "pkg", pkgName, "error", err)
		return err
	}
	logger.Debug("包名已注册", "pkg", pkgName)
	return nil
}

// Packages 返回已注册的包名
func (c *Client) Packages() []string {
	return c.pkgs.list()
}
