package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/multierr"

	"github.com/dep2p/go-buscenter/pkg/lib/log"
)

var logger = log.Logger("config")

// 环境变量
const (
	// EnvMaxNodeStateCallbacks 拓扑监听器上限
	EnvMaxNodeStateCallbacks = "BUSCENTER_MAX_NODE_STATE_CB"
	// EnvLogLevel 日志级别
	EnvLogLevel = "BUSCENTER_LOG_LEVEL"
)

const (
	// DefaultMaxNodeStateCallbacks 默认拓扑监听器上限
	DefaultMaxNodeStateCallbacks = 10

	// DefaultMaxPackages 默认可注册的包名数量上限
	DefaultMaxPackages = 10
)

// BusCenterConfig 注册表与包名配置
type BusCenterConfig struct {
	// MaxNodeStateCallbacks 拓扑监听器上限
	MaxNodeStateCallbacks int `json:"max_node_state_callbacks"`

	// MaxPackages 可注册的包名数量上限
	MaxPackages int `json:"max_packages"`
}

// DefaultBusCenterConfig 返回默认配置
func DefaultBusCenterConfig() BusCenterConfig {
	return BusCenterConfig{
		MaxNodeStateCallbacks: DefaultMaxNodeStateCallbacks,
		MaxPackages:           DefaultMaxPackages,
	}
}

// Validate 验证配置
func (c BusCenterConfig) Validate() error {
	var err error
	if c.MaxNodeStateCallbacks <= 0 {
		err = fmt.Errorf("%w: max_node_state_callbacks must be positive, got %d",
			ErrInvalidConfig, c.MaxNodeStateCallbacks)
	}
	if c.MaxPackages <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: max_packages must be positive, got %d",
			ErrInvalidConfig, c.MaxPackages))
	}
	return err
}

// applyEnv 读取 BUSCENTER_MAX_NODE_STATE_CB，读取失败时回退到默认值
func (c *BusCenterConfig) applyEnv() {
	raw, ok := os.LookupEnv(EnvMaxNodeStateCallbacks)
	if !ok {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("拓扑监听器上限配置无效，使用默认值",
			"env", EnvMaxNodeStateCallbacks, "value", raw, "default", DefaultMaxNodeStateCallbacks)
		c.MaxNodeStateCallbacks = DefaultMaxNodeStateCallbacks
		return
	}
	c.MaxNodeStateCallbacks = n
}
