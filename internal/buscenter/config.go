package buscenter

import "fmt"

// DefaultMaxNodeStateCallbacks 默认拓扑监听器上限
const DefaultMaxNodeStateCallbacks = 10

// Config 注册表配置
type Config struct {
	// MaxNodeStateCallbacks 拓扑监听器上限，达到后拒绝注册（不淘汰）
	MaxNodeStateCallbacks int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		MaxNodeStateCallbacks: DefaultMaxNodeStateCallbacks,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if c.MaxNodeStateCallbacks <= 0 {
		return fmt.Errorf("%w: MaxNodeStateCallbacks must be positive, got %d",
			ErrInvalidConfig, c.MaxNodeStateCallbacks)
	}
	return nil
}
