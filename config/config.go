// Package config 提供 bus center 客户端的统一配置
//
// 主 Config 结构体嵌入各子配置，每个子配置在独立文件中定义。
// 配置来源依次为：默认值 -> JSON -> 环境变量。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.BusCenter.MaxNodeStateCallbacks = 20
//	cfg.ApplyEnv()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInvalidConfig 无效的配置
var ErrInvalidConfig = errors.New("config: invalid config")

// Config bus center 客户端完整配置
type Config struct {
	// BusCenter 注册表与包名配置
	BusCenter BusCenterConfig `json:"bus_center"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		BusCenter: DefaultBusCenterConfig(),
		Log:       DefaultLogConfig(),
	}
}

// Validate 验证配置，返回全部子配置的错误
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	return multierr.Combine(
		c.BusCenter.Validate(),
		c.Log.Validate(),
	)
}

// ApplyEnv 用环境变量覆盖配置
//
// 无效的环境变量值会被记录并忽略，保留原值。
func (c *Config) ApplyEnv() {
	c.BusCenter.applyEnv()
	c.Log.applyEnv()
}

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "bus_center": {"max_node_state_callbacks": 16},
//	  "log": {"level": "debug"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ToJSON 序列化配置
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Clone 返回配置副本
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cloned := *c
	return &cloned
}
