package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dep2p/go-buscenter/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug / info / warn / error
	Level string `json:"level"`

	// JSON 是否输出 JSON 格式
	JSON bool `json:"json"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info"}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	if _, ok := log.ParseLevel(c.Level); !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Level)
	}
	return nil
}

// SlogLevel 返回对应的 slog 级别，无法解析时为 Info
func (c LogConfig) SlogLevel() slog.Level {
	level, _ := log.ParseLevel(c.Level)
	return level
}

// NewLogger 按配置创建写入 w 的 logger
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.JSON {
		return log.NewJSON(w, opts)
	}
	return log.New(w, opts)
}

func (c *LogConfig) applyEnv() {
	raw := os.Getenv(EnvLogLevel)
	if raw == "" {
		return
	}
	if _, ok := log.ParseLevel(raw); !ok {
		logger.Warn("日志级别配置无效，保留原值", "env", EnvLogLevel, "value", raw, "level", c.Level)
		return
	}
	c.Level = raw
}
