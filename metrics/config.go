package metrics

import (
	"strings"

	"github.com/ceyewan/exprbench/xerrors"
)

// Config 指标发布配置
//
// 典型配置示例（YAML）：
//
//	metrics:
//	  enabled: true
//	  service_name: "exprbench"
//	  port: 9090
//	  path: "/metrics"
//	  runtime: true
type Config struct {
	// Enabled 为 false 时 New 返回空实现
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// ServiceName 作为 OpenTelemetry Resource 的 service.name
	ServiceName string `mapstructure:"service_name" json:"service_name" yaml:"service_name"`

	Version string `mapstructure:"version" json:"version" yaml:"version"`

	// Port Serve 监听的端口
	Port int `mapstructure:"port" json:"port" yaml:"port"`

	// Path 抓取路径，必须以 "/" 开头
	Path string `mapstructure:"path" json:"path" yaml:"path"`

	// Runtime 同时采集 Go 运行时指标（GC、堆、goroutine）
	Runtime bool `mapstructure:"runtime" json:"runtime" yaml:"runtime"`
}

// DefaultConfig 返回默认配置，默认关闭
func DefaultConfig() Config {
	return Config{
		ServiceName: "exprbench",
		Version:     "dev",
		Port:        9090,
		Path:        "/metrics",
	}
}

func (c *Config) validate() error {
	if c.ServiceName == "" {
		c.ServiceName = "exprbench"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if !strings.HasPrefix(c.Path, "/") {
		return xerrors.Wrapf(xerrors.ErrInvalidConfig, "metrics path must start with '/', got %q", c.Path)
	}
	if c.Port < 0 || c.Port > 65535 {
		return xerrors.Wrapf(xerrors.ErrInvalidConfig, "metrics port out of range: %d", c.Port)
	}
	return nil
}
