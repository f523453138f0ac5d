/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-24 10:12:45
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 09:20:31
 * @FilePath: \go-quizc\client\config.go
 * @Description: 客户端配置 - 默认值、链式设置与 YAML 加载
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"net/http"
	"os"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-quizc/repository"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/safe"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultConnectTimeout       = 5 * time.Second
	DefaultRequestTimeout       = 5 * time.Second
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectBase        = time.Second
	DefaultReconnectFactor      = 2.0
	DefaultWriteTimeout         = 10 * time.Second
	DefaultMaxMessageSize       = int64(1 << 20)
	DefaultMessageBufferSize    = 256
)

// Config 客户端配置
type Config struct {
	URL                  string         // 服务端地址 ws://host:port/path
	ConnectTimeout       time.Duration  // 单次拨号超时
	RequestTimeout       time.Duration  // 注册/登录/登出等待响应的超时
	MaxReconnectAttempts int            // 最大重连次数
	KeyPrefix            string         // 会话持久化键前缀
	Header               http.Header    // 握手请求头
	WSC                  *wscconfig.WSC // 传输层参数(重连退避、写超时、消息大小、缓冲)
}

// DefaultConfig 默认配置
func DefaultConfig(url string) *Config {
	return &Config{
		URL:                  url,
		ConnectTimeout:       DefaultConnectTimeout,
		RequestTimeout:       DefaultRequestTimeout,
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
		Header:               http.Header{},
		WSC:                  defaultWSC(),
	}
}

// defaultWSC 传输层默认参数，MaxRecTime 覆盖完整的重连序列
func defaultWSC() *wscconfig.WSC {
	wsc := safe.MergeWithDefaults(nil, wscconfig.Default())
	wsc.MinRecTime = DefaultReconnectBase
	wsc.RecFactor = DefaultReconnectFactor
	wsc.MaxRecTime = maxReconnectDelay(DefaultReconnectBase, DefaultReconnectFactor, DefaultMaxReconnectAttempts)
	wsc.WriteTimeout = DefaultWriteTimeout
	wsc.MaxMessageSize = DefaultMaxMessageSize
	wsc.MessageBufferSize = DefaultMessageBufferSize
	wsc.AutoReconnect = true
	return wsc
}

// maxReconnectDelay 第 attempts 次重连的等待时间
func maxReconnectDelay(base time.Duration, factor float64, attempts int) time.Duration {
	d := float64(base)
	for i := 1; i < attempts; i++ {
		d *= factor
	}
	return time.Duration(d)
}

// normalize 补齐零值字段
func (c *Config) normalize() *Config {
	if c.WSC == nil {
		c.WSC = defaultWSC()
	}
	c.ConnectTimeout = mathx.IF(c.ConnectTimeout == 0, DefaultConnectTimeout, c.ConnectTimeout)
	c.RequestTimeout = mathx.IF(c.RequestTimeout == 0, DefaultRequestTimeout, c.RequestTimeout)
	c.MaxReconnectAttempts = mathx.IF(c.MaxReconnectAttempts == 0, DefaultMaxReconnectAttempts, c.MaxReconnectAttempts)
	c.WSC.MinRecTime = mathx.IF(c.WSC.MinRecTime == 0, DefaultReconnectBase, c.WSC.MinRecTime)
	c.WSC.RecFactor = mathx.IF(c.WSC.RecFactor == 0, DefaultReconnectFactor, c.WSC.RecFactor)
	c.WSC.WriteTimeout = mathx.IF(c.WSC.WriteTimeout == 0, DefaultWriteTimeout, c.WSC.WriteTimeout)
	c.WSC.MessageBufferSize = mathx.IF(c.WSC.MessageBufferSize == 0, DefaultMessageBufferSize, c.WSC.MessageBufferSize)

	// 上限不能截断重连序列
	fullSchedule := maxReconnectDelay(c.WSC.MinRecTime, c.WSC.RecFactor, c.MaxReconnectAttempts)
	if c.WSC.MaxRecTime < fullSchedule {
		c.WSC.MaxRecTime = fullSchedule
	}
	if c.Header == nil {
		c.Header = http.Header{}
	}
	return c
}

// WithConnectTimeout 设置拨号超时
func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}

// WithRequestTimeout 设置请求超时
func (c *Config) WithRequestTimeout(d time.Duration) *Config {
	c.RequestTimeout = d
	return c
}

// WithMaxReconnectAttempts 设置最大重连次数
func (c *Config) WithMaxReconnectAttempts(n int) *Config {
	c.MaxReconnectAttempts = n
	return c
}

// WithReconnectBackoff 设置重连退避的基础时间与倍数
func (c *Config) WithReconnectBackoff(base time.Duration, factor float64) *Config {
	c.WSC.MinRecTime = base
	c.WSC.RecFactor = factor
	c.WSC.MaxRecTime = 0
	return c
}

// WithKeyPrefix 设置会话键前缀
func (c *Config) WithKeyPrefix(prefix string) *Config {
	c.KeyPrefix = prefix
	return c
}

// WithHeader 设置握手请求头
func (c *Config) WithHeader(key, value string) *Config {
	c.Header.Set(key, value)
	return c
}

// WithMessageBufferSize 设置发送缓冲大小
func (c *Config) WithMessageBufferSize(size int) *Config {
	c.WSC.MessageBufferSize = size
	return c
}

// WithWriteTimeout 设置写超时
func (c *Config) WithWriteTimeout(d time.Duration) *Config {
	c.WSC.WriteTimeout = d
	return c
}

// WithAutoReconnect 设置是否自动重连
func (c *Config) WithAutoReconnect(enabled bool) *Config {
	c.WSC.AutoReconnect = enabled
	return c
}

// ============================================================================
// YAML 配置文件
// ============================================================================

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`
	Output     string `yaml:"output"` // console | file
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
}

// FileConfig 配置文件结构
type FileConfig struct {
	URL                  string                 `yaml:"url"`
	ConnectTimeout       time.Duration          `yaml:"connect_timeout"`
	RequestTimeout       time.Duration          `yaml:"request_timeout"`
	MaxReconnectAttempts int                    `yaml:"max_reconnect_attempts"`
	ReconnectBase        time.Duration          `yaml:"reconnect_base"`
	ReconnectFactor      float64                `yaml:"reconnect_factor"`
	AutoReconnect        *bool                  `yaml:"auto_reconnect"`
	WriteTimeout         time.Duration          `yaml:"write_timeout"`
	MaxMessageSize       int64                  `yaml:"max_message_size"`
	MessageBufferSize    int                    `yaml:"message_buffer_size"`
	KeyPrefix            string                 `yaml:"key_prefix"`
	Headers              map[string]string      `yaml:"headers"`
	Log                  LogConfig              `yaml:"log"`
	Store                repository.StoreConfig `yaml:"store"`
}

// LoadConfig 读取 YAML 配置文件，支持 ${VAR} 环境变量展开
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorx.WrapError("read config file", err)
	}
	return ParseConfig(data)
}

// ParseConfig 解析 YAML 配置内容
func ParseConfig(data []byte) (*FileConfig, error) {
	expanded := os.ExpandEnv(string(data))

	var fc FileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return nil, errorx.WrapError("parse config yaml", err)
	}
	if fc.URL == "" {
		return nil, errorx.NewError(models.ErrTypeInvalidConfig, "url is required")
	}
	return &fc, nil
}

// ClientConfig 转换为客户端配置，未设置的字段取默认值
func (fc *FileConfig) ClientConfig() *Config {
	cfg := DefaultConfig(fc.URL)
	cfg.ConnectTimeout = fc.ConnectTimeout
	cfg.RequestTimeout = fc.RequestTimeout
	cfg.MaxReconnectAttempts = fc.MaxReconnectAttempts
	cfg.KeyPrefix = fc.KeyPrefix

	cfg.WSC.MinRecTime = fc.ReconnectBase
	cfg.WSC.RecFactor = fc.ReconnectFactor
	cfg.WSC.MaxRecTime = 0
	cfg.WSC.WriteTimeout = fc.WriteTimeout
	cfg.WSC.MessageBufferSize = fc.MessageBufferSize
	cfg.WSC.MaxMessageSize = mathx.IF(fc.MaxMessageSize == 0, DefaultMaxMessageSize, fc.MaxMessageSize)
	if fc.AutoReconnect != nil {
		cfg.WSC.AutoReconnect = *fc.AutoReconnect
	}
	for k, v := range fc.Headers {
		cfg.Header.Set(k, v)
	}
	return cfg.normalize()
}
