/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-25 16:22:08
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 15:36:20
 * @FilePath: \go-quizc\client\config_test.go
 * @Description: 配置与日志测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-quizc/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("ws://localhost:8080/ws")

	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.MaxReconnectAttempts)
	assert.Equal(t, time.Second, cfg.WSC.MinRecTime)
	assert.Equal(t, 2.0, cfg.WSC.RecFactor)
	assert.Equal(t, 16*time.Second, cfg.WSC.MaxRecTime)
	assert.True(t, cfg.WSC.AutoReconnect)
	assert.Equal(t, DefaultMessageBufferSize, cfg.WSC.MessageBufferSize)
}

func TestConfig_NormalizeFillsZeroFields(t *testing.T) {
	cfg := (&Config{URL: "ws://x"}).normalize()

	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultMaxReconnectAttempts, cfg.MaxReconnectAttempts)
	assert.NotNil(t, cfg.Header)
	assert.NotNil(t, cfg.WSC)
}

func TestConfig_NormalizeRaisesBackoffCap(t *testing.T) {
	cfg := DefaultConfig("ws://x").
		WithMaxReconnectAttempts(7).
		WithReconnectBackoff(100*time.Millisecond, 3).
		normalize()

	// 100ms * 3^6
	assert.Equal(t, 72900*time.Millisecond, cfg.WSC.MaxRecTime)
}

func TestConfig_Setters(t *testing.T) {
	cfg := DefaultConfig("ws://x").
		WithConnectTimeout(time.Second).
		WithRequestTimeout(2*time.Second).
		WithKeyPrefix("exam:").
		WithHeader("X-Client", "quizc").
		WithMessageBufferSize(8).
		WithWriteTimeout(3*time.Second).
		WithAutoReconnect(false)

	assert.Equal(t, time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "exam:", cfg.KeyPrefix)
	assert.Equal(t, "quizc", cfg.Header.Get("X-Client"))
	assert.Equal(t, 8, cfg.WSC.MessageBufferSize)
	assert.Equal(t, 3*time.Second, cfg.WSC.WriteTimeout)
	assert.False(t, cfg.WSC.AutoReconnect)
}

func TestParseConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("QUIZC_TEST_HOST", "quiz.example.com")
	t.Setenv("QUIZC_TEST_REDIS", "127.0.0.1:6379")

	fc, err := ParseConfig([]byte(`
url: ws://${QUIZC_TEST_HOST}:9000/ws
connect_timeout: 2s
request_timeout: 3s
max_reconnect_attempts: 4
reconnect_base: 500ms
reconnect_factor: 1.5
auto_reconnect: false
key_prefix: "exam:"
headers:
  X-Client: quizc
log:
  level: debug
  output: console
store:
  backend: redis
  redis_addr: ${QUIZC_TEST_REDIS}
`))
	require.NoError(t, err)
	assert.Equal(t, "ws://quiz.example.com:9000/ws", fc.URL)
	assert.Equal(t, "debug", fc.Log.Level)
	assert.Equal(t, repository.BackendRedis, fc.Store.Backend)
	assert.Equal(t, "127.0.0.1:6379", fc.Store.RedisAddr)

	cfg := fc.ClientConfig()
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.MaxReconnectAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.WSC.MinRecTime)
	assert.Equal(t, 1.5, cfg.WSC.RecFactor)
	assert.False(t, cfg.WSC.AutoReconnect)
	assert.Equal(t, "exam:", cfg.KeyPrefix)
	assert.Equal(t, "quizc", cfg.Header.Get("X-Client"))
}

func TestParseConfig_Defaults(t *testing.T) {
	fc, err := ParseConfig([]byte("url: ws://localhost:8080/ws\n"))
	require.NoError(t, err)

	cfg := fc.ClientConfig()
	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultMaxReconnectAttempts, cfg.MaxReconnectAttempts)
	assert.Equal(t, DefaultReconnectBase, cfg.WSC.MinRecTime)
	assert.Equal(t, DefaultMaxMessageSize, cfg.WSC.MaxMessageSize)
	assert.True(t, cfg.WSC.AutoReconnect)
}

func TestParseConfig_MissingURL(t *testing.T) {
	_, err := ParseConfig([]byte("connect_timeout: 2s\n"))
	require.Error(t, err)
	assert.Equal(t, models.ErrTypeInvalidConfig, models.ErrorTypeOf(err))
}

func TestParseConfig_BadYAML(t *testing.T) {
	_, err := ParseConfig([]byte("url: [unterminated"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: ws://localhost:8080/ws\n"), 0o600))

	fc, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws", fc.URL)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"DEBUG":   logger.DEBUG,
		"warning": logger.WARN,
		"error":   logger.ERROR,
		"fatal":   logger.FATAL,
		"":        logger.INFO,
		"verbose": logger.INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger(LogConfig{Level: "info"}))
	assert.NotNil(t, NewLogger(LogConfig{
		Level:    "debug",
		Output:   "file",
		FilePath: filepath.Join(t.TempDir(), "quizc.log"),
	}))
	assert.NotNil(t, initLogger(nil))
	assert.NotNil(t, NewNoOpLogger())
}
