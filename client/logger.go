/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-24 10:40:02
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-11 17:05:44
 * @FilePath: \go-quizc\client\logger.go
 * @Description: 客户端日志，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"os"
	"strings"
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
)

// Logger 直接使用 go-logger.ILogger
type Logger = logger.ILogger

const logPrefix = "[QUIZC] "

// NewDefaultLogger 创建默认配置的日志器
func NewDefaultLogger() Logger {
	config := logger.DefaultConfig().
		WithLevel(logger.INFO).
		WithPrefix(logPrefix).
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)

	return logger.NewLogger(config)
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() Logger {
	return logger.NewEmptyLogger()
}

// NewLogger 根据日志配置创建日志器
func NewLogger(cfg LogConfig) Logger {
	loggerConfig := logger.DefaultConfig().
		WithLevel(parseLogLevel(cfg.Level)).
		WithPrefix(logPrefix).
		WithShowCaller(false).
		WithColorful(cfg.Output != "file").
		WithTimeFormat(time.DateTime)

	switch {
	case cfg.Output == "file" && cfg.FilePath != "" && cfg.MaxSize > 0 && cfg.MaxBackups > 0:
		rotateWriter := logger.NewRotateWriter(
			cfg.FilePath,
			int64(cfg.MaxSize)*1024*1024, // MB 转字节
			cfg.MaxBackups,
		)
		loggerConfig = loggerConfig.WithOutput(rotateWriter)
	case cfg.Output == "file" && cfg.FilePath != "":
		loggerConfig = loggerConfig.WithOutput(logger.NewFileWriter(cfg.FilePath))
	default:
		loggerConfig = loggerConfig.WithOutput(logger.NewConsoleWriter(os.Stdout))
	}

	return logger.NewLogger(loggerConfig)
}

// initLogger 根据传输层配置初始化日志器，未启用时使用默认日志器
func initLogger(config *wscconfig.WSC) Logger {
	if config == nil || config.Logging == nil || !config.Logging.Enabled {
		return NewDefaultLogger()
	}
	return NewLogger(LogConfig{
		Level:      config.Logging.Level,
		Output:     config.Logging.Output,
		FilePath:   config.Logging.FilePath,
		MaxSize:    config.Logging.MaxSize,
		MaxBackups: config.Logging.MaxBackups,
	})
}

// parseLogLevel 解析日志级别字符串
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG
	case "warn", "warning":
		return logger.WARN
	case "error":
		return logger.ERROR
	case "fatal":
		return logger.FATAL
	default:
		return logger.INFO
	}
}
