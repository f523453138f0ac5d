/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-29 10:12:40
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 16:08:31
 * @FilePath: \go-quizc\exports_client.go
 * @Description: Client 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package quizc

import (
	"github.com/kamalyes/go-quizc/client"
)

// ============================================================================
// Client 类型导出
// ============================================================================

type (
	Client            = client.Client
	Config            = client.Config
	FileConfig        = client.FileConfig
	LogConfig         = client.LogConfig
	Option            = client.Option
	Logger            = client.Logger
	Dialer            = client.Dialer
	ConnectionManager = client.ConnectionManager
	RequestCorrelator = client.RequestCorrelator
	RegisterResult    = client.RegisterResult
)

// Result 异步请求的结算结果
type Result[T any] = client.Result[T]

// ============================================================================
// Client 函数导出
// ============================================================================

var (
	New              = client.New
	DefaultConfig    = client.DefaultConfig
	LoadConfig       = client.LoadConfig
	ParseConfig      = client.ParseConfig
	NewLogger        = client.NewLogger
	NewDefaultLogger = client.NewDefaultLogger
	NewNoOpLogger    = client.NewNoOpLogger

	WithLogger       = client.WithLogger
	WithRepository   = client.WithRepository
	WithClientDialer = client.WithClientDialer
	WithCollector    = client.WithCollector
)

// ============================================================================
// Client 方法导出 - 这些方法通过 Client 实例调用
// ============================================================================

// 注意：以下是 Client 类型的方法列表，通过 Client 实例调用
// 例如：c := quizc.New(quizc.DefaultConfig(url)); c.Init(ctx)

// 生命周期：
// - Init(ctx) error: 恢复持久化会话并建立连接，已连接时直接返回
// - Shutdown(ctx) error: 结算挂起请求、关闭连接、清空订阅

// 连接管理：
// - Connect(ctx) error / EnsureConnected(ctx) error / Disconnect()
// - State() ConnectionStatus / IsConnected() bool / ReconnectDelay(n) time.Duration
// - OnConnected / OnConnectionLost / OnDisconnected / OnStateChange / OnReconnectScheduled

// 消息收发：
// - Send(t, payload) bool: 未连接时返回 false，不排队
// - On(t, h) / Once(t, h) / Off(sub)

// 账户请求：
// - Register(ctx, username, password, role) (*RegisterResult, error)
// - Login(ctx, username, password) (*Session, error)
// - Logout(ctx) error
// - RegisterAsync / LoginAsync / LogoutAsync 返回 <-chan Result[T]，可在订阅回调内调用

// 会话查询：
// - IsLoggedIn / CurrentSession / Token / UserID / Username / Role / IsTeacher
