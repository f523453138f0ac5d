/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-26 14:47:03
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 15:36:20
 * @FilePath: \go-quizc\client\client.go
 * @Description: Client 客户端 - 组装连接管理、消息路由、请求关联与会话存储
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-quizc/metrics"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-quizc/repository"
	"github.com/kamalyes/go-quizc/router"
	"github.com/kamalyes/go-quizc/session"
)

// Client 考试客户端
// 由调用方显式创建与持有，Init 建立连接，Shutdown 释放
type Client struct {
	id         string
	config     *Config
	logger     Logger
	metrics    *metrics.Collector
	router     *router.Router
	session    *session.Store
	manager    *ConnectionManager
	correlator *RequestCorrelator
}

type options struct {
	logger  Logger
	repo    repository.KVRepository
	dialer  Dialer
	metrics *metrics.Collector
}

// Option 客户端选项
type Option func(*options)

// WithLogger 设置日志器，默认按传输层日志配置创建
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRepository 设置会话持久化仓库，默认使用内存仓库
func WithRepository(repo repository.KVRepository) Option {
	return func(o *options) {
		o.repo = repo
	}
}

// WithClientDialer 设置拨号器
func WithClientDialer(d Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

// WithCollector 设置指标收集器，默认创建独立 Registry 的收集器
func WithCollector(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// New 创建客户端
func New(config *Config, opts ...Option) *Client {
	if config == nil {
		config = DefaultConfig("")
	}
	config.normalize()

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = initLogger(config.WSC)
	}
	if o.metrics == nil {
		o.metrics = metrics.New("quizc")
	}

	r := router.New(o.logger)
	r.OnHandlerFailure(func(t models.MessageType, failure any) {
		o.metrics.HandlerFailed(t)
	})

	store := session.NewStore(o.repo,
		session.WithKeyPrefix(config.KeyPrefix),
		session.WithLogger(o.logger),
	)

	manager := NewConnectionManager(config, r,
		WithDialer(o.dialer),
		WithTokenSource(store),
		WithManagerLogger(o.logger),
		WithMetrics(o.metrics),
	)
	store.BindConnection(manager)

	return &Client{
		id:         uuid.NewString(),
		config:     config,
		logger:     o.logger,
		metrics:    o.metrics,
		router:     r,
		session:    store,
		manager:    manager,
		correlator: NewRequestCorrelator(manager, r, store, config.RequestTimeout, o.logger, o.metrics),
	}
}

// Init 恢复持久化会话并建立连接，已连接时直接返回
func (c *Client) Init(ctx context.Context) error {
	if c.manager.IsConnected() {
		return nil
	}
	if err := c.session.Load(ctx); err != nil {
		c.logger.WarnKV("恢复会话失败，以未登录状态启动", "client_id", c.id, "error", err)
	}
	c.logger.InfoKV("客户端初始化", "client_id", c.id, "url", c.config.URL)
	return c.manager.Connect(ctx)
}

// Shutdown 结算未完成请求、断开连接并清空订阅，会话保留
func (c *Client) Shutdown(ctx context.Context) error {
	c.correlator.Shutdown()
	c.manager.Disconnect()
	c.router.Reset()
	c.logger.InfoKV("客户端已关闭", "client_id", c.id)
	return ctx.Err()
}

// ID 客户端实例ID
func (c *Client) ID() string { return c.id }

// Config 客户端配置
func (c *Client) Config() *Config { return c.config }

// Manager 连接管理器
func (c *Client) Manager() *ConnectionManager { return c.manager }

// Router 消息路由
func (c *Client) Router() *router.Router { return c.router }

// Session 会话存储
func (c *Client) Session() *session.Store { return c.session }

// Metrics 指标收集器
func (c *Client) Metrics() *metrics.Collector { return c.metrics }

// ============================================================================
// 连接
// ============================================================================

// Connect 建立连接
func (c *Client) Connect(ctx context.Context) error {
	return c.manager.Connect(ctx)
}

// EnsureConnected 未连接时建立连接
func (c *Client) EnsureConnected(ctx context.Context) error {
	return c.manager.EnsureConnected(ctx)
}

// Disconnect 主动断开
func (c *Client) Disconnect() {
	c.manager.Disconnect()
}

// State 连接状态
func (c *Client) State() models.ConnectionStatus {
	return c.manager.State()
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	return c.manager.IsConnected()
}

// ReconnectDelay 第 attempt 次重连的等待时间
func (c *Client) ReconnectDelay(attempt int) time.Duration {
	return c.manager.ReconnectDelay(attempt)
}

// OnConnected 连接成功回调
func (c *Client) OnConnected(f func()) {
	c.manager.OnConnected(f)
}

// OnConnectionLost 连接意外断开回调
func (c *Client) OnConnectionLost(f func(err error)) {
	c.manager.OnConnectionLost(f)
}

// OnDisconnected 连接终止回调
func (c *Client) OnDisconnected(f func(err error)) {
	c.manager.OnDisconnected(f)
}

// OnStateChange 状态变化回调
func (c *Client) OnStateChange(f func(from, to models.ConnectionStatus)) {
	c.manager.OnStateChange(f)
}

// OnReconnectScheduled 重连调度回调
func (c *Client) OnReconnectScheduled(f func(attempt int, delay time.Duration)) {
	c.manager.OnReconnectScheduled(f)
}

// ============================================================================
// 消息
// ============================================================================

// Send 发送消息
func (c *Client) Send(t models.MessageType, payload map[string]any) bool {
	return c.manager.Send(t, payload)
}

// On 订阅消息类型
func (c *Client) On(t models.MessageType, h router.Handler) *router.Subscription {
	return c.router.On(t, h)
}

// Once 一次性订阅
func (c *Client) Once(t models.MessageType, h router.Handler) *router.Subscription {
	return c.router.Once(t, h)
}

// Off 取消订阅
func (c *Client) Off(sub *router.Subscription) bool {
	return c.router.Off(sub)
}

// ============================================================================
// 账户
// ============================================================================

// 同步的 Register/Login/Logout 会阻塞到响应到达，不能在订阅回调内调用：
// 回调运行在读循环上，响应要等回调返回后才能被读取。回调内请使用 *Async 版本

// Register 注册
func (c *Client) Register(ctx context.Context, username, password string, role models.UserRole) (*RegisterResult, error) {
	return c.correlator.Register(ctx, username, password, role)
}

// Login 登录
func (c *Client) Login(ctx context.Context, username, password string) (*models.Session, error) {
	return c.correlator.Login(ctx, username, password)
}

// Logout 登出
func (c *Client) Logout(ctx context.Context) error {
	return c.correlator.Logout(ctx)
}

// RegisterAsync 非阻塞注册
func (c *Client) RegisterAsync(ctx context.Context, username, password string, role models.UserRole) <-chan Result[*RegisterResult] {
	return c.correlator.RegisterAsync(ctx, username, password, role)
}

// LoginAsync 非阻塞登录
func (c *Client) LoginAsync(ctx context.Context, username, password string) <-chan Result[*models.Session] {
	return c.correlator.LoginAsync(ctx, username, password)
}

// LogoutAsync 非阻塞登出
func (c *Client) LogoutAsync(ctx context.Context) <-chan Result[struct{}] {
	return c.correlator.LogoutAsync(ctx)
}

// PendingRequests 未结算的请求数
func (c *Client) PendingRequests() int {
	return c.correlator.PendingCount()
}

// IsLoggedIn 持有令牌且已连接
func (c *Client) IsLoggedIn() bool {
	return c.session.IsLoggedIn()
}

// CurrentSession 当前会话
func (c *Client) CurrentSession() models.Session {
	return c.session.Current()
}

// Token 会话令牌
func (c *Client) Token() string { return c.session.Token() }

// UserID 用户ID
func (c *Client) UserID() int64 { return c.session.UserID() }

// Username 用户名
func (c *Client) Username() string { return c.session.Username() }

// Role 用户角色
func (c *Client) Role() models.UserRole { return c.session.Role() }

// IsTeacher 是否为教师
func (c *Client) IsTeacher() bool { return c.session.IsTeacher() }
