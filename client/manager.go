/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-24 15:30:11
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 11:02:48
 * @FilePath: \go-quizc\client\manager.go
 * @Description: 连接管理 - 建连、收发、断开与指数退避重连
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/kamalyes/go-quizc/metrics"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-quizc/protocol"
	"github.com/kamalyes/go-quizc/router"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// TokenSource 提供出站消息携带的会话令牌
type TokenSource interface {
	Token() string
}

// ConnectionManager 连接管理器
// 同一时刻至多一条活动连接，新的 Connect 取代所有未完成的拨号与重连
type ConnectionManager struct {
	mu             sync.Mutex
	config         *Config
	dialer         Dialer
	router         *router.Router
	tokens         TokenSource
	logger         Logger
	metrics        *metrics.Collector
	stateMachine   *syncx.StateMachine[models.ConnectionStatus]
	ws             *WebSocket  // 当前连接
	generation     uint64      // 连接代数，递增即作废旧的拨号与重连定时器
	attempts       int         // 当前重连序列已调度的次数
	reconnectTimer *time.Timer // 待触发的重连

	onConnected          atomic.Value // func()
	onConnectionLost     atomic.Value // func(error)
	onDisconnected       atomic.Value // func(error)
	onStateChange        atomic.Value // func(from, to models.ConnectionStatus)
	onReconnectScheduled atomic.Value // func(attempt int, delay time.Duration)
}

// ManagerOption 连接管理器选项
type ManagerOption func(*ConnectionManager)

// WithDialer 设置拨号器
func WithDialer(d Dialer) ManagerOption {
	return func(m *ConnectionManager) {
		if d != nil {
			m.dialer = d
		}
	}
}

// WithTokenSource 设置令牌来源
func WithTokenSource(ts TokenSource) ManagerOption {
	return func(m *ConnectionManager) {
		m.tokens = ts
	}
}

// WithManagerLogger 设置日志器
func WithManagerLogger(l Logger) ManagerOption {
	return func(m *ConnectionManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(c *metrics.Collector) ManagerOption {
	return func(m *ConnectionManager) {
		m.metrics = c
	}
}

// NewConnectionManager 创建连接管理器
func NewConnectionManager(config *Config, r *router.Router, opts ...ManagerOption) *ConnectionManager {
	if config == nil {
		config = DefaultConfig("")
	}
	config.normalize()

	sm := syncx.NewStateMachine(models.ConnectionStatusDisconnected)
	sm.AllowTransitions(models.ConnectionStatusDisconnected, models.ConnectionStatusConnecting)
	sm.AllowTransitions(models.ConnectionStatusConnecting, models.ConnectionStatusConnected, models.ConnectionStatusDisconnected)
	sm.AllowTransitions(models.ConnectionStatusConnected, models.ConnectionStatusReconnecting, models.ConnectionStatusDisconnected)
	sm.AllowTransitions(models.ConnectionStatusReconnecting,
		models.ConnectionStatusConnected, models.ConnectionStatusFailed,
		models.ConnectionStatusConnecting, models.ConnectionStatusDisconnected)
	sm.AllowTransitions(models.ConnectionStatusFailed, models.ConnectionStatusConnecting, models.ConnectionStatusDisconnected)

	m := &ConnectionManager{
		config:       config,
		dialer:       DefaultDialer,
		router:       r,
		logger:       NewNoOpLogger(),
		stateMachine: sm,
	}
	if m.router == nil {
		m.router = router.New(nil)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ============================================================================
// 观察回调
// ============================================================================

// OnConnected 连接(含重连)成功
func (m *ConnectionManager) OnConnected(f func()) {
	m.onConnected.Store(f)
}

// OnConnectionLost 已建立的连接意外断开
func (m *ConnectionManager) OnConnectionLost(f func(err error)) {
	m.onConnectionLost.Store(f)
}

// OnDisconnected 连接进入终止状态：主动断开(err 为 nil)、重连耗尽或未开启自动重连
func (m *ConnectionManager) OnDisconnected(f func(err error)) {
	m.onDisconnected.Store(f)
}

// OnStateChange 状态变化
func (m *ConnectionManager) OnStateChange(f func(from, to models.ConnectionStatus)) {
	m.onStateChange.Store(f)
}

// OnReconnectScheduled 已调度第 attempt 次重连
func (m *ConnectionManager) OnReconnectScheduled(f func(attempt int, delay time.Duration)) {
	m.onReconnectScheduled.Store(f)
}

// fire 在锁外执行回调，单个回调 panic 不影响后续
func (m *ConnectionManager) fire(events []func()) {
	for _, ev := range events {
		func() {
			defer syncx.RecoverWithHandler(func(r interface{}) {
				m.logger.ErrorKV("连接回调 panic", "panic", r)
			})
			ev()
		}()
	}
}

func (m *ConnectionManager) connectedEvent() func() {
	return func() {
		if f, ok := m.onConnected.Load().(func()); ok && f != nil {
			f()
		}
	}
}

func (m *ConnectionManager) lostEvent(err error) func() {
	return func() {
		if f, ok := m.onConnectionLost.Load().(func(error)); ok && f != nil {
			f(err)
		}
	}
}

func (m *ConnectionManager) disconnectedEvent(err error) func() {
	return func() {
		if f, ok := m.onDisconnected.Load().(func(error)); ok && f != nil {
			f(err)
		}
	}
}

func (m *ConnectionManager) reconnectScheduledEvent(attempt int, delay time.Duration) func() {
	return func() {
		if f, ok := m.onReconnectScheduled.Load().(func(int, time.Duration)); ok && f != nil {
			f(attempt, delay)
		}
	}
}

// transitionLocked 状态转换，调用方持有 m.mu
func (m *ConnectionManager) transitionLocked(to models.ConnectionStatus) []func() {
	from := m.stateMachine.CurrentState()
	if from == to {
		return nil
	}
	if err := m.stateMachine.TransitionTo(to); err != nil {
		m.logger.ErrorKV("非法的连接状态转换", "from", from, "to", to, "error", err)
		return nil
	}
	m.metrics.SetState(to)
	m.logger.DebugKV("连接状态变化", "from", from, "to", to)
	return []func(){func() {
		if f, ok := m.onStateChange.Load().(func(models.ConnectionStatus, models.ConnectionStatus)); ok && f != nil {
			f(from, to)
		}
	}}
}

// ============================================================================
// 状态查询
// ============================================================================

// State 当前连接状态
func (m *ConnectionManager) State() models.ConnectionStatus {
	return m.stateMachine.CurrentState()
}

// IsConnected 是否已连接
func (m *ConnectionManager) IsConnected() bool {
	return m.stateMachine.CurrentState() == models.ConnectionStatusConnected
}

// Attempts 当前重连序列已调度的次数
func (m *ConnectionManager) Attempts() int {
	return syncx.WithLockReturnValue(&m.mu, func() int {
		return m.attempts
	})
}

// URL 服务端地址
func (m *ConnectionManager) URL() string {
	return m.config.URL
}

// Router 消息路由
func (m *ConnectionManager) Router() *router.Router {
	return m.router
}

// ReconnectDelay 第 attempt 次重连前的等待时间，base * factor^(attempt-1)
// 每次按当前配置计算，New 之后的 WithReconnectBackoff 同样生效
func (m *ConnectionManager) ReconnectDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wsc := m.config.WSC
	base := mathx.IF(wsc.MinRecTime <= 0, DefaultReconnectBase, wsc.MinRecTime)
	factor := mathx.IF(wsc.RecFactor <= 0, DefaultReconnectFactor, wsc.RecFactor)
	// 上限至少覆盖到本次尝试，避免截断序列
	ceiling := max(wsc.MaxRecTime, maxReconnectDelay(base, factor, max(attempt, m.config.MaxReconnectAttempts)))
	b := &backoff.Backoff{Min: base, Max: ceiling, Factor: factor, Jitter: false}
	return b.ForAttempt(float64(attempt - 1))
}

// ============================================================================
// 建连与断开
// ============================================================================

// Connect 建立连接，已连接时直接返回
// 失败时状态回到 disconnected，超时返回 ConnectionTimeout，其余返回 ConnectionError
func (m *ConnectionManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.stateMachine.CurrentState() == models.ConnectionStatusConnected {
		m.mu.Unlock()
		return nil
	}
	m.generation++
	gen := m.generation
	m.stopReconnectLocked()
	events := m.transitionLocked(models.ConnectionStatusConnecting)
	m.mu.Unlock()

	m.fire(events)
	m.logger.InfoKV("开始连接", "url", m.config.URL)
	return m.dial(ctx, gen, false)
}

// EnsureConnected 未连接时建立连接
func (m *ConnectionManager) EnsureConnected(ctx context.Context) error {
	if m.IsConnected() {
		return nil
	}
	return m.Connect(ctx)
}

// dial 拨号并在成功后启动读写协程
// reconnecting 为 true 表示由重连定时器发起，失败时继续调度下一次
func (m *ConnectionManager) dial(ctx context.Context, gen uint64, reconnecting bool) error {
	dialCtx, cancel := context.WithTimeout(ctx, m.config.ConnectTimeout)
	defer cancel()

	conn, resp, err := m.dialer.DialContext(dialCtx, m.config.URL, m.config.Header)

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		m.logger.DebugKV("拨号结果已被新的连接请求取代", "url", m.config.URL)
		return ErrConnectionSuperseded
	}

	if err != nil {
		dialErr := m.classifyDialError(ctx, dialCtx, err)
		var events []func()
		if reconnecting {
			m.logger.WarnKV("重连失败", "attempt", m.attempts, "error", dialErr)
			events = m.scheduleReconnectLocked()
		} else {
			m.logger.WarnKV("连接失败", "url", m.config.URL, "error", dialErr)
			events = m.transitionLocked(models.ConnectionStatusDisconnected)
		}
		m.mu.Unlock()
		m.fire(events)
		return dialErr
	}

	ws := newWebSocket(m.config.URL, conn, resp, m.config.WSC.MessageBufferSize, m.config.WSC.WriteTimeout, m.config.WSC.MaxMessageSize)
	m.ws = ws
	m.attempts = 0
	events := m.transitionLocked(models.ConnectionStatusConnected)
	events = append(events, m.connectedEvent())
	m.mu.Unlock()

	go ws.writeLoop(func(err error) {
		m.logger.WarnKV("写入失败，关闭连接", "error", err)
		_ = ws.Conn.Close()
	})
	go m.readLoop(ws, gen)

	m.logger.InfoKV("连接成功", "url", m.config.URL, "reconnect", reconnecting)
	m.fire(events)
	return nil
}

// classifyDialError 区分拨号超时与其他传输错误
func (m *ConnectionManager) classifyDialError(parent, dialCtx context.Context, err error) error {
	if errors.Is(dialCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return errorx.NewError(models.ErrTypeConnectionTimeout, m.config.ConnectTimeout)
	}
	return errorx.NewError(models.ErrTypeConnectionError, err)
}

// Disconnect 主动断开，发送正常关闭帧并取消待执行的重连
// 会话不受影响
func (m *ConnectionManager) Disconnect() {
	m.mu.Lock()
	m.generation++
	m.stopReconnectLocked()
	ws := m.ws
	m.ws = nil
	m.attempts = 0
	wasActive := m.stateMachine.CurrentState() != models.ConnectionStatusDisconnected
	events := m.transitionLocked(models.ConnectionStatusDisconnected)
	if wasActive {
		events = append(events, m.disconnectedEvent(nil))
	}
	m.mu.Unlock()

	if ws != nil {
		ws.Close(websocket.CloseNormalClosure, "")
		m.logger.InfoKV("连接已主动断开", "url", m.config.URL)
	}
	m.fire(events)
}

func (m *ConnectionManager) stopReconnectLocked() {
	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
		m.reconnectTimer = nil
	}
}

// ============================================================================
// 重连
// ============================================================================

// handleChannelClosed 读协程发现连接断开
func (m *ConnectionManager) handleChannelClosed(ws *WebSocket, gen uint64, cause error) {
	m.mu.Lock()
	if gen != m.generation || m.ws != ws {
		// 主动断开或已被取代
		m.mu.Unlock()
		ws.Close(0, "")
		return
	}
	m.ws = nil
	ws.Close(0, "")

	lost := errorx.NewError(models.ErrTypeConnectionError, cause)
	m.logger.WarnKV("连接意外断开", "url", m.config.URL, "error", cause, "normal_close", IsNormalClose(cause))

	events := []func(){m.lostEvent(lost)}
	if !m.config.WSC.AutoReconnect {
		events = append(events, m.transitionLocked(models.ConnectionStatusDisconnected)...)
		events = append(events, m.disconnectedEvent(lost))
	} else {
		events = append(events, m.transitionLocked(models.ConnectionStatusReconnecting)...)
		m.attempts = 0
		events = append(events, m.scheduleReconnectLocked()...)
	}
	m.mu.Unlock()
	m.fire(events)
}

// scheduleReconnectLocked 调度下一次重连，次数耗尽时进入 failed
func (m *ConnectionManager) scheduleReconnectLocked() []func() {
	if m.attempts >= m.config.MaxReconnectAttempts {
		exceeded := errorx.NewError(models.ErrTypeMaxReconnectExceeded, m.config.MaxReconnectAttempts)
		m.logger.ErrorKV("重连次数耗尽", "url", m.config.URL, "attempts", m.attempts)
		events := m.transitionLocked(models.ConnectionStatusFailed)
		return append(events, m.disconnectedEvent(exceeded))
	}

	m.attempts++
	attempt := m.attempts
	delay := m.ReconnectDelay(attempt)
	gen := m.generation
	m.reconnectTimer = time.AfterFunc(delay, func() {
		m.reconnect(gen)
	})
	m.metrics.ReconnectScheduled()
	m.logger.InfoKV("已调度重连", "attempt", attempt, "max_attempts", m.config.MaxReconnectAttempts, "delay", delay)
	return []func(){m.reconnectScheduledEvent(attempt, delay)}
}

// reconnect 重连定时器触发
func (m *ConnectionManager) reconnect(gen uint64) {
	m.mu.Lock()
	if gen != m.generation || m.stateMachine.CurrentState() != models.ConnectionStatusReconnecting {
		m.mu.Unlock()
		return
	}
	m.reconnectTimer = nil
	m.mu.Unlock()

	_ = m.dial(context.Background(), gen, true)
}

// ============================================================================
// 收发
// ============================================================================

// Send 发送消息，未连接或缓冲已满时返回 false
// 除注册与登录外，出站消息自动携带当前会话令牌
func (m *ConnectionManager) Send(t models.MessageType, payload map[string]any) bool {
	m.mu.Lock()
	ws := m.ws
	connected := m.stateMachine.CurrentState() == models.ConnectionStatusConnected
	m.mu.Unlock()

	if !connected || ws == nil {
		m.logger.WarnKV("未连接，消息未发送", "type", int(t))
		m.metrics.FrameDropped(metrics.DropReasonNotConnected)
		return false
	}

	msg := models.NewMessage(t, payload)
	if m.tokens != nil {
		msg.SessionToken = m.tokens.Token()
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		m.logger.ErrorKV("消息编码失败", "type", int(t), "error", err)
		m.metrics.FrameDropped(metrics.DropReasonEncode)
		return false
	}

	if !ws.enqueue(data) {
		m.logger.WarnKV("发送缓冲已满或连接已关闭", "type", int(t), "pending", ws.Pending())
		m.metrics.FrameDropped(metrics.DropReasonBufferFull)
		return false
	}
	m.metrics.FrameSent(t, len(data))
	return true
}

// readLoop 按到达顺序解码并分发入站帧
func (m *ConnectionManager) readLoop(ws *WebSocket, gen uint64) {
	for {
		messageType, data, err := ws.Conn.ReadMessage()
		if err != nil {
			m.handleChannelClosed(ws, gen, err)
			return
		}
		if messageType != websocket.TextMessage {
			m.logger.DebugKV("忽略非文本帧", "message_type", messageType, "size", len(data))
			m.metrics.FrameDropped(metrics.DropReasonDecode)
			continue
		}
		m.handleFrame(data)
	}
}

// handleFrame 解码失败的帧记录后丢弃
func (m *ConnectionManager) handleFrame(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		m.logger.WarnKV("丢弃无法解析的帧", "error", err, "size", len(data))
		m.metrics.FrameDropped(metrics.DropReasonDecode)
		return
	}
	m.metrics.FrameReceived(msg.Type, len(data))
	if m.router.Dispatch(msg) == 0 {
		m.metrics.FrameDropped(metrics.DropReasonNoSubscriber)
	}
}
