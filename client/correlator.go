/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-26 09:18:40
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 11:02:48
 * @FilePath: \go-quizc\client\correlator.go
 * @Description: 请求关联 - 在单向消息通道上实现注册/登录/登出的请求-响应语义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-quizc/metrics"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-quizc/protocol"
	"github.com/kamalyes/go-quizc/router"
	"github.com/kamalyes/go-quizc/session"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// 请求流程名称
const (
	FlowRegister = "register"
	FlowLogin    = "login"
	FlowLogout   = "logout"
)

// RegisterResult 注册结果
type RegisterResult struct {
	Message string          // 服务端返回的提示
	Raw     *models.Message // 原始响应
}

// Transport 关联请求依赖的连接能力
type Transport interface {
	Send(t models.MessageType, payload map[string]any) bool
	EnsureConnected(ctx context.Context) error
}

// flow 一次关联请求的描述
type flow struct {
	name     string
	request  models.MessageType
	success  models.MessageType
	payload  map[string]any
	validate func(msg *models.Message) error // 成功响应的附加校验
	apply    func(msg *models.Message)       // 成功结算时提交的副作用
}

// RequestCorrelator 请求关联器
// 协议不带关联ID，同一响应类型的并发请求以到达顺序各自结算
type RequestCorrelator struct {
	transport Transport
	router    *router.Router
	session   *session.Store
	timeout   time.Duration
	logger    Logger
	metrics   *metrics.Collector

	mu      sync.Mutex
	pending map[string]*protocol.PendingCall
}

// NewRequestCorrelator 创建请求关联器
func NewRequestCorrelator(transport Transport, r *router.Router, store *session.Store, timeout time.Duration, l Logger, mc *metrics.Collector) *RequestCorrelator {
	if l == nil {
		l = NewNoOpLogger()
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &RequestCorrelator{
		transport: transport,
		router:    r,
		session:   store,
		timeout:   timeout,
		logger:    l,
		metrics:   mc,
		pending:   make(map[string]*protocol.PendingCall),
	}
}

// Register 注册，成功响应必须带有 message 文本
func (c *RequestCorrelator) Register(ctx context.Context, username, password string, role models.UserRole) (*RegisterResult, error) {
	if err := c.transport.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	msg, err := c.call(ctx, flow{
		name:    FlowRegister,
		request: models.MessageTypeRegister,
		success: models.MessageTypeResponseOK,
		payload: protocol.RegisterPayload(username, password, role),
		validate: func(msg *models.Message) error {
			if msg.GetString(models.FieldMessage) == "" {
				return errorx.NewError(models.ErrTypeInvalidResponse, FlowRegister, "missing message")
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &RegisterResult{Message: msg.GetString(models.FieldMessage), Raw: msg}, nil
}

// Login 登录，成功时在结果返回前写入会话
func (c *RequestCorrelator) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if err := c.transport.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	persistCtx := context.WithoutCancel(ctx)
	msg, err := c.call(ctx, flow{
		name:    FlowLogin,
		request: models.MessageTypeLogin,
		success: models.MessageTypeLoginOK,
		payload: protocol.LoginPayload(username, password),
		apply: func(msg *models.Message) {
			sess := protocol.SessionFromLogin(msg)
			if err := c.session.Set(persistCtx, sess); err != nil {
				c.logger.WarnKV("登录成功但会话持久化失败", "user_id", sess.UserID, "error", err)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	sess := protocol.SessionFromLogin(msg)
	c.logger.InfoKV("登录成功", "user_id", sess.UserID, "username", sess.Username, "role", sess.Role)
	return &sess, nil
}

// Logout 登出，成功时清除会话
func (c *RequestCorrelator) Logout(ctx context.Context) error {
	persistCtx := context.WithoutCancel(ctx)
	_, err := c.call(ctx, flow{
		name:    FlowLogout,
		request: models.MessageTypeLogout,
		success: models.MessageTypeResponseOK,
		payload: protocol.LogoutPayload(),
		apply: func(msg *models.Message) {
			if err := c.session.Clear(persistCtx); err != nil {
				c.logger.WarnKV("登出成功但会话清除失败", "error", err)
			}
		},
	})
	return err
}

// Result 异步请求的结算结果
type Result[T any] struct {
	Value T
	Err   error
}

// async 在独立 goroutine 中执行请求，结果写入容量为 1 的通道
// 调用方不读取通道也不会泄漏 goroutine
func async[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// RegisterAsync 非阻塞注册，可在订阅回调内调用
func (c *RequestCorrelator) RegisterAsync(ctx context.Context, username, password string, role models.UserRole) <-chan Result[*RegisterResult] {
	return async(func() (*RegisterResult, error) {
		return c.Register(ctx, username, password, role)
	})
}

// LoginAsync 非阻塞登录，可在订阅回调内调用
func (c *RequestCorrelator) LoginAsync(ctx context.Context, username, password string) <-chan Result[*models.Session] {
	return async(func() (*models.Session, error) {
		return c.Login(ctx, username, password)
	})
}

// LogoutAsync 非阻塞登出，可在订阅回调内调用
func (c *RequestCorrelator) LogoutAsync(ctx context.Context) <-chan Result[struct{}] {
	return async(func() (struct{}, error) {
		return struct{}{}, c.Logout(ctx)
	})
}

// PendingCount 未结算的请求数
func (c *RequestCorrelator) PendingCount() int {
	return syncx.WithLockReturnValue(&c.mu, func() int {
		return len(c.pending)
	})
}

// Shutdown 以连接错误结算全部未完成请求
func (c *RequestCorrelator) Shutdown() {
	c.mu.Lock()
	calls := make([]*protocol.PendingCall, 0, len(c.pending))
	for _, pc := range c.pending {
		calls = append(calls, pc)
	}
	c.mu.Unlock()

	for _, pc := range calls {
		pc.Settle(&protocol.Result{
			Status: protocol.CallStatusFailed,
			Err:    errorx.NewError(models.ErrTypeConnectionError, "client shutdown"),
		}, nil)
	}
}

// call 订阅成功与错误响应、发送请求并等待首个结算
// 两个订阅在所有路径上都会被移除
func (c *RequestCorrelator) call(ctx context.Context, f flow) (*models.Message, error) {
	pc := protocol.NewPendingCall(uuid.NewString(), f.request)
	syncx.WithLock(&c.mu, func() {
		c.pending[pc.ID] = pc
	})
	defer syncx.WithLock(&c.mu, func() {
		delete(c.pending, pc.ID)
	})

	okSub := c.router.Once(f.success, func(msg *models.Message) error {
		if f.validate != nil {
			if err := f.validate(msg); err != nil {
				pc.Settle(&protocol.Result{Status: protocol.CallStatusFailed, Msg: msg, Err: err}, nil)
				return nil
			}
		}
		var apply func()
		if f.apply != nil {
			apply = func() { f.apply(msg) }
		}
		pc.Settle(&protocol.Result{Status: protocol.CallStatusSucceeded, Msg: msg}, apply)
		return nil
	})
	errSub := c.router.Once(models.MessageTypeResponseError, func(msg *models.Message) error {
		pc.Settle(&protocol.Result{
			Status: protocol.CallStatusFailed,
			Msg:    msg,
			Err:    models.NewRemoteError(msg),
		}, nil)
		return nil
	})
	defer c.router.Off(okSub)
	defer c.router.Off(errSub)

	c.logger.DebugKV("发起关联请求", "flow", f.name, "request_id", pc.ID, "type", int(f.request))
	if !c.transport.Send(f.request, f.payload) {
		pc.Settle(&protocol.Result{Status: protocol.CallStatusFailed, Err: ErrNotConnected}, nil)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res := pc.Wait(waitCtx, func(done context.Context) *protocol.Result {
		if errors.Is(done.Err(), context.Canceled) {
			return &protocol.Result{Status: protocol.CallStatusTimeout, Err: fmt.Errorf("%s request cancelled: %w", f.name, done.Err())}
		}
		return &protocol.Result{
			Status: protocol.CallStatusTimeout,
			Err:    errorx.NewError(models.ErrTypeRequestTimeout, f.name, c.timeout),
		}
	})

	c.metrics.RequestFinished(f.name, outcomeOf(res), pc.Elapsed())
	if res.Err != nil {
		c.logger.WarnKV("关联请求失败", "flow", f.name, "request_id", pc.ID, "status", res.Status, "error", res.Err)
		return res.Msg, res.Err
	}
	return res.Msg, nil
}

// outcomeOf 结算结果对应的指标标签
func outcomeOf(res *protocol.Result) string {
	switch {
	case res.Status == protocol.CallStatusSucceeded:
		return metrics.OutcomeSuccess
	case res.Status == protocol.CallStatusTimeout:
		return metrics.OutcomeTimeout
	case models.IsRemoteError(res.Err):
		return metrics.OutcomeRemoteError
	case models.IsNotConnected(res.Err):
		return metrics.OutcomeNotConnected
	case models.ErrorTypeOf(res.Err) == models.ErrTypeInvalidResponse:
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeFailed
	}
}
