/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-22 16:20:44
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 10:05:12
 * @FilePath: \go-quizc\router\router.go
 * @Description: 消息路由 - 按消息类型分发给有序订阅者，订阅者之间故障隔离
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package router

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// Handler 订阅回调，返回的错误只会被记录，不影响其他订阅者
// 回调在唯一的读循环上同步执行，回调内不得阻塞等待后续入站消息
// (如同步的 Register/Login/Logout)，否则读循环会一直挂起到请求超时
type Handler func(msg *models.Message) error

// HandlerFailure 订阅回调失败(返回错误或 panic)时的观察回调
type HandlerFailure func(msgType models.MessageType, failure any)

// Subscription 订阅句柄，Off 依据句柄身份移除
type Subscription struct {
	ID      uint64                  // 路由内自增ID
	Type    models.MessageType      // 订阅的消息类型
	Kind    models.SubscriptionKind // 订阅类型
	handler Handler
	fired   atomic.Bool // 一次性订阅是否已触发
	removed atomic.Bool // 是否已从路由表移除
}

// Active 订阅是否仍在路由表中
func (s *Subscription) Active() bool {
	return !s.removed.Load()
}

// Router 消息路由表
type Router struct {
	mu        sync.RWMutex
	table     map[models.MessageType][]*Subscription
	seq       atomic.Uint64
	logger    logger.ILogger
	onFailure atomic.Value // HandlerFailure
}

// New 创建路由
func New(l logger.ILogger) *Router {
	if l == nil {
		l = logger.NewEmptyLogger()
	}
	return &Router{
		table:  make(map[models.MessageType][]*Subscription),
		logger: l,
	}
}

// OnHandlerFailure 设置订阅回调失败的观察回调
func (r *Router) OnHandlerFailure(f HandlerFailure) {
	r.onFailure.Store(f)
}

// On 追加长期订阅
func (r *Router) On(t models.MessageType, h Handler) *Subscription {
	return r.add(t, h, models.SubscriptionPersistent)
}

// Once 追加一次性订阅，首次命中时先移除再回调
func (r *Router) Once(t models.MessageType, h Handler) *Subscription {
	return r.add(t, h, models.SubscriptionOneShot)
}

func (r *Router) add(t models.MessageType, h Handler, kind models.SubscriptionKind) *Subscription {
	sub := &Subscription{
		ID:      r.seq.Add(1),
		Type:    t,
		Kind:    kind,
		handler: h,
	}
	syncx.WithLock(&r.mu, func() {
		r.table[t] = append(r.table[t], sub)
	})
	return sub
}

// Off 移除订阅，只移除第一个身份相同的条目；不存在时为空操作
func (r *Router) Off(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.table[sub.Type]
	idx := slices.Index(subs, sub)
	if idx < 0 {
		return false
	}
	sub.removed.Store(true)
	subs = slices.Delete(subs, idx, idx+1)
	if len(subs) == 0 {
		delete(r.table, sub.Type)
	} else {
		r.table[sub.Type] = subs
	}
	return true
}

// Dispatch 分发消息，返回实际回调的订阅者数量
// 没有订阅者的类型直接丢弃；订阅者按注册顺序回调
func (r *Router) Dispatch(msg *models.Message) int {
	if msg == nil {
		return 0
	}
	subs := syncx.WithRLockReturnValue(&r.mu, func() []*Subscription {
		return slices.Clone(r.table[msg.Type])
	})
	if len(subs) == 0 {
		r.logger.DebugKV("消息无订阅者，已丢弃", "type", int(msg.Type), "name", msg.Type.String())
		return 0
	}

	delivered := 0
	for _, sub := range subs {
		// 同一轮分发中被前面的订阅者移除的条目不再回调
		if sub.removed.Load() {
			continue
		}
		if sub.Kind == models.SubscriptionOneShot {
			if !sub.fired.CompareAndSwap(false, true) {
				continue
			}
			r.Off(sub)
		}
		r.invoke(sub, msg)
		delivered++
	}
	return delivered
}

// invoke 回调单个订阅者，错误与 panic 在此截断
func (r *Router) invoke(sub *Subscription, msg *models.Message) {
	defer syncx.RecoverWithHandler(func(rec interface{}) {
		r.logger.ErrorKV("订阅回调 panic",
			"type", int(msg.Type),
			"subscription_id", sub.ID,
			"panic", rec,
		)
		r.notifyFailure(msg.Type, rec)
	})

	if err := sub.handler(msg); err != nil {
		r.logger.WarnKV("订阅回调返回错误",
			"type", int(msg.Type),
			"subscription_id", sub.ID,
			"error", err,
		)
		r.notifyFailure(msg.Type, err)
	}
}

func (r *Router) notifyFailure(t models.MessageType, failure any) {
	if f, ok := r.onFailure.Load().(HandlerFailure); ok && f != nil {
		f(t, failure)
	}
}

// Count 某类型当前订阅者数量
func (r *Router) Count(t models.MessageType) int {
	return syncx.WithRLockReturnValue(&r.mu, func() int {
		return len(r.table[t])
	})
}

// Types 当前有订阅者的类型列表(升序)
func (r *Router) Types() []models.MessageType {
	types := syncx.WithRLockReturnValue(&r.mu, func() []models.MessageType {
		out := make([]models.MessageType, 0, len(r.table))
		for t := range r.table {
			out = append(out, t)
		}
		return out
	})
	slices.Sort(types)
	return types
}

// Reset 清空路由表
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, subs := range r.table {
		for _, sub := range subs {
			sub.removed.Store(true)
		}
	}
	r.table = make(map[models.MessageType][]*Subscription)
}
