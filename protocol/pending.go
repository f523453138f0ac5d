/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-22 11:47:09
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 22:18:40
 * @FilePath: \go-quizc\protocol\pending.go
 * @Description: 待结算请求 - 成功/错误/超时三者只有第一个生效
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamalyes/go-quizc/models"
)

// CallStatus 结算状态
type CallStatus string

const (
	CallStatusPending   CallStatus = "pending"   // 等待响应
	CallStatusSucceeded CallStatus = "succeeded" // 收到成功响应
	CallStatusFailed    CallStatus = "failed"    // 收到错误响应或发送失败
	CallStatusTimeout   CallStatus = "timeout"   // 超时或上下文取消
)

// Result 请求结算结果
type Result struct {
	Status    CallStatus      `json:"status"`     // 结算状态
	Msg       *models.Message `json:"-"`          // 触发结算的响应消息
	Err       error           `json:"-"`          // 失败原因
	SettledAt time.Time       `json:"settled_at"` // 结算时间
}

// PendingCall 待结算请求
type PendingCall struct {
	ID          string             // 请求ID(仅用于日志关联)
	RequestType models.MessageType // 请求类型
	StartedAt   time.Time          // 发起时间

	resultChan chan *Result // 结果通道，容量为1
	once       sync.Once
	settled    atomic.Bool
}

// NewPendingCall 创建待结算请求
func NewPendingCall(id string, requestType models.MessageType) *PendingCall {
	return &PendingCall{
		ID:          id,
		RequestType: requestType,
		StartedAt:   time.Now(),
		resultChan:  make(chan *Result, 1),
	}
}

// Settle 结算请求，仅首次调用生效并返回 true
// apply 在首次结算时、结果投递之前同步执行，用于提交副作用(如写入会话)
func (pc *PendingCall) Settle(result *Result, apply func()) bool {
	first := false
	pc.once.Do(func() {
		first = true
		if apply != nil {
			apply()
		}
		result.SettledAt = time.Now()
		pc.settled.Store(true)
		pc.resultChan <- result
	})
	return first
}

// Settled 是否已结算
func (pc *PendingCall) Settled() bool {
	return pc.settled.Load()
}

// Wait 等待结算
// ctx 结束时以 onDone 的结果结算；若此前已被其他路径结算，返回先到的结果
func (pc *PendingCall) Wait(ctx context.Context, onDone func(ctx context.Context) *Result) *Result {
	select {
	case r := <-pc.resultChan:
		return r
	case <-ctx.Done():
		pc.Settle(onDone(ctx), nil)
		return <-pc.resultChan
	}
}

// Elapsed 自发起以来的耗时
func (pc *PendingCall) Elapsed() time.Duration {
	return time.Since(pc.StartedAt)
}
