/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-22 09:47:15
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 10:05:12
 * @FilePath: \go-quizc\protocol\pending_test.go
 * @Description: 待结算请求测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kamalyes/go-quizc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeoutResult(ctx context.Context) *Result {
	return &Result{Status: CallStatusTimeout, Err: ctx.Err()}
}

func TestPendingCall_SettleOnce(t *testing.T) {
	pc := NewPendingCall("c1", models.MessageTypeLogin)
	var applied atomic.Int32

	first := pc.Settle(&Result{Status: CallStatusSucceeded}, func() { applied.Add(1) })
	second := pc.Settle(&Result{Status: CallStatusFailed}, func() { applied.Add(1) })

	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, pc.Settled())
	assert.Equal(t, int32(1), applied.Load())

	r := pc.Wait(context.Background(), timeoutResult)
	assert.Equal(t, CallStatusSucceeded, r.Status)
	assert.False(t, r.SettledAt.IsZero())
}

func TestPendingCall_TimeoutWins(t *testing.T) {
	pc := NewPendingCall("c2", models.MessageTypeRegister)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := pc.Wait(ctx, timeoutResult)
	assert.Equal(t, CallStatusTimeout, r.Status)
	assert.True(t, errors.Is(r.Err, context.DeadlineExceeded))

	// 超时后到达的响应不再生效
	applied := false
	assert.False(t, pc.Settle(&Result{Status: CallStatusSucceeded}, func() { applied = true }))
	assert.False(t, applied)
}

func TestPendingCall_ResponseBeforeDeadline(t *testing.T) {
	pc := NewPendingCall("c3", models.MessageTypeLogout)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	time.AfterFunc(10*time.Millisecond, func() {
		pc.Settle(&Result{Status: CallStatusSucceeded}, nil)
	})
	r := pc.Wait(ctx, timeoutResult)
	assert.Equal(t, CallStatusSucceeded, r.Status)
	assert.GreaterOrEqual(t, pc.Elapsed(), 10*time.Millisecond)
}

func TestPendingCall_ConcurrentSettle(t *testing.T) {
	pc := NewPendingCall("c4", models.MessageTypeLogin)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pc.Settle(&Result{Status: CallStatusSucceeded}, nil) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	assert.Equal(t, CallStatusSucceeded, pc.Wait(context.Background(), timeoutResult).Status)
}
