/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-22 16:20:44
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 10:05:12
 * @FilePath: \go-quizc\router\router_test.go
 * @Description: 消息路由测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package router

import (
	"errors"
	"sync"
	"testing"

	"github.com/kamalyes/go-quizc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testType models.MessageType = 999

func newTestMessage(t models.MessageType) *models.Message {
	return models.NewMessage(t, map[string]any{"message": "hi"})
}

// TestRouter_OnOff 订阅后取消，不再回调
func TestRouter_OnOff(t *testing.T) {
	r := New(nil)
	calls := 0
	sub := r.On(testType, func(msg *models.Message) error {
		calls++
		return nil
	})
	assert.Equal(t, 1, r.Count(testType))

	assert.True(t, r.Off(sub))
	assert.Equal(t, 0, r.Count(testType))
	assert.False(t, sub.Active())

	assert.Equal(t, 0, r.Dispatch(newTestMessage(testType)))
	assert.Equal(t, 0, calls)

	// 重复移除为空操作
	assert.False(t, r.Off(sub))
	assert.False(t, r.Off(nil))
}

// TestRouter_OrderedFanOut 两个订阅者收到两条消息，每次先注册的先回调
func TestRouter_OrderedFanOut(t *testing.T) {
	r := New(nil)
	var order []string
	r.On(testType, func(msg *models.Message) error {
		order = append(order, "first")
		return nil
	})
	r.On(testType, func(msg *models.Message) error {
		order = append(order, "second")
		return nil
	})

	assert.Equal(t, 2, r.Dispatch(newTestMessage(testType)))
	assert.Equal(t, 2, r.Dispatch(newTestMessage(testType)))
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

// TestRouter_FailureIsolation 回调 panic 或返回错误不影响后续订阅者
func TestRouter_FailureIsolation(t *testing.T) {
	r := New(nil)
	var failures []any
	r.OnHandlerFailure(func(msgType models.MessageType, failure any) {
		failures = append(failures, failure)
	})

	var got []int
	r.On(testType, func(msg *models.Message) error {
		got = append(got, 1)
		panic("boom")
	})
	r.On(testType, func(msg *models.Message) error {
		got = append(got, 2)
		return errors.New("handler failed")
	})
	r.On(testType, func(msg *models.Message) error {
		got = append(got, 3)
		return nil
	})

	assert.Equal(t, 3, r.Dispatch(newTestMessage(testType)))
	assert.Equal(t, 3, r.Dispatch(newTestMessage(testType)))
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, got)
	assert.Len(t, failures, 4)
}

// TestRouter_UnmonitoredType 无订阅者的类型直接丢弃
func TestRouter_UnmonitoredType(t *testing.T) {
	r := New(nil)
	assert.Equal(t, 0, r.Dispatch(newTestMessage(models.MessageTypeRoomList)))
	assert.Equal(t, 0, r.Dispatch(nil))
}

// TestRouter_Once 一次性订阅只触发一次并自动移除
func TestRouter_Once(t *testing.T) {
	r := New(nil)
	calls := 0
	sub := r.Once(models.MessageTypeResponseOK, func(msg *models.Message) error {
		calls++
		return nil
	})
	assert.Equal(t, models.SubscriptionOneShot, sub.Kind)

	r.Dispatch(newTestMessage(models.MessageTypeResponseOK))
	r.Dispatch(newTestMessage(models.MessageTypeResponseOK))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, r.Count(models.MessageTypeResponseOK))
	assert.False(t, r.Off(sub))
}

// TestRouter_OffRemovesOnlyFirstIdentity 同一类型多个订阅，只移除指定句柄
func TestRouter_OffRemovesOnlyFirstIdentity(t *testing.T) {
	r := New(nil)
	var got []string
	a := r.On(testType, func(msg *models.Message) error { got = append(got, "a"); return nil })
	r.On(testType, func(msg *models.Message) error { got = append(got, "b"); return nil })

	require.True(t, r.Off(a))
	r.Dispatch(newTestMessage(testType))
	assert.Equal(t, []string{"b"}, got)
}

// TestRouter_OffDuringDispatch 分发过程中被移除的订阅者不再回调
func TestRouter_OffDuringDispatch(t *testing.T) {
	r := New(nil)
	var second *Subscription
	calls := 0
	r.On(testType, func(msg *models.Message) error {
		r.Off(second)
		return nil
	})
	second = r.On(testType, func(msg *models.Message) error {
		calls++
		return nil
	})

	assert.Equal(t, 1, r.Dispatch(newTestMessage(testType)))
	assert.Equal(t, 0, calls)
}

// TestRouter_SubscribeDuringDispatch 回调内可以注册新订阅，下一条消息生效
func TestRouter_SubscribeDuringDispatch(t *testing.T) {
	r := New(nil)
	late := 0
	r.Once(testType, func(msg *models.Message) error {
		r.On(testType, func(msg *models.Message) error {
			late++
			return nil
		})
		return nil
	})

	r.Dispatch(newTestMessage(testType))
	assert.Equal(t, 0, late)
	r.Dispatch(newTestMessage(testType))
	assert.Equal(t, 1, late)
}

// TestRouter_TypesAndReset 类型列表与清空
func TestRouter_TypesAndReset(t *testing.T) {
	r := New(nil)
	sub := r.On(models.MessageTypeRoomList, func(msg *models.Message) error { return nil })
	r.On(models.MessageTypeResponseOK, func(msg *models.Message) error { return nil })

	assert.Equal(t, []models.MessageType{models.MessageTypeResponseOK, models.MessageTypeRoomList}, r.Types())

	r.Reset()
	assert.Empty(t, r.Types())
	assert.False(t, sub.Active())
}

// TestRouter_ConcurrentSubscribe 并发注册与分发不产生数据竞争
func TestRouter_ConcurrentSubscribe(t *testing.T) {
	r := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := r.On(testType, func(msg *models.Message) error { return nil })
			r.Off(sub)
		}()
		go func() {
			defer wg.Done()
			r.Dispatch(newTestMessage(testType))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, r.Count(testType))
}
