/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-20 10:12:31
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 09:02:47
 * @FilePath: \go-quizc\models\message.go
 * @Description: 协议消息结构
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"math"
	"strconv"
)

// 帧内保留字段
const (
	FieldType         = "type"          // 消息类型判别字段
	FieldSessionToken = "session_token" // 会话令牌
	FieldMessage      = "message"       // 通用提示信息
	FieldCode         = "code"          // 错误码
	FieldUserID       = "user_id"       // 用户ID
	FieldUsername     = "username"      // 用户名
	FieldPassword     = "password"      // 密码
	FieldRole         = "role"          // 角色
)

// Message 一条协议消息
type Message struct {
	Type         MessageType    `json:"type"`                    // 消息类型
	Payload      map[string]any `json:"payload"`                 // 业务字段(不含 type/session_token)
	SessionToken string         `json:"session_token,omitempty"` // 会话令牌
}

// NewMessage 创建消息
func NewMessage(t MessageType, payload map[string]any) *Message {
	if payload == nil {
		payload = make(map[string]any)
	}
	return &Message{Type: t, Payload: payload}
}

// Get 读取载荷字段
func (m *Message) Get(key string) (any, bool) {
	if m == nil || m.Payload == nil {
		return nil, false
	}
	v, ok := m.Payload[key]
	return v, ok
}

// GetString 读取字符串字段,数字会被格式化
func (m *Message) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	}
	return ""
}

// GetInt 读取整数字段, JSON 数字或数字字符串均可
func (m *Message) GetInt(key string) (int64, bool) {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		return n, err == nil
	}
	return 0, false
}
