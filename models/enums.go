/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-20 10:12:31
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-12 21:40:05
 * @FilePath: \go-quizc\models\enums.go
 * @Description: 枚举类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// UserRole 用户角色
type UserRole string

const (
	UserRoleUser    UserRole = "USER"    // 普通考生
	UserRoleTeacher UserRole = "TEACHER" // 教师(可创建考试房间)
)

// String 实现Stringer接口
func (r UserRole) String() string {
	return string(r)
}

// IsValid 检查角色是否有效
func (r UserRole) IsValid() bool {
	return UserRoleValidator.IsValid(r)
}

// ConnectionStatus 连接状态
type ConnectionStatus string

const (
	ConnectionStatusDisconnected ConnectionStatus = "disconnected" // 已断开
	ConnectionStatusConnecting   ConnectionStatus = "connecting"   // 连接中
	ConnectionStatusConnected    ConnectionStatus = "connected"    // 已连接
	ConnectionStatusReconnecting ConnectionStatus = "reconnecting" // 重连中
	ConnectionStatusFailed       ConnectionStatus = "failed"       // 重连耗尽,需显式 Connect 恢复
)

// String 实现Stringer接口
func (s ConnectionStatus) String() string {
	return string(s)
}

// IsValid 检查连接状态是否有效
func (s ConnectionStatus) IsValid() bool {
	return ConnectionStatusValidator.IsValid(s)
}

// AllConnectionStatuses 全部连接状态
func AllConnectionStatuses() []ConnectionStatus {
	return []ConnectionStatus{
		ConnectionStatusDisconnected,
		ConnectionStatusConnecting,
		ConnectionStatusConnected,
		ConnectionStatusReconnecting,
		ConnectionStatusFailed,
	}
}

// IsTerminal 是否为终止状态
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionStatusFailed
}

// SubscriptionKind 订阅类型
type SubscriptionKind string

const (
	SubscriptionPersistent SubscriptionKind = "persistent" // 长期订阅
	SubscriptionOneShot    SubscriptionKind = "one_shot"   // 一次性订阅,触发后自动移除
)

// String 实现Stringer接口
func (k SubscriptionKind) String() string {
	return string(k)
}
