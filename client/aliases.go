/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-24 10:05:19
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 19:42:10
 * @FilePath: \go-quizc\client\aliases.go
 * @Description: Client 类型别名 - 为 models 包中的类型创建别名，便于在 client 层使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package client

import (
	"github.com/kamalyes/go-quizc/models"
)

// ============================================================================
// 类型别名 - 从 models 包导入
// ============================================================================

type (
	ConnectionStatus = models.ConnectionStatus
	MessageType      = models.MessageType
	Message          = models.Message
	Session          = models.Session
	UserRole         = models.UserRole
)

// 常量别名
const (
	ConnectionStatusDisconnected = models.ConnectionStatusDisconnected
	ConnectionStatusConnecting   = models.ConnectionStatusConnecting
	ConnectionStatusConnected    = models.ConnectionStatusConnected
	ConnectionStatusReconnecting = models.ConnectionStatusReconnecting
	ConnectionStatusFailed       = models.ConnectionStatusFailed
)

// 错误别名
var (
	ErrNotConnected         = models.ErrNotConnected
	ErrConnectionSuperseded = models.ErrConnectionSuperseded
)
