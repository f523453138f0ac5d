/**
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-23 09:08:55
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-09 11:08:55
 * @FilePath: \go-quizc\repository\constants.go
 * @Description: Repository 层常量定义 - 统一管理 key 前缀和表名
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import "errors"

const (
	// DefaultSessionKeyPrefix Redis 会话 key 默认前缀
	DefaultSessionKeyPrefix = "quizc:session:"

	// DefaultSessionTableName 会话 KV 表名
	DefaultSessionTableName = "quiz_session_kv"
)

// ErrUnsupportedBackend 未知的存储后端
var ErrUnsupportedBackend = errors.New("unsupported session backend")
