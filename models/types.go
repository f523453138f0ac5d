/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-20 10:12:31
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 09:02:47
 * @FilePath: \go-quizc\models\types.go
 * @Description: 基础类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// Session 当前登录会话
type Session struct {
	Token    string   `json:"session_token"` // 会话令牌
	UserID   int64    `json:"user_id"`       // 用户ID
	Username string   `json:"username"`      // 用户名
	Role     UserRole `json:"role"`          // 角色
}

// IsZero 是否为空会话
func (s Session) IsZero() bool {
	return s.Token == "" && s.UserID == 0 && s.Username == "" && s.Role == ""
}

// HasToken 是否持有令牌
func (s Session) HasToken() bool {
	return s.Token != ""
}

// IsTeacher 是否为教师角色
func (s Session) IsTeacher() bool {
	return s.Role == UserRoleTeacher
}

// ServerErrorCode 服务端在 802 响应中返回的业务错误码
type ServerErrorCode int

const (
	ServerErrLoginFailed    ServerErrorCode = 1001 // 用户名或密码错误
	ServerErrUsernameExists ServerErrorCode = 1002 // 用户名已存在
	ServerErrRoomNotFound   ServerErrorCode = 2001 // 房间不存在
	ServerErrRoomStarted    ServerErrorCode = 2002 // 房间已开始
	ServerErrNotRoomOwner   ServerErrorCode = 2003 // 不是房间创建者
	ServerErrInvalidSession ServerErrorCode = 3001 // 会话无效
	ServerErrSystemError    ServerErrorCode = 9999 // 系统错误
)
