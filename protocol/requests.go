/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-21 14:03:16
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-11 16:27:52
 * @FilePath: \go-quizc\protocol\requests.go
 * @Description: 认证类请求载荷构造
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// RegisterPayload 101 注册载荷，角色为空时默认 USER
func RegisterPayload(username, password string, role models.UserRole) map[string]any {
	return map[string]any{
		models.FieldUsername: username,
		models.FieldPassword: password,
		models.FieldRole:     mathx.IF(role == "", models.UserRoleUser, role).String(),
	}
}

// LoginPayload 102 登录载荷
func LoginPayload(username, password string) map[string]any {
	return map[string]any{
		models.FieldUsername: username,
		models.FieldPassword: password,
	}
}

// LogoutPayload 103 登出载荷
func LogoutPayload() map[string]any {
	return map[string]any{}
}
