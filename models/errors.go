/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-20 10:12:31
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 22:18:40
 * @FilePath: \go-quizc\models\errors.go
 * @Description: 连接与请求关联层错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"errors"
	"fmt"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// ErrorType 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// 错误码常量定义
// 使用 82xxx 区间（QUIZC = Quiz Client）
const (
	// 连接相关错误 (82100-82199)
	ErrTypeConnectionTimeout    ErrorType = 82101 // 连接超时
	ErrTypeConnectionError      ErrorType = 82102 // 传输层错误
	ErrTypeMaxReconnectExceeded ErrorType = 82103 // 重连次数耗尽
	ErrTypeNotConnected         ErrorType = 82104 // 未连接
	ErrTypeConnectionSuperseded ErrorType = 82105 // 被新的 Connect 取代

	// 协议相关错误 (82200-82299)
	ErrTypeProtocolError   ErrorType = 82201 // 帧解析失败或缺少类型
	ErrTypeInvalidResponse ErrorType = 82202 // 响应内容不符合预期

	// 请求关联错误 (82300-82399)
	ErrTypeRequestTimeout ErrorType = 82301 // 请求超时
	ErrTypeRemoteError    ErrorType = 82302 // 服务端返回错误

	// 会话存储错误 (82400-82499)
	ErrTypeSessionPersist ErrorType = 82401 // 会话持久化失败

	// 配置错误 (82500-82599)
	ErrTypeInvalidConfig ErrorType = 82501 // 配置无效
)

// init 初始化所有错误类型注册
func init() {
	errorx.RegisterError(ErrTypeConnectionTimeout, "connection timeout after %v")
	errorx.RegisterError(ErrTypeConnectionError, "connection error: %v")
	errorx.RegisterError(ErrTypeMaxReconnectExceeded, "max reconnect attempts exceeded (%d)")
	errorx.RegisterError(ErrTypeNotConnected, "not connected")
	errorx.RegisterError(ErrTypeConnectionSuperseded, "connect superseded by a newer request")

	errorx.RegisterError(ErrTypeProtocolError, "protocol error: %s")
	errorx.RegisterError(ErrTypeInvalidResponse, "invalid response for %s: %s")

	errorx.RegisterError(ErrTypeRequestTimeout, "%s request timeout after %v")
	errorx.RegisterError(ErrTypeRemoteError, "remote error %d: %s")

	errorx.RegisterError(ErrTypeSessionPersist, "session persist failed: %v")

	errorx.RegisterError(ErrTypeInvalidConfig, "invalid config: %s")
}

// 常用错误变量
// 包级变量先于 init 求值，此时错误类型尚未注册，需直接指定消息与类型
var (
	ErrNotConnected         = errorx.NewBaseError("not connected", ErrTypeNotConnected)
	ErrConnectionSuperseded = errorx.NewBaseError("connect superseded by a newer request", ErrTypeConnectionSuperseded)
)

// RemoteError 服务端通过 802 返回的业务错误，携带服务端错误码与信息
type RemoteError struct {
	Code    ServerErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error 实现 error 接口
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

// GetType 返回错误类型
func (e *RemoteError) GetType() ErrorType {
	return ErrTypeRemoteError
}

// NewRemoteError 从 802 消息构造 RemoteError
func NewRemoteError(msg *Message) *RemoteError {
	code, _ := msg.GetInt(FieldCode)
	return &RemoteError{
		Code:    ServerErrorCode(code),
		Message: msg.GetString(FieldMessage),
	}
}

// ErrorTypeOf 取出错误类型，非 errorx 错误返回 0
func ErrorTypeOf(err error) ErrorType {
	if err == nil {
		return 0
	}
	if _, ok := AsRemoteError(err); ok {
		return ErrTypeRemoteError
	}
	var typed interface{ GetType() ErrorType }
	if errors.As(err, &typed) {
		return typed.GetType()
	}
	return 0
}

// IsConnectionTimeout 判断是否为连接超时
func IsConnectionTimeout(err error) bool {
	return ErrorTypeOf(err) == ErrTypeConnectionTimeout
}

// IsConnectionError 判断是否为传输层错误
func IsConnectionError(err error) bool {
	t := ErrorTypeOf(err)
	return t == ErrTypeConnectionError || t == ErrTypeConnectionSuperseded
}

// IsProtocolError 判断是否为协议错误
func IsProtocolError(err error) bool {
	return ErrorTypeOf(err) == ErrTypeProtocolError
}

// IsRequestTimeout 判断是否为请求超时
func IsRequestTimeout(err error) bool {
	return ErrorTypeOf(err) == ErrTypeRequestTimeout
}

// IsMaxReconnectExceeded 判断是否为重连耗尽
func IsMaxReconnectExceeded(err error) bool {
	return ErrorTypeOf(err) == ErrTypeMaxReconnectExceeded
}

// IsNotConnected 判断是否为未连接
func IsNotConnected(err error) bool {
	return ErrorTypeOf(err) == ErrTypeNotConnected
}

// IsRemoteError 判断是否为服务端业务错误
func IsRemoteError(err error) bool {
	_, ok := AsRemoteError(err)
	return ok
}

// AsRemoteError 提取服务端业务错误
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsRetryableError 判断错误是否可以由调用方重试
func IsRetryableError(err error) bool {
	switch ErrorTypeOf(err) {
	case ErrTypeConnectionTimeout, ErrTypeConnectionError, ErrTypeRequestTimeout,
		ErrTypeNotConnected, ErrTypeMaxReconnectExceeded:
		return true
	default:
		return false
	}
}
