/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-29 10:12:40
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 16:08:31
 * @FilePath: \go-quizc\exports_models.go
 * @Description: Models 包的类型、常量和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package quizc

import (
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-quizc/router"
)

// ============================================================================
// 类型导出
// ============================================================================

type (
	Message          = models.Message
	MessageType      = models.MessageType
	Session          = models.Session
	UserRole         = models.UserRole
	ConnectionStatus = models.ConnectionStatus
	ServerErrorCode  = models.ServerErrorCode
	RemoteError      = models.RemoteError
	ErrorType        = models.ErrorType

	Handler      = router.Handler
	Subscription = router.Subscription
)

// ============================================================================
// 常量导出
// ============================================================================

const (
	UserRoleUser    = models.UserRoleUser
	UserRoleTeacher = models.UserRoleTeacher

	ConnectionStatusDisconnected = models.ConnectionStatusDisconnected
	ConnectionStatusConnecting   = models.ConnectionStatusConnecting
	ConnectionStatusConnected    = models.ConnectionStatusConnected
	ConnectionStatusReconnecting = models.ConnectionStatusReconnecting
	ConnectionStatusFailed       = models.ConnectionStatusFailed
)

// 客户端 -> 服务端
const (
	MessageTypeRegister        = models.MessageTypeRegister
	MessageTypeLogin           = models.MessageTypeLogin
	MessageTypeLogout          = models.MessageTypeLogout
	MessageTypePracticeRequest = models.MessageTypePracticeRequest
	MessageTypePracticeSubmit  = models.MessageTypePracticeSubmit
	MessageTypeListRooms       = models.MessageTypeListRooms
	MessageTypeCreateRoom      = models.MessageTypeCreateRoom
	MessageTypeJoinRoom        = models.MessageTypeJoinRoom
	MessageTypeStartTest       = models.MessageTypeStartTest
	MessageTypeChangeAnswer    = models.MessageTypeChangeAnswer
	MessageTypeSubmitTest      = models.MessageTypeSubmitTest
	MessageTypeGetHistory      = models.MessageTypeGetHistory
	MessageTypeGetStats        = models.MessageTypeGetStats
	MessageTypeViewRoomResults = models.MessageTypeViewRoomResults
)

// 服务端 -> 客户端
const (
	MessageTypeResponseOK        = models.MessageTypeResponseOK
	MessageTypeResponseError     = models.MessageTypeResponseError
	MessageTypeLoginOK           = models.MessageTypeLoginOK
	MessageTypePracticeQuestions = models.MessageTypePracticeQuestions
	MessageTypePracticeResult    = models.MessageTypePracticeResult
	MessageTypeRoomList          = models.MessageTypeRoomList
	MessageTypeRoomCreated       = models.MessageTypeRoomCreated
	MessageTypeJoinOK            = models.MessageTypeJoinOK
	MessageTypeUserJoinedRoom    = models.MessageTypeUserJoinedRoom
	MessageTypeRoomStatusChanged = models.MessageTypeRoomStatusChanged
	MessageTypeTestStarted       = models.MessageTypeTestStarted
	MessageTypeTestEnded         = models.MessageTypeTestEnded
	MessageTypeYourResult        = models.MessageTypeYourResult
	MessageTypeHistoryData       = models.MessageTypeHistoryData
	MessageTypeStatsData         = models.MessageTypeStatsData
	MessageTypeRoomResultsData   = models.MessageTypeRoomResultsData
)

// 错误类型
const (
	ErrTypeConnectionTimeout    = models.ErrTypeConnectionTimeout
	ErrTypeConnectionError      = models.ErrTypeConnectionError
	ErrTypeMaxReconnectExceeded = models.ErrTypeMaxReconnectExceeded
	ErrTypeNotConnected         = models.ErrTypeNotConnected
	ErrTypeProtocolError        = models.ErrTypeProtocolError
	ErrTypeInvalidResponse      = models.ErrTypeInvalidResponse
	ErrTypeRequestTimeout       = models.ErrTypeRequestTimeout
	ErrTypeRemoteError          = models.ErrTypeRemoteError
	ErrTypeSessionPersist       = models.ErrTypeSessionPersist
	ErrTypeInvalidConfig        = models.ErrTypeInvalidConfig
)

// ============================================================================
// 函数导出
// ============================================================================

var (
	NewMessage = models.NewMessage

	ErrNotConnected = models.ErrNotConnected

	ErrorTypeOf            = models.ErrorTypeOf
	IsConnectionTimeout    = models.IsConnectionTimeout
	IsConnectionError      = models.IsConnectionError
	IsProtocolError        = models.IsProtocolError
	IsRequestTimeout       = models.IsRequestTimeout
	IsMaxReconnectExceeded = models.IsMaxReconnectExceeded
	IsNotConnected         = models.IsNotConnected
	IsRemoteError          = models.IsRemoteError
	AsRemoteError          = models.AsRemoteError
	IsRetryableError       = models.IsRetryableError
)
