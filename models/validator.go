/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-20 10:12:31
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-12 21:40:05
 * @FilePath: \go-quizc\models\validator.go
 * @Description: 枚举验证器集中管理
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"github.com/kamalyes/go-toolbox/pkg/types"
)

// 全局枚举验证器实例
var (
	// UserRoleValidator 用户角色验证器
	UserRoleValidator = types.NewEnumValidator(
		UserRoleUser,
		UserRoleTeacher,
	)

	// ConnectionStatusValidator 连接状态验证器
	ConnectionStatusValidator = types.NewEnumValidator(
		ConnectionStatusDisconnected,
		ConnectionStatusConnecting,
		ConnectionStatusConnected,
		ConnectionStatusReconnecting,
		ConnectionStatusFailed,
	)

	// MessageTypeValidator 协议消息类型验证器
	MessageTypeValidator = types.NewEnumValidator(
		MessageTypeRegister,
		MessageTypeLogin,
		MessageTypeLogout,
		MessageTypePracticeRequest,
		MessageTypePracticeSubmit,
		MessageTypeListRooms,
		MessageTypeCreateRoom,
		MessageTypeJoinRoom,
		MessageTypeStartTest,
		MessageTypeChangeAnswer,
		MessageTypeSubmitTest,
		MessageTypeGetHistory,
		MessageTypeGetStats,
		MessageTypeViewRoomResults,
		MessageTypeResponseOK,
		MessageTypeResponseError,
		MessageTypeLoginOK,
		MessageTypePracticeQuestions,
		MessageTypePracticeResult,
		MessageTypeRoomList,
		MessageTypeRoomCreated,
		MessageTypeJoinOK,
		MessageTypeUserJoinedRoom,
		MessageTypeRoomStatusChanged,
		MessageTypeTestStarted,
		MessageTypeTestEnded,
		MessageTypeYourResult,
		MessageTypeHistoryData,
		MessageTypeStatsData,
		MessageTypeRoomResultsData,
	)
)
