/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-20 10:12:31
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 09:02:47
 * @FilePath: \go-quizc\models\message_type.go
 * @Description: 协议消息类型(操作码)定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "strconv"

// MessageType 协议消息类型(整数操作码)
type MessageType int

// 客户端 -> 服务端 (C2S)
const (
	MessageTypeRegister        MessageType = 101 // 注册
	MessageTypeLogin           MessageType = 102 // 登录
	MessageTypeLogout          MessageType = 103 // 登出
	MessageTypePracticeRequest MessageType = 201 // 请求练习题
	MessageTypePracticeSubmit  MessageType = 202 // 提交练习
	MessageTypeListRooms       MessageType = 301 // 房间列表
	MessageTypeCreateRoom      MessageType = 302 // 创建房间
	MessageTypeJoinRoom        MessageType = 303 // 加入房间
	MessageTypeStartTest       MessageType = 401 // 开始考试
	MessageTypeChangeAnswer    MessageType = 402 // 修改答案
	MessageTypeSubmitTest      MessageType = 403 // 交卷
	MessageTypeGetHistory      MessageType = 501 // 历史记录
	MessageTypeGetStats        MessageType = 502 // 统计数据
	MessageTypeViewRoomResults MessageType = 503 // 房间成绩
)

// 服务端 -> 客户端 (S2C)
const (
	MessageTypeResponseOK        MessageType = 801  // 通用成功确认
	MessageTypeResponseError     MessageType = 802  // 通用错误
	MessageTypeLoginOK           MessageType = 803  // 登录成功
	MessageTypePracticeQuestions MessageType = 901  // 练习题下发
	MessageTypePracticeResult    MessageType = 902  // 练习结果
	MessageTypeRoomList          MessageType = 1001 // 房间列表数据
	MessageTypeRoomCreated       MessageType = 1002 // 房间已创建
	MessageTypeJoinOK            MessageType = 1003 // 加入房间成功
	MessageTypeUserJoinedRoom    MessageType = 1004 // 有用户加入房间
	MessageTypeRoomStatusChanged MessageType = 1005 // 房间状态变化
	MessageTypeTestStarted       MessageType = 1101 // 考试开始
	MessageTypeTestEnded         MessageType = 1102 // 考试结束
	MessageTypeYourResult        MessageType = 1103 // 个人成绩
	MessageTypeHistoryData       MessageType = 1201 // 历史数据
	MessageTypeStatsData         MessageType = 1202 // 统计数据
	MessageTypeRoomResultsData   MessageType = 1203 // 房间成绩数据
)

var messageTypeNames = map[MessageType]string{
	MessageTypeRegister:          "register",
	MessageTypeLogin:             "login",
	MessageTypeLogout:            "logout",
	MessageTypePracticeRequest:   "practice_request",
	MessageTypePracticeSubmit:    "practice_submit",
	MessageTypeListRooms:         "list_rooms",
	MessageTypeCreateRoom:        "create_room",
	MessageTypeJoinRoom:          "join_room",
	MessageTypeStartTest:         "start_test",
	MessageTypeChangeAnswer:      "change_answer",
	MessageTypeSubmitTest:        "submit_test",
	MessageTypeGetHistory:        "get_history",
	MessageTypeGetStats:          "get_stats",
	MessageTypeViewRoomResults:   "view_room_results",
	MessageTypeResponseOK:        "response_ok",
	MessageTypeResponseError:     "response_error",
	MessageTypeLoginOK:           "login_ok",
	MessageTypePracticeQuestions: "practice_questions",
	MessageTypePracticeResult:    "practice_result",
	MessageTypeRoomList:          "room_list",
	MessageTypeRoomCreated:       "room_created",
	MessageTypeJoinOK:            "join_ok",
	MessageTypeUserJoinedRoom:    "user_joined_room",
	MessageTypeRoomStatusChanged: "room_status_changed",
	MessageTypeTestStarted:       "test_started",
	MessageTypeTestEnded:         "test_ended",
	MessageTypeYourResult:        "your_result",
	MessageTypeHistoryData:       "history_data",
	MessageTypeStatsData:         "stats_data",
	MessageTypeRoomResultsData:   "room_results_data",
}

// String 实现Stringer接口,未知类型返回 "unknown(<code>)"
func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// IsValid 是否为协议内已定义的类型
func (t MessageType) IsValid() bool {
	return MessageTypeValidator.IsValid(t)
}

// IsClientToServer 是否为客户端发往服务端的类型
func (t MessageType) IsClientToServer() bool {
	return t >= 100 && t < 800
}

// IsServerToClient 是否为服务端下发的类型
func (t MessageType) IsServerToClient() bool {
	return t >= 800
}

// RequiresSession 发送时是否需要携带 session_token
// 只有注册和登录两种未认证请求不携带
func (t MessageType) RequiresSession() bool {
	return t != MessageTypeRegister && t != MessageTypeLogin
}
