/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-21 14:03:16
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 22:18:40
 * @FilePath: \go-quizc\protocol\frames.go
 * @Description: 入站帧分类 - 封闭的帧变体集合，未知类型统一落入 UnknownFrame
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"github.com/kamalyes/go-quizc/models"
)

// Frame 入站帧变体
type Frame interface {
	// Raw 返回原始消息
	Raw() *models.Message
	isFrame()
}

// AckFrame 801 通用成功确认
type AckFrame struct {
	Msg     *models.Message
	Message string
}

// ErrorFrame 802 通用错误
type ErrorFrame struct {
	Msg *models.Message
	Err *models.RemoteError
}

// LoginOKFrame 803 登录成功
type LoginOKFrame struct {
	Msg     *models.Message
	Session models.Session
}

// PushFrame 服务端业务推送(房间、考试、练习、统计等)
type PushFrame struct {
	Msg *models.Message
}

// UnknownFrame 协议表之外的类型
type UnknownFrame struct {
	Msg *models.Message
}

func (f *AckFrame) Raw() *models.Message     { return f.Msg }
func (f *ErrorFrame) Raw() *models.Message   { return f.Msg }
func (f *LoginOKFrame) Raw() *models.Message { return f.Msg }
func (f *PushFrame) Raw() *models.Message    { return f.Msg }
func (f *UnknownFrame) Raw() *models.Message { return f.Msg }

func (*AckFrame) isFrame()     {}
func (*ErrorFrame) isFrame()   {}
func (*LoginOKFrame) isFrame() {}
func (*PushFrame) isFrame()    {}
func (*UnknownFrame) isFrame() {}

// Classify 将消息归类为帧变体
func Classify(msg *models.Message) Frame {
	switch msg.Type {
	case models.MessageTypeResponseOK:
		return &AckFrame{Msg: msg, Message: msg.GetString(models.FieldMessage)}
	case models.MessageTypeResponseError:
		return &ErrorFrame{Msg: msg, Err: models.NewRemoteError(msg)}
	case models.MessageTypeLoginOK:
		return &LoginOKFrame{Msg: msg, Session: SessionFromLogin(msg)}
	case models.MessageTypePracticeQuestions, models.MessageTypePracticeResult,
		models.MessageTypeRoomList, models.MessageTypeRoomCreated, models.MessageTypeJoinOK,
		models.MessageTypeUserJoinedRoom, models.MessageTypeRoomStatusChanged,
		models.MessageTypeTestStarted, models.MessageTypeTestEnded, models.MessageTypeYourResult,
		models.MessageTypeHistoryData, models.MessageTypeStatsData, models.MessageTypeRoomResultsData:
		return &PushFrame{Msg: msg}
	default:
		return &UnknownFrame{Msg: msg}
	}
}

// SessionFromLogin 从 803 消息提取会话
func SessionFromLogin(msg *models.Message) models.Session {
	uid, _ := msg.GetInt(models.FieldUserID)
	return models.Session{
		Token:    msg.SessionToken,
		UserID:   uid,
		Username: msg.GetString(models.FieldUsername),
		Role:     models.UserRole(msg.GetString(models.FieldRole)),
	}
}
