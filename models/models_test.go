/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-21 11:02:57
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 10:05:12
 * @FilePath: \go-quizc\models\models_test.go
 * @Description: 模型测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"fmt"
	"testing"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageType_Names(t *testing.T) {
	assert.Equal(t, "login", MessageTypeLogin.String())
	assert.Equal(t, "room_results_data", MessageTypeRoomResultsData.String())
	assert.Equal(t, "unknown(999)", MessageType(999).String())

	for mt := range messageTypeNames {
		assert.True(t, mt.IsValid(), mt.String())
	}
	assert.False(t, MessageType(999).IsValid())
}

func TestMessageType_Direction(t *testing.T) {
	assert.True(t, MessageTypeSubmitTest.IsClientToServer())
	assert.False(t, MessageTypeSubmitTest.IsServerToClient())
	assert.True(t, MessageTypeYourResult.IsServerToClient())

	assert.False(t, MessageTypeRegister.RequiresSession())
	assert.False(t, MessageTypeLogin.RequiresSession())
	assert.True(t, MessageTypeLogout.RequiresSession())
	assert.True(t, MessageTypeChangeAnswer.RequiresSession())
}

func TestMessage_Getters(t *testing.T) {
	msg := NewMessage(MessageTypeLoginOK, map[string]any{
		"user_id":  float64(7),
		"username": "alice",
		"score":    float64(92.5),
		"room":     "12",
	})

	assert.Equal(t, "alice", msg.GetString("username"))
	assert.Equal(t, "92.5", msg.GetString("score"))
	assert.Equal(t, "", msg.GetString("missing"))

	v, ok := msg.GetInt("user_id")
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)

	v, ok = msg.GetInt("room")
	assert.True(t, ok)
	assert.Equal(t, int64(12), v)

	_, ok = msg.GetInt("score")
	assert.False(t, ok)

	var nilMsg *Message
	_, ok = nilMsg.Get("x")
	assert.False(t, ok)
	assert.NotNil(t, NewMessage(MessageTypeLogout, nil).Payload)
}

func TestEnums(t *testing.T) {
	assert.True(t, UserRoleTeacher.IsValid())
	assert.False(t, UserRole("ADMIN").IsValid())

	for _, s := range AllConnectionStatuses() {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, ConnectionStatus("half-open").IsValid())
	assert.True(t, ConnectionStatusFailed.IsTerminal())
	assert.False(t, ConnectionStatusReconnecting.IsTerminal())
}

func TestSession(t *testing.T) {
	assert.True(t, Session{}.IsZero())
	s := Session{Token: "T1", UserID: 7, Role: UserRoleTeacher}
	assert.False(t, s.IsZero())
	assert.True(t, s.HasToken())
	assert.True(t, s.IsTeacher())
}

func TestErrors_Classification(t *testing.T) {
	assert.True(t, IsNotConnected(ErrNotConnected))
	assert.True(t, IsConnectionError(ErrConnectionSuperseded))
	assert.True(t, IsRequestTimeout(errorx.NewError(ErrTypeRequestTimeout, "login", "5s")))
	assert.True(t, IsMaxReconnectExceeded(errorx.NewError(ErrTypeMaxReconnectExceeded, 5)))
	assert.True(t, IsRetryableError(ErrNotConnected))
	assert.False(t, IsRetryableError(errorx.NewError(ErrTypeProtocolError, "bad")))
	assert.Equal(t, ErrorType(0), ErrorTypeOf(nil))
	assert.Equal(t, ErrorType(0), ErrorTypeOf(fmt.Errorf("plain")))
}

func TestErrors_TypeOfRegisteredErrors(t *testing.T) {
	cases := map[ErrorType]error{
		ErrTypeConnectionTimeout:    errorx.NewError(ErrTypeConnectionTimeout, "5s"),
		ErrTypeConnectionError:      errorx.NewError(ErrTypeConnectionError, "refused"),
		ErrTypeProtocolError:        errorx.NewError(ErrTypeProtocolError, "bad"),
		ErrTypeRequestTimeout:       errorx.NewError(ErrTypeRequestTimeout, "register", "5s"),
		ErrTypeSessionPersist:       errorx.NewError(ErrTypeSessionPersist, "disk full"),
		ErrTypeMaxReconnectExceeded: errorx.NewError(ErrTypeMaxReconnectExceeded, 5),
	}
	for want, err := range cases {
		assert.Equal(t, want, ErrorTypeOf(err), err.Error())
		assert.Equal(t, want, ErrorTypeOf(fmt.Errorf("wrapped: %w", err)), err.Error())
	}

	// 连接超时与传输错误、请求超时与服务端错误可以区分
	assert.True(t, IsConnectionTimeout(cases[ErrTypeConnectionTimeout]))
	assert.False(t, IsConnectionError(cases[ErrTypeConnectionTimeout]))
	assert.True(t, IsConnectionError(cases[ErrTypeConnectionError]))
	assert.False(t, IsRemoteError(cases[ErrTypeRequestTimeout]))
	assert.True(t, IsProtocolError(cases[ErrTypeProtocolError]))
}

func TestErrors_SentinelsCarryTypeAndMessage(t *testing.T) {
	assert.Equal(t, ErrTypeNotConnected, ErrorTypeOf(ErrNotConnected))
	assert.Contains(t, ErrNotConnected.Error(), "not connected")
	assert.Equal(t, ErrTypeConnectionSuperseded, ErrorTypeOf(ErrConnectionSuperseded))
	assert.Contains(t, ErrConnectionSuperseded.Error(), "superseded")
	assert.NotContains(t, ErrNotConnected.Error(), "unknown error")
}

func TestRemoteError(t *testing.T) {
	re := NewRemoteError(NewMessage(MessageTypeResponseError, map[string]any{
		"code":    float64(1003),
		"message": "Room not found",
	}))
	assert.Equal(t, ServerErrorCode(1003), re.Code)
	assert.Equal(t, "remote error 1003: Room not found", re.Error())

	wrapped := fmt.Errorf("join: %w", re)
	got, ok := AsRemoteError(wrapped)
	require.True(t, ok)
	assert.Same(t, re, got)
	assert.True(t, IsRemoteError(wrapped))
	assert.Equal(t, ErrTypeRemoteError, ErrorTypeOf(wrapped))
	assert.False(t, IsRetryableError(re))
}
