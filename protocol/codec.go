/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-21 14:03:16
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 22:18:40
 * @FilePath: \go-quizc\protocol\codec.go
 * @Description: 文本帧编解码 - 每帧一个 JSON 对象，整数 type 字段为判别字段
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package protocol

import (
	"math"

	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/json"
)

// Encode 将消息编码为文本帧
// 除注册/登录外，帧内总是写入 session_token(未登录时为空串)
// 载荷中与保留字段同名的键会被覆盖
func Encode(msg *models.Message) ([]byte, error) {
	frame := make(map[string]any, len(msg.Payload)+2)
	for k, v := range msg.Payload {
		frame[k] = v
	}
	delete(frame, models.FieldSessionToken)
	if msg.Type.RequiresSession() {
		frame[models.FieldSessionToken] = msg.SessionToken
	}
	frame[models.FieldType] = int(msg.Type)
	return json.Marshal(frame)
}

// Decode 将文本帧解析为消息
// type 与 session_token 从载荷中剥离到 Message 对应字段
// 任何解析失败都返回 ErrTypeProtocolError
func Decode(data []byte) (*models.Message, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errorx.NewError(models.ErrTypeProtocolError, err.Error())
	}
	if raw == nil {
		return nil, errorx.NewError(models.ErrTypeProtocolError, "frame is not an object")
	}

	tv, ok := raw[models.FieldType]
	if !ok {
		return nil, errorx.NewError(models.ErrTypeProtocolError, "missing type field")
	}
	code, ok := tv.(float64)
	if !ok || code != math.Trunc(code) {
		return nil, errorx.NewError(models.ErrTypeProtocolError, "type field is not an integer")
	}

	token, _ := raw[models.FieldSessionToken].(string)
	delete(raw, models.FieldType)
	delete(raw, models.FieldSessionToken)

	return &models.Message{
		Type:         models.MessageType(int(code)),
		Payload:      raw,
		SessionToken: token,
	}, nil
}
