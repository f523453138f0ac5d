/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-27 10:11:52
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 15:36:20
 * @FilePath: \go-quizc\client\server_test.go
 * @Description: 测试用脚本化 WebSocket 服务端
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/stretchr/testify/require"
)

// replyFunc 服务端收到一帧后的应答逻辑，返回 nil 表示不应答
type replyFunc func(frame map[string]any) []map[string]any

// quizServer 脚本化服务端
type quizServer struct {
	t        *testing.T
	server   *httptest.Server
	upgrader websocket.Upgrader
	reply    replyFunc
	accept   atomic.Bool
	accepted atomic.Int32

	mu       sync.Mutex
	conns    []*websocket.Conn
	received []map[string]any
	closes   []int // 客户端发来的关闭码
}

func newQuizServer(t *testing.T, reply replyFunc) *quizServer {
	s := &quizServer{
		t:     t,
		reply: reply,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.accept.Store(true)
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *quizServer) URL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
}

func (s *quizServer) Close() {
	s.closeAll()
	s.server.Close()
}

func (s *quizServer) handle(w http.ResponseWriter, r *http.Request) {
	if !s.accept.Load() {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()
	s.accepted.Add(1)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ce, ok := err.(*websocket.CloseError); ok {
				s.mu.Lock()
				s.closes = append(s.closes, ce.Code)
				s.mu.Unlock()
			}
			return
		}
		var frame map[string]any
		if json.Unmarshal(data, &frame) != nil {
			continue
		}
		s.mu.Lock()
		s.received = append(s.received, frame)
		s.mu.Unlock()

		if s.reply == nil {
			continue
		}
		for _, out := range s.reply(frame) {
			s.write(conn, out)
		}
	}
}

func (s *quizServer) write(conn *websocket.Conn, frame map[string]any) {
	data, err := json.Marshal(frame)
	require.NoError(s.t, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

// writeRaw 向最新连接写入原始文本
func (s *quizServer) writeRaw(text string) {
	s.waitConn()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.conns) == 0 {
		return
	}
	_ = s.conns[len(s.conns)-1].WriteMessage(websocket.TextMessage, []byte(text))
}

// waitConn 等待服务端登记至少一条连接
func (s *quizServer) waitConn() {
	require.Eventually(s.t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.conns) > 0
	}, 2*time.Second, 5*time.Millisecond)
}

// push 向最新连接推送
func (s *quizServer) push(frame map[string]any) {
	s.waitConn()
	s.mu.Lock()
	var conn *websocket.Conn
	if len(s.conns) > 0 {
		conn = s.conns[len(s.conns)-1]
	}
	s.mu.Unlock()
	if conn != nil {
		s.write(conn, frame)
	}
}

// dropAll 不发关闭帧直接断开所有连接
func (s *quizServer) dropAll() {
	s.waitConn()
	s.closeAll()
}

func (s *quizServer) closeAll() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	for _, c := range conns {
		_ = c.UnderlyingConn().Close()
	}
}

func (s *quizServer) frames() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.received))
	copy(out, s.received)
	return out
}

func (s *quizServer) framesOfType(t models.MessageType) []map[string]any {
	var out []map[string]any
	for _, f := range s.frames() {
		if v, ok := f["type"].(float64); ok && int(v) == int(t) {
			out = append(out, f)
		}
	}
	return out
}

func (s *quizServer) closeCodes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.closes...)
}

// frameType 帧中的消息类型
func frameType(frame map[string]any) models.MessageType {
	v, _ := frame["type"].(float64)
	return models.MessageType(int(v))
}

// quizReplies 常规应答脚本
func quizReplies(frame map[string]any) []map[string]any {
	switch frameType(frame) {
	case models.MessageTypeRegister:
		if frame["username"] == "taken" {
			return []map[string]any{{"type": 802, "code": 1002, "message": "Username exists"}}
		}
		if frame["username"] == "silent-ok" {
			return []map[string]any{{"type": 801}}
		}
		return []map[string]any{{"type": 801, "message": "Registration successful"}}
	case models.MessageTypeLogin:
		if frame["password"] != "secret" {
			return []map[string]any{{"type": 802, "code": 1001, "message": "Login failed"}}
		}
		return []map[string]any{{
			"type":          803,
			"session_token": "T1",
			"user_id":       7,
			"username":      frame["username"],
			"role":          "USER",
		}}
	case models.MessageTypeLogout:
		return []map[string]any{{"type": 801, "message": "Logged out"}}
	default:
		return nil
	}
}

// newTestClient 指向测试服务端的客户端，重连退避缩短到毫秒级
func newTestClient(t *testing.T, url string, mutate func(cfg *Config), opts ...Option) *Client {
	cfg := DefaultConfig(url).
		WithRequestTimeout(time.Second).
		WithConnectTimeout(time.Second).
		WithReconnectBackoff(20*time.Millisecond, 2)
	if mutate != nil {
		mutate(cfg)
	}
	opts = append([]Option{WithLogger(NewNoOpLogger())}, opts...)
	c := New(cfg, opts...)
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })
	return c
}

// blockingDialer 一直阻塞到上下文结束
type blockingDialer struct{}

func (blockingDialer) DialContext(ctx context.Context, url string, header http.Header) (*websocket.Conn, *http.Response, error) {
	<-ctx.Done()
	return nil, nil, ctx.Err()
}
