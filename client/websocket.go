/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-24 14:05:37
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 19:42:10
 * @FilePath: \go-quizc\client\websocket.go
 * @Description: WebSocket 通道 - 单条底层连接及其写缓冲
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Dialer 拨号接口，*websocket.Dialer 直接满足
type Dialer interface {
	DialContext(ctx context.Context, url string, header http.Header) (*websocket.Conn, *http.Response, error)
}

// DefaultDialer 默认拨号器
var DefaultDialer Dialer = websocket.DefaultDialer

// WebSocket 一条已建立的底层连接
// 每次(重)连接创建新实例，旧实例关闭后不再复用
type WebSocket struct {
	URL          string          // 连接 URL
	Conn         *websocket.Conn // WebSocket 连接
	HttpResponse *http.Response  // 握手响应
	writeTimeout time.Duration   // 写超时
	sendChan     chan []byte     // 发送缓冲
	done         chan struct{}   // 关闭信号，写协程据此退出
	closeOnce    sync.Once
}

// newWebSocket 包装已建立的连接
func newWebSocket(url string, conn *websocket.Conn, resp *http.Response, bufferSize int, writeTimeout time.Duration, readLimit int64) *WebSocket {
	if readLimit > 0 {
		conn.SetReadLimit(readLimit)
	}
	return &WebSocket{
		URL:          url,
		Conn:         conn,
		HttpResponse: resp,
		writeTimeout: writeTimeout,
		sendChan:     make(chan []byte, bufferSize),
		done:         make(chan struct{}),
	}
}

// enqueue 非阻塞入队，通道已关闭或缓冲已满时返回 false
func (ws *WebSocket) enqueue(data []byte) bool {
	select {
	case <-ws.done:
		return false
	default:
	}
	select {
	case ws.sendChan <- data:
		return true
	default:
		return false
	}
}

// writeLoop 串行写出缓冲中的帧
// 发送通道从不关闭，由 done 通知退出，入队方不会向已关闭通道写入
func (ws *WebSocket) writeLoop(onError func(error)) {
	for {
		select {
		case <-ws.done:
			return
		case data := <-ws.sendChan:
			_ = ws.Conn.SetWriteDeadline(time.Now().Add(ws.writeTimeout))
			if err := ws.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				onError(err)
				return
			}
		}
	}
}

// Pending 缓冲中待写出的帧数
func (ws *WebSocket) Pending() int {
	return len(ws.sendChan)
}

// Closed 是否已关闭
func (ws *WebSocket) Closed() bool {
	select {
	case <-ws.done:
		return true
	default:
		return false
	}
}

// Close 发送关闭帧后关闭连接，可重复调用
func (ws *WebSocket) Close(code int, text string) {
	ws.closeOnce.Do(func() {
		close(ws.done)
		if code > 0 {
			deadline := time.Now().Add(ws.writeTimeout)
			_ = ws.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
		}
		_ = ws.Conn.Close()
	})
}

// IsNormalClose 检查WebSocket关闭是否为正常关闭
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
