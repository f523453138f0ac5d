/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-25 14:20:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-12 16:48:09
 * @FilePath: \go-quizc\metrics\metrics.go
 * @Description: 客户端指标收集 - Prometheus 采集器 + 进程内快照
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package metrics

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/kamalyes/go-quizc/models"
	"github.com/prometheus/client_golang/prometheus"
)

// 丢帧原因
const (
	DropReasonDecode       = "decode"
	DropReasonNotConnected = "not_connected"
	DropReasonBufferFull   = "buffer_full"
	DropReasonEncode       = "encode"
	DropReasonNoSubscriber = "no_subscriber"
)

// 请求结果
const (
	OutcomeSuccess      = "success"
	OutcomeRemoteError  = "remote_error"
	OutcomeTimeout      = "timeout"
	OutcomeNotConnected = "not_connected"
	OutcomeInvalid      = "invalid_response"
	OutcomeFailed       = "failed"
)

// Snapshot 指标快照
type Snapshot struct {
	FramesSent        int64     `json:"frames_sent"`
	FramesReceived    int64     `json:"frames_received"`
	FramesDropped     int64     `json:"frames_dropped"`
	BytesSent         int64     `json:"bytes_sent"`
	BytesReceived     int64     `json:"bytes_received"`
	ReconnectAttempts int64     `json:"reconnect_attempts"`
	HandlerFailures   int64     `json:"handler_failures"`
	RequestsSucceeded int64     `json:"requests_succeeded"`
	RequestsFailed    int64     `json:"requests_failed"`
	State             string    `json:"state"`
	CollectedAt       time.Time `json:"collected_at"`
}

// Collector 指标收集器，方法对 nil 接收者安全
type Collector struct {
	registry *prometheus.Registry

	framesSent        *prometheus.CounterVec
	framesReceived    *prometheus.CounterVec
	framesDropped     *prometheus.CounterVec
	reconnectAttempts prometheus.Counter
	connectionState   *prometheus.GaugeVec
	requestDuration   *prometheus.HistogramVec
	requestOutcomes   *prometheus.CounterVec
	handlerFailures   *prometheus.CounterVec

	// 进程内计数
	sent, received, dropped   atomic.Int64
	bytesSent, bytesReceived  atomic.Int64
	reconnects, failures      atomic.Int64
	succeeded, requestsFailed atomic.Int64
	state                     atomic.Value // models.ConnectionStatus
}

// New 创建收集器并注册到独立的 Registry
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "quizc"
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames enqueued for transmission, by message type.",
		}, []string{"type"}),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Decoded inbound frames, by message type.",
		}, []string{"type"}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Frames dropped on either direction, by reason.",
		}, []string{"reason"}),
		reconnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnect_attempts_total",
			Help:      "Scheduled reconnection attempts.",
		}),
		connectionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "1 for the current connection state, 0 otherwise.",
		}, []string{"state"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Latency of correlated requests, by flow.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"flow"}),
		requestOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Correlated requests, by flow and outcome.",
		}, []string{"flow", "outcome"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_failures_total",
			Help:      "Subscriber errors and panics, by message type.",
		}, []string{"type"}),
	}

	c.registry.MustRegister(
		c.framesSent, c.framesReceived, c.framesDropped, c.reconnectAttempts,
		c.connectionState, c.requestDuration, c.requestOutcomes, c.handlerFailures,
	)
	c.SetState(models.ConnectionStatusDisconnected)
	return c
}

// Registry 供 promhttp 暴露或测试读取
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func typeLabel(t models.MessageType) string {
	return strconv.Itoa(int(t))
}

// FrameSent 记录发送
func (c *Collector) FrameSent(t models.MessageType, bytes int) {
	if c == nil {
		return
	}
	c.framesSent.WithLabelValues(typeLabel(t)).Inc()
	c.sent.Add(1)
	c.bytesSent.Add(int64(bytes))
}

// FrameReceived 记录接收
func (c *Collector) FrameReceived(t models.MessageType, bytes int) {
	if c == nil {
		return
	}
	c.framesReceived.WithLabelValues(typeLabel(t)).Inc()
	c.received.Add(1)
	c.bytesReceived.Add(int64(bytes))
}

// FrameDropped 记录丢帧
func (c *Collector) FrameDropped(reason string) {
	if c == nil {
		return
	}
	c.framesDropped.WithLabelValues(reason).Inc()
	c.dropped.Add(1)
}

// ReconnectScheduled 记录一次重连调度
func (c *Collector) ReconnectScheduled() {
	if c == nil {
		return
	}
	c.reconnectAttempts.Inc()
	c.reconnects.Add(1)
}

// SetState 更新连接状态
func (c *Collector) SetState(state models.ConnectionStatus) {
	if c == nil {
		return
	}
	for _, s := range models.AllConnectionStatuses() {
		v := 0.0
		if s == state {
			v = 1
		}
		c.connectionState.WithLabelValues(s.String()).Set(v)
	}
	c.state.Store(state)
}

// HandlerFailed 记录订阅者失败
func (c *Collector) HandlerFailed(t models.MessageType) {
	if c == nil {
		return
	}
	c.handlerFailures.WithLabelValues(typeLabel(t)).Inc()
	c.failures.Add(1)
}

// RequestFinished 记录关联请求的耗时与结果
func (c *Collector) RequestFinished(flow, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requestDuration.WithLabelValues(flow).Observe(elapsed.Seconds())
	c.requestOutcomes.WithLabelValues(flow, outcome).Inc()
	if outcome == OutcomeSuccess {
		c.succeeded.Add(1)
	} else {
		c.requestsFailed.Add(1)
	}
}

// Snapshot 当前快照
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{CollectedAt: time.Now()}
	}
	state, _ := c.state.Load().(models.ConnectionStatus)
	return Snapshot{
		FramesSent:        c.sent.Load(),
		FramesReceived:    c.received.Load(),
		FramesDropped:     c.dropped.Load(),
		BytesSent:         c.bytesSent.Load(),
		BytesReceived:     c.bytesReceived.Load(),
		ReconnectAttempts: c.reconnects.Load(),
		HandlerFailures:   c.failures.Load(),
		RequestsSucceeded: c.succeeded.Load(),
		RequestsFailed:    c.requestsFailed.Load(),
		State:             state.String(),
		CollectedAt:       time.Now(),
	}
}
