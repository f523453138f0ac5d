/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-23 15:40:18
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-13 20:31:57
 * @FilePath: \go-quizc\session\store.go
 * @Description: 会话存储 - 当前用户凭据的唯一来源，跨重连与进程重启保留
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/kamalyes/go-logger"
	"github.com/kamalyes/go-quizc/models"
	"github.com/kamalyes/go-quizc/repository"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// 持久化键名
const (
	KeyToken    = "sessionToken"
	KeyUserID   = "userId"
	KeyUsername = "username"
	KeyRole     = "role"
)

// ConnectionProbe 连接状态探针
type ConnectionProbe interface {
	IsConnected() bool
}

// Option 存储选项
type Option func(*Store)

// WithKeyPrefix 为持久化键增加前缀，用于同一后端保存多个客户端的会话
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.keyPrefix = prefix
	}
}

// WithLogger 设置日志器
func WithLogger(l logger.ILogger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store 会话存储
type Store struct {
	mu        sync.RWMutex
	repo      repository.KVRepository
	keyPrefix string
	current   models.Session
	probe     ConnectionProbe
	logger    logger.ILogger
}

// NewStore 创建会话存储，repo 为空时使用内存仓库
func NewStore(repo repository.KVRepository, opts ...Option) *Store {
	if repo == nil {
		repo = repository.NewMemoryKVRepository()
	}
	s := &Store{
		repo:   repo,
		logger: logger.NewEmptyLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.keyPrefix + name
}

// BindConnection 绑定连接探针，IsLoggedIn 依赖它
func (s *Store) BindConnection(probe ConnectionProbe) {
	syncx.WithLock(&s.mu, func() {
		s.probe = probe
	})
}

// Load 启动时从持久化存储恢复会话，没有令牌时为空操作
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.repo.Get(ctx, s.key(KeyToken))
	if err != nil {
		return errorx.NewError(models.ErrTypeSessionPersist, err)
	}
	if !ok || token == "" {
		return nil
	}

	loaded := models.Session{Token: token}
	if v, ok, err := s.repo.Get(ctx, s.key(KeyUserID)); err == nil && ok {
		loaded.UserID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok, err := s.repo.Get(ctx, s.key(KeyUsername)); err == nil && ok {
		loaded.Username = v
	}
	if v, ok, err := s.repo.Get(ctx, s.key(KeyRole)); err == nil && ok {
		loaded.Role = models.UserRole(v)
	}
	s.current = loaded

	s.logger.InfoKV("已恢复持久化会话", "user_id", loaded.UserID, "username", loaded.Username)
	return nil
}

// Set 替换会话
// 持久化与内存更新在同一把锁内完成，读者看不到中间状态
// 持久化失败时内存仍会更新(服务端会话已生效)，错误返回给调用方
func (s *Store) Set(ctx context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.persist(ctx, map[string]string{
		s.key(KeyToken):    session.Token,
		s.key(KeyUserID):   strconv.FormatInt(session.UserID, 10),
		s.key(KeyUsername): session.Username,
		s.key(KeyRole):     session.Role.String(),
	})

	s.current = session
	if err != nil {
		s.logger.WarnKV("会话持久化失败", "user_id", session.UserID, "error", err)
		return errorx.NewError(models.ErrTypeSessionPersist, err)
	}
	return nil
}

// Clear 清除内存与持久化的会话
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.erase(ctx, s.key(KeyToken), s.key(KeyUserID), s.key(KeyUsername), s.key(KeyRole))

	s.current = models.Session{}
	if err != nil {
		s.logger.WarnKV("会话清除失败", "error", err)
		return errorx.NewError(models.ErrTypeSessionPersist, err)
	}
	return nil
}

// persist 仓库支持批量时一次写入全部字段，否则逐键写入并返回首个错误
func (s *Store) persist(ctx context.Context, values map[string]string) error {
	if batch, ok := s.repo.(repository.BatchKVRepository); ok {
		return batch.SetMany(ctx, values)
	}
	var firstErr error
	for k, v := range values {
		if err := s.repo.Set(ctx, k, v); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// erase 与 persist 对应的删除
func (s *Store) erase(ctx context.Context, keys ...string) error {
	if batch, ok := s.repo.(repository.BatchKVRepository); ok {
		return batch.RemoveMany(ctx, keys...)
	}
	var firstErr error
	for _, k := range keys {
		if err := s.repo.Remove(ctx, k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Current 当前会话快照
func (s *Store) Current() models.Session {
	return syncx.WithRLockReturnValue(&s.mu, func() models.Session {
		return s.current
	})
}

// Token 当前令牌
func (s *Store) Token() string {
	return s.Current().Token
}

// UserID 当前用户ID
func (s *Store) UserID() int64 {
	return s.Current().UserID
}

// Username 当前用户名
func (s *Store) Username() string {
	return s.Current().Username
}

// Role 当前角色
func (s *Store) Role() models.UserRole {
	return s.Current().Role
}

// IsTeacher 当前用户是否为教师
func (s *Store) IsTeacher() bool {
	return s.Current().IsTeacher()
}

// IsLoggedIn 持有令牌且连接处于已连接状态
// 只有令牌没有活动连接时无法使用，返回 false
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	token, probe := s.current.Token, s.probe
	s.mu.RUnlock()
	return token != "" && probe != nil && probe.IsConnected()
}
