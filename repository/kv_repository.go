/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-23 09:30:12
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-12 18:44:30
 * @FilePath: \go-quizc\repository\kv_repository.go
 * @Description: 会话持久化键值仓库 - 内存 / Redis / MySQL(GORM) 三种实现
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository 键值存储契约，最后写入者生效，不要求事务
type KVRepository interface {
	// Get 读取，不存在时 ok=false
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set 写入(覆盖)
	Set(ctx context.Context, key, value string) error

	// Remove 删除，不存在时不报错
	Remove(ctx context.Context, key string) error
}

// BatchKVRepository 可选的批量能力，一组键要么全部写入要么全部失败
// 会话存储检测到该能力时一次提交全部字段，否则逐键写入
type BatchKVRepository interface {
	KVRepository

	// SetMany 批量写入
	SetMany(ctx context.Context, values map[string]string) error

	// RemoveMany 批量删除
	RemoveMany(ctx context.Context, keys ...string) error
}

var (
	_ BatchKVRepository = (*MemoryKVRepository)(nil)
	_ BatchKVRepository = (*RedisKVRepository)(nil)
	_ BatchKVRepository = (*GormKVRepository)(nil)
)

// ============================================================================
// 内存实现
// ============================================================================

// MemoryKVRepository 进程内实现，进程重启后数据丢失
type MemoryKVRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKVRepository 创建内存仓库
func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{data: make(map[string]string)}
}

// Get 读取
func (r *MemoryKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	return v, ok, nil
}

// Set 写入
func (r *MemoryKVRepository) Set(ctx context.Context, key, value string) error {
	syncx.WithLock(&r.mu, func() {
		r.data[key] = value
	})
	return nil
}

// Remove 删除
func (r *MemoryKVRepository) Remove(ctx context.Context, key string) error {
	syncx.WithLock(&r.mu, func() {
		delete(r.data, key)
	})
	return nil
}

// SetMany 在同一把锁内批量写入
func (r *MemoryKVRepository) SetMany(ctx context.Context, values map[string]string) error {
	syncx.WithLock(&r.mu, func() {
		for k, v := range values {
			r.data[k] = v
		}
	})
	return nil
}

// RemoveMany 在同一把锁内批量删除
func (r *MemoryKVRepository) RemoveMany(ctx context.Context, keys ...string) error {
	syncx.WithLock(&r.mu, func() {
		for _, k := range keys {
			delete(r.data, k)
		}
	})
	return nil
}

// Len 当前键数量
func (r *MemoryKVRepository) Len() int {
	return syncx.WithRLockReturnValue(&r.mu, func() int {
		return len(r.data)
	})
}

// ============================================================================
// Redis 实现
// ============================================================================

// RedisKVRepository Redis 实现
type RedisKVRepository struct {
	client    *redis.Client
	keyPrefix string        // key 前缀
	ttl       time.Duration // 过期时间，0 表示不过期
}

// NewRedisKVRepository 创建 Redis 键值仓库
// 参数:
//   - client: Redis 客户端 (github.com/redis/go-redis/v9)
//   - keyPrefix: key 前缀，为空时使用 DefaultSessionKeyPrefix
//   - ttl: 过期时间，0 表示不过期
func NewRedisKVRepository(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisKVRepository {
	return &RedisKVRepository{
		client:    client,
		keyPrefix: mathx.IF(keyPrefix == "", DefaultSessionKeyPrefix, keyPrefix),
		ttl:       ttl,
	}
}

// GetKey 获取完整 key
func (r *RedisKVRepository) GetKey(key string) string {
	return r.keyPrefix + key
}

// Get 读取
func (r *RedisKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.GetKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errorx.WrapError("failed to get session key", err)
	}
	return v, true, nil
}

// Set 写入
func (r *RedisKVRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.GetKey(key), value, r.ttl).Err(); err != nil {
		return errorx.WrapError("failed to set session key", err)
	}
	return nil
}

// Remove 删除
func (r *RedisKVRepository) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.GetKey(key)).Err(); err != nil {
		return errorx.WrapError("failed to remove session key", err)
	}
	return nil
}

// SetMany 以 MULTI/EXEC 事务批量写入
func (r *RedisKVRepository) SetMany(ctx context.Context, values map[string]string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.GetKey(k), v, r.ttl)
		}
		return nil
	})
	if err != nil {
		return errorx.WrapError("failed to set session keys", err)
	}
	return nil
}

// RemoveMany 单条 DEL 批量删除
func (r *RedisKVRepository) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.GetKey(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return errorx.WrapError("failed to remove session keys", err)
	}
	return nil
}

// ============================================================================
// MySQL(GORM) 实现
// ============================================================================

// SessionKVRecord 会话键值记录
type SessionKVRecord struct {
	Key       string    `gorm:"column:kv_key;primaryKey;size:128;comment:键" json:"key"`
	Value     string    `gorm:"column:kv_value;type:text;comment:值" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime;comment:更新时间" json:"updated_at"`
}

// TableName 表名
func (SessionKVRecord) TableName() string {
	return DefaultSessionTableName
}

// GormKVRepository GORM 实现
type GormKVRepository struct {
	db *gorm.DB
}

// NewGormKVRepository 创建 GORM 键值仓库
// autoMigrate 为 true 时自动建表
func NewGormKVRepository(db *gorm.DB, autoMigrate bool) (*GormKVRepository, error) {
	if autoMigrate {
		if err := db.AutoMigrate(&SessionKVRecord{}); err != nil {
			return nil, errorx.WrapError("failed to migrate session kv table", err)
		}
	}
	return &GormKVRepository{db: db}, nil
}

// Get 读取
func (r *GormKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var record SessionKVRecord
	err := r.db.WithContext(ctx).Where("kv_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errorx.WrapError("failed to get session record", err)
	}
	return record.Value, true, nil
}

// upsert 主键冲突时更新值
func upsert(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(&SessionKVRecord{Key: key, Value: value}).Error
}

// Set 写入，主键冲突时更新值
func (r *GormKVRepository) Set(ctx context.Context, key, value string) error {
	if err := upsert(r.db.WithContext(ctx), key, value); err != nil {
		return errorx.WrapError("failed to set session record", err)
	}
	return nil
}

// SetMany 在一个事务内批量写入
func (r *GormKVRepository) SetMany(ctx context.Context, values map[string]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			if err := upsert(tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errorx.WrapError("failed to set session records", err)
	}
	return nil
}

// Remove 删除
func (r *GormKVRepository) Remove(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&SessionKVRecord{}).Error
	if err != nil {
		return errorx.WrapError("failed to remove session record", err)
	}
	return nil
}

// RemoveMany 单条 DELETE 批量删除
func (r *GormKVRepository) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("kv_key IN ?", keys).Delete(&SessionKVRecord{}).Error
	if err != nil {
		return errorx.WrapError("failed to remove session records", err)
	}
	return nil
}
