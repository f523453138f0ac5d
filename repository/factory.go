/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-24 11:02:16
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 09:20:31
 * @FilePath: \go-quizc\repository\factory.go
 * @Description: 按配置创建会话键值仓库
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/redis/go-redis/v9"
)

// 存储后端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// StoreConfig 会话存储后端配置
type StoreConfig struct {
	Backend       string        `yaml:"backend"` // memory | redis | mysql
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	KeyPrefix     string        `yaml:"key_prefix"`
	TTL           time.Duration `yaml:"ttl"`
	MySQLDSN      string        `yaml:"mysql_dsn"`
	AutoMigrate   bool          `yaml:"auto_migrate"`
}

// CloseFunc 释放后端资源
type CloseFunc func() error

// Open 按配置打开键值仓库，返回的 CloseFunc 总是非空
func Open(ctx context.Context, cfg StoreConfig) (KVRepository, CloseFunc, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryKVRepository(), noop, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, errorx.WrapError("failed to ping redis", err)
		}
		return NewRedisKVRepository(client, cfg.KeyPrefix, cfg.TTL), client.Close, nil

	case BackendMySQL:
		db, err := OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, errorx.WrapError("failed to get sql.DB", err)
		}
		repo, err := NewGormKVRepository(db, cfg.AutoMigrate)
		if err != nil {
			_ = sqlDB.Close()
			return nil, noop, err
		}
		return repo, sqlDB.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}
}
