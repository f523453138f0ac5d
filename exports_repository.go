/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-29 10:12:40
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-14 16:08:31
 * @FilePath: \go-quizc\exports_repository.go
 * @Description: Repository 模块类型导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package quizc

import "github.com/kamalyes/go-quizc/repository"

// ============================================
// KV Repository - 会话键值存储
// ============================================

// KVRepository 键值存储契约
type KVRepository = repository.KVRepository

// BatchKVRepository 支持批量写入与删除的键值存储
type BatchKVRepository = repository.BatchKVRepository

// StoreConfig 存储后端配置
type StoreConfig = repository.StoreConfig

// NewMemoryKVRepository 创建内存存储
var NewMemoryKVRepository = repository.NewMemoryKVRepository

// NewRedisKVRepository 创建 Redis 存储
var NewRedisKVRepository = repository.NewRedisKVRepository

// NewGormKVRepository 创建 MySQL 存储
var NewGormKVRepository = repository.NewGormKVRepository

// OpenStore 按配置打开存储后端
var OpenStore = repository.Open
