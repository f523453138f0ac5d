/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-09-23 10:02:40
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-09 11:08:55
 * @FilePath: \go-quizc\repository\mysql.go
 * @Description: MySQL 连接辅助
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenMySQL 打开 MySQL 连接，客户端只需要极小的连接池
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, errorx.WrapError("failed to open mysql", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errorx.WrapError("failed to get sql.DB", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}
