package postgres

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

// DSN builds a keyword/value connection string.
func DSN(host, user, password, dbname, port string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Kolkata",
		host, user, password, dbname, port)
}

// InitDB 初始化 PG 连接并迁移表结构
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&types.Conversation{}, &types.Query{}, &types.Response{}, &types.Feedback{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	logging.New("postgres").Info("PostgreSQL connected")
	return db, nil
}
