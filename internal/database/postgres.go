package database

import (
	"fmt"
	"log"

	"github.com/aihub/citeguard-go/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() (*gorm.DB, error) {
	cfg := config.AppConfig
	if cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 获取底层的sql.DB设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	if err := autoMigrate(db); err != nil {
		log.Printf("⚠️  Database migration warning: %v", err)
	}

	DB = db
	log.Println("✅ Database connected successfully")
	return db, nil
}

// autoMigrate 自动迁移知识库表（入库流水线通常已建表，这里兜底）
func autoMigrate(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS "document_metadata" (
			"id" varchar(128) PRIMARY KEY,
			"title" varchar(512) NOT NULL,
			"schema" text,
			"url" varchar(1024),
			"created_at" timestamptz DEFAULT NOW()
		)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS "documents" (
			"id" bigserial PRIMARY KEY,
			"content" text NOT NULL,
			"embedding" jsonb,
			"file_id" varchar(128) NOT NULL,
			"file_title" varchar(512),
			"file_url" varchar(1024),
			"created_at" timestamptz DEFAULT NOW()
		)
	`).Error; err != nil {
		return err
	}

	return db.Exec(`CREATE INDEX IF NOT EXISTS "idx_documents_file_id" ON "documents" ("file_id")`).Error
}
