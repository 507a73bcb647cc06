package models

import (
	"time"
)

// DocumentMetadata 文档元数据表
// 知识库入库流水线写入，本服务只读
type DocumentMetadata struct {
	ID        string    `gorm:"primaryKey;column:id;size:128" json:"id"`
	Title     string    `gorm:"column:title;size:512;not null" json:"title"`
	Schema    string    `gorm:"column:schema;type:text" json:"schema,omitempty"`
	URL       string    `gorm:"column:url;size:1024" json:"url"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (DocumentMetadata) TableName() string {
	return "document_metadata"
}

// DocumentChunk 文档分块表
// 元数据字段展开为具名列，避免松散JSON访问
type DocumentChunk struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Embedding string    `gorm:"type:jsonb;column:embedding" json:"-"`
	FileID    string    `gorm:"column:file_id;size:128;not null;index" json:"file_id"`
	FileTitle string    `gorm:"column:file_title;size:512" json:"file_title"`
	FileURL   string    `gorm:"column:file_url;size:1024" json:"file_url"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (DocumentChunk) TableName() string {
	return "documents"
}
