package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission 归档投递的一次提交: 图片存 OSS, 记录落库
type Submission struct {
	ID          int64          `gorm:"column:id;primaryKey" json:"id"`
	Receipt     string         `gorm:"column:receipt;type:varchar(32);not null;uniqueIndex:uk_receipt" json:"receipt"`
	Handle      string         `gorm:"column:handle;type:varchar(33);not null;index:idx_handle" json:"handle"`
	OssKey      string         `gorm:"column:oss_key;type:varchar(255);not null" json:"oss_key"`
	ContentType string         `gorm:"column:content_type;type:varchar(64);not null" json:"content_type"`
	Size        int64          `gorm:"column:size;not null" json:"size"`
	Width       int            `gorm:"column:width;not null" json:"width"`
	Height      int            `gorm:"column:height;not null" json:"height"`
	Meta        datatypes.JSON `gorm:"column:meta" json:"meta"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;index:idx_created_at" json:"created_at"`
}

// TableName 显式指定表名
func (Submission) TableName() string {
	return "submission"
}
