package models

import (
	"time"
)

// SourceFile 已导入的报告文件。path 唯一，用于保证重复导入幂等。
type SourceFile struct {
	ID        string     `gorm:"primaryKey;type:varchar(26)" json:"id"`
	BrokerID  string     `gorm:"type:varchar(26);not null;index" json:"broker_id"`
	Path      string     `gorm:"not null;uniqueIndex" json:"path"`
	AsOfDate  *time.Time `json:"asof_date"` // 报告中的截止日期，可能解析不到
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (SourceFile) TableName() string {
	return "source_files"
}
