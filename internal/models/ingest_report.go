package models

import (
	"time"

	"gorm.io/datatypes"
)

// IngestReport 一次目录扫描的结果，files 字段保存每个文件的处理明细。
type IngestReport struct {
	ID         string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	StartedAt  time.Time      `gorm:"not null;index" json:"started_at"`
	FinishedAt time.Time      `gorm:"not null" json:"finished_at"`
	Files      datatypes.JSON `gorm:"type:json" json:"files"`
	Ok         int            `json:"ok"`      // 成功导入的文件数
	Skipped    int            `json:"skipped"` // 跳过的文件数
	Failed     int            `json:"failed"`  // 出错的文件数
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (IngestReport) TableName() string {
	return "ingest_reports"
}
