package models

import (
	"time"
)

// Valuation 账户在某一日期的总估值。
// 同一账户允许多条估值，KPI 计算只取日期最大的一条。
// total_value 预期非负但不做强制校验，负值照样入库，由下游计算自行降级。
type Valuation struct {
	ID         string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	AccountID  string    `gorm:"type:varchar(26);not null;index" json:"account_id"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	TotalValue float64   `gorm:"not null" json:"total_value"`
	Method     string    `json:"method"` // 估值来源，如 reported
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Valuation) TableName() string {
	return "valuations"
}
