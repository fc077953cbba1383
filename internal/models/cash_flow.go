package models

import (
	"time"
)

// CashFlow 账户的外部现金流。
// 符号约定：投资人投入资金为负数，取出资金为正数。
// 只追加不修改不删除，重复导入同一来源文件不会产生新记录。
type CashFlow struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	AccountID string    `gorm:"type:varchar(26);not null;index" json:"account_id"`
	Date      time.Time `gorm:"not null;index" json:"date"` // 流水日期
	Amount    float64   `gorm:"not null" json:"amount"`     // 带符号金额
	Currency  string    `gorm:"not null;default:USD" json:"currency"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (CashFlow) TableName() string {
	return "cash_flows"
}
