package models

import (
	"time"
)

// Account 账户，对应一段券商关系。无法拆分子账户时也可以是一个汇总账户。
type Account struct {
	ID           string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	BrokerID     string    `gorm:"type:varchar(26);not null;index;uniqueIndex:uq_account_broker_name" json:"broker_id"`
	Name         string    `gorm:"not null;uniqueIndex:uq_account_broker_name" json:"name"`
	BaseCurrency string    `gorm:"not null;default:USD" json:"base_currency"` // 记账货币
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}
