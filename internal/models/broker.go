package models

import (
	"time"
)

// Broker 券商
type Broker struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"` // 券商名称，如 UBS
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Broker) TableName() string {
	return "brokers"
}
