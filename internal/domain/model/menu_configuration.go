package model

import "time"

type MenuConfigStatus string

const (
	MenuConfigStatusActive   MenuConfigStatus = "active"
	MenuConfigStatusInactive MenuConfigStatus = "inactive"
)

// 時間帯メニューの枠（Breakfast / Lunch など）
type MenuConfiguration struct {
	ID               int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string           `gorm:"type:varchar(100);not null" json:"name"`
	DefaultStartTime int64            `gorm:"not null" json:"default_start_time"` // Unix秒
	DefaultEndTime   int64            `gorm:"not null" json:"default_end_time"`   // Unix秒
	Status           MenuConfigStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedBy        int64            `gorm:"column:created_by" json:"-"`
	UpdatedBy        int64            `gorm:"column:updated_by" json:"-"`
	CreatedAt        time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
