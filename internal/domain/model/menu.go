package model

import "time"

type MenuStatus string

const (
	MenuStatusActive   MenuStatus = "active"
	MenuStatusInactive MenuStatus = "inactive"
)

// 食堂×時間帯メニュー枠に紐づく具体的なメニュー
type Menu struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string     `gorm:"type:varchar(255);not null" json:"name"`
	Description         string     `gorm:"type:text" json:"description,omitempty"`
	CanteenID           int64      `gorm:"not null;index" json:"canteen_id"`
	MenuConfigurationID int64      `gorm:"not null;index" json:"menu_configuration_id"`
	StartTime           int64      `gorm:"not null" json:"start_time"` // 有効期間（Unix秒）
	EndTime             int64      `gorm:"not null" json:"end_time"`
	Status              MenuStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedBy           int64      `gorm:"column:created_by" json:"-"`
	UpdatedBy           int64      `gorm:"column:updated_by" json:"-"`
	CreatedAt           time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
