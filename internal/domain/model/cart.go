package model

import "time"

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCompleted CartStatus = "completed"
	CartStatusAbandoned CartStatus = "abandoned"
)

// 1ユーザーにつきactiveは1つ。食堂も1つに固定。
// TotalAmountは明細合計の導出値で、更新のたびに全明細から再計算する。
type Cart struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              int64      `gorm:"not null;index" json:"user_id"`
	Status              CartStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount         float64    `gorm:"not null;default:0" json:"total_amount"`
	CanteenID           int64      `gorm:"not null" json:"canteen_id"`
	MenuID              int64      `gorm:"not null" json:"menu_id"`
	MenuConfigurationID int64      `gorm:"not null" json:"menu_configuration_id"`
	OrderDate           int64      `json:"order_date"` // 受取予定日（Unix秒）
	CreatedAt           time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
