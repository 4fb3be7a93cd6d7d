package model

import "time"

type PricingStatus string

const (
	PricingStatusActive   PricingStatus = "active"
	PricingStatusInactive PricingStatus = "inactive"
)

// 商品の現行価格。activeは商品ごとに最大1件。
type Pricing struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID    int64         `gorm:"not null;index" json:"item_id"`
	Price     float64       `gorm:"not null" json:"price"`
	Currency  string        `gorm:"type:varchar(10);not null;default:'INR'" json:"currency"`
	StartDate int64         `gorm:"not null" json:"start_date"` // 適用期間（Unix秒）
	EndDate   int64         `json:"end_date"`
	Status    PricingStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedBy int64         `gorm:"column:created_by" json:"-"`
	UpdatedBy int64         `gorm:"column:updated_by" json:"-"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
