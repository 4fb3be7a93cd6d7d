package model

import "time"

// 発注時点のCartItemスナップショット。現行Pricingから再計算してはいけない。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	ItemID    int64     `gorm:"not null;index" json:"item_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	Total     float64   `gorm:"not null" json:"total"`
	CreatedBy int64     `gorm:"column:created_by" json:"-"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
