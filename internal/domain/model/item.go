package model

import "time"

type ItemType string

const (
	ItemTypeVeg    ItemType = "veg"
	ItemTypeNonVeg ItemType = "non-veg"
)

type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// カタログ上の商品。注文済みの行から参照されるため、価格は必ず
// スナップショット側（CartItem / OrderItem）に持たせる。
type Item struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	Type         ItemType   `gorm:"type:varchar(20);not null" json:"type"`
	Quantity     int64      `gorm:"not null" json:"quantity"`
	QuantityUnit string     `gorm:"type:varchar(20);not null" json:"quantity_unit"` // ml / grams など
	Status       ItemStatus `gorm:"type:varchar(20);not null" json:"status"`
	Image        string     `gorm:"type:text" json:"image,omitempty"`
	CreatedBy    int64      `gorm:"column:created_by" json:"-"`
	UpdatedBy    int64      `gorm:"column:updated_by" json:"-"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
