package model

import "time"

type MenuItemStatus string

const (
	MenuItemStatusActive   MenuItemStatus = "active"
	MenuItemStatusInactive MenuItemStatus = "inactive"
)

// メニューと商品の紐付け。注文数量の上下限はここで決まる。
type MenuItem struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	MenuID      int64          `gorm:"not null;index:idx_menu_items_menu_item,unique" json:"menu_id"`
	ItemID      int64          `gorm:"not null;index:idx_menu_items_menu_item,unique" json:"item_id"`
	MinQuantity int64          `gorm:"not null;default:1" json:"min_quantity"`
	MaxQuantity int64          `gorm:"not null" json:"max_quantity"`
	Status      MenuItemStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedBy   int64          `gorm:"column:created_by" json:"-"`
	UpdatedBy   int64          `gorm:"column:updated_by" json:"-"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
