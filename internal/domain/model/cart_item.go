package model

import "time"

// カートの明細。
// Priceは追加時点の単価スナップショット、Totalは quantity × price。
// (cart_id, item_id, menu_id) で一意。同じ商品の追加は数量加算になる。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index:idx_cart_items_line,unique" json:"cart_id"`
	ItemID    int64     `gorm:"not null;index:idx_cart_items_line,unique" json:"item_id"`
	MenuID    int64     `gorm:"not null;index:idx_cart_items_line,unique" json:"menu_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	Total     float64   `gorm:"not null" json:"total"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
