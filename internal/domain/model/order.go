package model

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusFailed    OrderStatus = "failed"
)

// 終端ステータスかどうか。終端からの遷移は認めない。
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed || s == OrderStatusCancelled
}

// 確定済み注文。TotalAmountは発注時点の明細合計で、以後の価格変更の影響を受けない。
// Statusだけが後から（決済照合で）変わる。
type Order struct {
	ID                  int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              int64       `gorm:"not null;index" json:"user_id"`
	CanteenID           int64       `gorm:"not null;index" json:"canteen_id"`
	MenuConfigurationID int64       `gorm:"not null" json:"menu_configuration_id"`
	TotalAmount         float64     `gorm:"not null" json:"total_amount"`
	Status              OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	QRCode              string      `gorm:"type:text" json:"qr_code,omitempty"`
	OrderDate           int64       `json:"order_date"`
	IdempotencyKey      string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedBy           int64       `gorm:"column:created_by" json:"-"`
	UpdatedBy           int64       `gorm:"column:updated_by" json:"-"`
	CreatedAt           time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
