package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// 注文1件につき決済は1件。
// TotalAmount = Amount + GatewayCharges（ゲートウェイ手数料込みの請求額）。
type Payment struct {
	ID                int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64         `gorm:"not null;uniqueIndex" json:"order_id"`
	UserID            int64         `gorm:"not null;index" json:"user_id"`
	PaymentMethod     string        `gorm:"type:varchar(50);not null" json:"payment_method"`
	TransactionID     string        `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	Amount            float64       `gorm:"not null" json:"amount"`
	GatewayPercentage float64       `gorm:"not null" json:"gateway_percentage"`
	GatewayCharges    float64       `gorm:"not null" json:"gateway_charges"`
	TotalAmount       float64       `gorm:"not null" json:"total_amount"`
	Currency          string        `gorm:"type:varchar(10);not null" json:"currency"`
	Status            PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedBy         int64         `gorm:"column:created_by" json:"-"`
	UpdatedBy         int64         `gorm:"column:updated_by" json:"-"`
	CreatedAt         time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
