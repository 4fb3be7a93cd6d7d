package model

import "time"

// ゲートウェイからのコールバックの監査ログ。
// 終端ステータス到達後の重複コールバックも記録だけは残す（Applied=false）。
type PaymentEvent struct {
	ID            int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64       `gorm:"not null;index" json:"order_id"`
	RawStatus     string      `gorm:"type:varchar(50);not null" json:"raw_status"`
	MappedStatus  OrderStatus `gorm:"type:varchar(20);not null" json:"mapped_status"`
	Amount        float64     `json:"amount"`
	Currency      string      `gorm:"type:varchar(10)" json:"currency"`
	TransactionID string      `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	Applied       bool        `gorm:"not null" json:"applied"`
	CreatedAt     time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
