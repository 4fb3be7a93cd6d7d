package model

import "time"

// 認証はOTP基盤側の責務。ここでは決済リンク作成に使う連絡先だけ読む。
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Mobile    string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"mobile"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
