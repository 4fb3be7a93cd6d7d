package model

import "time"

type Canteen struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CanteenName  string    `gorm:"type:varchar(255);not null" json:"canteen_name"`
	CanteenCode  string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"canteen_code"`
	CanteenImage string    `gorm:"type:text" json:"canteen_image,omitempty"`
	CreatedBy    int64     `gorm:"column:created_by" json:"-"`
	UpdatedBy    int64     `gorm:"column:updated_by" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
