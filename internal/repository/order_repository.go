package repository

import (
	"context"

	"canteen/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	// QRは注文IDが決まってからでないと作れないので後から埋める
	UpdateQRCode(ctx context.Context, orderID int64, qrCode string) error
	// 同じキーなら同じ注文を返す（二重発注防止）
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
}
