package repository

import (
	"context"

	"canteen/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (model.Payment, error)
	// 注文に紐づく決済。注文1件につき最大1件。
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
	Update(ctx context.Context, p model.Payment) error
}

// コールバック監査ログ。読み返すのは運用調査のときだけ。
type PaymentEventRepository interface {
	Create(ctx context.Context, e model.PaymentEvent) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.PaymentEvent, error)
}
