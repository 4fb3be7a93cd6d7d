package repository

import (
	"context"

	"canteen/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	// (cart, item, menu) の既存行。無ければErrNotFound。
	FindByCartItemMenu(ctx context.Context, cartID, itemID, menuID int64) (model.CartItem, error)
	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	// 数量と行合計をまとめて更新
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64, total float64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	DeleteByCartID(ctx context.Context, cartID int64) error
}
