package repository

import (
	"context"
	"errors"

	"canteen/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログは参照のみ。CRUDは管理側のAPIの責務。
type ItemRepository interface {
	FindByID(ctx context.Context, itemID int64) (model.Item, error)
	// 現行のactive価格。無ければErrNotFound。
	ActivePrice(ctx context.Context, itemID int64) (model.Pricing, error)
}

type MenuItemRepository interface {
	// メニューに載っている商品の数量上下限を引く
	FindByMenuAndItem(ctx context.Context, menuID int64, itemID int64) (model.MenuItem, error)
}

type MenuConfigurationRepository interface {
	FindByID(ctx context.Context, id int64) (model.MenuConfiguration, error)
}
