package repository

import (
	"context"

	"canteen/internal/domain/model"
)

// 初回追加でカートを作るときのデフォルト値
type CartDefaults struct {
	CanteenID           int64
	MenuID              int64
	MenuConfigurationID int64
	OrderDate           int64
}

type CartRepository interface {
	// ユーザーのactiveカートを行ロック付きで取得し、無ければdefで作成。
	// 2つ目の戻り値は新規作成したかどうか。
	GetOrCreateActiveForUpdate(ctx context.Context, userID int64, def CartDefaults) (model.Cart, bool, error)
	FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	// ミューテーション中のカートを行ロックする
	FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error)
	// 明細合計の再計算結果を保存
	UpdateTotal(ctx context.Context, cartID int64, total float64) error
	// カート本体を削除（明細はDeleteByCartIDで先に消す）
	Delete(ctx context.Context, cartID int64) error
}
