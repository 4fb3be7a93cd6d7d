package repository

import (
	"context"
	"database/sql"

	repo "canteen/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	items         repo.ItemRepository
	menuItems     repo.MenuItemRepository
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	payments      repo.PaymentRepository
	paymentEvents repo.PaymentEventRepository
}

func (r *txReposGorm) Carts() repo.CartRepository                 { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository         { return r.cartItems }
func (r *txReposGorm) Items() repo.ItemRepository                 { return r.items }
func (r *txReposGorm) MenuItems() repo.MenuItemRepository         { return r.menuItems }
func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *txReposGorm) Payments() repo.PaymentRepository           { return r.payments }
func (r *txReposGorm) PaymentEvents() repo.PaymentEventRepository { return r.paymentEvents }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// READ COMMITTEDで1トランザクション。fnがエラーなら全部ロールバック。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted}

	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			carts:         NewCartGormRepository(tx),
			cartItems:     NewCartItemGormRepository(tx),
			items:         NewItemGormRepository(tx),
			menuItems:     NewMenuItemGormRepository(tx),
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			payments:      NewPaymentGormRepository(tx),
			paymentEvents: NewPaymentEventGormRepository(tx),
		}
		return fn(r)
	}, opts)
}
