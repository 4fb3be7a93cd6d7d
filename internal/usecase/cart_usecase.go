package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"canteen/internal/domain/model"
	repo "canteen/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// CartUsecase は /cart の業務ロジック。
// 変更系は全部TransactionManager経由で1トランザクションにまとめる。
type CartUsecase struct {
	tx             repo.TransactionManager
	cartRepo       repo.CartRepository
	cartItemRepo   repo.CartItemRepository
	itemRepo       repo.ItemRepository
	menuConfigRepo repo.MenuConfigurationRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	itemRepo repo.ItemRepository,
	menuConfigRepo repo.MenuConfigurationRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:             tx,
		cartRepo:       cartRepo,
		cartItemRepo:   cartItemRepo,
		itemRepo:       itemRepo,
		menuConfigRepo: menuConfigRepo,
	}
}

type AddItemInput struct {
	ItemID              int64
	MenuID              int64
	CanteenID           int64
	MenuConfigurationID int64
	Quantity            int64
	OrderDate           int64
}

type UpdateCartItemInput struct {
	CartID     int64
	CartItemID int64
	Quantity   int64
}

type CartItemResponse struct {
	ID       int64   `json:"id"`
	ItemID   int64   `json:"item_id"`
	MenuID   int64   `json:"menu_id"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type CartResponse struct {
	ID                  int64              `json:"id"`
	CanteenID           int64              `json:"canteen_id"`
	MenuID              int64              `json:"menu_id"`
	MenuConfigurationID int64              `json:"menu_configuration_id"`
	OrderDate           int64              `json:"order_date,omitempty"`
	Items               []CartItemResponse `json:"items"`
	TotalAmount         float64            `json:"total_amount"`
}

// GetCart用。商品名などを解決した明細。
type CartItemDetailResponse struct {
	ID       int64   `json:"id"`
	ItemID   int64   `json:"item_id"`
	MenuID   int64   `json:"menu_id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Image    string  `json:"image,omitempty"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type CartDetailResponse struct {
	ID                    int64                    `json:"id"`
	CanteenID             int64                    `json:"canteen_id"`
	MenuID                int64                    `json:"menu_id"`
	MenuConfigurationID   int64                    `json:"menu_configuration_id"`
	MenuConfigurationName string                   `json:"menu_configuration_name,omitempty"`
	OrderDate             int64                    `json:"order_date,omitempty"`
	Items                 []CartItemDetailResponse `json:"items"`
	TotalAmount           float64                  `json:"total_amount"`
}

// AddItem はカートに商品を追加する（同一商品は数量加算）。
// カート作成・明細upsert・合計再計算まで1トランザクション。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ItemID <= 0 || in.MenuID <= 0 || in.CanteenID <= 0 || in.MenuConfigurationID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if in.Quantity <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品チェック（activeのみ）
		item, err := r.Items().FindByID(ctx, in.ItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if item.Status != model.ItemStatusActive {
			return NewHTTPError(http.StatusNotFound, "item not found")
		}

		//メニュー掲載チェック＋数量上下限
		mi, err := r.MenuItems().FindByMenuAndItem(ctx, in.MenuID, in.ItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "item not on menu")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if in.Quantity < mi.MinQuantity || in.Quantity > mi.MaxQuantity {
			return NewHTTPError(http.StatusConflict, "quantity out of range")
		}

		//追加時点の単価
		pricing, err := r.Items().ActivePrice(ctx, in.ItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "price not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//activeカートを行ロック付きで取得（無ければ作成）
		cart, created, err := r.Carts().GetOrCreateActiveForUpdate(ctx, userID, repo.CartDefaults{
			CanteenID:           in.CanteenID,
			MenuID:              in.MenuID,
			MenuConfigurationID: in.MenuConfigurationID,
			OrderDate:           in.OrderDate,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートは1食堂に固定
		if !created && cart.CanteenID != in.CanteenID {
			return NewHTTPError(http.StatusConflict, "canteen mismatch")
		}

		//既存明細があれば数量加算、無ければ新規。単価は既存のスナップショットを維持。
		existing, err := r.CartItems().FindByCartItemMenu(ctx, cart.ID, in.ItemID, in.MenuID)
		switch {
		case err == nil:
			newQty := existing.Quantity + in.Quantity
			if newQty > mi.MaxQuantity {
				return NewHTTPError(http.StatusConflict, "quantity out of range")
			}
			if err := r.CartItems().UpdateQuantity(ctx, existing.ID, newQty, float64(newQty)*existing.Price); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		case err == repo.ErrNotFound:
			_, err := r.CartItems().Create(ctx, model.CartItem{
				CartID:   cart.ID,
				ItemID:   in.ItemID,
				MenuID:   in.MenuID,
				Quantity: in.Quantity,
				Price:    pricing.Price,
				Total:    float64(in.Quantity) * pricing.Price,
			})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		default:
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = u.recalcAndBuild(ctx, r, cart)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// UpdateItemQuantity は明細の数量を変更する。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.CartID <= 0 || in.CartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := u.lockedOwnCart(ctx, r, userID, in.CartID)
		if err != nil {
			return err
		}

		line, err := r.CartItems().FindByID(ctx, in.CartItemID)
		if err == repo.ErrNotFound || (err == nil && line.CartID != cart.ID) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//この明細の数量上下限
		mi, err := r.MenuItems().FindByMenuAndItem(ctx, line.MenuID, line.ItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "item not on menu")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if in.Quantity < mi.MinQuantity || in.Quantity > mi.MaxQuantity {
			return NewHTTPError(http.StatusConflict, "quantity out of range")
		}

		//単価スナップショットは触らない
		if err := r.CartItems().UpdateQuantity(ctx, line.ID, in.Quantity, float64(in.Quantity)*line.Price); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = u.recalcAndBuild(ctx, r, cart)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// RemoveItem は明細を削除する。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartID <= 0 || cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := u.lockedOwnCart(ctx, r, userID, cartID)
		if err != nil {
			return err
		}

		line, err := r.CartItems().FindByID(ctx, cartItemID)
		if err == repo.ErrNotFound || (err == nil && line.CartID != cart.ID) {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.CartItems().DeleteByID(ctx, line.ID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "cart item not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = u.recalcAndBuild(ctx, r, cart)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// GetCart はactiveカートを明細・商品情報つきで返す。読み取りだけなのでTxなし。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartDetailResponse, error) {
	if userID <= 0 {
		return CartDetailResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartDetailResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemDetailResponse, 0, len(items))
	for _, it := range items {
		detail := CartItemDetailResponse{
			ID:       it.ID,
			ItemID:   it.ItemID,
			MenuID:   it.MenuID,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
		}

		//商品が消えていても明細は返す（名前だけ空になる）
		if item, err := u.itemRepo.FindByID(ctx, it.ItemID); err == nil {
			detail.Name = item.Name
			detail.Type = string(item.Type)
			detail.Image = item.Image
		}

		respItems = append(respItems, detail)
	}

	out := CartDetailResponse{
		ID:                  cart.ID,
		CanteenID:           cart.CanteenID,
		MenuID:              cart.MenuID,
		MenuConfigurationID: cart.MenuConfigurationID,
		OrderDate:           cart.OrderDate,
		Items:               respItems,
		TotalAmount:         cart.TotalAmount,
	}

	if mc, err := u.menuConfigRepo.FindByID(ctx, cart.MenuConfigurationID); err == nil {
		out.MenuConfigurationName = mc.Name
	}

	return out, nil
}

// ClearCart は明細→カート本体の順にまとめて削除する。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "cart not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.CartItems().DeleteByCartID(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Delete(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 行ロック付きでカートを取得して所有チェック。他人のカートは「存在しない扱い」。
func (u *CartUsecase) lockedOwnCart(ctx context.Context, r repo.TxRepos, userID int64, cartID int64) (model.Cart, error) {
	cart, err := r.Carts().FindByIDForUpdate(ctx, cartID)
	if err == repo.ErrNotFound {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if cart.UserID != userID {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	return cart, nil
}

// 全明細から合計を再計算して保存し、レスポンスを組み立てる。
// 差分更新にしないのは cart.totalAmount == Σ(明細total) を常に成り立たせるため。
func (u *CartUsecase) recalcAndBuild(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartResponse, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var total float64 = 0

	for _, it := range items {
		respItems = append(respItems, CartItemResponse{
			ID:       it.ID,
			ItemID:   it.ItemID,
			MenuID:   it.MenuID,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
		})
		total += it.Total
	}

	if err := r.Carts().UpdateTotal(ctx, cart.ID, total); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{
		ID:                  cart.ID,
		CanteenID:           cart.CanteenID,
		MenuID:              cart.MenuID,
		MenuConfigurationID: cart.MenuConfigurationID,
		OrderDate:           cart.OrderDate,
		Items:               respItems,
		TotalAmount:         total,
	}, nil
}
