package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"canteen/internal/domain/model"
	"canteen/internal/qr"
	repo "canteen/internal/repository"

	"github.com/google/uuid"
)

// ゲートウェイ経由で後から決済する支払い方法。
// それ以外（cash / upi など）はカウンターで完結するのでPaymentは即success。
const PaymentMethodGateway = "gateway"

type OrderUsecase struct {
	tx repo.TransactionManager

	baseURL           string  // QRに埋める注文URLのベース
	gatewayPercentage float64 // 手数料（%）。導入canteenによっては0
}

func NewOrderUsecase(tx repo.TransactionManager, baseURL string, gatewayPercentage float64) *OrderUsecase {
	return &OrderUsecase{
		tx:                tx,
		baseURL:           baseURL,
		gatewayPercentage: gatewayPercentage,
	}
}

type PlaceOrderInput struct {
	PaymentMethod  string
	TransactionID  string
	Currency       string
	IdempotencyKey string
}

type OrderItemOutput struct {
	ItemID   int64   `json:"item_id"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

type PaymentOutput struct {
	PaymentMethod     string  `json:"payment_method"`
	TransactionID     string  `json:"transaction_id,omitempty"`
	Amount            float64 `json:"amount"`
	GatewayPercentage float64 `json:"gateway_percentage"`
	GatewayCharges    float64 `json:"gateway_charges"`
	TotalAmount       float64 `json:"total_amount"`
	Currency          string  `json:"currency"`
	Status            string  `json:"status"`
}

type OrderOutput struct {
	ID                  int64             `json:"id"`
	UserID              int64             `json:"user_id"`
	CanteenID           int64             `json:"canteen_id"`
	MenuConfigurationID int64             `json:"menu_configuration_id"`
	Status              string            `json:"status"`
	TotalAmount         float64           `json:"total_amount"`
	QRCode              string            `json:"qr_code,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	Items               []OrderItemOutput `json:"items"`
	Payment             *PaymentOutput    `json:"payment,omitempty"`
}

// PlaceOrder はactiveカートを注文に確定する。
// Order + OrderItems + Payment の作成とカート削除まで1トランザクション。
// 途中で何か失敗したら全部ロールバックされ、カートは手つかずで残る。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "payment method is required")
	}

	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	//キー未指定なら毎回ユニーク（＝リトライ保護はキーを送ってきた呼び出し元だけ）
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら既存の注文をそのまま返す
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			out, err = u.loadOrderOutput(ctx, r, existing)
			return err
		}

		//activeカートと明細
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusNotFound, "cart empty")
		}

		//金額は明細スナップショットから再集計する。
		//cart.TotalAmountと一致するはずだが、合計行ではなく明細を正とする。
		var amount float64 = 0
		for _, ci := range cartItems {
			amount += ci.Total
		}

		gatewayCharges := amount * u.gatewayPercentage / 100
		totalWithCharges := amount + gatewayCharges

		//注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:              userID,
			CanteenID:           cart.CanteenID,
			MenuConfigurationID: cart.MenuConfigurationID,
			TotalAmount:         amount,
			Status:              model.OrderStatusPlaced,
			OrderDate:           cart.OrderDate,
			IdempotencyKey:      key,
			CreatedBy:           userID,
		})
		if err != nil {
			//同じキーが並行で入った場合は検索し直して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err2 == nil && found2 {
				out, err = u.loadOrderOutput(ctx, r, ex2)
				return err
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//QRは注文IDが決まってから。失敗したらcommit前に中断する。
		qrPayload, err := qr.Generate(u.baseURL, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "qr generation failed")
		}
		if err := r.Orders().UpdateQRCode(ctx, orderID, qrPayload); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細のスナップショット。現行Pricingは見ない。
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			orderItems = append(orderItems, model.OrderItem{
				ItemID:    ci.ItemID,
				Quantity:  ci.Quantity,
				Price:     ci.Price,
				Total:     ci.Total,
				CreatedBy: userID,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ゲートウェイ決済は後からコールバックで確定するのでpending始まり
		payStatus := model.PaymentStatusSuccess
		if in.PaymentMethod == PaymentMethodGateway {
			payStatus = model.PaymentStatusPending
		}

		payment, err := r.Payments().Create(ctx, model.Payment{
			OrderID:           orderID,
			UserID:            userID,
			PaymentMethod:     in.PaymentMethod,
			TransactionID:     in.TransactionID,
			Amount:            amount,
			GatewayPercentage: u.gatewayPercentage,
			GatewayCharges:    gatewayCharges,
			TotalAmount:       totalWithCharges,
			Currency:          currency,
			Status:            payStatus,
			CreatedBy:         userID,
			UpdatedBy:         userID,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを消す（明細→本体の順）
		if err := r.CartItems().DeleteByCartID(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Delete(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{
			ID:                  orderID,
			UserID:              userID,
			CanteenID:           cart.CanteenID,
			MenuConfigurationID: cart.MenuConfigurationID,
			Status:              string(model.OrderStatusPlaced),
			TotalAmount:         amount,
			QRCode:              qrPayload,
			CreatedAt:           time.Now(),
			Items:               toOrderItemOutputs(orderItems),
			Payment:             toPaymentOutput(payment),
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			out, err := u.loadOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		out, err = u.loadOrderOutput(ctx, r, o)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 既存注文を明細・決済込みで組み立てる
func (u *OrderUsecase) loadOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := OrderOutput{
		ID:                  o.ID,
		UserID:              o.UserID,
		CanteenID:           o.CanteenID,
		MenuConfigurationID: o.MenuConfigurationID,
		Status:              string(o.Status),
		TotalAmount:         o.TotalAmount,
		QRCode:              o.QRCode,
		CreatedAt:           o.CreatedAt,
		Items:               toOrderItemOutputs(items),
	}

	p, err := r.Payments().FindByOrderID(ctx, o.ID)
	if err == nil {
		out.Payment = toPaymentOutput(p)
	} else if err != repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return out, nil
}

func toOrderItemOutputs(items []model.OrderItem) []OrderItemOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
		})
	}
	return outs
}

func toPaymentOutput(p model.Payment) *PaymentOutput {
	return &PaymentOutput{
		PaymentMethod:     p.PaymentMethod,
		TransactionID:     p.TransactionID,
		Amount:            p.Amount,
		GatewayPercentage: p.GatewayPercentage,
		GatewayCharges:    p.GatewayCharges,
		TotalAmount:       p.TotalAmount,
		Currency:          p.Currency,
		Status:            string(p.Status),
	}
}
