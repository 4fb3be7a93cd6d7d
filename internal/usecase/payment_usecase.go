package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"canteen/internal/domain/model"
	"canteen/internal/gateway"
	repo "canteen/internal/repository"

	"github.com/google/uuid"
)

// ゲートウェイのリンク作成だけを切り出した約束（テストで差し替える）
type LinkCreator interface {
	CreatePaymentLink(ctx context.Context, req gateway.CreateLinkRequest) (gateway.CreateLinkResponse, error)
}

// コールバックのステータス。プロバイダ語彙はここに入る前に潰しておく。
type CallbackStatus string

const (
	CallbackStatusSuccess CallbackStatus = "SUCCESS"
	CallbackStatusFailed  CallbackStatus = "FAILED"
	CallbackStatusPending CallbackStatus = "PENDING"
)

// MapCallbackStatus はプロバイダの生ステータスを内部の3値に正規化する。
// 知らない値は全部PENDING（後から確定コールバックが来る前提で保留）。
func MapCallbackStatus(raw string) CallbackStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUCCESS", "PAID", "CAPTURED", "COMPLETED":
		return CallbackStatusSuccess
	case "FAILED", "FAILURE", "CANCELLED", "EXPIRED":
		return CallbackStatusFailed
	default:
		return CallbackStatusPending
	}
}

// 境界で正規化済みのコールバック。RawStatusは監査ログ用に残す。
type PaymentCallback struct {
	OrderID       int64
	Status        CallbackStatus
	RawStatus     string
	Amount        float64
	Currency      string
	TransactionID string
}

type PaymentUsecase struct {
	tx       repo.TransactionManager
	userRepo repo.UserRepository
	links    LinkCreator

	returnURL string
	notifyURL string
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	links LinkCreator,
	returnURL string,
	notifyURL string,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:        tx,
		userRepo:  userRepo,
		links:     links,
		returnURL: returnURL,
		notifyURL: notifyURL,
	}
}

type PaymentLinkOutput struct {
	LinkID  string `json:"link_id"`
	LinkURL string `json:"link_url"`
}

// CreatePaymentRequest は注文の支払いリンクを作る。
// ローカルの状態は変えない。ゲートウェイが失敗したらそのまま失敗（fail closed）。
func (u *PaymentUsecase) CreatePaymentRequest(ctx context.Context, userID int64, orderID int64) (PaymentLinkOutput, error) {
	if userID <= 0 {
		return PaymentLinkOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return PaymentLinkOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//注文と決済を読むだけ。外部呼び出しはTxの外で行う。
	var (
		order   model.Order
		payment model.Payment
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if o.Status.Terminal() {
			return NewHTTPError(http.StatusConflict, "order already settled")
		}

		p, err := r.Payments().FindByOrderID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "payment not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if p.Status == model.PaymentStatusSuccess {
			return NewHTTPError(http.StatusConflict, "already paid")
		}

		order = o
		payment = p
		return nil
	})
	if err != nil {
		return PaymentLinkOutput{}, err
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return PaymentLinkOutput{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return PaymentLinkOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	linkID := fmt.Sprintf("order-%d-%s", order.ID, uuid.NewString())

	resp, err := u.links.CreatePaymentLink(ctx, gateway.CreateLinkRequest{
		LinkID:        linkID,
		Amount:        payment.TotalAmount,
		Currency:      payment.Currency,
		Purpose:       fmt.Sprintf("Canteen order #%d", order.ID),
		CustomerName:  user.Name,
		CustomerPhone: user.Mobile,
		CustomerEmail: user.Email,
		ReturnURL:     fmt.Sprintf("%s?link_id=%s", u.returnURL, linkID),
		NotifyURL:     u.notifyURL,
	})
	if err != nil {
		//ここで注文やPaymentを成功扱いにしてはいけない
		return PaymentLinkOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	return PaymentLinkOutput{LinkID: resp.LinkID, LinkURL: resp.LinkURL}, nil
}

type CallbackResult struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
	Applied bool   `json:"applied"`
}

// HandleCallback はゲートウェイのコールバックをOrder/Paymentに反映する。
// 終端ステータス（completed/failed/cancelled）には二度と触らない。
// 重複・順序逆転配送が来ても監査ログ（PaymentEvent）だけ積んで状態は守る。
func (u *PaymentUsecase) HandleCallback(ctx context.Context, cb PaymentCallback) (CallbackResult, error) {
	if cb.OrderID <= 0 {
		return CallbackResult{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out CallbackResult

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, cb.OrderID)
		if err == repo.ErrNotFound {
			//存在しない注文のコールバックは何も書かない
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		mappedOrder, mappedPayment := mapCallback(cb.Status)

		applied := false
		if !order.Status.Terminal() && order.Status != mappedOrder {
			if err := r.Orders().UpdateStatus(ctx, order.ID, mappedOrder); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			applied = true
		}

		if applied {
			if err := u.upsertPayment(ctx, r, order, cb, mappedPayment); err != nil {
				return err
			}
		}

		//監査ログは適用可否にかかわらず必ず残す
		if err := r.PaymentEvents().Create(ctx, model.PaymentEvent{
			OrderID:       order.ID,
			RawStatus:     cb.RawStatus,
			MappedStatus:  mappedOrder,
			Amount:        cb.Amount,
			Currency:      cb.Currency,
			TransactionID: cb.TransactionID,
			Applied:       applied,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		finalStatus := order.Status
		if applied {
			finalStatus = mappedOrder
		}
		out = CallbackResult{OrderID: order.ID, Status: string(finalStatus), Applied: applied}
		return nil
	})

	if err != nil {
		return CallbackResult{}, err
	}
	return out, nil
}

// コールバックの3値をOrder/Paymentそれぞれのステータスへ
func mapCallback(s CallbackStatus) (model.OrderStatus, model.PaymentStatus) {
	switch s {
	case CallbackStatusSuccess:
		return model.OrderStatusCompleted, model.PaymentStatusSuccess
	case CallbackStatusFailed:
		return model.OrderStatusFailed, model.PaymentStatusFailed
	default:
		return model.OrderStatusPending, model.PaymentStatusPending
	}
}

// Paymentがあれば更新、無ければ作成（コールバックが先に届くケースがある）
func (u *PaymentUsecase) upsertPayment(ctx context.Context, r repo.TxRepos, order model.Order, cb PaymentCallback, status model.PaymentStatus) error {
	currency := cb.Currency
	if currency == "" {
		currency = "INR"
	}

	p, err := r.Payments().FindByOrderID(ctx, order.ID)
	switch {
	case err == nil:
		p.PaymentMethod = PaymentMethodGateway
		p.TransactionID = cb.TransactionID
		if cb.Amount > 0 {
			p.Amount = cb.Amount
		}
		if cb.Currency != "" {
			p.Currency = cb.Currency
		}
		p.Status = status
		p.UpdatedBy = order.UserID
		if err := r.Payments().Update(ctx, p); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	case err == repo.ErrNotFound:
		_, err := r.Payments().Create(ctx, model.Payment{
			OrderID:       order.ID,
			UserID:        order.UserID,
			PaymentMethod: PaymentMethodGateway,
			TransactionID: cb.TransactionID,
			Amount:        cb.Amount,
			TotalAmount:   cb.Amount,
			Currency:      currency,
			Status:        status,
			CreatedBy:     order.UserID,
			UpdatedBy:     order.UserID,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	default:
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
