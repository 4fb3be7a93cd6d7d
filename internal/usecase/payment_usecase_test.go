package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"canteen/internal/domain/model"
	"canteen/internal/gateway"
	repo "canteen/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type LinkCreatorMock struct{ mock.Mock }

func (m *LinkCreatorMock) CreatePaymentLink(ctx context.Context, req gateway.CreateLinkRequest) (gateway.CreateLinkResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(gateway.CreateLinkResponse)
	return resp, args.Error(1)
}

func newPaymentFixture() (*TxManagerMock, *OrderRepoMock, *PaymentRepoMock, *PaymentEventRepoMock, *UserRepoMock, *LinkCreatorMock, *PaymentUsecase) {
	tx := new(TxManagerMock)
	orders := new(OrderRepoMock)
	payments := new(PaymentRepoMock)
	events := new(PaymentEventRepoMock)
	users := new(UserRepoMock)
	links := new(LinkCreatorMock)

	tx.Repos = &TxReposMock{
		orders:        orders,
		payments:      payments,
		paymentEvents: events,
	}

	uc := NewPaymentUsecase(tx, users, links, "https://canteen.example.com/payment/return", "https://canteen.example.com/api/payments/callback")
	return tx, orders, payments, events, users, links, uc
}

// =====================
// MapCallbackStatus tests
// =====================

func TestMapCallbackStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want CallbackStatus
	}{
		{"SUCCESS", CallbackStatusSuccess},
		{"paid", CallbackStatusSuccess},
		{" Captured ", CallbackStatusSuccess},
		{"COMPLETED", CallbackStatusSuccess},
		{"FAILED", CallbackStatusFailed},
		{"failure", CallbackStatusFailed},
		{"CANCELLED", CallbackStatusFailed},
		{"EXPIRED", CallbackStatusFailed},
		{"PENDING", CallbackStatusPending},
		{"USER_DROPPED", CallbackStatusPending},
		{"", CallbackStatusPending},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MapCallbackStatus(c.raw), "raw=%q", c.raw)
	}
}

// =====================
// HandleCallback tests
// =====================

func TestPaymentUsecase_HandleCallback_Success_AppliesAndAudits(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, events, _, _, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPlaced}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusCompleted).Return(nil)

	payments.On("FindByOrderID", mock.Anything, int64(42)).
		Return(model.Payment{ID: 31, OrderID: 42, UserID: 1, Status: model.PaymentStatusPending, Amount: 100, TotalAmount: 102.5, Currency: "INR"}, nil)
	payments.On("Update", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.ID == 31 && p.Status == model.PaymentStatusSuccess && p.TransactionID == "txn-1"
	})).Return(nil)

	events.On("Create", mock.Anything, mock.MatchedBy(func(e model.PaymentEvent) bool {
		return e.OrderID == 42 && e.RawStatus == "PAID" && e.MappedStatus == model.OrderStatusCompleted && e.Applied
	})).Return(nil)

	out, err := uc.HandleCallback(ctx, PaymentCallback{
		OrderID:       42,
		Status:        CallbackStatusSuccess,
		RawStatus:     "PAID",
		Amount:        102.5,
		Currency:      "INR",
		TransactionID: "txn-1",
	})
	assert.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, string(model.OrderStatusCompleted), out.Status)

	orders.AssertExpectations(t)
	payments.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestPaymentUsecase_HandleCallback_Failed_AppliesFailedStatus(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, events, _, _, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPlaced}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusFailed).Return(nil)

	payments.On("FindByOrderID", mock.Anything, int64(42)).
		Return(model.Payment{ID: 31, OrderID: 42, Status: model.PaymentStatusPending}, nil)
	payments.On("Update", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.ID == 31 && p.Status == model.PaymentStatusFailed
	})).Return(nil)

	events.On("Create", mock.Anything, mock.MatchedBy(func(e model.PaymentEvent) bool {
		return e.MappedStatus == model.OrderStatusFailed && e.Applied
	})).Return(nil)

	out, err := uc.HandleCallback(ctx, PaymentCallback{OrderID: 42, Status: CallbackStatusFailed, RawStatus: "CANCELLED"})
	assert.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, string(model.OrderStatusFailed), out.Status)

	orders.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestPaymentUsecase_HandleCallback_TerminalOrder_NotOverwritten(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, events, _, _, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	// 成功確定済みの注文に遅れてFAILEDが届くケース
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusCompleted}, nil)

	events.On("Create", mock.Anything, mock.MatchedBy(func(e model.PaymentEvent) bool {
		return e.OrderID == 42 && e.RawStatus == "FAILED" && !e.Applied
	})).Return(nil)

	out, err := uc.HandleCallback(ctx, PaymentCallback{OrderID: 42, Status: CallbackStatusFailed, RawStatus: "FAILED"})
	assert.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Equal(t, string(model.OrderStatusCompleted), out.Status)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	events.AssertExpectations(t)
}

func TestPaymentUsecase_HandleCallback_SameStatus_AuditOnly(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, events, _, _, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusPending}, nil)
	events.On("Create", mock.Anything, mock.MatchedBy(func(e model.PaymentEvent) bool {
		return !e.Applied && e.MappedStatus == model.OrderStatusPending
	})).Return(nil)

	out, err := uc.HandleCallback(ctx, PaymentCallback{OrderID: 42, Status: CallbackStatusPending, RawStatus: "USER_DROPPED"})
	assert.NoError(t, err)
	assert.False(t, out.Applied)

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "FindByOrderID", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_HandleCallback_UnknownOrder_WritesNothing(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, events, _, _, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(999)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.HandleCallback(ctx, PaymentCallback{OrderID: 999, Status: CallbackStatusSuccess, RawStatus: "PAID"})
	assertErrContains(t, err, "order not found")
	assertHTTPStatus(t, err, http.StatusNotFound)

	events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_HandleCallback_PaymentRowMissing_CreatesIt(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, events, _, _, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPlaced}, nil)
	orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusCompleted).Return(nil)

	payments.On("FindByOrderID", mock.Anything, int64(42)).Return(model.Payment{}, repo.ErrNotFound)
	payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.Payment) bool {
		return p.OrderID == 42 && p.PaymentMethod == PaymentMethodGateway && p.Status == model.PaymentStatusSuccess && p.Currency == "INR"
	})).Return(model.Payment{ID: 31}, nil)

	events.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.HandleCallback(ctx, PaymentCallback{OrderID: 42, Status: CallbackStatusSuccess, RawStatus: "PAID", Amount: 102.5})
	assert.NoError(t, err)
	assert.True(t, out.Applied)

	payments.AssertExpectations(t)
}

func TestPaymentUsecase_HandleCallback_InvalidOrderID(t *testing.T) {
	_, _, _, _, _, _, uc := newPaymentFixture()

	_, err := uc.HandleCallback(context.Background(), PaymentCallback{OrderID: 0, Status: CallbackStatusSuccess})
	assertErrContains(t, err, "invalid order id")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// CreatePaymentRequest tests
// =====================

func TestPaymentUsecase_CreatePaymentRequest_ReturnsLink(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, _, users, links, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPlaced}, nil)
	payments.On("FindByOrderID", mock.Anything, int64(42)).
		Return(model.Payment{ID: 31, OrderID: 42, Status: model.PaymentStatusPending, TotalAmount: 102.5, Currency: "INR"}, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1, Name: "Asha", Mobile: "9876543210", Email: "asha@example.com"}, nil)

	links.On("CreatePaymentLink", mock.Anything, mock.MatchedBy(func(req gateway.CreateLinkRequest) bool {
		return req.Amount == 102.5 &&
			req.Currency == "INR" &&
			req.CustomerPhone == "9876543210" &&
			strings.HasPrefix(req.LinkID, "order-42-") &&
			strings.Contains(req.ReturnURL, "link_id=")
	})).Return(gateway.CreateLinkResponse{LinkID: "order-42-x", LinkURL: "https://pay.example.com/l/abc"}, nil)

	out, err := uc.CreatePaymentRequest(ctx, 1, 42)
	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/l/abc", out.LinkURL)

	links.AssertExpectations(t)
}

func TestPaymentUsecase_CreatePaymentRequest_GatewayDown_FailsClosed(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, _, users, links, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPlaced}, nil)
	payments.On("FindByOrderID", mock.Anything, int64(42)).
		Return(model.Payment{ID: 31, OrderID: 42, Status: model.PaymentStatusPending, TotalAmount: 102.5, Currency: "INR"}, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1, Name: "Asha", Mobile: "9876543210"}, nil)

	links.On("CreatePaymentLink", mock.Anything, mock.Anything).
		Return(gateway.CreateLinkResponse{}, errors.New("503 service unavailable"))

	_, err := uc.CreatePaymentRequest(ctx, 1, 42)
	assertErrContains(t, err, "payment gateway error")
	assertHTTPStatus(t, err, http.StatusBadGateway)

	// ゲートウェイ失敗でローカルの状態は変えない
	payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_CreatePaymentRequest_AlreadyPaid_Conflict(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, _, _, links, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPlaced}, nil)
	payments.On("FindByOrderID", mock.Anything, int64(42)).
		Return(model.Payment{ID: 31, OrderID: 42, Status: model.PaymentStatusSuccess}, nil)

	_, err := uc.CreatePaymentRequest(ctx, 1, 42)
	assertErrContains(t, err, "already paid")
	assertHTTPStatus(t, err, http.StatusConflict)

	links.AssertNotCalled(t, "CreatePaymentLink", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_CreatePaymentRequest_SettledOrder_Conflict(t *testing.T) {
	ctx := context.Background()
	tx, orders, payments, _, _, links, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusCancelled}, nil)

	_, err := uc.CreatePaymentRequest(ctx, 1, 42)
	assertErrContains(t, err, "order already settled")
	assertHTTPStatus(t, err, http.StatusConflict)

	payments.AssertNotCalled(t, "FindByOrderID", mock.Anything, mock.Anything)
	links.AssertNotCalled(t, "CreatePaymentLink", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_CreatePaymentRequest_ForeignOrder_NotFound(t *testing.T) {
	ctx := context.Background()
	tx, orders, _, _, _, links, uc := newPaymentFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 2, Status: model.OrderStatusPlaced}, nil)

	_, err := uc.CreatePaymentRequest(ctx, 1, 42)
	assertErrContains(t, err, "order not found")

	links.AssertNotCalled(t, "CreatePaymentLink", mock.Anything, mock.Anything)
}
