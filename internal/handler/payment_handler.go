package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"canteen/internal/config"
	"canteen/internal/middleware"
	"canteen/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type CreatePaymentRequestBody struct {
	OrderID int64 `json:"order_id"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/payments")

	g.POST("/request", h.createRequest, middleware.AuthJWT(cfg))

	//コールバックはゲートウェイから直接叩かれる（GET/POST両対応・認証なし）
	g.GET("/callback", h.callback)
	g.POST("/callback", h.callback)
}

func (h *PaymentHandler) createRequest(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreatePaymentRequestBody
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreatePaymentRequest(c.Request().Context(), userID, req.OrderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) callback(c echo.Context) error {
	cb, err := parseCallback(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid callback"})
	}

	out, err := h.uc.HandleCallback(c.Request().Context(), cb)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// parseCallback はGETのクエリパラメータとPOSTのJSONボディの両方を受け、
// プロバイダごとに揺れるフィールド名を内部形に正規化する。
func parseCallback(c echo.Context) (usecase.PaymentCallback, error) {
	fields := map[string]string{}

	//クエリパラメータを先に拾う（GET配送、またはPOSTでもクエリに載せてくる実装がある）
	for k, vs := range c.QueryParams() {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}

	if c.Request().Method == http.MethodPost {
		var body map[string]interface{}
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err == nil {
			for k, v := range body {
				switch x := v.(type) {
				case string:
					fields[k] = x
				case float64:
					fields[k] = strconv.FormatFloat(x, 'f', -1, 64)
				}
			}
		}
	}

	rawOrderID := firstValue(fields, "order_id", "orderId", "orderid")
	orderID, err := strconv.ParseInt(rawOrderID, 10, 64)
	if err != nil {
		return usecase.PaymentCallback{}, err
	}

	rawStatus := firstValue(fields, "txStatus", "transaction_status", "payment_status", "status")

	var amount float64
	if v := firstValue(fields, "orderAmount", "amount", "txAmount"); v != "" {
		amount, _ = strconv.ParseFloat(v, 64)
	}

	return usecase.PaymentCallback{
		OrderID:       orderID,
		Status:        usecase.MapCallbackStatus(rawStatus),
		RawStatus:     rawStatus,
		Amount:        amount,
		Currency:      firstValue(fields, "currency", "txCurrency"),
		TransactionID: firstValue(fields, "referenceId", "transaction_id", "transactionId", "txn_id"),
	}, nil
}

func firstValue(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
