package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Cashfree系の決済リンクAPIクライアント。
// ローカルの状態は一切持たない。失敗したら失敗のまま返す（fail closed）。
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// リンク作成リクエスト。金額は手数料込みの請求額。
type CreateLinkRequest struct {
	LinkID        string  `json:"link_id"`
	Amount        float64 `json:"link_amount"`
	Currency      string  `json:"link_currency"`
	Purpose       string  `json:"link_purpose"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	ReturnURL     string  `json:"return_url"`
	NotifyURL     string  `json:"notify_url"`
}

type CreateLinkResponse struct {
	LinkID  string `json:"link_id"`
	LinkURL string `json:"link_url"`
}

// CreatePaymentLink は支払いリンクを作る。
// 非2xxはすべてエラー。ここで注文を成功扱いにしてはいけない。
func (c *Client) CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (CreateLinkResponse, error) {
	body, err := json.Marshal(struct {
		CreateLinkRequest
		CustomerDetails map[string]string `json:"customer_details"`
	}{
		CreateLinkRequest: req,
		CustomerDetails: map[string]string{
			"customer_name":  req.CustomerName,
			"customer_phone": req.CustomerPhone,
			"customer_email": req.CustomerEmail,
		},
	})
	if err != nil {
		return CreateLinkResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/links", bytes.NewReader(body))
	if err != nil {
		return CreateLinkResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-client-id", c.clientID)
	httpReq.Header.Set("x-client-secret", c.clientSecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return CreateLinkResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// エラーボディは短く切って返す（そのまま呼び出し元に漏らさない前提）
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return CreateLinkResponse{}, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(b))
	}

	var out CreateLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CreateLinkResponse{}, err
	}
	if out.LinkURL == "" {
		return CreateLinkResponse{}, fmt.Errorf("gateway response missing link_url")
	}

	return out, nil
}
