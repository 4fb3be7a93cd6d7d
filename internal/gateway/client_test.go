package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_CreatePaymentLink_Success(t *testing.T) {
	var gotPath, gotClientID, gotSecret string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotClientID = r.Header.Get("x-client-id")
		gotSecret = r.Header.Get("x-client-secret")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"link_id":  "order-42-abc",
			"link_url": "https://pay.example.com/l/abc",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cid", "secret")

	out, err := c.CreatePaymentLink(context.Background(), CreateLinkRequest{
		LinkID:        "order-42-abc",
		Amount:        102.5,
		Currency:      "INR",
		Purpose:       "Canteen order #42",
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		ReturnURL:     "https://canteen.example.com/payment/return?link_id=order-42-abc",
		NotifyURL:     "https://canteen.example.com/api/payments/callback",
	})
	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/l/abc", out.LinkURL)

	assert.Equal(t, "/links", gotPath)
	assert.Equal(t, "cid", gotClientID)
	assert.Equal(t, "secret", gotSecret)
	assert.Equal(t, 102.5, gotBody["link_amount"])
	if cd, ok := gotBody["customer_details"].(map[string]interface{}); assert.True(t, ok) {
		assert.Equal(t, "9876543210", cd["customer_phone"])
	}
}

func TestClient_CreatePaymentLink_Non2xx_ReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"auth failed"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cid", "bad-secret")

	_, err := c.CreatePaymentLink(context.Background(), CreateLinkRequest{LinkID: "x", Amount: 1, Currency: "INR"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "401")
	}
}

func TestClient_CreatePaymentLink_MissingLinkURL_ReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"link_id": "x"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cid", "secret")

	_, err := c.CreatePaymentLink(context.Background(), CreateLinkRequest{LinkID: "x", Amount: 1, Currency: "INR"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "link_url")
	}
}
