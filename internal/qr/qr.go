package qr

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Generate は注文参照URLをQRにしてdata URLで返す。
// 食堂の受け取りカウンターでスキャンされる想定。
func Generate(baseURL string, orderID int64) (string, error) {
	target := OrderURL(baseURL, orderID)

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// OrderURL はQRに埋め込む注文取得URL。
func OrderURL(baseURL string, orderID int64) string {
	return fmt.Sprintf("%s/api/orders/%d", strings.TrimRight(baseURL, "/"), orderID)
}
