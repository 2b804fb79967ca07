package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// maxBinarySize caps QR image downloads.
const maxBinarySize = 10 << 20

func readAllLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBinarySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBinarySize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBinarySize)
	}
	return body, nil
}

// GetPaymentMethods returns the restaurant's payment configuration.
func (c *Client) GetPaymentMethods(ctx context.Context, restaurantID string) (*PaymentMethodsConfig, error) {
	query := url.Values{"restaurantId": {restaurantID}}
	var cfg PaymentMethodsConfig
	if err := c.do(ctx, http.MethodGet, "/payment-methods", query, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListBanks returns the bank directory used to resolve routing codes for
// transfer QR generation.
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	if err := c.do(ctx, http.MethodGet, "/banks", nil, nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

// QRSource tags where a normalized QR code points.
type QRSource string

const (
	QRSourceURL     QRSource = "url"      // http(s) image URL
	QRSourceDataURI QRSource = "data_uri" // inline data: URI
)

// QRCode is the single normalized shape for a generated payment QR. The core
// API answers with one of three payload shapes; callers never see the raw
// variants.
type QRCode struct {
	Source QRSource `json:"source"`
	URL    string   `json:"url"`
}

// QRRequest carries the already-validated fields for QR generation. Amount
// zero means "no fixed amount" and is omitted from the outgoing request.
type QRRequest struct {
	BankCode      string
	AccountNumber string
	AccountHolder string
	Amount        decimal.Decimal
	Memo          string
}

// GenerateQR requests a payment QR from the core API and normalizes the
// response. Any shape or URL prefix outside the known set is a terminal
// error for this attempt; nothing is retried.
func (c *Client) GenerateQR(ctx context.Context, req QRRequest) (*QRCode, error) {
	payload := map[string]interface{}{
		"bankId":    req.BankCode,
		"accountNo": req.AccountNumber,
	}
	if req.AccountHolder != "" {
		payload["accountName"] = req.AccountHolder
	}
	if req.Amount.IsPositive() {
		payload["amount"] = req.Amount
	}
	if req.Memo != "" {
		payload["memo"] = req.Memo
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/payments/qr", nil, payload, &raw); err != nil {
		return nil, err
	}
	return normalizeQRPayload(raw)
}

// qrObjectPayload covers the two object shapes the core API may answer with.
type qrObjectPayload struct {
	Data      string `json:"data"`
	QRDataURL string `json:"qrDataURL"`
}

// normalizeQRPayload folds the three accepted payload shapes (bare string,
// {data}, {qrDataURL}) into one QRCode and validates the URL prefix.
func normalizeQRPayload(raw json.RawMessage) (*QRCode, error) {
	var candidate string

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		candidate = s
	} else {
		var obj qrObjectPayload
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("unrecognized QR payload shape")
		}
		switch {
		case obj.Data != "":
			candidate = obj.Data
		case obj.QRDataURL != "":
			candidate = obj.QRDataURL
		default:
			return nil, fmt.Errorf("unrecognized QR payload shape")
		}
	}

	candidate = strings.TrimSpace(candidate)
	switch {
	case strings.HasPrefix(candidate, "http://"), strings.HasPrefix(candidate, "https://"):
		return &QRCode{Source: QRSourceURL, URL: candidate}, nil
	case strings.HasPrefix(candidate, "data:"):
		return &QRCode{Source: QRSourceDataURI, URL: candidate}, nil
	default:
		return nil, fmt.Errorf("QR payload is not a usable URL")
	}
}

// FetchBinary downloads an http(s) resource as raw bytes, for saving a
// generated QR image. Returns the body and its content type.
func (c *Client) FetchBinary(ctx context.Context, target string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}

	body, err := readAllLimited(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}
