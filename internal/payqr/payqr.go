// Package payqr generates bank-transfer payment QR codes through the core
// API: resolves the configured bank against the bank directory, sanitizes
// the amount, and normalizes the returned payload.
package payqr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tabletap/staff-api/internal/upstream"
)

var (
	ErrMissingAccountNumber = errors.New("bank account number is missing")
	ErrMissingBankName      = errors.New("bank name is missing")
	ErrDisallowedImageHost  = errors.New("QR image host is not allowed")
)

// Client is the slice of the upstream client the generator needs.
// Satisfied by *upstream.Client; narrow interface for testability.
type Client interface {
	ListBanks(ctx context.Context) ([]upstream.Bank, error)
	GenerateQR(ctx context.Context, req upstream.QRRequest) (*upstream.QRCode, error)
	FetchBinary(ctx context.Context, url string) ([]byte, string, error)
}

// GenerateRequest describes one QR generation attempt. Amount comes in as
// raw JSON so that null, strings, and malformed values all sanitize to zero.
type GenerateRequest struct {
	BankName      string
	AccountHolder string
	AccountNumber string
	Amount        json.RawMessage
	TableNumber   int
}

// Generator builds transfer QR codes for checkout.
type Generator struct {
	client     Client
	language   string
	imageHosts []string
	log        zerolog.Logger
}

// NewGenerator creates a Generator. imageHosts lists the hostnames QR image
// downloads may fetch from; anything else is refused.
func NewGenerator(client Client, language string, imageHosts []string, log zerolog.Logger) *Generator {
	hosts := make([]string, 0, len(imageHosts))
	for _, h := range imageHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Generator{client: client, language: language, imageHosts: hosts, log: log}
}

// ResolveBank finds the directory entry matching the configured bank by
// short name (trimmed, case-insensitive exact match). A missing entry or an
// entry without a routing code is a descriptive error.
func ResolveBank(banks []upstream.Bank, bankName string) (*upstream.Bank, error) {
	name := strings.TrimSpace(bankName)
	if name == "" {
		return nil, ErrMissingBankName
	}
	for i := range banks {
		if strings.EqualFold(strings.TrimSpace(banks[i].ShortName), name) {
			if banks[i].Code == "" {
				return nil, fmt.Errorf("bank %q has no routing code", name)
			}
			return &banks[i], nil
		}
	}
	return nil, fmt.Errorf("bank %q not found in bank directory", name)
}

// SanitizeAmount coerces any value that is not a positive number to zero:
// null, absent, non-numeric strings, and negative amounts all sanitize to 0.
func SanitizeAmount(raw json.RawMessage) decimal.Decimal {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return decimal.Zero
	}

	// Accept both bare numbers and quoted numeric strings.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		trimmed = strings.TrimSpace(s)
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero
	}
	return amount
}

// Generate validates the request, resolves the bank, and asks the core API
// for a QR code. A sanitized amount of zero means the QR carries no fixed
// amount. Any malformed upstream payload is terminal for this attempt.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*upstream.QRCode, error) {
	accountNumber := strings.TrimSpace(req.AccountNumber)
	if accountNumber == "" {
		return nil, ErrMissingAccountNumber
	}

	banks, err := g.client.ListBanks(ctx)
	if err != nil {
		return nil, err
	}

	bank, err := ResolveBank(banks, req.BankName)
	if err != nil {
		return nil, err
	}

	qr, err := g.client.GenerateQR(ctx, upstream.QRRequest{
		BankCode:      bank.Code,
		AccountNumber: accountNumber,
		AccountHolder: strings.TrimSpace(req.AccountHolder),
		Amount:        SanitizeAmount(req.Amount),
		Memo:          tableMemo(g.language, req.TableNumber),
	})
	if err != nil {
		g.log.Warn().Err(err).Int("table", req.TableNumber).Msg("QR generation failed")
		return nil, err
	}
	return qr, nil
}

// Download fetches the QR image bytes: inline data: URIs are decoded
// locally, http(s) URLs are fetched after the host passes the allowlist.
// Nothing is persisted.
func (g *Generator) Download(ctx context.Context, qr *upstream.QRCode) ([]byte, string, error) {
	switch qr.Source {
	case upstream.QRSourceDataURI:
		return decodeDataURI(qr.URL)
	case upstream.QRSourceURL:
		if err := g.checkImageHost(qr.URL); err != nil {
			return nil, "", err
		}
		return g.client.FetchBinary(ctx, qr.URL)
	default:
		return nil, "", fmt.Errorf("unknown QR source %q", qr.Source)
	}
}

// checkImageHost refuses any URL whose hostname is not on the allowlist, so
// the image endpoint cannot be pointed at arbitrary internal addresses.
func (g *Generator) checkImageHost(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse QR image URL: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range g.imageHosts {
		if host == allowed {
			return nil
		}
	}
	g.log.Warn().Str("host", host).Msg("refused QR image download")
	return fmt.Errorf("%w: %s", ErrDisallowedImageHost, host)
}

// decodeDataURI splits "data:<mediatype>;base64,<payload>".
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}

	contentType, encoded := "text/plain", false
	if meta != "" {
		if base64Meta, found := strings.CutSuffix(meta, ";base64"); found {
			encoded = true
			meta = base64Meta
		}
		if meta != "" {
			contentType = meta
		}
	}

	if !encoded {
		return []byte(payload), contentType, nil
	}
	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI: %w", err)
	}
	return body, contentType, nil
}

// tableMemo renders the localized transfer memo for a table.
func tableMemo(language string, tableNumber int) string {
	switch language {
	case "vi":
		return fmt.Sprintf("Thanh toan ban %d", tableNumber)
	case "ko":
		return fmt.Sprintf("테이블 %d 결제", tableNumber)
	default:
		return fmt.Sprintf("Payment for table %d", tableNumber)
	}
}
