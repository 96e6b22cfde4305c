package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/fixlab-academy-api/pkg/config"
)

// MidtransConfig holds credentials for Midtrans Snap and Core API.
type MidtransConfig struct {
	ServerKey  string
	Production bool
	Timeout    time.Duration
}

// Midtrans opens Snap checkouts and reads transaction status through Core API.
// Midtrans amounts carry no minor unit so requests are divided by 100.
type Midtrans struct {
	serverKey string
	snap      snap.Client
	core      coreapi.Client
	newOrder  func() string
}

// NewMidtrans constructs a Midtrans gateway.
func NewMidtrans(cfg MidtransConfig) *Midtrans {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	midtrans.DefaultGoHttpClient = &http.Client{Timeout: timeout}

	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}
	m := &Midtrans{
		serverKey: cfg.ServerKey,
		newOrder:  func() string { return "FXL-" + strings.ToUpper(uuid.NewString()[:13]) },
	}
	m.snap.New(cfg.ServerKey, env)
	m.core.New(cfg.ServerKey, env)
	return m
}

// Name implements Gateway.
func (m *Midtrans) Name() string { return config.PaymentProviderMidtrans }

// Initialize creates a Snap transaction. The generated order id becomes the payment reference.
func (m *Midtrans) Initialize(_ context.Context, req InitializeRequest) (*Initialization, error) {
	orderID := m.newOrder()
	gross := req.AmountMinor / 100
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{OrderID: orderID, GrossAmt: gross},
		CustomerDetail:     &midtrans.CustomerDetails{Email: req.Email},
		Items: &[]midtrans.ItemDetails{{
			ID:    orderID,
			Name:  truncateName(req.Description),
			Price: gross,
			Qty:   1,
		}},
	}
	if req.CallbackURL != "" {
		snapReq.Callbacks = &snap.Callbacks{Finish: req.CallbackURL}
	}

	resp, mErr := m.snap.CreateTransaction(snapReq)
	if mErr != nil {
		return nil, midtransError("initialize", mErr)
	}
	if resp == nil || resp.RedirectURL == "" {
		return nil, &Error{Provider: m.Name(), Op: "initialize", Err: errors.New("missing redirect_url")}
	}
	return &Initialization{Reference: orderID, RedirectURL: resp.RedirectURL}, nil
}

// Verify reads the transaction status for the order id.
func (m *Midtrans) Verify(_ context.Context, reference string) (*Verification, error) {
	resp, mErr := m.core.CheckTransaction(reference)
	if mErr != nil {
		// Midtrans answers 404 for orders the customer never paid.
		if mErr.StatusCode == http.StatusNotFound {
			return &Verification{Reference: reference, RawStatus: "not_found"}, nil
		}
		return nil, midtransError("verify", mErr)
	}
	if resp == nil {
		return nil, &Error{Provider: m.Name(), Op: "verify", Err: errors.New("empty status response")}
	}
	return &Verification{
		Reference:       reference,
		Succeeded:       midtransSettled(resp.TransactionStatus, resp.FraudStatus),
		AmountPaidMinor: grossToMinor(resp.GrossAmount),
		RawStatus:       resp.TransactionStatus,
	}, nil
}

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// ParseWebhook authenticates an HTTP notification: SHA512(order_id+status_code+gross_amount+server_key).
func (m *Midtrans) ParseWebhook(_ http.Header, body []byte) (*WebhookEvent, error) {
	var n midtransNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("decode midtrans notification: %w", err)
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + m.serverKey))
	if n.SignatureKey == "" || strings.ToLower(n.SignatureKey) != hex.EncodeToString(sum[:]) {
		return nil, ErrWebhookSignature
	}
	return &WebhookEvent{
		Event:     n.TransactionStatus,
		Reference: n.OrderID,
		Relevant:  n.OrderID != "" && n.TransactionStatus != "pending",
	}, nil
}

func midtransSettled(status, fraud string) bool {
	switch status {
	case "settlement":
		return true
	case "capture":
		return fraud == "" || fraud == "accept"
	}
	return false
}

func grossToMinor(gross string) int64 {
	d, err := decimal.NewFromString(gross)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func midtransError(op string, mErr *midtrans.Error) *Error {
	return &Error{
		Provider:   config.PaymentProviderMidtrans,
		Op:         op,
		StatusCode: mErr.StatusCode,
		Payload:    mErr.Message,
		Err:        mErr,
	}
}

func truncateName(desc string) string {
	if desc == "" {
		return "Course registration"
	}
	// Item names are capped at 50 characters; cut on a rune boundary.
	if utf8.RuneCountInString(desc) > 50 {
		return string([]rune(desc)[:50])
	}
	return desc
}
