package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noah-isme/fixlab-academy-api/pkg/config"
)

const (
	paystackSuccess         = "success"
	paystackChargeSuccess   = "charge.success"
	paystackSignatureHeader = "X-Paystack-Signature"
	maxPayloadLog           = 2048
)

// PaystackConfig holds credentials for the Paystack REST API.
type PaystackConfig struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Paystack talks to the Paystack transaction API.
type Paystack struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystack constructs a Paystack gateway.
func NewPaystack(cfg PaystackConfig) *Paystack {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.paystack.co"
	}
	return &Paystack{
		secretKey: cfg.SecretKey,
		baseURL:   base,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name implements Gateway.
func (p *Paystack) Name() string { return config.PaymentProviderPaystack }

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

type paystackVerifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

// Initialize opens a transaction and returns the hosted checkout URL.
func (p *Paystack) Initialize(ctx context.Context, req InitializeRequest) (*Initialization, error) {
	body := map[string]interface{}{
		"email":  req.Email,
		"amount": req.AmountMinor,
	}
	if req.CallbackURL != "" {
		body["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Op: "initialize", Err: err}
	}

	status, raw, err := p.do(ctx, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Op: "initialize", Err: err}
	}
	env, err := decodeEnvelope(raw)
	if err != nil || status >= http.StatusMultipleChoices || !env.Status {
		return nil, &Error{Provider: p.Name(), Op: "initialize", StatusCode: status, Payload: clip(raw), Err: envelopeErr(env, err)}
	}
	var data paystackInitData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AuthorizationURL == "" || data.Reference == "" {
		return nil, &Error{Provider: p.Name(), Op: "initialize", StatusCode: status, Payload: clip(raw), Err: errors.New("missing authorization_url or reference")}
	}
	return &Initialization{Reference: data.Reference, RedirectURL: data.AuthorizationURL}, nil
}

// Verify looks a transaction up by reference. Only transport failures and undecodable
// bodies are errors; any other outcome is reported as not succeeded.
func (p *Paystack) Verify(ctx context.Context, reference string) (*Verification, error) {
	status, raw, err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Op: "verify", Err: err}
	}
	if status >= http.StatusInternalServerError {
		return nil, &Error{Provider: p.Name(), Op: "verify", StatusCode: status, Payload: clip(raw), Err: errors.New("gateway server error")}
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Op: "verify", StatusCode: status, Payload: clip(raw), Err: err}
	}

	result := &Verification{Reference: reference}
	var data paystackVerifyData
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &data) == nil {
		result.RawStatus = data.Status
		result.AmountPaidMinor = data.Amount
		result.Succeeded = env.Status && data.Status == paystackSuccess
	}
	return result, nil
}

type paystackWebhook struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

// ParseWebhook authenticates a Paystack event using the HMAC-SHA512 of the raw body.
func (p *Paystack) ParseWebhook(header http.Header, body []byte) (*WebhookEvent, error) {
	sig := header.Get(paystackSignatureHeader)
	if sig == "" || !hmac.Equal([]byte(strings.ToLower(sig)), []byte(p.sign(body))) {
		return nil, ErrWebhookSignature
	}
	var hook paystackWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("decode paystack webhook: %w", err)
	}
	return &WebhookEvent{
		Event:     hook.Event,
		Reference: hook.Data.Reference,
		Relevant:  hook.Event == paystackChargeSuccess && hook.Data.Reference != "",
	}, nil
}

func (p *Paystack) sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *Paystack) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

func decodeEnvelope(raw []byte) (*paystackEnvelope, error) {
	var env paystackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}

func envelopeErr(env *paystackEnvelope, err error) error {
	if err != nil {
		return err
	}
	if env != nil && env.Message != "" {
		return errors.New(env.Message)
	}
	return errors.New("unsuccessful response")
}

func clip(raw []byte) string {
	if len(raw) > maxPayloadLog {
		return string(raw[:maxPayloadLog])
	}
	return string(raw)
}
