package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaystackServer(t *testing.T, handler http.HandlerFunc) (*Paystack, func()) {
	srv := httptest.NewServer(handler)
	gw := NewPaystack(PaystackConfig{SecretKey: "sk_test", BaseURL: srv.URL + "/", Timeout: 200 * time.Millisecond})
	return gw, srv.Close
}

func TestPaystackInitialize(t *testing.T) {
	gw, done := newPaystackServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, float64(5000000), body["amount"])
		assert.Equal(t, "https://site/callback", body["callback_url"])
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout/abc","reference":"REF1"}}`))
	})
	defer done()

	init, err := gw.Initialize(context.Background(), InitializeRequest{Email: "ada@example.com", AmountMinor: 5000000, CallbackURL: "https://site/callback"})
	require.NoError(t, err)
	assert.Equal(t, "REF1", init.Reference)
	assert.Equal(t, "https://checkout/abc", init.RedirectURL)
}

func TestPaystackInitializeRejected(t *testing.T) {
	gw, done := newPaystackServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	})
	defer done()

	_, err := gw.Initialize(context.Background(), InitializeRequest{Email: "ada@example.com", AmountMinor: 100})
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
	assert.Contains(t, gwErr.Payload, "Invalid key")
	assert.Contains(t, gwErr.Error(), "Invalid key")
}

func TestPaystackInitializeMalformed(t *testing.T) {
	gw, done := newPaystackServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"data":{}}`))
	})
	defer done()

	_, err := gw.Initialize(context.Background(), InitializeRequest{Email: "ada@example.com", AmountMinor: 100})
	var gwErr *Error
	assert.True(t, errors.As(err, &gwErr))
}

func TestPaystackInitializeTimeout(t *testing.T) {
	gw, done := newPaystackServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})
	defer done()

	start := time.Now()
	_, err := gw.Initialize(context.Background(), InitializeRequest{Email: "ada@example.com", AmountMinor: 100})
	var gwErr *Error
	assert.True(t, errors.As(err, &gwErr))
	assert.Less(t, time.Since(start), 450*time.Millisecond)
}

func TestPaystackVerify(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		succeeded bool
		amount    int64
	}{
		{"success", `{"status":true,"data":{"status":"success","reference":"REF1","amount":5000000}}`, true, 5000000},
		{"abandoned", `{"status":true,"data":{"status":"abandoned","reference":"REF1","amount":5000000}}`, false, 5000000},
		{"missing data", `{"status":false,"message":"Transaction reference not found"}`, false, 0},
		{"odd shape", `{"status":true,"data":"nope"}`, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw, done := newPaystackServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/transaction/verify/REF1", r.URL.Path)
				_, _ = w.Write([]byte(tc.body))
			})
			defer done()

			v, err := gw.Verify(context.Background(), "REF1")
			require.NoError(t, err)
			assert.Equal(t, tc.succeeded, v.Succeeded)
			assert.Equal(t, tc.amount, v.AmountPaidMinor)
		})
	}
}

func TestPaystackVerifyTransportErrors(t *testing.T) {
	gw, done := newPaystackServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer done()

	_, err := gw.Verify(context.Background(), "REF1")
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "verify", gwErr.Op)

	gw, done2 := newPaystackServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	defer done2()
	_, err = gw.Verify(context.Background(), "REF1")
	assert.True(t, errors.As(err, &gwErr))
}

func TestPaystackParseWebhook(t *testing.T) {
	gw := NewPaystack(PaystackConfig{SecretKey: "sk_test"})
	body := []byte(`{"event":"charge.success","data":{"reference":"REF1","status":"success"}}`)
	mac := hmac.New(sha512.New, []byte("sk_test"))
	mac.Write(body)
	header := http.Header{}
	header.Set("x-paystack-signature", hex.EncodeToString(mac.Sum(nil)))

	evt, err := gw.ParseWebhook(header, body)
	require.NoError(t, err)
	assert.True(t, evt.Relevant)
	assert.Equal(t, "REF1", evt.Reference)

	header.Set("x-paystack-signature", "deadbeef")
	_, err = gw.ParseWebhook(header, body)
	assert.ErrorIs(t, err, ErrWebhookSignature)
}
