package linksign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformed = errors.New("linksign: malformed token")
	ErrSignature = errors.New("linksign: invalid signature")
	ErrExpired   = errors.New("linksign: token expired")
)

// Signer issues and checks expiring tokens bound to a subject such as a payment reference.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New constructs a signer. A non-positive ttl falls back to one day.
func New(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token for subject and the instant it stops being valid.
func (s *Signer) Sign(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("linksign: subject required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("linksign: signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	return ts + "." + s.mac(subject, ts), expiresAt, nil
}

// Verify checks that token was issued for subject and has not expired.
func (s *Signer) Verify(subject, token string) error {
	ts, sig, ok := strings.Cut(token, ".")
	if !ok || ts == "" || sig == "" {
		return ErrMalformed
	}
	exp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformed
	}
	if !hmac.Equal([]byte(s.mac(subject, ts)), []byte(sig)) {
		return ErrSignature
	}
	if s.now().After(time.Unix(exp, 0)) {
		return ErrExpired
	}
	return nil
}

func (s *Signer) mac(subject, ts string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(subject + "|" + ts))
	return hex.EncodeToString(m.Sum(nil))
}
