package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidtransParseWebhook(t *testing.T) {
	gw := NewMidtrans(MidtransConfig{ServerKey: "server-key"})
	sum := sha512.Sum512([]byte("FXL-1" + "200" + "50000.00" + "server-key"))
	body := fmt.Sprintf(`{"order_id":"FXL-1","status_code":"200","gross_amount":"50000.00","signature_key":"%s","transaction_status":"settlement"}`, hex.EncodeToString(sum[:]))

	evt, err := gw.ParseWebhook(nil, []byte(body))
	require.NoError(t, err)
	assert.Equal(t, "FXL-1", evt.Reference)
	assert.True(t, evt.Relevant)

	_, err = gw.ParseWebhook(nil, []byte(`{"order_id":"FXL-1","status_code":"200","gross_amount":"50000.00","signature_key":"bad"}`))
	assert.ErrorIs(t, err, ErrWebhookSignature)
}

func TestMidtransSettled(t *testing.T) {
	assert.True(t, midtransSettled("settlement", ""))
	assert.True(t, midtransSettled("capture", "accept"))
	assert.False(t, midtransSettled("capture", "challenge"))
	assert.False(t, midtransSettled("expire", ""))
	assert.False(t, midtransSettled("pending", ""))
}

func TestGrossToMinor(t *testing.T) {
	assert.Equal(t, int64(5000000), grossToMinor("50000.00"))
	assert.Equal(t, int64(0), grossToMinor("n/a"))
}

func TestTruncateNameKeepsWholeRunes(t *testing.T) {
	assert.Equal(t, "Course registration", truncateName(""))
	assert.Equal(t, "Data Analysis", truncateName("Data Analysis"))

	long := strings.Repeat("é", 49) + "€uro"
	got := truncateName(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 50, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 49)+"€", got)

	exact := strings.Repeat("ü", 50)
	assert.Equal(t, exact, truncateName(exact))
}
