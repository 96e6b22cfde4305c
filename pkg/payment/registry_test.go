package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fixlab-academy-api/pkg/config"
)

func TestRegistryFromConfig(t *testing.T) {
	reg := NewRegistryFromConfig(config.PaymentConfig{PaystackSecretKey: "sk", MidtransServerKey: "mk"})
	assert.Equal(t, []string{"midtrans", "paystack"}, reg.Names())

	gw, err := reg.Get(config.PaymentProviderPaystack)
	require.NoError(t, err)
	assert.Equal(t, "paystack", gw.Name())

	_, err = NewRegistryFromConfig(config.PaymentConfig{}).Get("paystack")
	assert.Error(t, err)
}
