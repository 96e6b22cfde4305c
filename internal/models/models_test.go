package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseFeeMinorUnits(t *testing.T) {
	assert.Equal(t, int64(5000000), Course{FeeAmount: decimal.NewFromInt(50000)}.FeeMinorUnits())
	assert.Equal(t, int64(1999), Course{FeeAmount: decimal.RequireFromString("19.99")}.FeeMinorUnits())
	assert.Equal(t, int64(0), Course{}.FeeMinorUnits())
	assert.True(t, FromMinorUnits(5000000).Equal(decimal.NewFromInt(50000)))
}

func TestParseRegistrationAction(t *testing.T) {
	a, err := ParseRegistrationAction("newCourse")
	require.NoError(t, err)
	assert.Equal(t, ActionNewCourse, a)
	assert.Equal(t, "newCourse", a.String())

	_, err = ParseRegistrationAction("renew")
	assert.Error(t, err)
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentPending.Terminal())
	assert.True(t, PaymentCompleted.Terminal())
	assert.True(t, PaymentFailed.Terminal())
}

func TestNormalizePage(t *testing.T) {
	p, s := NormalizePage(0, 0, 100)
	assert.Equal(t, 1, p)
	assert.Equal(t, 20, s)
	_, s = NormalizePage(2, 500, 100)
	assert.Equal(t, 100, s)
}
