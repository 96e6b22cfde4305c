package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is an offering students can register and pay for.
type Course struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Code      string          `db:"code" json:"code"`
	FeeAmount decimal.Decimal `db:"fee_amount" json:"fee_amount"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

var hundred = decimal.NewFromInt(100)

// FeeMinorUnits converts the fee into the smallest currency unit (kobo, cents).
func (c Course) FeeMinorUnits() int64 {
	return c.FeeAmount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts an amount in the smallest currency unit back to a decimal.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
