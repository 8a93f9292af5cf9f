package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxPrice is the largest catalog price, Stripe's per-charge ceiling for USD.
const MaxPrice = 999999.99

const maxMinorUnits = 99999999

// ErrAmountOutOfRange is returned for prices that cannot be charged.
var ErrAmountOutOfRange = errors.New("amount out of range")

// ToMinorUnits converts a major-unit price to cents as round(price*100), half away from zero.
func ToMinorUnits(price float64) (int64, error) {
	cents := math.Round(price * 100)
	if math.IsNaN(cents) || cents < 0 || cents > maxMinorUnits {
		return 0, fmt.Errorf("%w: %v", ErrAmountOutOfRange, price)
	}
	return int64(cents), nil
}

// FromMinorUnits converts cents back to a major-unit amount.
func FromMinorUnits(amount int64) float64 {
	f, _ := decimal.New(amount, -2).Float64()
	return f
}
