package currency

import (
	"errors"
	"strings"
)

// Currency is an ISO 4217 code in the lower-case form the payment gateway expects.
type Currency string

const (
	CurrencyUSD Currency = "usd"
)

var ErrInvalidCurrency = errors.New("invalid currency")

func (c Currency) String() string {
	return string(c)
}

func ParseCurrency(s string) (Currency, error) {
	switch strings.ToLower(s) {
	case CurrencyUSD.String():
		return CurrencyUSD, nil
	default:
		return "", ErrInvalidCurrency
	}
}
