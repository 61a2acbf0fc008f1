// Package models defines data structures used across the application.
// File: models/currency.go
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned when a currency code is not one of the supported five.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is the closed set of display currencies offered by the site.
// Prices are stored in USD and converted with a fixed rate at render time.
type Currency int

const (
	USD Currency = iota
	BDT
	USDT
	INR
	EURO
)

// DefaultCurrency is what a new visitor sees.
const DefaultCurrency = USD

// Currencies lists every supported currency in selector order.
var Currencies = []Currency{USD, BDT, USDT, INR, EURO}

// fixed, illustrative rates; never refreshed from a live source
var (
	rateOne  = decimal.NewFromInt(1)
	rateBDT  = decimal.NewFromInt(120)
	rateINR  = decimal.RequireFromString("83.5")
	rateEURO = decimal.RequireFromString("0.92")
)

// details is the single exhaustive match over the enum.
func (c Currency) details() (code, symbol string, rate decimal.Decimal, ok bool) {
	switch c {
	case USD:
		return "USD", "$", rateOne, true
	case BDT:
		return "BDT", "৳", rateBDT, true
	case USDT:
		return "USDT", "₮", rateOne, true
	case INR:
		return "INR", "₹", rateINR, true
	case EURO:
		return "EURO", "€", rateEURO, true
	}
	return "", "", decimal.Zero, false
}

// Code returns the selector code, e.g. "BDT".
func (c Currency) Code() string {
	code, _, _, _ := c.details()
	return code
}

// Symbol returns the display symbol, e.g. "৳".
func (c Currency) Symbol() string {
	_, symbol, _, _ := c.details()
	return symbol
}

// Rate returns how many units of c one USD buys.
func (c Currency) Rate() decimal.Decimal {
	_, _, rate, _ := c.details()
	return rate
}

// Valid reports whether c is one of the five defined values.
func (c Currency) Valid() bool {
	_, _, _, ok := c.details()
	return ok
}

func (c Currency) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Currency(%d)", int(c))
	}
	return c.Code()
}

// ParseCurrency maps a selector code to a Currency. Matching ignores case and
// surrounding whitespace.
func ParseCurrency(code string) (Currency, error) {
	normalised := strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code() == normalised {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}

// MarshalText encodes the currency as its code.
func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurrency, int(c))
	}
	return []byte(c.Code()), nil
}

// UnmarshalText decodes a currency code.
func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
