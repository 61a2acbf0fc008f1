// Package services holds the site's domain logic: currency formatting,
// the static catalog, the simulated login and the whitelist form.
// File: services/currency_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"zerosync-web/models"
)

// ErrInvalidAmount is returned when a price string is not a decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// CurrencyFormatter renders USD amounts in any supported currency.
type CurrencyFormatter struct {
	locale language.Tag
}

// NewCurrencyFormatter creates a formatter that groups digits per locale.
func NewCurrencyFormatter(locale language.Tag) *CurrencyFormatter {
	return &CurrencyFormatter{locale: locale}
}

// Convert turns a USD amount into c, rounded to two places (half away from zero).
func (f *CurrencyFormatter) Convert(c models.Currency, usd decimal.Decimal) (decimal.Decimal, error) {
	if !c.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %d", models.ErrUnknownCurrency, int(c))
	}
	return usd.Mul(c.Rate()).Round(2), nil
}

// FormatAmount renders "<symbol><amount>" with two decimals and grouping.
// Only the whole part goes through the locale printer, as an int64, so the
// digits stay exact.
func (f *CurrencyFormatter) FormatAmount(c models.Currency, usd decimal.Decimal) (string, error) {
	if err := checkBounds(usd); err != nil {
		return "", err
	}
	converted, err := f.Convert(c, usd)
	if err != nil {
		return "", err
	}
	_, cents, _ := strings.Cut(converted.Abs().StringFixed(2), ".")
	p := message.NewPrinter(f.locale)
	grouped := p.Sprintf("%v", number.Decimal(converted.Abs().IntPart()))
	sign := ""
	if converted.IsNegative() {
		sign = "-"
	}
	return c.Symbol() + sign + grouped + "." + cents, nil
}

// Format parses amount as a USD decimal and renders it in c.
// Unparsable input is an error, never zero.
func (f *CurrencyFormatter) Format(c models.Currency, amount string) (string, error) {
	usd, err := ParseAmount(amount)
	if err != nil {
		return "", err
	}
	return f.FormatAmount(c, usd)
}

// For binds the formatter to a selected currency.
func (f *CurrencyFormatter) For(c models.Currency) Pricing {
	return Pricing{Currency: c, formatter: f}
}

// ParseAmount parses a base-unit (USD) decimal string. Amounts of 1e12 or
// more, or written with more than maxAmountScale fractional digits, are
// rejected before any arithmetic touches them.
func ParseAmount(amount string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if err := checkBounds(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

const maxAmountScale = 18

// maxAmount times the largest rate (120) still fits an int64 with room to spare.
var maxAmount = decimal.New(1, 12)

func checkBounds(d decimal.Decimal) error {
	if exp := d.Exponent(); exp < -maxAmountScale || exp > maxAmountScale {
		return fmt.Errorf("%w: exponent %d out of range", ErrInvalidAmount, exp)
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, d, maxAmount)
	}
	return nil
}

// Pricing is a visitor's selected currency together with the means to format in it.
type Pricing struct {
	Currency  models.Currency
	formatter *CurrencyFormatter
}

// Format renders a USD amount string in the selected currency.
func (p Pricing) Format(amount string) (string, error) {
	return p.formatter.Format(p.Currency, amount)
}

// FormatPrice renders a USD decimal in the selected currency.
func (p Pricing) FormatPrice(usd decimal.Decimal) (string, error) {
	return p.formatter.FormatAmount(p.Currency, usd)
}

// With returns the same formatter bound to another currency.
func (p Pricing) With(c models.Currency) Pricing {
	return p.formatter.For(c)
}
