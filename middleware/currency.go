// File: middleware/currency.go
package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"zerosync-web/logger"
	"zerosync-web/models"
	"zerosync-web/services"
)

const (
	currencyKey contextKey = "pricing"

	// SessionCurrencyKey holds the selected currency code inside the cookie session.
	SessionCurrencyKey = "currency"
)

// ErrNoCurrencyProvider means a handler asked for pricing on a route that
// CurrencyProvider does not cover.
var ErrNoCurrencyProvider = errors.New("currency accessor used outside CurrencyProvider")

// CurrencyProvider resolves the visitor's selected currency from the session
// and attaches it, paired with the formatter, to the request.
func CurrencyProvider(formatter *services.CurrencyFormatter) gin.HandlerFunc {
	return func(c *gin.Context) {
		selected := models.DefaultCurrency
		if code, ok := sessions.Default(c).Get(SessionCurrencyKey).(string); ok {
			if parsed, err := models.ParseCurrency(code); err == nil {
				selected = parsed
			} else {
				logger.Warn.Printf("[CurrencyProvider] ignoring stored currency %q: %v", code, err)
			}
		}
		c.Set(string(currencyKey), formatter.For(selected))
		c.Next()
	}
}

// Currency returns the request's pricing. It never falls back to a default.
func Currency(c *gin.Context) (services.Pricing, error) {
	v, ok := c.Get(string(currencyKey))
	if !ok {
		return services.Pricing{}, ErrNoCurrencyProvider
	}
	p, ok := v.(services.Pricing)
	if !ok {
		return services.Pricing{}, ErrNoCurrencyProvider
	}
	return p, nil
}

// MustCurrency is Currency for handlers that are always mounted behind the provider.
func MustCurrency(c *gin.Context) services.Pricing {
	p, err := Currency(c)
	if err != nil {
		panic(err)
	}
	return p
}

// SetCurrency persists a new selection and updates the current request's pricing.
func SetCurrency(c *gin.Context, selected models.Currency) error {
	current, err := Currency(c)
	if err != nil {
		return err
	}
	if !selected.Valid() {
		return models.ErrUnknownCurrency
	}
	session := sessions.Default(c)
	session.Set(SessionCurrencyKey, selected.Code())
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(string(currencyKey), current.With(selected))
	return nil
}
