// file: controllers/currency_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zerosync-web/logger"
	"zerosync-web/metrics"
	"zerosync-web/middleware"
	"zerosync-web/models"
)

// CurrencyNotifier tells a visitor's other tabs about a new selection.
type CurrencyNotifier interface {
	NotifyCurrency(visitorID string, currency models.Currency)
}

// CurrencyController changes the display currency.
type CurrencyController struct {
	Notifier CurrencyNotifier
	Metrics  metrics.Publisher
}

// NewCurrencyController initializes a new instance of CurrencyController.
func NewCurrencyController(notifier CurrencyNotifier, publisher metrics.Publisher) *CurrencyController {
	if publisher == nil {
		publisher = metrics.NoopPublisher{}
	}
	return &CurrencyController{Notifier: notifier, Metrics: publisher}
}

type currencyRequest struct {
	Currency string `json:"currency" form:"currency" binding:"required"`
}

// SelectCurrency handles the selector form (POST /currency).
func (cc *CurrencyController) SelectCurrency(c *gin.Context) {
	selected, err := models.ParseCurrency(c.PostForm("currency"))
	if err != nil {
		logger.Warn.Printf("SelectCurrency: %v", err)
		c.String(http.StatusBadRequest, "unknown currency")
		return
	}
	if err := cc.apply(c, selected); err != nil {
		logger.Error.Printf("SelectCurrency: %v", err)
		c.String(http.StatusInternalServerError, "could not save currency")
		return
	}
	c.Redirect(http.StatusSeeOther, returnPath(c))
}

// UpdateCurrency handles PUT /api/currency with {"currency":"BDT"}.
func (cc *CurrencyController) UpdateCurrency(c *gin.Context) {
	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency is required"})
		return
	}
	selected, err := models.ParseCurrency(req.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "supported": models.Currencies})
		return
	}
	if err := cc.apply(c, selected); err != nil {
		logger.Error.Printf("UpdateCurrency: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save currency"})
		return
	}
	c.JSON(http.StatusOK, currencyJSON(selected, true))
}

func (cc *CurrencyController) apply(c *gin.Context, selected models.Currency) error {
	if err := middleware.SetCurrency(c, selected); err != nil {
		if errors.Is(err, middleware.ErrNoCurrencyProvider) {
			panic(err)
		}
		return err
	}
	visitorID := middleware.VisitorID(c)
	logger.Info.Printf("[CurrencyController] visitor=%s selected %s", visitorID, selected)
	metrics.PublishCurrencySelection(cc.Metrics, selected)
	if cc.Notifier != nil {
		cc.Notifier.NotifyCurrency(visitorID, selected)
	}
	return nil
}

func currencyJSON(c models.Currency, selected bool) gin.H {
	return gin.H{
		"code":     c.Code(),
		"symbol":   c.Symbol(),
		"rate":     c.Rate(),
		"selected": selected,
	}
}
