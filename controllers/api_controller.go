// file: controllers/api_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zerosync-web/logger"
	"zerosync-web/middleware"
	"zerosync-web/models"
	"zerosync-web/services"
)

// APIController serves JSON views of the catalog and pricing.
type APIController struct {
	Catalog services.CatalogServiceInterface
}

// NewAPIController initializes a new instance of APIController.
func NewAPIController(catalog services.CatalogServiceInterface) *APIController {
	return &APIController{Catalog: catalog}
}

// Server returns the game server card with its connect URL.
func (api *APIController) Server(c *gin.Context) {
	info := api.Catalog.ServerInfo()
	c.JSON(http.StatusOK, gin.H{
		"server":     info,
		"connectUrl": info.ConnectURL(),
	})
}

// Rules returns the rulebook, honouring q and category like the page does.
func (api *APIController) Rules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": api.Catalog.RuleCategories(),
		"rules":      api.Catalog.SearchRules(c.Query("q"), c.Query("category")),
	})
}

// Staff returns the roster in rank order.
func (api *APIController) Staff(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"staff": api.Catalog.Staff()})
}

type storeItemJSON struct {
	models.StoreItem
	DisplayPrice string `json:"displayPrice"`
}

// Store returns items with prices in USD and in the selected currency.
func (api *APIController) Store(c *gin.Context) {
	category := models.StoreCategory(strings.ToLower(strings.TrimSpace(c.Query("cat"))))
	if category != "" && !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	pricing := middleware.MustCurrency(c)

	items := api.Catalog.StoreItems(category)
	out := make([]storeItemJSON, 0, len(items))
	for _, item := range items {
		price, err := pricing.FormatPrice(item.Price)
		if err != nil {
			logger.Error.Printf("Store: pricing %s failed: %v", item.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "pricing unavailable"})
			return
		}
		out = append(out, storeItemJSON{StoreItem: item, DisplayPrice: price})
	}
	c.JSON(http.StatusOK, gin.H{"currency": pricing.Currency, "items": out})
}

// Currencies lists the supported currencies and marks the selected one.
func (api *APIController) Currencies(c *gin.Context) {
	selected := middleware.MustCurrency(c).Currency
	out := make([]gin.H, 0, len(models.Currencies))
	for _, cur := range models.Currencies {
		out = append(out, currencyJSON(cur, cur == selected))
	}
	c.JSON(http.StatusOK, gin.H{"currencies": out})
}

// Price formats ?amount= (USD) in the selected currency.
func (api *APIController) Price(c *gin.Context) {
	pricing := middleware.MustCurrency(c)
	amount := c.Query("amount")
	formatted, err := pricing.Format(amount)
	if errors.Is(err, services.ErrInvalidAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error.Printf("Price: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pricing unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"amount":    amount,
		"currency":  pricing.Currency,
		"formatted": formatted,
	})
}
