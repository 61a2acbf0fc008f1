// Package controllers holds the HTTP handlers for pages and JSON endpoints.
// file: controllers/page_controller.go
package controllers

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"zerosync-web/logger"
	"zerosync-web/middleware"
	"zerosync-web/models"
	"zerosync-web/navigation"
	"zerosync-web/services"
)

const qrCodeSize = 256

// PageController renders the HTML pages.
type PageController struct {
	Catalog      services.CatalogServiceInterface
	Logins       services.LoginSimulatorInterface
	WebsocketURL string
	QREncoder    services.QRCodeEncoder
	// LoginDelay paces the reload of pages showing a pending login.
	LoginDelay time.Duration
}

// NewPageController initializes a new instance of PageController.
func NewPageController(catalog services.CatalogServiceInterface, logins services.LoginSimulatorInterface, websocketURL string, loginDelay time.Duration) *PageController {
	return &PageController{
		Catalog:      catalog,
		Logins:       logins,
		WebsocketURL: websocketURL,
		QREncoder:    services.DefaultQRCodeEncode,
		LoginDelay:   loginDelay,
	}
}

// refreshSeconds rounds the login delay up to whole seconds, at least one.
func refreshSeconds(delay time.Duration) int {
	secs := int((delay + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// TemplateFuncs are the helpers every template may call.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// Health is the liveness probe.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// viewData builds the shell every page shares: nav, footer, currency and session.
func (pc *PageController) viewData(c *gin.Context, page navigation.Page) (gin.H, error) {
	pricing, err := middleware.Currency(c)
	if err != nil {
		return nil, err
	}

	nav := navigation.NoneActive()
	if page != navigation.PageNotFound {
		nav = navigation.Active(c.Request.URL.Path, c.Request.URL.RawQuery)
	}

	return gin.H{
		"Page":         string(page),
		"Nav":          nav,
		"Community":    navigation.CommunityLinks,
		"Resources":    navigation.ResourceLinks,
		"Currency":     pricing.Currency,
		"Currencies":   models.Currencies,
		"Session":      pc.Logins.Session(middleware.VisitorID(c)),
		"Server":       pc.Catalog.ServerInfo(),
		"WebsocketURL": pc.WebsocketURL,
		"RefreshAfter": refreshSeconds(pc.LoginDelay),
		"ReturnTo":     c.Request.URL.RequestURI(),
		"Year":         time.Now().Year(),
	}, nil
}

// render writes page with the shared shell merged with extra.
func (pc *PageController) render(c *gin.Context, status int, page navigation.Page, extra gin.H) {
	data, err := pc.viewData(c, page)
	if err != nil {
		logger.Error.Printf("[render] page=%s: %v", page, err)
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(status, string(page)+".html", data)
}

// Home shows the server card, connect details and a teaser of each section.
func (pc *PageController) Home(c *gin.Context) {
	pc.render(c, http.StatusOK, navigation.PageHome, gin.H{
		// fivem:// is not on html/template's safe-scheme list.
		"ConnectURL": template.URL(pc.Catalog.ServerInfo().ConnectURL()),
		"StaffCount": len(pc.Catalog.Staff()),
		"RuleCount":  len(pc.Catalog.Rules()),
	})
}

// Rules lists the rulebook, optionally searched (q) and filtered (category).
func (pc *PageController) Rules(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	category := strings.TrimSpace(c.Query("category"))
	rules := pc.Catalog.SearchRules(query, category)
	logger.Debug.Printf("Rules: q=%q category=%q -> %d rules", query, category, len(rules))

	pc.render(c, http.StatusOK, navigation.PageRules, gin.H{
		"Rules":      rules,
		"Categories": pc.Catalog.RuleCategories(),
		"Query":      query,
		"Category":   category,
	})
}

// Staff shows the team roster, reachable at /staff and /team.
func (pc *PageController) Staff(c *gin.Context) {
	pc.render(c, http.StatusOK, navigation.PageStaff, gin.H{
		"Staff": pc.Catalog.Staff(),
	})
}

// StoreItemView is a store item with its price rendered in the visitor's currency.
type StoreItemView struct {
	models.StoreItem
	DisplayPrice string
}

func (pc *PageController) storeViews(c *gin.Context, category models.StoreCategory) ([]StoreItemView, error) {
	pricing, err := middleware.Currency(c)
	if err != nil {
		return nil, err
	}
	items := pc.Catalog.StoreItems(category)
	views := make([]StoreItemView, 0, len(items))
	for _, item := range items {
		price, err := pricing.FormatPrice(item.Price)
		if err != nil {
			return nil, err
		}
		views = append(views, StoreItemView{StoreItem: item, DisplayPrice: price})
	}
	return views, nil
}

// Store lists one category. No cat means tokens; priority lives on its own page.
func (pc *PageController) Store(c *gin.Context) {
	raw := strings.ToLower(strings.TrimSpace(c.Query("cat")))
	if raw == "" {
		raw = navigation.DefaultStoreCategory
	}
	category := models.StoreCategory(raw)
	if category == models.CategoryPriority {
		c.Redirect(http.StatusFound, "/queue-priority")
		return
	}
	if !category.Valid() {
		logger.Warn.Printf("Store: unknown category %q", raw)
		pc.NotFound(c)
		return
	}

	items, err := pc.storeViews(c, category)
	if err != nil {
		logger.Error.Printf("Store: pricing failed: %v", err)
		c.String(http.StatusInternalServerError, "store unavailable")
		return
	}
	pc.render(c, http.StatusOK, navigation.PageStore, gin.H{
		"Category": string(category),
		"Items":    items,
	})
}

// QueuePriority lists the priority tiers.
func (pc *PageController) QueuePriority(c *gin.Context) {
	items, err := pc.storeViews(c, models.CategoryPriority)
	if err != nil {
		logger.Error.Printf("QueuePriority: pricing failed: %v", err)
		c.String(http.StatusInternalServerError, "store unavailable")
		return
	}
	pc.render(c, http.StatusOK, navigation.PageQueuePriority, gin.H{
		"Items": items,
	})
}

// TOS renders the terms of service.
func (pc *PageController) TOS(c *gin.Context) {
	pc.render(c, http.StatusOK, navigation.PageTOS, nil)
}

// Apply renders the empty whitelist application form.
func (pc *PageController) Apply(c *gin.Context) {
	pc.render(c, http.StatusOK, navigation.PageApply, gin.H{
		"Form":   models.WhitelistApplication{},
		"Errors": map[string]string{},
	})
}

// NotFound renders the 404 page with no nav link active.
func (pc *PageController) NotFound(c *gin.Context) {
	logger.Warn.Printf("NotFound: %s %s", c.Request.Method, c.Request.URL.Path)
	pc.render(c, http.StatusNotFound, navigation.PageNotFound, nil)
}

// ConnectQRCode serves a PNG QR code of the fivem:// connect URL.
func (pc *PageController) ConnectQRCode(c *gin.Context) {
	connectURL := pc.Catalog.ServerInfo().ConnectURL()
	logger.Info.Printf("ConnectQRCode: Generating QR code for %s", connectURL)

	qrBytes, err := services.GenerateQRCode(connectURL, qrCodeSize, pc.QREncoder)
	if err != nil {
		logger.Error.Printf("ConnectQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}

// returnPath picks where to send the browser after a form post: a local
// return_to field, then a same-host Referer, then "/".
func returnPath(c *gin.Context) string {
	if p := localPath(c.PostForm("return_to")); p != "" {
		return p
	}
	if ref, err := url.Parse(c.GetHeader("Referer")); err == nil && ref.Host == c.Request.Host {
		if p := localPath(ref.RequestURI()); p != "" {
			return p
		}
	}
	return "/"
}

func localPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return ""
	}
	u, err := url.Parse(p)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return u.RequestURI()
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
