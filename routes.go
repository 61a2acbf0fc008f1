// file: routes.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"zerosync-web/config"
	"zerosync-web/controllers"
	"zerosync-web/logger"
	"zerosync-web/metrics"
	"zerosync-web/middleware"
	"zerosync-web/services"
	"zerosync-web/websocket"
)

// application is everything the router needs, built once in main.
type application struct {
	cfg       *config.Config
	catalog   *services.CatalogService
	logins    *services.LoginSimulator
	hub       *websocket.Hub
	apps      *services.ApplicationService
	formatter *services.CurrencyFormatter
	publisher metrics.Publisher
}

// newApplication builds the services. Pending logins are cancelled when ctx ends.
func newApplication(ctx context.Context, cfg *config.Config, publisher metrics.Publisher) (*application, error) {
	catalog, err := services.NewDefaultCatalogService()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog.OverrideServerIP(cfg.ServerIP)

	if publisher == nil {
		publisher = metrics.NoopPublisher{}
	}

	logins := services.NewLoginSimulator(ctx, cfg.LoginDelay, nil)
	hub := websocket.NewHub(cfg.AllowedOrigins, logins)
	logins.SetNotifier(hub)

	return &application{
		cfg:       cfg,
		catalog:   catalog,
		logins:    logins,
		hub:       hub,
		apps:      services.NewApplicationService(),
		formatter: services.NewCurrencyFormatter(cfg.CurrencyLocale),
		publisher: publisher,
	}, nil
}

// setupRouter registers middleware, templates and every route.
func setupRouter(app *application) (*gin.Engine, error) {
	cfg := app.cfg
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.SecurityHeaders())

	authKey, encKey, err := cfg.SessionKeys()
	if err != nil {
		return nil, fmt.Errorf("derive session keys: %w", err)
	}
	store := middleware.NewSessionStore(cfg.IsProduction(), authKey, encKey)
	router.Use(sessions.Sessions(cfg.SessionName, store))
	router.Use(middleware.Visitor(app.logins))
	router.Use(middleware.CurrencyProvider(app.formatter))

	router.SetFuncMap(controllers.TemplateFuncs())
	templatesGlob := filepath.Join(cfg.TemplatesDir, "*.html")
	logger.Info.Printf("[setupRouter] Templates Path: %s", templatesGlob)
	router.LoadHTMLGlob(templatesGlob)
	router.Static("/static", cfg.StaticDir)

	pages := controllers.NewPageController(app.catalog, app.logins, cfg.WebsocketURL, cfg.LoginDelay)
	sessionCtl := controllers.NewSessionController(app.logins, app.publisher)
	currencyCtl := controllers.NewCurrencyController(app.hub, app.publisher)
	applicationCtl := controllers.NewApplicationController(app.apps, pages, app.publisher)
	api := controllers.NewAPIController(app.catalog)
	limited := middleware.RateLimit(middleware.NewLimiter(cfg.RateLimit))

	router.GET("/health", controllers.Health)

	// Pages
	router.GET("/", pages.Home)
	router.GET("/rules", pages.Rules)
	router.GET("/staff", pages.Staff)
	router.GET("/team", pages.Staff)
	router.GET("/store", pages.Store)
	router.GET("/queue-priority", pages.QueuePriority)
	router.GET("/tos", pages.TOS)
	router.GET("/apply", pages.Apply)
	router.GET("/application", pages.Apply)
	router.POST("/apply", limited, applicationCtl.Submit)
	router.GET("/connect/qrcode.png", pages.ConnectQRCode)

	// Visitor state
	router.POST("/currency", limited, currencyCtl.SelectCurrency)
	router.POST("/login", limited, sessionCtl.Login)
	router.POST("/login/cancel", sessionCtl.CancelLogin)
	router.POST("/logout", sessionCtl.Logout)
	router.GET("/ws", controllers.SessionUpdates(app.hub))

	apiGroup := router.Group("/api", middleware.APICORS(cfg.AllowedOrigins))
	{
		apiGroup.GET("/server", api.Server)
		apiGroup.GET("/rules", api.Rules)
		apiGroup.GET("/staff", api.Staff)
		apiGroup.GET("/store", api.Store)
		apiGroup.GET("/currencies", api.Currencies)
		apiGroup.GET("/price", limited, api.Price)
		apiGroup.PUT("/currency", limited, currencyCtl.UpdateCurrency)
		apiGroup.GET("/session", sessionCtl.SessionStatus)
		// preflight; APICORS answers it before this handler runs
		apiGroup.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	router.NoRoute(pages.NotFound)
	return router, nil
}
