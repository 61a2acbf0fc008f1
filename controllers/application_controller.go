// file: controllers/application_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zerosync-web/logger"
	"zerosync-web/metrics"
	"zerosync-web/models"
	"zerosync-web/navigation"
	"zerosync-web/services"
)

// ApplicationController accepts whitelist applications.
type ApplicationController struct {
	Applications services.ApplicationServiceInterface
	Pages        *PageController
	Metrics      metrics.Publisher
}

// NewApplicationController initializes a new instance of ApplicationController.
func NewApplicationController(apps services.ApplicationServiceInterface, pages *PageController, publisher metrics.Publisher) *ApplicationController {
	if publisher == nil {
		publisher = metrics.NoopPublisher{}
	}
	return &ApplicationController{Applications: apps, Pages: pages, Metrics: publisher}
}

// Submit handles POST /apply from the form or as JSON.
func (ac *ApplicationController) Submit(c *gin.Context) {
	var app models.WhitelistApplication
	if err := c.ShouldBind(&app); err != nil {
		// Only a non-numeric age can fail binding.
		logger.Warn.Printf("Submit: bind failed: %v", err)
		ac.reject(c, app, &services.ApplicationError{Fields: map[string]string{"age": "must be a number"}})
		return
	}

	receipt, err := ac.Applications.Submit(app)
	var appErr *services.ApplicationError
	switch {
	case errors.As(err, &appErr):
		ac.reject(c, app, appErr)
		return
	case err != nil:
		logger.Error.Printf("Submit: %v", err)
		c.String(http.StatusInternalServerError, "application unavailable")
		return
	}

	metrics.PublishApplication(ac.Metrics, true)
	if wantsJSON(c) || c.ContentType() == gin.MIMEJSON {
		c.JSON(http.StatusCreated, receipt)
		return
	}
	ac.Pages.render(c, http.StatusOK, navigation.PageApply, gin.H{
		"Receipt": receipt,
		"Form":    models.WhitelistApplication{},
		"Errors":  map[string]string{},
	})
}

func (ac *ApplicationController) reject(c *gin.Context, app models.WhitelistApplication, appErr *services.ApplicationError) {
	metrics.PublishApplication(ac.Metrics, false)
	if wantsJSON(c) || c.ContentType() == gin.MIMEJSON {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": appErr.Fields})
		return
	}
	ac.Pages.render(c, http.StatusUnprocessableEntity, navigation.PageApply, gin.H{
		"Form":   app,
		"Errors": appErr.Fields,
	})
}
