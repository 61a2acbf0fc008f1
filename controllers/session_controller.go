// file: controllers/session_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zerosync-web/logger"
	"zerosync-web/metrics"
	"zerosync-web/middleware"
	"zerosync-web/services"
)

// SessionController drives the simulated game-client login.
type SessionController struct {
	Logins  services.LoginSimulatorInterface
	Metrics metrics.Publisher
}

// NewSessionController initializes a new instance of SessionController.
func NewSessionController(logins services.LoginSimulatorInterface, publisher metrics.Publisher) *SessionController {
	if publisher == nil {
		publisher = metrics.NoopPublisher{}
	}
	return &SessionController{Logins: logins, Metrics: publisher}
}

// Login starts the fixed-delay login. Browsers are redirected back and see
// the pending state; JSON clients get 202 and wait for the websocket push
// or poll GET /api/session.
func (sc *SessionController) Login(c *gin.Context) {
	visitorID := middleware.VisitorID(c)
	result, err := sc.Logins.BeginLogin(visitorID)
	switch {
	case errors.Is(err, services.ErrLoginPending), errors.Is(err, services.ErrAlreadyAuthenticated):
		logger.Warn.Printf("Login: visitor=%s rejected: %v", visitorID, err)
		if wantsJSON(c) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "session": sc.Logins.Session(visitorID)})
			return
		}
		c.Redirect(http.StatusSeeOther, returnPath(c))
		return
	case err != nil:
		logger.Error.Printf("Login: visitor=%s failed: %v", visitorID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
		return
	}

	metrics.PublishLogin(sc.Metrics, "started")
	go func() {
		if _, ok := <-result; ok {
			metrics.PublishLogin(sc.Metrics, "completed")
		}
	}()

	if wantsJSON(c) {
		c.JSON(http.StatusAccepted, gin.H{"session": sc.Logins.Session(visitorID)})
		return
	}
	c.Redirect(http.StatusSeeOther, returnPath(c))
}

// CancelLogin aborts a pending login.
func (sc *SessionController) CancelLogin(c *gin.Context) {
	visitorID := middleware.VisitorID(c)
	if err := sc.Logins.CancelLogin(visitorID); err != nil {
		logger.Warn.Printf("CancelLogin: visitor=%s: %v", visitorID, err)
		if wantsJSON(c) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.Redirect(http.StatusSeeOther, returnPath(c))
		return
	}
	metrics.PublishLogin(sc.Metrics, "cancelled")

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"session": sc.Logins.Session(visitorID)})
		return
	}
	c.Redirect(http.StatusSeeOther, returnPath(c))
}

// Logout clears the session immediately.
func (sc *SessionController) Logout(c *gin.Context) {
	visitorID := middleware.VisitorID(c)
	sc.Logins.Logout(visitorID)
	metrics.PublishLogin(sc.Metrics, "logout")
	logger.Info.Printf("Logout: visitor=%s", visitorID)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"session": sc.Logins.Session(visitorID)})
		return
	}
	c.Redirect(http.StatusSeeOther, returnPath(c))
}

// SessionStatus reports the visitor's session for polling clients.
func (sc *SessionController) SessionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, sc.Logins.Session(middleware.VisitorID(c)))
}
