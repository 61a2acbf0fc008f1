// Package middleware provides the per-request filters shared by every route.
// File: middleware/visitor.go
package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zerosync-web/logger"
)

type contextKey string

const (
	visitorKey contextKey = "visitorID"

	// SessionVisitorKey holds the visitor ID inside the cookie session.
	SessionVisitorKey = "visitorID"
)

// VisitorTracker is told about every request a visitor makes.
type VisitorTracker interface {
	Touch(visitorID string)
}

// Visitor makes sure the browser session carries a visitor ID and exposes it
// to handlers. The cookie has no MaxAge, so the ID lives as long as the
// browser session. tracker may be nil.
func Visitor(tracker VisitorTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(SessionVisitorKey).(string)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			session.Set(SessionVisitorKey, id)
			if err := session.Save(); err != nil {
				logger.Error.Printf("[Visitor] failed to save new visitor session: %v", err)
			} else {
				logger.Debug.Printf("[Visitor] assigned visitor=%s", id)
			}
		}

		c.Set(string(visitorKey), id)
		if tracker != nil {
			tracker.Touch(id)
		}
		c.Next()
	}
}

// VisitorID returns the ID set by Visitor, or "" when the middleware did not run.
func VisitorID(c *gin.Context) string {
	return c.GetString(string(visitorKey))
}
