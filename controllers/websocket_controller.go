// file: controllers/websocket_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"zerosync-web/middleware"
	"zerosync-web/websocket"
)

// SessionUpdates upgrades /ws for the visitor on the request.
func SessionUpdates(hub *websocket.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeWs(c.Writer, c.Request, middleware.VisitorID(c))
	}
}
