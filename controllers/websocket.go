package controllers

import (
	"portfolio/middlewares"
	"portfolio/realtime"

	"github.com/gin-gonic/gin"
)

// HandleFeed streams post and project change events over a websocket.
func HandleFeed(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID string
		if claims := middlewares.CurrentClaims(c); claims != nil {
			userID = claims.UserID
		}
		hub.Serve(c.Writer, c.Request, userID)
	}
}
