package handlers

import (
	"github.com/gin-gonic/gin"
)

// AdminFeed upgrades to a websocket that receives every change event.
func (h *Handler) AdminFeed(ctx *gin.Context) {
	h.Hub.ServeWS(ctx.Writer, ctx.Request)
}
