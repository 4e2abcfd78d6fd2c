package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

func (h *Handler) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.Store.Ping(pingCtx); err != nil {
		h.logger().Warn("storage ping failed", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":        false,
			"status":    "unavailable",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
