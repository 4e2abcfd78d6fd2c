package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecophos-dev/ecophos/db"
	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/realtime"
	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/gin-gonic/gin"
)

// Handler carries the services every route handler needs.
type Handler struct {
	Store    *db.Store
	Sessions *auth.Sessions
	Auth     *services.AuthService
	Admin    *services.AdminService
	Projects *services.ProjectService
	News     *services.NewsService
	Contacts *services.ContactService
	Hub      *realtime.Hub
	Logger   *slog.Logger
}

// respondError writes err as {"error": message} with the status of its
// kind. Unclassified errors are logged and hidden behind a generic message.
func (h *Handler) respondError(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)

	if kind == apperr.KindInternal {
		h.logger().Error("request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(apperr.Status(kind), gin.H{"error": err.Error()})
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func invalidRequest(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
}
