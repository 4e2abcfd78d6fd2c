package handlers

import (
	"net/http"

	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/ecophos-dev/ecophos/internal/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNews(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.News.List())
}

// CreateNews takes a multipart form with title, description, datePublished
// and an image file.
func (h *Handler) CreateNews(ctx *gin.Context) {
	in := services.NewsInput{
		Title:         ctx.PostForm("title"),
		Description:   ctx.PostForm("description"),
		DatePublished: ctx.PostForm("datePublished"),
	}

	if file, err := ctx.FormFile("image"); err == nil {
		in.Image = file
	}

	item, err := h.News.Create(in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

func (h *Handler) DeleteNews(ctx *gin.Context) {
	newsID, err := utils.GetPathParam(ctx, "id")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	if err := h.News.Delete(newsID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
