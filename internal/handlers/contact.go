package handlers

import (
	"net/http"

	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/gin-gonic/gin"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) SubmitContact(ctx *gin.Context) {
	var body ContactRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		invalidRequest(ctx)
		return
	}

	msg, err := h.Contacts.Submit(services.ContactInput{
		Name:    body.Name,
		Phone:   body.Phone,
		Email:   body.Email,
		Message: body.Message,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "contact": msg})
}
