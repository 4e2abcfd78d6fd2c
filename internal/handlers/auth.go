package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/models"
	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/ecophos-dev/ecophos/internal/types"
	"github.com/ecophos-dev/ecophos/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userIdentity(u models.User) auth.Identity {
	return auth.Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: models.RoleUser}
}

func (h *Handler) Register(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		invalidRequest(ctx)
		return
	}

	user, err := h.Auth.Register(services.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Password: body.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.Sessions.Start(ctx.Writer, userIdentity(user)); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewUserResponse(user))
}

func (h *Handler) Login(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		invalidRequest(ctx)
		return
	}

	user, err := h.Auth.Login(body.Email, body.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.Sessions.Start(ctx.Writer, userIdentity(user)); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *Handler) Logout(ctx *gin.Context) {
	h.Sessions.End(ctx.Writer)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Me(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.Auth.Profile(userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

// UpdateMe overwrites name and phone when they are present as strings.
// Anything else in the body is ignored, including a body that is valid JSON
// but not an object.
func (h *Handler) UpdateMe(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var raw any

	if err := ctx.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
		invalidRequest(ctx)
		return
	}

	body, _ := raw.(map[string]any)

	var update services.ProfileUpdate

	if name, ok := body["name"].(string); ok {
		update.Name = &name
	}
	if phone, ok := body["phone"].(string); ok {
		update.Phone = &phone
	}

	user, err := h.Auth.UpdateProfile(userID, update)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}
