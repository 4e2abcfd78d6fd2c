package handlers

import (
	"net/http"

	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/models"
	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/ecophos-dev/ecophos/internal/types"
	"github.com/ecophos-dev/ecophos/internal/utils"
	"github.com/gin-gonic/gin"
)

type AdminLoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) AdminLogin(ctx *gin.Context) {
	var body AdminLoginRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		invalidRequest(ctx)
		return
	}

	login := body.Username
	if login == "" {
		login = body.Email
	}

	admin, err := h.Admin.Login(login, body.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	identity := auth.Identity{
		ID:    admin.ID,
		Email: admin.Email,
		Name:  admin.DisplayName(),
		Role:  models.RoleAdmin,
	}

	if err := h.Sessions.Start(ctx.Writer, identity); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, identity)
}

func (h *Handler) AdminMe(ctx *gin.Context) {
	identity, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, identity)
}

func (h *Handler) ListUsers(ctx *gin.Context) {
	users := h.Admin.ListUsers()

	response := make([]types.UserSummary, 0, len(users))
	for _, u := range users {
		response = append(response, types.NewUserSummary(u))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		invalidRequest(ctx)
		return
	}

	user, err := h.Admin.CreateUser(services.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Password: body.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewUserSummary(user))
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	userID, err := utils.GetPathParam(ctx, "id")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	deleted, err := h.Admin.DeleteUser(userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "deletedProjects": deleted})
}

func (h *Handler) ListContacts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.Contacts.List())
}
