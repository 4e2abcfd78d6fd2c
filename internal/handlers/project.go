package handlers

import (
	"net/http"

	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/ecophos-dev/ecophos/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateTaskRequest struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Owner    string `json:"owner"`
	Desc     string `json:"desc"`
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		invalidRequest(ctx)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	project, err := h.Projects.Create(userID, body.Title, body.Description)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, h.Projects.ListOwned(userID))
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	projectID, err := utils.GetPathParam(ctx, "id")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	if err := h.Projects.Delete(userID, projectID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListAllProjects(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.Projects.ListPublic())
}

func (h *Handler) ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	projectID, err := utils.GetPathParam(ctx, "id")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	tasks, err := h.Projects.ListTasks(userID, projectID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	var body CreateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		invalidRequest(ctx)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	projectID, err := utils.GetPathParam(ctx, "id")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	task, err := h.Projects.CreateTask(userID, projectID, services.TaskInput{
		Status:   body.Status,
		Priority: body.Priority,
		Owner:    body.Owner,
		Desc:     body.Desc,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	projectID, err := utils.GetPathParam(ctx, "id")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	taskID, err := utils.GetPathParam(ctx, "tid")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	if err := h.Projects.DeleteTask(userID, projectID, taskID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ListPublicTasks(ctx *gin.Context) {
	projectID, err := utils.GetPathParam(ctx, "id")

	if err != nil {
		invalidRequest(ctx)
		return
	}

	tasks, err := h.Projects.ListPublicTasks(projectID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}
