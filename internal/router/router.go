package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/handlers"
	"github.com/ecophos-dev/ecophos/internal/media"
	"github.com/ecophos-dev/ecophos/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Handler        *handlers.Handler
	Sessions       *auth.Sessions
	AllowedOrigins []string
	MediaDir       string
	FrontendDir    string
}

// OriginAllowed reports whether a browser origin may call the API with
// credentials. An empty list allows every origin.
func OriginAllowed(allowed []string) func(origin string) bool {
	return func(origin string) bool {
		if len(allowed) == 0 || origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.Default()
	h := opts.Handler

	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  OriginAllowed(opts.AllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireUser := middleware.AuthMiddleware(opts.Sessions)
	requireAdmin := middleware.AdminMiddleware(opts.Sessions)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
			authGroup.GET("/me", requireUser, h.Me)
			authGroup.PUT("/me", requireUser, h.UpdateMe)
		}

		projects := api.Group("/projects")
		{
			projects.GET("/all", h.ListAllProjects)
			projects.GET("/public/:id/tasks", h.ListPublicTasks)

			owned := projects.Group("", requireUser)
			owned.POST("", h.CreateProject)
			owned.GET("", h.ListProjects)
			owned.GET("/mine", h.ListProjects)
			owned.DELETE("/:id", h.DeleteProject)
			owned.GET("/:id/tasks", h.ListTasks)
			owned.POST("/:id/tasks", h.CreateTask)
			owned.DELETE("/:id/tasks/:tid", h.DeleteTask)
		}

		api.POST("/contact", h.SubmitContact)
		api.GET("/news/all", h.ListNews)

		admin := api.Group("/admin")
		{
			admin.POST("/login", h.AdminLogin)
			admin.POST("/logout", h.Logout)
			admin.GET("/news/all", h.ListNews)

			gated := admin.Group("", requireAdmin)
			gated.GET("/me", h.AdminMe)
			gated.GET("/users", h.ListUsers)
			gated.POST("/users", h.CreateUser)
			gated.DELETE("/users/:id", h.DeleteUser)
			gated.GET("/contacts", h.ListContacts)
			gated.GET("/news", h.ListNews)
			gated.POST("/news", h.CreateNews)
			gated.DELETE("/news/:id", h.DeleteNews)
			gated.GET("/ws", h.AdminFeed)
		}
	}

	if opts.MediaDir != "" {
		r.Static(media.URLPrefix, opts.MediaDir)
	}

	r.NoRoute(frontend(opts.FrontendDir))

	return r
}

// frontend serves files from dir and falls back to index.html so the
// single-page app can route client-side. Unknown API paths and missing
// media files get a JSON 404.
func frontend(dir string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		urlPath := ctx.Request.URL.Path

		if urlPath == "/api" || strings.HasPrefix(urlPath, "/api/") ||
			strings.HasPrefix(urlPath, media.URLPrefix+"/") || dir == "" {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+urlPath)))
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			ctx.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		ctx.File(index)
	}
}
