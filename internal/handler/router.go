package handler

import (
	"fmt"
	"net/http"

	"customer-insights/internal/config"
	"customer-insights/internal/middleware"
	"customer-insights/internal/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route of the dashboard.
func NewRouter(h *DashboardHandler, cfg config.ServerConfig) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.OnlyAllowLocal(cfg.AllowRemote), middleware.SameOrigin())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/healthz", Healthz)
	r.GET("/", h.Index)
	r.POST("/login", h.Login)
	r.GET("/login", h.ShowLogin)
	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	r.POST("/notices/dismiss", h.DismissNotices)

	authed := r.Group("/", middleware.RequireSession(h.CurrentSession))
	authed.POST("/file", h.SelectFile)
	authed.POST("/upload", h.Upload)
	authed.GET("/chart.svg", h.Chart)
	authed.GET("/export.xlsx", h.Export)

	api := r.Group("/api")
	if len(cfg.AllowOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{"GET", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", middleware.HeaderRequestID},
		}))
		api.OPTIONS("/state", func(*gin.Context) {})
	}
	api.GET("/state", h.State)

	return r, nil
}
