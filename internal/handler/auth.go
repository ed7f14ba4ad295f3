package handler

import (
	"customer-insights/internal/dashboard"

	"github.com/gin-gonic/gin"
)

// Login handles POST /login
func (h *DashboardHandler) Login(c *gin.Context) {
	h.app.Dispatch(dashboard.LoginSubmitted{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	})
	back(c)
}

// ShowRegister handles GET /register
func (h *DashboardHandler) ShowRegister(c *gin.Context) {
	h.app.Dispatch(dashboard.ShowRegister{})
	back(c)
}

// ShowLogin handles GET /login
func (h *DashboardHandler) ShowLogin(c *gin.Context) {
	h.app.Dispatch(dashboard.ShowLogin{})
	back(c)
}

// Register handles POST /register
func (h *DashboardHandler) Register(c *gin.Context) {
	h.app.Dispatch(dashboard.RegisterSubmitted{
		Email:    c.PostForm("email"),
		FullName: c.PostForm("full_name"),
		Password: c.PostForm("password"),
		Confirm:  c.PostForm("confirm_password"),
	})
	back(c)
}

// Logout handles POST /logout
func (h *DashboardHandler) Logout(c *gin.Context) {
	h.app.Dispatch(dashboard.LogoutRequested{})
	back(c)
}
