package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the desktop API. auth guards every route that
// acts on a desktop session.
func RegisterRoutes(router gin.IRouter, h *Handlers, auth gin.HandlerFunc) {
	router.GET("/health", h.Health)

	// Session gate
	router.POST("/session/login", h.Login)

	// Catalogue
	router.GET("/registry/apps", h.ListRegistryApps)
	router.GET("/services", h.ListServices)

	desk := router.Group("", auth)
	desk.POST("/session/logout", h.Logout)
	desk.GET("/desktop", h.Desktop)

	// Window management
	desk.GET("/windows", h.ListWindows)
	desk.POST("/windows", h.OpenWindow)
	desk.DELETE("/windows/:id", h.CloseWindow)
	desk.POST("/windows/:id/minimize", h.MinimizeWindow)
	desk.POST("/windows/:id/maximize", h.MaximizeWindow)
	desk.POST("/windows/:id/focus", h.FocusWindow)
	desk.PUT("/windows/:id/position", h.MoveWindow)
	desk.PUT("/windows/:id/size", h.ResizeWindow)

	// Dock
	desk.GET("/dock", h.Dock)
	desk.POST("/dock/:app_id", h.SelectDock)

	// Service execution
	desk.POST("/services/execute", h.ExecuteService)
}
