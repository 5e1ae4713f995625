package http

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/service"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *session.Manager
	apps     *registry.Manager
	services *service.Registry
	viewport desktop.Viewport
	logger   *zap.Logger
	started  time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(
	sessions *session.Manager,
	apps *registry.Manager,
	services *service.Registry,
	viewport desktop.Viewport,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		sessions: sessions,
		apps:     apps,
		services: services,
		viewport: viewport,
		logger:   logger,
		started:  time.Now(),
	}
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"uptime_seconds":   int64(time.Since(h.started).Seconds()),
		"sessions":         h.sessions.Count(),
		"applications":     h.apps.Len(),
		"service_registry": h.services.Stats(),
	})
}

// Login runs the session gate and starts a desktop
func (h *Handlers) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.sessions.Login(req.Credential)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   d.Token,
		"session": d.Info(),
		"frame":   h.frame(d),
	})
}

// Logout ends the caller's desktop session
func (h *Handlers) Logout(c *gin.Context) {
	d := middleware.Desktop(c)
	ok := h.sessions.Logout(d.Token)

	c.JSON(http.StatusOK, gin.H{
		"success":    ok,
		"session_id": d.ID.String(),
	})
}

// Desktop returns the frame the client should render
func (h *Handlers) Desktop(c *gin.Context) {
	c.JSON(http.StatusOK, h.frame(middleware.Desktop(c)))
}

// ListWindows lists live windows back to front
func (h *Handlers) ListWindows(c *gin.Context) {
	d := middleware.Desktop(c)

	c.JSON(http.StatusOK, gin.H{
		"windows": d.Windows.List(),
		"stats":   d.Windows.Stats(),
	})
}

// OpenWindow opens a window for an application
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req types.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateID(req.AppID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := middleware.Desktop(c)
	h.opened(c, d, func() (string, error) { return d.Windows.Open(req.AppID) })
}

// CloseWindow removes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.mutate(c, func(m *window.Manager, id string) bool { return m.Close(id) })
}

// MinimizeWindow hides a window
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.mutate(c, func(m *window.Manager, id string) bool { return m.Minimize(id) })
}

// MaximizeWindow toggles the maximized flag
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.mutate(c, func(m *window.Manager, id string) bool { return m.ToggleMaximize(id) })
}

// FocusWindow brings a window to front
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.mutate(c, func(m *window.Manager, id string) bool { return m.Focus(id) })
}

// MoveWindow updates a window's stored position
func (h *Handlers) MoveWindow(c *gin.Context) {
	var req types.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(m *window.Manager, id string) bool { return m.Move(id, req.X, req.Y) })
}

// ResizeWindow updates a window's stored size
func (h *Handlers) ResizeWindow(c *gin.Context) {
	var req types.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(m *window.Manager, id string) bool { return m.Resize(id, req.Width, req.Height) })
}

// Dock returns the dock entries and the open indicator set
func (h *Handlers) Dock(c *gin.Context) {
	d := middleware.Desktop(c)

	c.JSON(http.StatusOK, gin.H{
		"entries":   d.Dock.Entries(),
		"open_apps": d.Dock.OpenApps(),
	})
}

// SelectDock handles a click on a dock icon
func (h *Handlers) SelectDock(c *gin.Context) {
	appID := c.Param("app_id")

	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := middleware.Desktop(c)
	h.opened(c, d, func() (string, error) { return d.Dock.Select(appID) })
}

// ListRegistryApps lists the application catalogue
func (h *Handlers) ListRegistryApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":  h.apps.Info(),
		"count": h.apps.Len(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	if err := utils.ValidateCategory(categoryStr, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.services.List(category),
		"stats":    h.services.Stats(),
	})
}

// ExecuteService executes a service tool. When the call names a window,
// the window's content must list the service.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateToolID(req.ToolID, "tool_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateParams(req.Params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	serviceID, err := service.ParseToolID(req.ToolID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var appCtx *types.Context
	if req.WindowID != nil {
		d := middleware.Desktop(c)
		win, ok := d.Windows.Get(*req.WindowID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": window.ErrNotFound.Error()})
			return
		}

		content, ok := h.apps.Content(win.AppID)
		if !ok || !slices.Contains(content.Services(), serviceID) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "application " + win.AppID + " may not call " + serviceID,
			})
			return
		}

		appID := win.AppID
		appCtx = &types.Context{WindowID: req.WindowID, AppID: &appID}
	}

	result, err := h.services.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrInvalidToolID):
			status = http.StatusBadRequest
		}
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) frame(d *session.Desktop) desktop.Frame {
	return desktop.Project(d.Windows.Snapshot(), h.apps, h.viewport)
}

// opened answers an open or dock select. An unknown application is a
// configuration defect and is reported, never swallowed.
func (h *Handlers) opened(c *gin.Context, d *session.Desktop, open func() (string, error)) {
	windowID, err := open()
	if err != nil {
		if errors.Is(err, window.ErrUnknownApplication) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to open window", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	win, _ := d.Windows.Get(windowID)
	c.JSON(http.StatusOK, gin.H{
		"window_id": windowID,
		"window":    win,
	})
}

// mutate applies a window operation named by the :id parameter. A stale
// id is a no-op reported as applied=false.
func (h *Handlers) mutate(c *gin.Context, op func(m *window.Manager, id string) bool) {
	windowID := c.Param("id")

	if err := utils.ValidateID(windowID, "window_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := middleware.Desktop(c)
	applied := op(d.Windows, windowID)

	c.JSON(http.StatusOK, gin.H{
		"applied":   applied,
		"window_id": windowID,
	})
}
