package desktop

import (
	"sort"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/launcher"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Viewport is the client display the frame is laid out for
type Viewport struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	DockReserve int `json:"dock_reserve"` // Bottom strip kept clear for the dock
}

// Registry resolves application metadata and content for views
type Registry interface {
	launcher.Catalog
	Content(appID string) (registry.ContentProvider, bool)
}

// View is one window as the client draws it
type View struct {
	ID        string       `json:"id"`
	AppID     string       `json:"app_id"`
	Title     string       `json:"title"`
	Bounds    types.Bounds `json:"bounds"`
	Stacking  uint64       `json:"stacking"`
	Maximized bool         `json:"maximized"`
	Active    bool         `json:"active"`
	Component string       `json:"component"`
	Services  []string     `json:"services"`
}

// Frame is everything the client needs to render the desktop
type Frame struct {
	Windows []View           `json:"windows"` // Back to front
	Focused string           `json:"focused,omitempty"`
	Dock    []launcher.Entry `json:"dock"`
	Counter uint64           `json:"counter"`
}

// Project computes the frame for a snapshot. Minimized windows are not
// drawn but still count toward the dock.
func Project(snap types.Snapshot, reg Registry, vp Viewport) Frame {
	visible := make([]types.Window, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		if !w.Minimized {
			visible = append(visible, w)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].Stacking < visible[j].Stacking
	})

	views := make([]View, 0, len(visible))
	for _, w := range visible {
		view := View{
			ID:        w.ID,
			AppID:     w.AppID,
			Title:     w.Title,
			Bounds:    EffectiveBounds(w, vp),
			Stacking:  w.Stacking,
			Maximized: w.Maximized,
			Active:    w.ID == snap.Focused,
			Component: "Placeholder",
			Services:  []string{},
		}
		if content, ok := reg.Content(w.AppID); ok {
			view.Component = content.Component()
			view.Services = content.Services()
		}
		views = append(views, view)
	}

	return Frame{
		Windows: views,
		Focused: snap.Focused,
		Dock:    launcher.Entries(snap, reg),
		Counter: snap.Counter,
	}
}

// EffectiveBounds returns where a window is drawn. Maximized windows fill
// the viewport above the dock; stored geometry is kept for restore.
func EffectiveBounds(w types.Window, vp Viewport) types.Bounds {
	if w.Maximized {
		return types.Bounds{
			X:      0,
			Y:      0,
			Width:  vp.Width,
			Height: vp.Height - vp.DockReserve,
		}
	}
	return types.Bounds(w.Geometry)
}
