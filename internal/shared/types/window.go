package types

// Geometry is a window's stored (restore) position and size
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bounds is the rectangle a window occupies on screen
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window represents one open instance of an application
type Window struct {
	ID        string   `json:"id"`
	AppID     string   `json:"app_id"`
	Title     string   `json:"title"`
	Geometry  Geometry `json:"geometry"`
	Stacking  uint64   `json:"stacking"`
	Minimized bool     `json:"minimized"`
	Maximized bool     `json:"maximized"`
}

// Snapshot is an immutable view of the window set at one instant
type Snapshot struct {
	Windows []Window `json:"windows"` // Creation order
	Focused string   `json:"focused,omitempty"`
	Counter uint64   `json:"counter"` // Highest stacking value ever assigned
}

// Find returns the window with the given id
func (s Snapshot) Find(id string) (Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// WindowStats contains window manager statistics
type WindowStats struct {
	Total     int    `json:"total"`
	Minimized int    `json:"minimized"`
	Maximized int    `json:"maximized"`
	Focused   string `json:"focused,omitempty"`
	Counter   uint64 `json:"counter"`
}
