package types

// LoginRequest carries the session gate credential
type LoginRequest struct {
	Credential string `json:"credential"`
}

// OpenRequest opens a window for an application
type OpenRequest struct {
	AppID string `json:"app_id" binding:"required"`
}

// MoveRequest updates a window's stored position
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ResizeRequest updates a window's stored size
type ResizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID   string                 `json:"tool_id" binding:"required"`
	Params   map[string]interface{} `json:"params"`
	WindowID *string                `json:"window_id,omitempty"`
}

// WSMessage represents a WebSocket command from the client
type WSMessage struct {
	Type     string `json:"type"`
	AppID    string `json:"app_id,omitempty"`
	WindowID string `json:"window_id,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}
