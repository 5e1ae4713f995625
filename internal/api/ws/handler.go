package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	replyBuffer    = 16
)

// Handler manages WebSocket connections. Each connection is bound to one
// desktop and receives a frame after every change to its window set.
type Handler struct {
	sessions middleware.Sessions
	apps     desktop.Registry
	viewport desktop.Viewport
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions middleware.Sessions, apps desktop.Registry, viewport desktop.Viewport, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		apps:     apps,
		viewport: viewport,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
}

// WithMetrics adds connection and message metrics
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection authenticates the token, upgrades the connection and
// serves it until the client goes away
func (h *Handler) HandleConnection(c *gin.Context) {
	d, ok := h.sessions.Get(middleware.Token(c))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": session.ErrUnauthorized.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	cl := &client{
		handler: h,
		desktop: d,
		conn:    conn,
		logger:  h.logger.With(zap.String("session", logging.Redact(d.Token))),
		dirty:   make(chan struct{}, 1),
		replies: make(chan interface{}, replyBuffer),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	cl.serve()
}

// client is one live connection. Only writeLoop writes to conn.
type client struct {
	handler *Handler
	desktop *session.Desktop
	conn    *websocket.Conn
	logger  *zap.Logger

	dirty   chan struct{}    // Coalesced change notifications
	replies chan interface{} // Acks, pongs and errors
	quit    chan struct{}    // Closed when readLoop returns
	stopped chan struct{}    // Closed when writeLoop returns
}

func (cl *client) serve() {
	// The listener runs under the window manager's lock and must not block
	unsubscribe := cl.desktop.Windows.Subscribe(func(types.Snapshot) {
		select {
		case cl.dirty <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	cl.logger.Info("WebSocket client connected")
	cl.markDirty()

	go cl.writeLoop()
	cl.readLoop()

	close(cl.quit)
	<-cl.stopped
	cl.conn.Close()
	cl.logger.Info("WebSocket client disconnected")
}

func (cl *client) markDirty() {
	select {
	case cl.dirty <- struct{}{}:
	default:
	}
}

func (cl *client) readLoop() {
	cl.conn.SetReadLimit(maxMessageSize)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.WSMessage
		if err := cl.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		select {
		case <-cl.desktop.Done():
			return
		default:
		}

		cl.record("in", msg.Type)
		if reply := cl.handler.dispatch(cl.desktop, msg); reply != nil {
			select {
			case cl.replies <- reply:
			case <-cl.stopped:
				return
			}
		}
	}
}

func (cl *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(cl.stopped)
	}()

	for {
		select {
		case <-cl.dirty:
			frame := cl.handler.frame(cl.desktop)
			if err := cl.write(gin.H{"type": "frame", "frame": frame}); err != nil {
				cl.fail(err)
				return
			}
			cl.record("out", "frame")
		case reply := <-cl.replies:
			if err := cl.write(reply); err != nil {
				cl.fail(err)
				return
			}
			if m, ok := reply.(gin.H); ok {
				t, _ := m["type"].(string)
				cl.record("out", t)
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.fail(err)
				return
			}
		case <-cl.desktop.Done():
			cl.logger.Info("Desktop session ended, closing WebSocket")
			cl.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
				time.Now().Add(writeWait))
			cl.conn.Close()
			return
		case <-cl.quit:
			return
		}
	}
}

func (cl *client) write(v interface{}) error {
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteJSON(v)
}

// fail closes the connection so readLoop returns
func (cl *client) fail(err error) {
	cl.logger.Debug("WebSocket write failed", zap.Error(err))
	cl.conn.Close()
}

func (cl *client) record(direction, msgType string) {
	if cl.handler.metrics != nil {
		cl.handler.metrics.RecordWSMessage(direction, msgType)
	}
}

// dispatch applies one client command. The resulting frame, if any, is
// pushed by the subscription; the reply only acknowledges the command.
func (h *Handler) dispatch(d *session.Desktop, msg types.WSMessage) interface{} {
	wm := d.Windows

	var applied bool
	switch msg.Type {
	case "ping":
		return gin.H{"type": "pong", "timestamp": time.Now().Unix()}
	case "open":
		windowID, err := wm.Open(msg.AppID)
		if err != nil {
			return errorReply(msg.Type, err)
		}
		return gin.H{"type": "ack", "command": msg.Type, "applied": true, "window_id": windowID}
	case "close":
		applied = wm.Close(msg.WindowID)
	case "minimize":
		applied = wm.Minimize(msg.WindowID)
	case "maximize":
		applied = wm.ToggleMaximize(msg.WindowID)
	case "focus":
		applied = wm.Focus(msg.WindowID)
	case "move":
		applied = wm.Move(msg.WindowID, msg.X, msg.Y)
	case "resize":
		applied = wm.Resize(msg.WindowID, msg.Width, msg.Height)
	default:
		return errorReply(msg.Type, errors.New("unknown message type"))
	}

	return gin.H{"type": "ack", "command": msg.Type, "applied": applied, "window_id": msg.WindowID}
}

func (h *Handler) frame(d *session.Desktop) desktop.Frame {
	return desktop.Project(d.Windows.Snapshot(), h.apps, h.viewport)
}

func errorReply(command string, err error) gin.H {
	code := "error"
	if errors.Is(err, window.ErrUnknownApplication) {
		code = "unknown_application"
	}
	return gin.H{
		"type":      "error",
		"command":   command,
		"code":      code,
		"message":   err.Error(),
		"timestamp": time.Now().Unix(),
	}
}
