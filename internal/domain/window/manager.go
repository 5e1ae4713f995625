package window

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

var (
	// ErrUnknownApplication means open() named an application the registry does not know.
	// It signals a configuration defect and must not be swallowed.
	ErrUnknownApplication = errors.New("unknown application")
	// ErrNotFound means a mutator referenced a window that is no longer live
	ErrNotFound = errors.New("window not found")
)

// New windows cascade from the origin by one step per live window
const (
	CascadeOriginX = 100
	CascadeOriginY = 80
	CascadeStep    = 40
)

// Registry resolves application descriptors
type Registry interface {
	Lookup(appID string) (types.ApplicationDescriptor, bool)
}

// Listener observes every published snapshot.
// Listeners run while the manager is locked and must not call back into it.
type Listener func(types.Snapshot)

// Manager owns the window set, the focus and the stacking counter.
// It is the only mutator of window state.
type Manager struct {
	mu        sync.Mutex
	windows   []types.Window // Protected by mu, replaced whole on every mutation
	focused   string         // Protected by mu
	counter   uint64         // Protected by mu, never decremented
	listeners map[int]Listener
	nextSub   int

	current  atomic.Pointer[types.Snapshot]
	registry Registry
	newID    func() string
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates a window manager backed by an application registry
func NewManager(registry Registry) *Manager {
	m := &Manager{
		registry:  registry,
		listeners: make(map[int]Listener),
		newID:     func() string { return string(id.NewWindowID()) },
		logger:    zap.NewNop(),
	}
	m.current.Store(&types.Snapshot{Windows: []types.Window{}})
	return m
}

// WithLogger sets the logger used for lifecycle events
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Open creates a window for appID, or restores and focuses the existing one
// when the application is single-instance. It returns the window id.
func (m *Manager) Open(appID string) (string, error) {
	desc, ok := m.registry.Lookup(appID)
	if !ok {
		m.logger.Error("Open referenced unknown application", zap.String("app_id", appID))
		m.record("open", "unknown_application")
		return "", fmt.Errorf("%w: %s", ErrUnknownApplication, appID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if desc.Singleton {
		if idx := m.indexByApp(appID); idx >= 0 {
			next := m.clone()
			next[idx].Minimized = false
			m.focusAt(next, idx)
			m.commit(next, next[idx].ID)

			m.logger.Debug("Restored single-instance window",
				zap.String("window_id", next[idx].ID),
				zap.String("app_id", appID),
				zap.Uint64("stacking", next[idx].Stacking),
			)
			m.record("open", "restored")
			return next[idx].ID, nil
		}
	}

	n := len(m.windows)
	m.counter++
	win := types.Window{
		ID:    m.newID(),
		AppID: appID,
		Title: desc.Title,
		Geometry: types.Geometry{
			X:      CascadeOriginX + n*CascadeStep,
			Y:      CascadeOriginY + n*CascadeStep,
			Width:  desc.DefaultWidth,
			Height: desc.DefaultHeight,
		},
		Stacking: m.counter,
	}

	next := append(m.clone(), win)
	m.commit(next, win.ID)

	m.logger.Debug("Opened window",
		zap.String("window_id", win.ID),
		zap.String("app_id", appID),
		zap.Uint64("stacking", win.Stacking),
	)
	m.record("open", "created")
	return win.ID, nil
}

// Close removes a window. Focus becomes none if it held focus; no other
// window is promoted.
func (m *Manager) Close(windowID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(windowID)
	if idx < 0 {
		return m.missing("close", windowID)
	}

	next := make([]types.Window, 0, len(m.windows)-1)
	next = append(next, m.windows[:idx]...)
	next = append(next, m.windows[idx+1:]...)

	focused := m.focused
	if focused == windowID {
		focused = ""
	}
	m.commit(next, focused)

	m.logger.Debug("Closed window", zap.String("window_id", windowID))
	m.record("close", "applied")
	return true
}

// Minimize hides a window without removing it
func (m *Manager) Minimize(windowID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(windowID)
	if idx < 0 {
		return m.missing("minimize", windowID)
	}

	next := m.clone()
	next[idx].Minimized = true

	focused := m.focused
	if focused == windowID {
		focused = ""
	}
	m.commit(next, focused)

	m.logger.Debug("Minimized window", zap.String("window_id", windowID))
	m.record("minimize", "applied")
	return true
}

// ToggleMaximize flips the maximized flag and brings the window to front.
// Stored geometry is left untouched.
func (m *Manager) ToggleMaximize(windowID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(windowID)
	if idx < 0 {
		return m.missing("maximize", windowID)
	}

	next := m.clone()
	next[idx].Maximized = !next[idx].Maximized
	m.focusAt(next, idx)
	m.commit(next, windowID)

	m.logger.Debug("Toggled maximize",
		zap.String("window_id", windowID),
		zap.Bool("maximized", next[idx].Maximized),
		zap.Uint64("stacking", next[idx].Stacking),
	)
	m.record("maximize", "applied")
	return true
}

// Focus raises a window above every other, restores it if minimized and
// makes it the single focused window
func (m *Manager) Focus(windowID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(windowID)
	if idx < 0 {
		return m.missing("focus", windowID)
	}

	next := m.clone()
	m.focusAt(next, idx)
	m.commit(next, windowID)

	m.logger.Debug("Focused window",
		zap.String("window_id", windowID),
		zap.Uint64("stacking", next[idx].Stacking),
	)
	m.record("focus", "applied")
	return true
}

// Move updates the stored position. While maximized the change is kept
// for when the window is restored.
func (m *Manager) Move(windowID string, x, y int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(windowID)
	if idx < 0 {
		return m.missing("move", windowID)
	}

	next := m.clone()
	next[idx].Geometry.X = x
	next[idx].Geometry.Y = y
	m.commit(next, m.focused)

	m.record("move", "applied")
	return true
}

// Resize updates the stored size. Values are accepted as given.
func (m *Manager) Resize(windowID string, width, height int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(windowID)
	if idx < 0 {
		return m.missing("resize", windowID)
	}

	next := m.clone()
	next[idx].Geometry.Width = width
	next[idx].Geometry.Height = height
	m.commit(next, m.focused)

	m.record("resize", "applied")
	return true
}

// CloseAll removes every window, used when a desktop session ends
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.windows)
	if n == 0 {
		return 0
	}
	m.commit([]types.Window{}, "")
	m.record("close_all", "applied")
	return n
}

// Snapshot returns a copy of the current window set
func (m *Manager) Snapshot() types.Snapshot {
	snap := *m.current.Load()
	snap.Windows = append([]types.Window(nil), snap.Windows...)
	return snap
}

// Get retrieves a window by ID
func (m *Manager) Get(windowID string) (types.Window, bool) {
	return m.current.Load().Find(windowID)
}

// List returns all windows ordered back to front
func (m *Manager) List() []types.Window {
	windows := m.Snapshot().Windows
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Stacking < windows[j].Stacking
	})
	return windows
}

// Focused returns the focused window id, or "" when nothing has focus
func (m *Manager) Focused() string {
	return m.current.Load().Focused
}

// Stats returns manager statistics
func (m *Manager) Stats() types.WindowStats {
	snap := m.current.Load()

	stats := types.WindowStats{
		Total:   len(snap.Windows),
		Focused: snap.Focused,
		Counter: snap.Counter,
	}
	for _, w := range snap.Windows {
		if w.Minimized {
			stats.Minimized++
		}
		if w.Maximized {
			stats.Maximized++
		}
	}
	return stats
}

// Subscribe registers a listener for published snapshots and returns a
// function that removes it
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	key := m.nextSub
	m.nextSub++
	m.listeners[key] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, key)
			m.mu.Unlock()
		})
	}
}

// focusAt assigns the next stacking value and clears minimized (must hold lock)
func (m *Manager) focusAt(next []types.Window, idx int) {
	m.counter++
	next[idx].Stacking = m.counter
	next[idx].Minimized = false
}

// commit publishes a new window set (must hold lock)
func (m *Manager) commit(next []types.Window, focused string) {
	delta := len(next) - len(m.windows)
	m.windows = next
	m.focused = focused

	snap := &types.Snapshot{
		Windows: next,
		Focused: focused,
		Counter: m.counter,
	}
	m.current.Store(snap)

	if m.metrics != nil && delta != 0 {
		m.metrics.AddWindowsOpen(delta)
	}

	for _, fn := range m.listeners {
		fn(*snap)
	}
}

// clone copies the canonical window set (must hold lock)
func (m *Manager) clone() []types.Window {
	next := make([]types.Window, len(m.windows), len(m.windows)+1)
	copy(next, m.windows)
	return next
}

func (m *Manager) indexOf(windowID string) int {
	for i := range m.windows {
		if m.windows[i].ID == windowID {
			return i
		}
	}
	return -1
}

func (m *Manager) indexByApp(appID string) int {
	for i := range m.windows {
		if m.windows[i].AppID == appID {
			return i
		}
	}
	return -1
}

// missing handles a stale window id: a silent, logged no-op
func (m *Manager) missing(op, windowID string) bool {
	m.logger.Debug("Ignoring operation on missing window",
		zap.String("op", op),
		zap.String("window_id", windowID),
		zap.Error(ErrNotFound),
	)
	m.record(op, "not_found")
	return false
}

func (m *Manager) record(op, result string) {
	if m.metrics != nil {
		m.metrics.RecordWindowOp(op, result)
	}
}
