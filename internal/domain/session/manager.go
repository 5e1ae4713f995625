package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/launcher"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/id"
)

// ErrUnauthorized means the gate rejected the credential or the token is unknown
var ErrUnauthorized = errors.New("unauthorized")

// Phase is where a client is in the boot, login, desktop sequence
type Phase string

const (
	PhaseBoot    Phase = "boot"
	PhaseLogin   Phase = "login"
	PhaseDesktop Phase = "desktop"
)

// Desktop is one authenticated session with its own window set
type Desktop struct {
	ID        id.SessionID
	Token     string
	Phase     Phase
	CreatedAt time.Time
	Windows   *window.Manager
	Dock      *launcher.Dock

	done    chan struct{}
	endOnce sync.Once
}

// Done is closed when the session ends. Connections bound to the desktop
// must stop driving its window manager once it is closed.
func (d *Desktop) Done() <-chan struct{} {
	return d.done
}

func (d *Desktop) end() {
	d.endOnce.Do(func() {
		if d.done != nil {
			close(d.done)
		}
	})
}

// Info is the public view of a desktop session
type Info struct {
	ID        string    `json:"id"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
	Windows   int       `json:"windows"`
}

// Info returns a summary of the session
func (d *Desktop) Info() Info {
	return Info{
		ID:        d.ID.String(),
		Phase:     d.Phase,
		CreatedAt: d.CreatedAt,
		Windows:   d.Windows.Stats().Total,
	}
}

// Manager tracks desktop sessions by bearer token
type Manager struct {
	mu       sync.RWMutex
	desktops map[string]*Desktop

	gate     *Gate
	registry *registry.Manager
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates a session manager
func NewManager(gate *Gate, reg *registry.Manager, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		desktops: make(map[string]*Desktop),
		gate:     gate,
		registry: reg,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the manager and its desktops
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Login checks the credential and starts a fresh desktop. Layout is never
// restored from an earlier session.
func (m *Manager) Login(credential string) (*Desktop, error) {
	ok := m.gate.Authenticate(credential)
	if m.metrics != nil {
		m.metrics.RecordLogin(ok)
	}
	if !ok {
		m.logger.Info("Session gate rejected credential")
		return nil, ErrUnauthorized
	}

	token := uuid.NewString()
	wm := window.NewManager(m.registry).WithLogger(m.logger.ForSession(token))
	if m.metrics != nil {
		wm.WithMetrics(m.metrics)
	}

	d := &Desktop{
		ID:        id.NewSessionID(),
		Token:     token,
		Phase:     PhaseDesktop,
		CreatedAt: time.Now(),
		Windows:   wm,
		Dock:      launcher.New(wm, m.registry),
		done:      make(chan struct{}),
	}

	m.mu.Lock()
	m.desktops[token] = d
	count := len(m.desktops)
	m.mu.Unlock()

	m.setActive(count)
	m.logger.Info("Desktop session started",
		zap.String("session_id", d.ID.String()),
		zap.String("token", logging.Redact(token)),
	)
	return d, nil
}

// Get returns the desktop for a token
func (m *Manager) Get(token string) (*Desktop, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.desktops[token]
	return d, ok
}

// Logout ends a session, signals its connections and discards its windows
func (m *Manager) Logout(token string) bool {
	m.mu.Lock()
	d, ok := m.desktops[token]
	if ok {
		delete(m.desktops, token)
	}
	count := len(m.desktops)
	m.mu.Unlock()

	if !ok {
		return false
	}

	d.end()
	closed := d.Windows.CloseAll()
	m.setActive(count)
	m.logger.Info("Desktop session ended",
		zap.String("session_id", d.ID.String()),
		zap.Int("windows_closed", closed),
	)
	return true
}

// List returns a summary of every session
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Info, 0, len(m.desktops))
	for _, d := range m.desktops {
		out = append(out, d.Info())
	}
	return out
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.desktops)
}

// Close ends every session
func (m *Manager) Close() {
	m.mu.RLock()
	tokens := make([]string, 0, len(m.desktops))
	for token := range m.desktops {
		tokens = append(tokens, token)
	}
	m.mu.RUnlock()

	for _, token := range tokens {
		m.Logout(token)
	}
}

func (m *Manager) setActive(count int) {
	if m.metrics != nil {
		m.metrics.SetSessionsActive(count)
	}
}
