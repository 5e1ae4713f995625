package terminal

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/id"
)

// ErrSessionNotFound means the session id is unknown or was killed
var ErrSessionNotFound = errors.New("terminal session not found")

const (
	Prompt      = "root@nexus:~$"
	DefaultUser = "admin"
	historySize = 1000
	dateLayout  = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

// Banner is printed when a session opens
var Banner = []string{
	"Welcome to NexusOS Kernel v1.0.4",
	`Type "help" for commands.`,
}

// Manager manages terminal sessions
type Manager struct {
	sessions sync.Map // map[string]*Session
	now      func() time.Time
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{now: time.Now}
}

// CreateSession opens a console and prints the banner
func (m *Manager) CreateSession(user string) *SessionInfo {
	if user == "" {
		user = DefaultUser
	}

	session := &Session{
		ID:        id.Default().GenerateWithPrefix("term"),
		User:      user,
		StartedAt: m.now(),
		lines:     NewBuffer(historySize),
	}
	session.lines.Write(Banner...)

	m.sessions.Store(session.ID, session)
	return session.info()
}

// Execute runs one command line. Matching ignores case and surrounding
// whitespace.
func (m *Manager) Execute(sessionID, command string) (Output, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return Output{}, err
	}

	out := Output{Lines: []string{fmt.Sprintf("%s %s", Prompt, command)}}

	switch strings.ToLower(strings.TrimSpace(command)) {
	case "help":
		out.Lines = append(out.Lines, "Available commands: help, clear, date, whoami, reboot, ai")
	case "date":
		out.Lines = append(out.Lines, m.now().Format(dateLayout))
	case "clear":
		session.lines.Reset()
		return Output{Lines: []string{}, Clear: true}, nil
	case "whoami":
		out.Lines = append(out.Lines, session.User)
	case "ai":
		out.Lines = append(out.Lines, "Nexus AI subsystem is active. Access via the Desktop Dock.")
	case "reboot":
		out.Lines = append(out.Lines, "System reboot initiated...")
		out.Reboot = true
	case "":
	default:
		out.Lines = append(out.Lines, "Command not found: "+command)
	}

	session.lines.Write(out.Lines...)
	return out, nil
}

// History returns the session's scrollback oldest first
func (m *Manager) History(sessionID string) ([]string, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.lines.Lines(), nil
}

// Kill closes a session
func (m *Manager) Kill(sessionID string) error {
	value, ok := m.sessions.LoadAndDelete(sessionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	session := value.(*Session)
	session.mu.Lock()
	session.closed = true
	session.mu.Unlock()
	return nil
}

// ListSessions returns all active sessions
func (m *Manager) ListSessions() []SessionInfo {
	sessions := []SessionInfo{}
	m.sessions.Range(func(_, value interface{}) bool {
		sessions = append(sessions, *value.(*Session).info())
		return true
	})
	return sessions
}

// GetSession retrieves session info
func (m *Manager) GetSession(sessionID string) (*SessionInfo, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.info(), nil
}

func (m *Manager) get(sessionID string) (*Session, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return value.(*Session), nil
}

func (s *Session) info() *SessionInfo {
	s.mu.RLock()
	active := !s.closed
	s.mu.RUnlock()

	return &SessionInfo{
		ID:        s.ID,
		User:      s.User,
		StartedAt: s.StartedAt,
		Active:    active,
		Lines:     len(s.lines.Lines()),
	}
}
