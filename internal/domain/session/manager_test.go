package session

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/registry"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	gate, err := NewGate([]string{"admin", "1234"}, bcrypt.MinCost)
	require.NoError(t, err)
	reg, err := registry.NewManager(registry.Builtin(), registry.DefaultCatalog())
	require.NoError(t, err)
	return NewManager(gate, reg, nil)
}

func TestGateAuthenticate(t *testing.T) {
	gate, err := NewGate([]string{"admin", "1234"}, bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		credential string
		want       bool
	}{
		{"admin", true},
		{"1234", true},
		{"Admin", false},
		{"", false},
		{"admin ", false},
		{strings.Repeat("a", 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.credential, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Authenticate(tt.credential))
		})
	}
}

func TestNewGateRejectsBadPasswords(t *testing.T) {
	_, err := NewGate(nil, bcrypt.MinCost)
	assert.Error(t, err)

	_, err = NewGate([]string{""}, bcrypt.MinCost)
	assert.Error(t, err)
}

func TestLoginStartsEmptyDesktop(t *testing.T) {
	m := newTestManager(t)

	d, err := m.Login("admin")
	require.NoError(t, err)

	assert.Equal(t, PhaseDesktop, d.Phase)
	assert.NotEmpty(t, d.Token)
	assert.Empty(t, d.Windows.Snapshot().Windows)
	assert.Len(t, d.Dock.Entries(), 8)

	got, ok := m.Get(d.Token)
	require.True(t, ok)
	assert.Same(t, d, got)
}

func TestLoginRejected(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Login("guest")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, m.Count())
}

func TestSessionsAreIsolated(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Login("admin")
	require.NoError(t, err)
	b, err := m.Login("1234")
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)

	_, err = a.Windows.Open("terminal")
	require.NoError(t, err)

	assert.Len(t, a.Windows.Snapshot().Windows, 1)
	assert.Empty(t, b.Windows.Snapshot().Windows)
}

func TestLogoutDiscardsLayout(t *testing.T) {
	m := newTestManager(t)

	d, err := m.Login("admin")
	require.NoError(t, err)
	_, err = d.Windows.Open("finder")
	require.NoError(t, err)

	select {
	case <-d.Done():
		t.Fatal("desktop ended before logout")
	default:
	}

	assert.True(t, m.Logout(d.Token))
	assert.False(t, m.Logout(d.Token))
	assert.Empty(t, d.Windows.Snapshot().Windows)

	select {
	case <-d.Done():
	default:
		t.Fatal("logout should end the desktop")
	}

	_, ok := m.Get(d.Token)
	assert.False(t, ok)

	again, err := m.Login("admin")
	require.NoError(t, err)
	assert.Empty(t, again.Windows.Snapshot().Windows)
}

func TestMetricsTrackSessions(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m := newTestManager(t).WithMetrics(metrics)

	d, err := m.Login("admin")
	require.NoError(t, err)
	_, _ = m.Login("nope")
	_, err = d.Windows.Open("browser")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WindowsOpen))

	m.Close()
	assert.Zero(t, testutil.ToFloat64(metrics.SessionsActive))
	assert.Zero(t, testutil.ToFloat64(metrics.WindowsOpen))
}

func TestConcurrentLogin(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := m.Login("1234")
			if assert.NoError(t, err) {
				_, _ = d.Windows.Open("nexus_ai")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, m.Count())
	assert.Len(t, m.List(), 20)
}
