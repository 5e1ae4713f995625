package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	m := NewManager()
	m.now = func() time.Time { return time.Date(2124, 10, 24, 9, 30, 0, 0, time.UTC) }
	return m
}

func TestExecute(t *testing.T) {
	m := newTestManager()
	session := m.CreateSession("")

	tests := []struct {
		command string
		want    []string
		reboot  bool
	}{
		{"help", []string{"root@nexus:~$ help", "Available commands: help, clear, date, whoami, reboot, ai"}, false},
		{"  WhoAmI ", []string{"root@nexus:~$   WhoAmI ", "admin"}, false},
		{"date", []string{"root@nexus:~$ date", "Tue Oct 24 2124 09:30:00 GMT+0000 (UTC)"}, false},
		{"ai", []string{"root@nexus:~$ ai", "Nexus AI subsystem is active. Access via the Desktop Dock."}, false},
		{"reboot", []string{"root@nexus:~$ reboot", "System reboot initiated..."}, true},
		{"", []string{"root@nexus:~$ "}, false},
		{"ls -la", []string{"root@nexus:~$ ls -la", "Command not found: ls -la"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			out, err := m.Execute(session.ID, tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Lines)
			assert.Equal(t, tt.reboot, out.Reboot)
			assert.False(t, out.Clear)
		})
	}
}

func TestClearResetsHistory(t *testing.T) {
	m := newTestManager()
	session := m.CreateSession("operator")

	lines, err := m.History(session.ID)
	require.NoError(t, err)
	assert.Equal(t, Banner, lines)

	_, err = m.Execute(session.ID, "whoami")
	require.NoError(t, err)
	lines, _ = m.History(session.ID)
	assert.Equal(t, "operator", lines[len(lines)-1])

	out, err := m.Execute(session.ID, "clear")
	require.NoError(t, err)
	assert.True(t, out.Clear)
	assert.Empty(t, out.Lines)

	lines, _ = m.History(session.ID)
	assert.Empty(t, lines)
}

func TestKill(t *testing.T) {
	m := newTestManager()
	session := m.CreateSession("")
	assert.Len(t, m.ListSessions(), 1)

	require.NoError(t, m.Kill(session.ID))
	assert.ErrorIs(t, m.Kill(session.ID), ErrSessionNotFound)

	_, err := m.Execute(session.ID, "help")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, m.ListSessions())
}

func TestBufferDropsOldest(t *testing.T) {
	b := NewBuffer(3)
	b.Write("a", "b")
	assert.Equal(t, []string{"a", "b"}, b.Lines())

	b.Write("c", "d", "e")
	assert.Equal(t, []string{"c", "d", "e"}, b.Lines())

	b.Reset()
	assert.Empty(t, b.Lines())
}

func TestProvider(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	res, err := p.Execute(ctx, "terminal.create_session", map[string]interface{}{}, nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	sessionID := res.Data["session"].(*SessionInfo).ID

	res, err = p.Execute(ctx, "terminal.execute", map[string]interface{}{
		"session_id": sessionID,
		"command":    "whoami",
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"root@nexus:~$ whoami", "admin"}, res.Data["lines"])

	res, err = p.Execute(ctx, "terminal.execute", map[string]interface{}{"session_id": "term_gone", "command": "help"}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = p.Execute(ctx, "terminal.execute", map[string]interface{}{"session_id": sessionID}, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = p.Execute(ctx, "terminal.resize", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}
