package terminal

import (
	"sync"
	"time"
)

// Session is one console opened by a terminal window
type Session struct {
	ID        string
	User      string
	StartedAt time.Time

	lines *Buffer

	mu     sync.RWMutex
	closed bool
}

// Buffer keeps the most recent console lines
type Buffer struct {
	data []string
	size int
	head int
	n    int
	mu   sync.RWMutex
}

// NewBuffer creates a buffer holding at most size lines
func NewBuffer(size int) *Buffer {
	return &Buffer{
		data: make([]string, size),
		size: size,
	}
}

// Write appends lines, dropping the oldest when full
func (b *Buffer) Write(lines ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, line := range lines {
		tail := (b.head + b.n) % b.size
		b.data[tail] = line
		if b.n == b.size {
			b.head = (b.head + 1) % b.size
		} else {
			b.n++
		}
	}
}

// Lines returns the buffered lines oldest first
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, b.n)
	for i := 0; i < b.n; i++ {
		out[i] = b.data[(b.head+i)%b.size]
	}
	return out
}

// Reset drops every line
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head, b.n = 0, 0
}

// Output is the result of one command
type Output struct {
	Lines  []string `json:"lines"`  // Echoed prompt and command output
	Clear  bool     `json:"clear"`  // Client should wipe its scrollback
	Reboot bool     `json:"reboot"` // Client should reload the desktop
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	StartedAt time.Time `json:"started_at"`
	Active    bool      `json:"active"`
	Lines     int       `json:"lines"`
}
