package testutils

import (
	"fmt"
	"io"
	"sync"
)

// MockSession implements command.Session for testing handlers in isolation.
type MockSession struct {
	*Capture

	mu      sync.RWMutex
	history []string
	stopped bool
}

// NewMockSession creates a mock session preloaded with history entries.
func NewMockSession(history ...string) *MockSession {
	return &MockSession{
		Capture: NewCapture(),
		history: append([]string(nil), history...),
	}
}

// Out implements Session.Out
func (m *MockSession) Out() io.Writer {
	return m.Capture
}

// Println implements Session.Println
func (m *MockSession) Println(a ...any) {
	_, _ = fmt.Fprintln(m.Capture, a...)
}

// Printf implements Session.Printf
func (m *MockSession) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(m.Capture, format, a...)
}

// History implements Session.History
func (m *MockSession) History() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.history...)
}

// ClearHistory implements Session.ClearHistory
func (m *MockSession) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}

// Stop implements Session.Stop
func (m *MockSession) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

// Stopped reports whether Stop was called.
func (m *MockSession) Stopped() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopped
}
