package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSink records shown frames and returns scripted key presses.
type MockSink struct {
	keys   []int
	shown  int
	polls  int
	closed bool
	mu     sync.Mutex
}

// NewMockSink creates a sink that returns keys in order, then NoKey.
func NewMockSink(keys ...int) *MockSink {
	return &MockSink{keys: keys}
}

// Show counts the frame.
func (m *MockSink) Show(frame *gocv.Mat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown++
}

// PollKey returns the next scripted key.
func (m *MockSink) PollKey() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.polls++
	if len(m.keys) == 0 {
		return NoKey
	}
	key := m.keys[0]
	m.keys = m.keys[1:]
	return key
}

// Close marks the sink closed.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Shown returns how many frames were shown.
func (m *MockSink) Shown() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Polls returns how many times PollKey was called.
func (m *MockSink) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
