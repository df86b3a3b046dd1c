package websocket

import (
	"errors"
	"sync"
	"time"
)

// ErrMockClosed is returned by a MockConnection after Close.
var ErrMockClosed = errors.New("connection closed")

// MockConnection is an in-memory Connection for tests. ReadMessage blocks
// until a message is queued with AddReadMessage or the connection is closed.
type MockConnection struct {
	mu       sync.Mutex
	written  [][]byte
	closed   bool
	incoming chan MockMessage
	done     chan struct{}

	ReadLimit     int64
	RemoteAddress string
	PongHandler   func(string) error
}

// MockMessage is one queued inbound frame.
type MockMessage struct {
	Type int
	Data []byte
	Err  error
}

// NewMockConnection creates an open mock connection.
func NewMockConnection() *MockConnection {
	return &MockConnection{
		incoming:      make(chan MockMessage, 16),
		done:          make(chan struct{}),
		RemoteAddress: "127.0.0.1:8080",
	}
}

// WriteMessage records data unless the connection is closed.
func (m *MockConnection) WriteMessage(_ int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMockClosed
	}
	m.written = append(m.written, append([]byte(nil), data...))
	return nil
}

// ReadMessage returns the next queued message.
func (m *MockConnection) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.incoming:
		return msg.Type, msg.Data, msg.Err
	case <-m.done:
		return 0, nil, ErrMockClosed
	}
}

// Close unblocks pending reads. It is safe to call more than once.
func (m *MockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *MockConnection) SetReadDeadline(time.Time) error  { return nil }
func (m *MockConnection) SetWriteDeadline(time.Time) error { return nil }

func (m *MockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadLimit = limit
}

func (m *MockConnection) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PongHandler = h
}

func (m *MockConnection) RemoteAddr() string { return m.RemoteAddress }

// AddReadMessage queues an inbound frame.
func (m *MockConnection) AddReadMessage(messageType int, data []byte, err error) {
	m.incoming <- MockMessage{Type: messageType, Data: data, Err: err}
}

// Written returns a copy of every frame written so far.
func (m *MockConnection) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}

// IsClosed reports whether Close was called.
func (m *MockConnection) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
