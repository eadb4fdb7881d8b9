package collab

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of a connection.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultSendBuffer is how many outbound frames a connection may have queued
// before the hub gives up on it.
const DefaultSendBuffer = 256

// Conn is one live client link. The transport drains Send and feeds inbound
// frames to Hub.Broadcast.
type Conn struct {
	ID        string
	CreatedAt time.Time
	UserID    string

	state     atomic.Int32
	send      chan []byte
	closeOnce sync.Once
}

func NewConn(userID string, buffer int) *Conn {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &Conn{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		UserID:    userID,
		send:      make(chan []byte, buffer),
	}
}

func (c *Conn) State() State {
	return State(c.state.Load())
}

// Open marks the handshake as complete. It fails once the connection is closed.
func (c *Conn) Open() bool {
	return c.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen))
}

// Send is closed when the connection closes.
func (c *Conn) Send() <-chan []byte {
	return c.send
}

// Close is terminal and safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		close(c.send)
	})
}

// enqueue must be called with the hub's read lock held so it never races Close.
func (c *Conn) enqueue(frame []byte) bool {
	if c.State() != StateOpen {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}
