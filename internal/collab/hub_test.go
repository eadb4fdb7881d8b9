package collab

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func drain(c *Conn) [][]byte {
	var out [][]byte
	for {
		select {
		case f, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, f)
		default:
			return out
		}
	}
}

func join(t *testing.T, h *Hub, buffer int) *Conn {
	t.Helper()
	c := NewConn("", buffer)
	require.True(t, h.Register(c))
	return c
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	h := NewHub(zap.NewNop())
	a, b, c := join(t, h, 8), join(t, h, 8), join(t, h, 8)

	n := h.Broadcast(a, []byte("e1"))
	assert.Equal(t, 2, n)
	assert.Empty(t, drain(a))
	assert.Equal(t, [][]byte{[]byte("e1")}, drain(b))
	assert.Equal(t, [][]byte{[]byte("e1")}, drain(c))

	h.Unregister(c)
	assert.Equal(t, StateClosed, c.State())

	n = h.Broadcast(a, []byte("e2"))
	assert.Equal(t, 1, n)
	assert.Equal(t, [][]byte{[]byte("e2")}, drain(b))
	assert.Empty(t, drain(c))
}

func TestHub_LateJoinerGetsNoBacklog(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := join(t, h, 8)
	h.Broadcast(a, []byte("before"))

	b := join(t, h, 8)
	assert.Empty(t, drain(b))
}

func TestConn_StateMachine(t *testing.T) {
	c := NewConn("", 1)
	assert.Equal(t, StateConnecting, c.State())

	require.True(t, c.Open())
	assert.Equal(t, StateOpen, c.State())
	assert.False(t, c.Open())

	c.Close()
	c.Close()
	assert.Equal(t, StateClosed, c.State())
	assert.False(t, c.Open())
	assert.Equal(t, "closed", c.State().String())
}

func TestHub_RegisterClosedConnFails(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := NewConn("", 1)
	c.Close()
	assert.False(t, h.Register(c))
	assert.Zero(t, h.Count())
}

func TestHub_SlowConsumerIsDropped(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := join(t, h, 8)
	slow := join(t, h, 1)

	h.Broadcast(a, []byte("1"))
	h.Broadcast(a, []byte("2"))

	assert.Equal(t, StateClosed, slow.State())
	assert.Equal(t, 1, h.Count())
}

func TestHub_PerSenderOrder(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := join(t, h, 128)
	b := join(t, h, 128)

	for i := 0; i < 100; i++ {
		h.Broadcast(a, []byte(fmt.Sprint(i)))
	}
	got := drain(b)
	require.Len(t, got, 100)
	for i, f := range got {
		assert.Equal(t, fmt.Sprint(i), string(f))
	}
}

func TestHub_ConcurrentMembership(t *testing.T) {
	h := NewHub(zap.NewNop())
	sender := join(t, h, 1024)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := NewConn("", 1024)
			h.Register(c)
			h.Unregister(c)
		}()
		go func() {
			defer wg.Done()
			h.Broadcast(sender, []byte("x"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, h.Count())
}

func TestRelay(t *testing.T) {
	out, err := Relay([]byte(`{"event":"code-change","data":{"language":"go","code":"package main"}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"receive-code","data":{"language":"go","code":"package main"}}`, string(out))

	_, err = Relay([]byte(`{"event":"chat","data":1}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Relay([]byte(`not json`))
	assert.Error(t, err)
}
