package collab

import (
	"sync"

	"go.uber.org/zap"
)

// Hub is the single room every connection joins. Membership changes are
// serialized; broadcasts read a consistent snapshot.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*Conn),
		log:   log,
	}
}

// Register opens c and adds it to the room.
func (h *Hub) Register(c *Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !c.Open() {
		return false
	}
	h.conns[c.ID] = c
	h.log.Debug("collab connection opened", zap.String("conn_id", c.ID), zap.Int("members", len(h.conns)))
	return true
}

// Unregister removes c and closes it.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	_, ok := h.conns[c.ID]
	delete(h.conns, c.ID)
	c.Close()
	members := len(h.conns)
	h.mu.Unlock()

	if ok {
		h.log.Debug("collab connection closed", zap.String("conn_id", c.ID), zap.Int("members", members))
	}
}

// Broadcast queues frame for every open member except from and returns the
// number of peers it reached. Members whose queue is full are dropped.
func (h *Hub) Broadcast(from *Conn, frame []byte) int {
	var slow []*Conn
	delivered := 0

	h.mu.RLock()
	for id, c := range h.conns {
		if from != nil && id == from.ID {
			continue
		}
		if c.enqueue(frame) {
			delivered++
			continue
		}
		slow = append(slow, c)
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow collab connection", zap.String("conn_id", c.ID))
		h.Unregister(c)
	}
	return delivered
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every member.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.conns {
		c.Close()
		delete(h.conns, id)
	}
}
