// Package spectate streams per-tick engine statistics to read-only
// WebSocket viewers. It is structurally the teacher's Hub/Client pair,
// narrowed to one direction: spectators only receive, so there is no
// incoming-message channel or read pump driving game logic.
package spectate

import (
	"log/slog"
	"sync"
)

// StatSnapshot is the per-tick engine state published to viewers: the
// observable counters and state hash spec.md §6 names as a boundary
// output, nothing simulation-internal beyond that.
type StatSnapshot struct {
	Frame               uint32 `json:"frame"`
	StateHash           uint32 `json:"state_hash"`
	RollbackCount       int    `json:"rollback_count"`
	RollbackFramesTotal uint64 `json:"rollback_frames_total"`
	MaxRollbackDepth    uint32 `json:"max_rollback_depth"`
}

// Hub maintains the set of connected spectators and fans out stat
// snapshots to all of them.
type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("spectator connected", "client", client.ID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			slog.Info("spectator disconnected", "client", client.ID)
		}
	}
}

// Broadcast marshals snap to JSON and fans it out to every connected
// spectator, dropping it for any client whose send buffer is full rather
// than blocking the tick loop.
func (h *Hub) Broadcast(snap StatSnapshot) {
	data, err := marshalSnapshot(snap)
	if err != nil {
		slog.Error("failed to marshal stat snapshot", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slog.Warn("spectate broadcast: client send buffer full", "client", client.ID)
		}
	}
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
