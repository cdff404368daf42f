// Package server tracks the terminal sessions served by one process. Every
// session plays its own game; the hub only counts them, relays shutdown
// notices and records results.
package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// SessionHub is the interface clients use to talk to the hub.
type SessionHub interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportGameOver(clientID int, score, best int)
}

// ClientHandle represents a client's registration with the hub.
type ClientHandle struct {
	ID        int
	SessionID string
	Username  string
	EventsCh  chan ClientEvent // Events sent to the client
	Joined    time.Time
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

type gameOverReport struct {
	clientID int
	score    int
	best     int
}

// Hub registers clients, broadcasts shutdown and feeds metrics.
type Hub struct {
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	gameOverCh   chan gameOverReport
	mu           sync.RWMutex

	metrics *Metrics
	log     *log.Logger
	best    int
}

var _ SessionHub = (*Hub)(nil)

// NewHub creates a hub. metrics may be nil.
func NewHub(metrics *Metrics, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		gameOverCh:   make(chan gameOverReport, 64),
		metrics:      metrics,
		log:          logger,
	}
}

// Run processes registrations and reports. Blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case handle := <-h.registerCh:
			h.register(handle)
		case id := <-h.unregisterCh:
			h.unregister(id)
		case r := <-h.gameOverCh:
			h.recordGameOver(r)
		}
	}
}

func (h *Hub) register(handle *ClientHandle) {
	h.mu.Lock()
	h.clients[handle.ID] = handle
	n := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.activeSessions.Set(float64(n))
		h.metrics.sessionsTotal.Inc()
	}
	h.log.Info("session joined", "session", handle.SessionID, "user", handle.Username, "active", n)
}

func (h *Hub) unregister(id int) {
	h.mu.Lock()
	handle, ok := h.clients[id]
	if ok {
		close(handle.EventsCh)
		delete(h.clients, id)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	if h.metrics != nil {
		h.metrics.activeSessions.Set(float64(n))
	}
	h.log.Info("session left", "session", handle.SessionID, "user", handle.Username,
		"duration", time.Since(handle.Joined).Round(time.Second), "active", n)
}

func (h *Hub) recordGameOver(r gameOverReport) {
	h.mu.Lock()
	handle := h.clients[r.clientID]
	h.best = max(h.best, r.best, r.score)
	best := h.best
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.gameOvers.Inc()
		h.metrics.finalScores.Observe(float64(r.score))
		h.metrics.highScore.Set(float64(best))
	}

	fields := []any{"score", r.score, "high_score", r.best}
	if handle != nil {
		fields = append(fields, "session", handle.SessionID, "user", handle.Username)
	}
	h.log.Info("game over", fields...)
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. The caller should cancel the hub context after
// Shutdown returns.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if h.Count() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	h.mu.Lock()
	id := h.nextClientID
	h.nextClientID++
	h.mu.Unlock()

	handle := &ClientHandle{
		ID:        id,
		SessionID: uuid.NewString(),
		Username:  username,
		EventsCh:  make(chan ClientEvent, 16),
		Joined:    time.Now(),
	}

	h.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the hub.
func (h *Hub) UnregisterClient(clientID int) {
	h.unregisterCh <- clientID
}

// ReportGameOver records a finished round. It never blocks the caller's frame.
func (h *Hub) ReportGameOver(clientID int, score, best int) {
	select {
	case h.gameOverCh <- gameOverReport{clientID: clientID, score: score, best: best}:
	default:
		h.log.Warn("dropped game over report", "client", clientID)
	}
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Best returns the best score reported since start.
func (h *Hub) Best() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.best
}
