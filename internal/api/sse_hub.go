package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"evodash/domain/species"
	"evodash/internal"
	"evodash/internal/dashboard"

	"github.com/gin-gonic/gin"
)

// EventPass is the SSE event name of a completed coordination pass.
const EventPass = "pass"

// PassEvent is the SSE payload announcing a completed pass. Clients refetch
// the panels they show when it arrives.
type PassEvent struct {
	PassID     string              `json:"pass_id"`
	State      species.FilterState `json:"state"`
	Records    int                 `json:"records"`
	Failures   map[string]string   `json:"failures,omitempty"`
	DurationMS float64             `json:"duration_ms"`
	Timestamp  time.Time           `json:"timestamp"`
}

// SSEHub fans pass events out to every connected browser. All clients share
// the single dashboard state, so there is no per-session routing.
type SSEHub struct {
	clients    map[chan PassEvent]bool
	clientsMu  sync.RWMutex
	register   chan chan PassEvent
	unregister chan chan PassEvent
	broadcast  chan PassEvent
	done       chan struct{}
	closeOnce  sync.Once

	// PingInterval is how long an idle stream waits before a keep-alive.
	PingInterval time.Duration

	logger *internal.Logger
}

// NewSSEHub creates a hub and starts its dispatch goroutine.
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:      make(map[chan PassEvent]bool),
		register:     make(chan chan PassEvent, 10),
		unregister:   make(chan chan PassEvent, 10),
		broadcast:    make(chan PassEvent, 100),
		done:         make(chan struct{}),
		PingInterval: 30 * time.Second,
		logger:       internal.DefaultLogger.With("sse"),
	}

	go hub.run()
	return hub
}

func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.logger.Debug("client registered (total clients: %d)", len(h.clients))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				close(client)
				h.logger.Debug("client unregistered (remaining clients: %d)", len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for client := range h.clients {
				select {
				case client <- event:
				default:
					// slow client; it catches up on the next pass
					h.logger.Debug("client channel full, skipping pass %s", event.PassID)
				}
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			h.clientsMu.Lock()
			for client := range h.clients {
				close(client)
			}
			h.clients = make(map[chan PassEvent]bool)
			h.clientsMu.Unlock()
			return
		}
	}
}

// Close stops the hub and ends every open stream.
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// PassCompleted implements dashboard.Notifier.
func (h *SSEHub) PassCompleted(report *dashboard.PassReport) {
	h.Broadcast(PassEvent{
		PassID:     report.ID.String(),
		State:      report.State,
		Records:    report.Records,
		Failures:   report.Failures,
		DurationMS: float64(report.Duration.Microseconds()) / 1000,
		Timestamp:  report.At,
	})
}

// Broadcast queues an event for every connected client. It never blocks.
func (h *SSEHub) Broadcast(event PassEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping pass %s", event.PassID)
	}
}

// HandleSSE streams pass events until the client disconnects.
func (h *SSEHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := make(chan PassEvent, 10)

	select {
	case h.register <- clientChan:
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "SSE hub registration failed"})
		return
	}

	defer func() {
		select {
		case h.unregister <- clientChan:
		default:
		}
	}()

	// send headers now so clients see the stream open before the first pass
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-clientChan:
			if !ok {
				return false
			}
			eventJSON, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(EventPass, string(eventJSON))
			return true

		case <-time.After(h.PingInterval):
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// ClientCount returns the number of connected clients.
func (h *SSEHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
