// internal/server/stream.go
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tamzrod/ntc-dashboard/internal/duration"
	"github.com/tamzrod/ntc-dashboard/internal/metrics"
	"github.com/tamzrod/ntc-dashboard/internal/telemetry"
)

// Stream message types.
const (
	MessageTick   = "tick"
	MessageConfig = "config"
	MessageStatus = "status"
	MessagePing   = "ping"
)

const (
	subscriberBuffer = 16
	writeWait        = 10 * time.Second
	pingPeriod       = 30 * time.Second
	readWait         = 60 * time.Second
)

// StreamMessage represents a message sent over the WebSocket.
type StreamMessage struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TickData is the payload of a tick message.
type TickData struct {
	Step   int            `json:"step"`
	Label  string         `json:"label"`
	Values telemetry.Tick `json:"values"`
}

// NewTickData describes the tick that brought the buffer to length.
func NewTickData(tick telemetry.Tick, length int) TickData {
	step := length - 1
	if step < 0 {
		step = 0
	}
	return TickData{
		Step:   step,
		Label:  duration.Format(uint64(step)),
		Values: tick,
	}
}

// ---- hub ----

// Hub fans messages out to websocket subscribers.
// Publish never blocks; a subscriber that falls behind misses messages.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]chan StreamMessage
	closed bool

	logger  zerolog.Logger
	metrics *metrics.Recorder
}

func NewHub(logger zerolog.Logger, m *metrics.Recorder) *Hub {
	return &Hub{
		subs:    make(map[uuid.UUID]chan StreamMessage),
		logger:  logger,
		metrics: m,
	}
}

// Subscribe registers a subscriber. The channel is closed by the returned cancel or by Close.
func (h *Hub) Subscribe() (uuid.UUID, <-chan StreamMessage, func()) {
	id := uuid.New()
	ch := make(chan StreamMessage, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return id, ch, func() {}
	}
	h.subs[id] = ch
	n := len(h.subs)
	h.mu.Unlock()

	h.metrics.SetStreamClients(n)

	return id, ch, func() { h.unsubscribe(id) }
}

func (h *Hub) unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(ch)
	}
	n := len(h.subs)
	h.mu.Unlock()

	if ok {
		h.metrics.SetStreamClients(n)
	}
}

func (h *Hub) Publish(msg StreamMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			h.logger.Debug().
				Str("subscriber", id.String()).
				Str("type", msg.Type).
				Msg("stream subscriber lagging, message dropped")
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.metrics.SetStreamClients(0)
}

// ---- websocket ----

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return s.opts.AllowedOrigin == "*" || origin == "" || origin == s.opts.AllowedOrigin
		},
	}
}

// handleStream pushes tick, config and status messages until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close()

	id, msgs, cancelSub := s.hub.Subscribe()
	defer cancelSub()

	log := s.logger.With().Str("subscriber", id.String()).Str("remote_addr", r.RemoteAddr).Logger()
	log.Info().Msg("stream client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go readPump(ctx, conn, cancel)

	// Initial state so a fresh client can render without waiting for a tick.
	if err := s.sendInitial(conn); err != nil {
		log.Debug().Err(err).Msg("stream initial write failed")
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stream client disconnected")
			return

		case msg, ok := <-msgs:
			if !ok {
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait),
				)
				return
			}
			if err := writeMessage(conn, msg); err != nil {
				log.Debug().Err(err).Msg("stream write failed")
				return
			}

		case <-ping.C:
			if err := writeMessage(conn, StreamMessage{Type: MessagePing, Timestamp: time.Now()}); err != nil {
				log.Debug().Err(err).Msg("stream ping failed")
				return
			}
		}
	}
}

func (s *Server) sendInitial(conn *websocket.Conn) error {
	now := time.Now()

	if v, err := s.opts.Controller.View(); err == nil {
		if err := writeMessage(conn, StreamMessage{Type: MessageConfig, Data: v, Timestamp: now}); err != nil {
			return err
		}
	}
	return writeMessage(conn, StreamMessage{Type: MessageStatus, Data: s.opts.Tracker.View(), Timestamp: now})
}

func writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// readPump discards client frames and cancels on disconnect.
func readPump(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
	}
}
