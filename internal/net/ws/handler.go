package ws

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net/proto"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/sim"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
)

// Enqueuer stages commands for the next tick.
type Enqueuer interface {
	Enqueue(cmd sim.Command) (bool, string)
}

// HandlerConfig wires a websocket handler.
type HandlerConfig struct {
	Logger   telemetry.Logger
	Metrics  telemetry.Metrics
	Map      proto.MapInfo
	TickRate int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler upgrades clients, forwards their input to the loop and broadcasts
// tick snapshots back.
type Handler struct {
	queue    Enqueuer
	logger   telemetry.Logger
	metrics  telemetry.Metrics
	mapInfo  proto.MapInfo
	tickRate int
	now      func() time.Time
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

// NewHandler constructs a websocket handler feeding queue.
func NewHandler(queue Enqueuer, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(nil)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		queue:    queue,
		logger:   logger,
		metrics:  metrics,
		mapInfo:  cfg.Map,
		tickRate: cfg.TickRate,
		now:      now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
		sessions: make(map[string]*session),
	}
}

// Handle serves one websocket connection until it closes.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}
	sess := &session{id: uuid.NewString(), conn: conn}
	h.register(sess)
	defer h.disconnect(sess.id)

	welcome := proto.WelcomeMessage{
		Ver:       proto.Version,
		Type:      proto.TypeWelcome,
		SessionID: sess.id,
		TickRate:  h.tickRate,
		Map:       h.mapInfo,
	}
	if !h.writeJSON(sess, welcome) {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", sess.id, err)
			continue
		}
		receivedAt := h.now()
		if msg.Type == proto.TypeHeartbeat {
			if !h.writeJSON(sess, proto.NewHeartbeat(msg.SentAt, receivedAt)) {
				return
			}
			continue
		}
		cmd, err := msg.Command(sess.id, receivedAt)
		if err != nil {
			if errors.Is(err, proto.ErrUnknownType) {
				h.logger.Printf("unknown message type %q from %s", msg.Type, sess.id)
			}
			continue
		}
		if ok, reason := h.queue.Enqueue(cmd); !ok {
			if !h.writeJSON(sess, proto.NewCommandReject(msg.Seq, reason)) {
				return
			}
		}
	}
}

// Broadcast sends a tick snapshot to every session, dropping any that fail.
func (h *Handler) Broadcast(snap sim.Snapshot) {
	data, err := json.Marshal(proto.NewStateMessage(snap, h.now()))
	if err != nil {
		h.logger.Printf("failed to marshal state message: %v", err)
		return
	}
	for _, sess := range h.snapshotSessions() {
		if err := sess.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("failed to send update to %s: %v", sess.id, err)
			h.disconnect(sess.id)
		}
	}
}

// Sessions lists the connected session ids in order.
func (h *Handler) Sessions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (h *Handler) snapshotSessions() []*session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		out = append(out, sess)
	}
	return out
}

func (h *Handler) register(sess *session) {
	h.mu.Lock()
	h.sessions[sess.id] = sess
	count := len(h.sessions)
	h.mu.Unlock()
	h.metrics.Store(telemetry.KeyConnectedClients, uint64(count))
}

func (h *Handler) disconnect(id string) {
	h.mu.Lock()
	sess, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	count := len(h.sessions)
	h.mu.Unlock()
	if !ok {
		return
	}
	sess.Close()
	h.metrics.Store(telemetry.KeyConnectedClients, uint64(count))
}

func (h *Handler) writeJSON(sess *session, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal response for %s: %v", sess.id, err)
		return true
	}
	if err := sess.WriteMessage(websocket.TextMessage, data); err != nil {
		h.disconnect(sess.id)
		return false
	}
	return true
}
