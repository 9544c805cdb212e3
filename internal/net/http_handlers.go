package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net/ws"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

// HTTPHandlerConfig wires the HTTP routes.
type HTTPHandlerConfig struct {
	Sockets     *ws.Handler
	Counters    *telemetry.Counters
	RouterStats func() logging.RouterStats
	Locations   func() []string
	TickRate    int
	Logger      telemetry.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type diagnosticsPayload struct {
	Status     string              `json:"status"`
	ServerTime int64               `json:"serverTime"`
	TickRate   int                 `json:"tickRate"`
	Sessions   []string            `json:"sessions"`
	Locations  []string            `json:"locations"`
	Telemetry  map[string]uint64   `json:"telemetry"`
	Logging    logging.RouterStats `json:"logging"`
}

// NewHTTPHandler builds the server mux.
func NewHTTPHandler(cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(nil)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		payload := diagnosticsPayload{
			Status:     "ok",
			ServerTime: now().UnixMilli(),
			TickRate:   cfg.TickRate,
			Sessions:   []string{},
			Locations:  []string{},
			Telemetry:  cfg.Counters.Snapshot(),
		}
		if cfg.Sockets != nil {
			payload.Sessions = cfg.Sockets.Sessions()
		}
		if cfg.Locations != nil {
			payload.Locations = cfg.Locations()
		}
		if cfg.RouterStats != nil {
			payload.Logging = cfg.RouterStats()
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Printf("failed to encode diagnostics: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	if cfg.Sockets != nil {
		mux.HandleFunc("/ws", cfg.Sockets.Handle)
	}

	return mux
}

func httpError(w nethttp.ResponseWriter, message string, status int) {
	nethttp.Error(w, message, status)
}
