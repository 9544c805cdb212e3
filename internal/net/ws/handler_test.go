package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net/proto"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/sim"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
)

type fakeQueue struct {
	mu     sync.Mutex
	cmds   []sim.Command
	reject string
}

func (q *fakeQueue) Enqueue(cmd sim.Command) (bool, string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.reject != "" {
		return false, q.reject
	}
	q.cmds = append(q.cmds, cmd)
	return true, ""
}

func (q *fakeQueue) commands() []sim.Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]sim.Command(nil), q.cmds...)
}

func (q *fakeQueue) setReject(reason string) {
	q.mu.Lock()
	q.reject = reason
	q.mu.Unlock()
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, out any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		t.Fatalf("failed to decode %s: %v", payload, err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHandlerSessionLifecycle(t *testing.T) {
	queue := &fakeQueue{}
	counters := telemetry.NewCounters()
	handler := NewHandler(queue, HandlerConfig{
		Metrics:  counters,
		TickRate: 60,
		Map:      proto.MapInfo{Name: "Farm", Cols: 8, Rows: 6, TileSize: 64},
	})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	var welcome proto.WelcomeMessage
	readJSON(t, conn, &welcome)
	if welcome.Type != proto.TypeWelcome || welcome.SessionID == "" || welcome.Map.Name != "Farm" || welcome.TickRate != 60 {
		t.Fatalf("unexpected welcome %+v", welcome)
	}
	if ids := handler.Sessions(); len(ids) != 1 || ids[0] != welcome.SessionID {
		t.Fatalf("expected session %s registered, got %v", welcome.SessionID, ids)
	}
	if counters.Value(telemetry.KeyConnectedClients) != 1 {
		t.Fatalf("expected one connected client")
	}

	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeClick, X: 96, Y: 32}); err != nil {
		t.Fatalf("write click: %v", err)
	}
	waitFor(t, "the click to be queued", func() bool { return len(queue.commands()) == 1 })
	cmd := queue.commands()[0]
	if cmd.Type != sim.CommandClick || cmd.ActorID != welcome.SessionID || cmd.Pointer.X != 96 {
		t.Fatalf("unexpected queued command %+v", cmd)
	}

	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeHeartbeat, SentAt: time.Now().UnixMilli()}); err != nil {
		t.Fatalf("write heartbeat: %v", err)
	}
	var heartbeat proto.HeartbeatMessage
	readJSON(t, conn, &heartbeat)
	if heartbeat.Type != proto.TypeHeartbeat || heartbeat.ServerTime == 0 {
		t.Fatalf("unexpected heartbeat %+v", heartbeat)
	}

	queue.setReject(sim.CommandRejectQueueFull)
	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeReset, Seq: 9}); err != nil {
		t.Fatalf("write reset: %v", err)
	}
	var reject proto.CommandRejectMessage
	readJSON(t, conn, &reject)
	if reject.Type != proto.TypeCommandReject || reject.Seq != 9 || reject.Reason != sim.CommandRejectQueueFull || !reject.Retry {
		t.Fatalf("unexpected reject %+v", reject)
	}

	handler.Broadcast(sim.Snapshot{Tick: 4, Characters: []sim.CharacterSnapshot{{ID: "farmer", Phase: "Idle"}}})
	var state proto.StateMessage
	readJSON(t, conn, &state)
	if state.Type != proto.TypeState || state.Tick != 4 || len(state.Characters) != 1 || state.Characters[0].ID != "farmer" {
		t.Fatalf("unexpected state %+v", state)
	}

	conn.Close()
	waitFor(t, "the session to be dropped", func() bool { return len(handler.Sessions()) == 0 })
	if counters.Value(telemetry.KeyConnectedClients) != 0 {
		t.Fatalf("expected no connected clients")
	}
}

func TestHandlerIgnoresMalformedAndUnknownMessages(t *testing.T) {
	queue := &fakeQueue{}
	handler := NewHandler(queue, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	var welcome proto.WelcomeMessage
	readJSON(t, conn, &welcome)

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`))
	conn.WriteJSON(proto.ClientMessage{Type: "teleport"})
	conn.WriteJSON(proto.ClientMessage{Type: proto.TypeJoystick, DX: 1})
	waitFor(t, "the joystick to be queued", func() bool { return len(queue.commands()) == 1 })
	if got := queue.commands()[0]; got.Type != sim.CommandJoystick || got.Joystick.DX != 1 {
		t.Fatalf("expected only the joystick command, got %+v", got)
	}
}
