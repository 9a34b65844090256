package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/genomeviz/exonview/internal/diagram"
	"github.com/genomeviz/exonview/internal/overlay"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pointerEvent is the incoming WebSocket message format.
type pointerEvent struct {
	Type   string `json:"type"`   // "activate" or "deactivate"
	Target string `json:"target"` // overlay id, for "activate"
}

// stateMessage is the outgoing WebSocket message format.
type stateMessage struct {
	Type    string `json:"type"` // "state" or "error"
	Active  string `json:"active,omitempty"`
	Visible bool   `json:"visible"`
	Error   string `json:"error,omitempty"`
}

// handleWebSocket attaches one client to a diagram session. Incoming
// pointer events are applied through the session dispatcher; every state
// change on the session, from this client or any other, is pushed back out.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, diagram.ErrNotFound) {
			http.Error(w, "diagram not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Register the watcher before any event from this client can be applied,
	// then queue a snapshot so a new client starts from the current state
	// instead of waiting for the next event.
	states := sess.Watch(ctx)
	outbound := make(chan stateMessage, 8)
	if st, err := sess.State(ctx); err == nil {
		outbound <- stateFromOverlay(st)
	}

	// Writer: forward broadcast states to this client. gorilla connections
	// allow one concurrent writer, so all writes happen here.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case st, ok := <-states:
				if !ok {
					return
				}
				sendState(conn, stateFromOverlay(st))
			case msg := <-outbound:
				sendState(conn, msg)
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var ev pointerEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			outbound <- stateMessage{Type: "error", Error: "invalid message format"}
			continue
		}

		switch ev.Type {
		case string(overlay.EventActivate):
			if ev.Target == "" {
				outbound <- stateMessage{Type: "error", Error: "target is required"}
				continue
			}
			s.applyEvent(ctx, sess, overlay.Event{Kind: overlay.EventActivate, Target: ev.Target}, outbound)
		case string(overlay.EventDeactivate):
			s.applyEvent(ctx, sess, overlay.Event{Kind: overlay.EventDeactivate}, outbound)
		default:
			outbound <- stateMessage{Type: "error", Error: "unknown event type: " + ev.Type}
		}
	}
}

// applyEvent routes one event through the session. An unknown activate
// target is reported to this client only; the session and its other
// watchers are unaffected.
func (s *Server) applyEvent(ctx context.Context, sess *diagram.Session, ev overlay.Event, outbound chan<- stateMessage) {
	st, err := sess.Apply(ctx, ev)
	if err != nil {
		outbound <- stateMessage{Type: "error", Error: err.Error()}
		return
	}
	if st.Err != nil {
		outbound <- stateMessage{Type: "error", Error: st.Err.Error()}
	}
}

func stateFromOverlay(st overlay.State) stateMessage {
	return stateMessage{Type: "state", Active: st.Active, Visible: st.Visible}
}

func sendState(conn *websocket.Conn, msg stateMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}
