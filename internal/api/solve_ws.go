package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tankplan/internal/model"
)

// WebSocket solve endpoint: each solve message is answered with one
// iteration message per fixed-point step, then a result and a complete.
// Useful for dashboards that plot the iteration trace as it is produced.

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SolveWSHandler handles /v1/solve/ws
func (s *Server) SolveWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	write := func(v any) error { return conn.WriteJSON(v) }
	writeError := func(id, msg string) {
		pl, _ := json.Marshal(map[string]string{"message": msg})
		_ = write(wsMessage{Type: "error", ID: id, Payload: pl})
		_ = write(wsMessage{Type: "complete", ID: id})
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		switch msg.Type {
		case "connection_init":
			_ = write(wsMessage{Type: "connection_ack"})
			go func() {
				ticker := time.NewTicker(20 * time.Second)
				defer ticker.Stop()
				for range ticker.C {
					if err := write(wsMessage{Type: "ping"}); err != nil {
						return
					}
				}
			}()
		case "ping":
			_ = write(wsMessage{Type: "pong"})
		case "solve":
			var req model.SolveRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				writeError(msg.ID, "invalid solve payload: "+err.Error())
				continue
			}
			if err := validateSolveRequest(&req); err != nil {
				writeError(msg.ID, err.Error())
				continue
			}
			resp, err := s.solveOne(r, req)
			if err != nil {
				writeError(msg.ID, err.Error())
				continue
			}
			for _, it := range resp.Metrics.Snapshots {
				pl, _ := json.Marshal(it)
				if err := write(wsMessage{Type: "iteration", ID: msg.ID, Payload: pl}); err != nil {
					return
				}
			}
			pl, _ := json.Marshal(resp)
			_ = write(wsMessage{Type: "result", ID: msg.ID, Payload: pl})
			_ = write(wsMessage{Type: "complete", ID: msg.ID})
		case "complete":
			// nothing held per solve; ignore
		default:
			// ignore
		}
	}
}
