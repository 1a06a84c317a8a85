package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/warp/stir-engine/curve"
	"github.com/warp/stir-engine/scenario"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware already restricts browser origins
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; a scenario with a few
	// dozen meetings is well under this.
	maxMessageSize = 64 * 1024
)

// Message types on the live recompute channel.
const (
	wsAnalyze  = "analyze"
	wsAnalysis = "analysis"
	wsPing     = "ping"
	wsPong     = "pong"
	wsError    = "error"
)

// WSRequest is sent by the dashboard after every edit.
type WSRequest struct {
	Type         string         `json:"type"`
	Scenario     curve.Scenario `json:"scenario"`
	IncludeRates bool           `json:"includeRates,omitempty"`
}

// WSMessage is sent back; Data is an AnalysisResponse for "analysis".
type WSMessage struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// LiveAnalysis upgrades to a websocket. Every "analyze" message is an
// independent full recomputation; nothing is shared between messages.
// GET /api/ws
func (h *Handler) LiveAnalysis(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	send := make(chan WSMessage, 16)
	done := make(chan struct{})
	go h.wsWritePump(conn, send, done)
	h.wsReadPump(conn, send, done)
}

// wsReadPump handles requests until the peer goes away, then closes send
// so the write pump drains and exits. done is closed by the write pump
// if it stops first.
func (h *Handler) wsReadPump(conn *websocket.Conn, send chan<- WSMessage, done <-chan struct{}) {
	defer close(send)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		select {
		case send <- h.handleWSMessage(message):
		case <-done:
			return
		}
	}
}

func (h *Handler) handleWSMessage(message []byte) WSMessage {
	var req WSRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return WSMessage{Type: wsError, Error: "invalid message: " + err.Error()}
	}

	switch req.Type {
	case wsPing:
		return WSMessage{Type: wsPong}
	case wsAnalyze:
		s, err := scenario.Normalize(req.Scenario)
		if err != nil {
			return WSMessage{Type: wsError, Error: err.Error()}
		}
		return WSMessage{Type: wsAnalysis, Data: toAnalysis(s, h.analyze(s), req.IncludeRates)}
	default:
		return WSMessage{Type: wsError, Error: "unknown message type: " + req.Type}
	}
}

// wsWritePump owns all writes to conn.
func (h *Handler) wsWritePump(conn *websocket.Conn, send <-chan WSMessage, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(done)
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
