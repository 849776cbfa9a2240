package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect cross-origin during local development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsError struct {
	Error string `json:"error"`
}

// handleWS upgrades the connection and serves chat turns until the client
// disconnects. Inbound frames carry the same fields as the POST /api/chat
// body and each one produces exactly one response frame.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read failed: %v", err)
			}
			return
		}

		if len(req.Messages) == 0 {
			if err := conn.WriteJSON(wsError{Error: "messages are required"}); err != nil {
				return
			}
			continue
		}

		resp, err := s.chat(r, req, userKeyOrDefault(req.UserName))
		if err != nil {
			log.Printf("[WS] Chat turn failed: %v", err)
			if err := conn.WriteJSON(wsError{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("[WS] Write failed: %v", err)
			return
		}
	}
}
