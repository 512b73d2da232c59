package websocket

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/domain"
)

// WsHub fans payment session updates out to subscribed connections.
// Clients subscribe per payment reference; a client registered with an
// empty reference receives every update (the history/dashboard view).
type WsHub struct {
	Clients    map[string]map[*websocket.Conn]bool
	Broadcast  chan WsMessage
	Register   chan *WsClient
	Unregister chan *WsClient
	Logger     zerolog.Logger
}

type WsClient struct {
	Reference string
	Conn      *websocket.Conn
}

type WsMessage struct {
	Type    string                 `json:"type"`
	Session *domain.PaymentSession `json:"session,omitempty"`
}

func NewWsHub(logger zerolog.Logger) *WsHub {
	hub := &WsHub{
		Clients:    make(map[string]map[*websocket.Conn]bool),
		Broadcast:  make(chan WsMessage, 100),
		Register:   make(chan *WsClient, 100),
		Unregister: make(chan *WsClient, 100),
		Logger:     logger,
	}
	return hub
}

func (h *WsHub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.Clients[client.Reference] == nil {
				h.Clients[client.Reference] = make(map[*websocket.Conn]bool)
			}
			h.Clients[client.Reference][client.Conn] = true
			h.Logger.Info().
				Str("reference", client.Reference).
				Int("connection_count", len(h.Clients[client.Reference])).
				Msg("WebSocket client registered")

		case client := <-h.Unregister:
			if clients, ok := h.Clients[client.Reference]; ok {
				delete(clients, client.Conn)
				h.Logger.Info().
					Str("reference", client.Reference).
					Int("connection_count", len(clients)).
					Msg("WebSocket client unregistered")
				if len(clients) == 0 {
					delete(h.Clients, client.Reference)
				}
				client.Conn.Close()
			}

		case message := <-h.Broadcast:
			if message.Session == nil {
				continue
			}
			reference := message.Session.Reference

			h.Logger.Info().
				Str("reference", reference).
				Str("status", string(message.Session.Status)).
				Msg("Broadcasting payment session update")

			h.send(reference, message)
			// Wildcard subscribers see every session.
			h.send("", message)
		}
	}
}

func (h *WsHub) send(key string, message WsMessage) {
	clients, ok := h.Clients[key]
	if !ok {
		return
	}
	for conn := range clients {
		if err := conn.WriteJSON(message); err != nil {
			h.Logger.Err(err).
				Str("reference", message.Session.Reference).
				Msg("Failed to send WebSocket message")
			conn.Close()
			delete(clients, conn)
		}
	}
	if len(clients) == 0 {
		delete(h.Clients, key)
	}
}

// BroadcastSession queues one session snapshot for delivery.
func (h *WsHub) BroadcastSession(session domain.PaymentSession) {
	h.Broadcast <- WsMessage{
		Type:    "payment_session",
		Session: &session,
	}
}
