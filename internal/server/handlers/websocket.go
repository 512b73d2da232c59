package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jwhande57/zimutilityxpress/internal/domain"
	"github.com/jwhande57/zimutilityxpress/internal/server/websocket"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
	"github.com/jwhande57/zimutilityxpress/pkg/reference"
)

type WebSocketHandler struct {
	wsHub    *websocket.WsHub
	upgrader gws.Upgrader
	logger   zerolog.Logger
}

func NewWebSocketHandler(wsHub *websocket.WsHub, cfg config.WebSocketConfig, logger zerolog.Logger) *WebSocketHandler {
	upgrader := gws.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	if !cfg.CheckOrigin {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}

	return &WebSocketHandler{
		wsHub:    wsHub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// HandleConnection upgrades the connection and subscribes it to session
// updates. With a ref query parameter the client follows one payment;
// without one it receives every update.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	ref := c.Query("ref")
	if ref != "" && !reference.IsValid(ref) {
		c.JSON(http.StatusBadRequest, domain.ApiResponse{
			Message: "Invalid payment reference",
			Success: false,
			Status:  http.StatusBadRequest,
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Err(err).
			Str("reference", ref).
			Msg("Failed to upgrade to WebSocket")
		c.JSON(http.StatusInternalServerError, domain.ApiResponse{
			Message: "Failed to establish WebSocket connection: " + err.Error(),
			Success: false,
			Status:  http.StatusInternalServerError,
		})
		return
	}

	client := &websocket.WsClient{
		Reference: ref,
		Conn:      conn,
	}
	h.wsHub.Register <- client
	h.logger.Info().
		Str("reference", ref).
		Msg("WebSocket client registration sent")

	go func() {
		defer func() {
			h.wsHub.Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.logger.Debug().Err(err).
					Str("reference", ref).
					Msg("WebSocket read loop ended")
				break
			}
		}
	}()
}
