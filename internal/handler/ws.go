package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/homegame/platform/internal/auth"
	"github.com/homegame/platform/internal/infra"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
	wsSendBuffer = 32
)

// WSHandler upgrades HTTP requests to WebSocket connections subscribed to a
// game room. Every committed mutation is pushed to the room as the full game
// record, so a client that connects mid-game is consistent after one message.
type WSHandler struct {
	hub      *infra.WSHub
	jwtMgr   *auth.JWTManager
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *infra.WSHub, jwtMgr *auth.JWTManager, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		jwtMgr: jwtMgr,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /games/{id}/ws. Browsers cannot set headers on
// WebSocket dials, so the token is accepted from the query string as well.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadID(w, "game id")
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	claims, err := h.jwtMgr.ValidateToken(token)
	if err != nil {
		RespondJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "invalid token",
		})
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err, "game_id", gameID)
		return
	}

	conn := &infra.WSConn{
		ID:     uuid.New().String(),
		UserID: claims.Subject,
		Send:   make(chan []byte, wsSendBuffer),
	}
	room := infra.GameRoom(gameID.String())
	h.hub.Join(room, conn)
	h.logger.Info("ws subscribed", "conn_id", conn.ID, "game_id", gameID, "user_id", conn.UserID)

	go h.writePump(ws, conn)
	go h.readPump(ws, conn, room)
}

func (h *WSHandler) writePump(ws *websocket.Conn, conn *infra.WSConn) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case payload, ok := <-conn.Send:
			ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				// Hub closed the channel on shutdown.
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains inbound frames purely for close and pong detection; the
// subscription is one-way.
func (h *WSHandler) readPump(ws *websocket.Conn, conn *infra.WSConn, room string) {
	defer func() {
		h.hub.Leave(room, conn.ID)
		ws.Close()
	}()

	ws.SetReadLimit(512)
	ws.SetReadDeadline(time.Now().Add(wsPongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("ws read error", "conn_id", conn.ID, "error", err)
			}
			return
		}
	}
}
