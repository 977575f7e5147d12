package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/quizhive/quizhive/internal/auth"
	"github.com/quizhive/quizhive/internal/repository"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Event is the wire envelope in both directions:
// {"event": "...", "data": {...}}.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// envelope is the outbound counterpart — Data is marshaled in place.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type joinChatPayload struct {
	ChatID int64 `json:"chat_id"`
}

type sendMessagePayload struct {
	ChatID      int64  `json:"chat_id"`
	SenderID    int64  `json:"sender_id"`
	MessageText string `json:"message_text"`
}

type statusPayload struct {
	Msg string `json:"msg"`
}

// Handler owns the socket endpoint: upgrade, event dispatch, and the
// write-through to the message store before fan-out.
type Handler struct {
	hub         *Hub
	messageRepo repository.MessageRepository
	jwtSecret   string
	logger      *zap.Logger
}

func NewHandler(hub *Hub, messageRepo repository.MessageRepository, jwtSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		hub:         hub,
		messageRepo: messageRepo,
		jwtSecret:   jwtSecret,
		logger:      logger,
	}
}

// Serve handles GET /api/chat/ws?token=<jwt>
//
// The token rides a query parameter because browsers cannot set an
// Authorization header on a WebSocket handshake. Invalid tokens are
// rejected before the upgrade.
func (h *Handler) Serve(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if _, err := auth.ParseToken(tokenString, h.jwtSecret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	client := h.hub.Register(conn)
	defer h.hub.Unregister(client)

	go client.WritePump()
	h.readLoop(c.Request.Context(), client)
}

// readLoop consumes client frames until the connection drops. Malformed
// frames are logged and skipped — one bad frame doesn't kill the
// connection.
func (h *Handler) readLoop(ctx context.Context, client *Client) {
	defer client.conn.Close()
	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			h.logger.Warn("malformed socket frame", zap.Error(err))
			continue
		}

		switch ev.Event {
		case "join_chat":
			h.handleJoinChat(client, ev.Data)
		case "send_message":
			h.handleSendMessage(ctx, ev.Data)
		default:
			h.logger.Warn("unknown socket event", zap.String("event", ev.Event))
		}
	}
}

// handleJoinChat subscribes the connection to the chat's room and
// announces the join. No membership check happens here — any authenticated
// connection may join any room.
func (h *Handler) handleJoinChat(client *Client, data json.RawMessage) {
	var p joinChatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.logger.Warn("bad join_chat payload", zap.Error(err))
		return
	}

	room := strconv.FormatInt(p.ChatID, 10)
	h.hub.Join(client, room)
	h.emit(room, "status", statusPayload{Msg: fmt.Sprintf("User joined chat %d", p.ChatID)})
}

// handleSendMessage persists the message first, then broadcasts the
// fully-formed row (ids and server timestamp included) to the room. The
// DB write blocks the reader, so frames from one connection are fanned out
// in the order they were persisted. Delivery is at-most-once; nothing is
// retried or acknowledged.
func (h *Handler) handleSendMessage(ctx context.Context, data json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.logger.Warn("bad send_message payload", zap.Error(err))
		return
	}

	msg, err := h.messageRepo.Create(ctx, p.ChatID, p.SenderID, p.MessageText)
	if err != nil {
		h.logger.Error("failed to persist message", zap.Error(err), zap.Int64("chat_id", p.ChatID))
		return
	}

	room := strconv.FormatInt(msg.ChatID, 10)
	h.emit(room, "receive_message", msg)
}

func (h *Handler) emit(room, event string, data any) {
	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err), zap.String("event", event))
		return
	}
	h.hub.Broadcast(room, payload)
}
