package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub tracks which connections are subscribed to which rooms. Rooms are
// keyed by the stringified chat id. All state lives in this one process —
// there is no cross-instance coordination.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *zap.Logger
}

// Client is one WebSocket connection. Outbound frames go through the
// buffered send channel so only the write pump touches the conn — gorilla
// connections allow a single concurrent writer.
type Client struct {
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{} // guarded by Hub.mu
	once  sync.Once
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Register wraps a freshly-upgraded connection. The client is in no rooms
// until it joins one.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	return &Client{
		conn:  conn,
		send:  make(chan []byte, 64),
		rooms: make(map[string]struct{}),
	}
}

// Join subscribes the client to a room. A client may be in any number of
// rooms at once; joining twice is a no-op.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Unregister removes the client from every room it joined and closes its
// send channel, stopping the write pump. Called once per connection, on
// disconnect.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	for room := range c.rooms {
		if set, ok := h.rooms[room]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	c.rooms = make(map[string]struct{})
	h.mu.Unlock()

	c.once.Do(func() { close(c.send) })
}

// Broadcast queues a frame for every subscriber of the room, the sender
// included. Delivery is best effort: a client whose buffer is full simply
// misses the frame rather than stalling everyone else.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping frame for slow client", zap.String("room", room))
		}
	}
}

// RoomSize reports how many connections are subscribed to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// WritePump drains the send channel onto the wire. Runs as the
// connection's single writer goroutine; exits when the channel closes or a
// write fails.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
