package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tycoon-backend/internal/domain/finance"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// envelope is the wire frame for every pushed event.
type envelope struct {
	Type    finance.EventType `json:"type"`
	Payload finance.Event     `json:"payload"`
	At      time.Time         `json:"at"`
}

// Hub maintains the set of active clients and broadcasts finance events to
// them. It implements finance.Sink so the engine can push without knowing
// about websockets.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run is the hub's main loop. It owns the client set; register, unregister
// and broadcast all funnel through here.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Info("websocket client connected", zap.String("session", client.id))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Info("websocket client disconnected", zap.String("session", client.id))
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Emit implements finance.Sink: wrap the event in an envelope and broadcast.
// Drops the frame when the broadcast buffer is full so the engine's tick loop
// never blocks on a slow consumer.
func (h *Hub) Emit(ev finance.Event) {
	frame, err := json.Marshal(envelope{Type: ev.Type(), Payload: ev, At: time.Now().UTC()})
	if err != nil {
		h.log.Error("failed to serialize event for broadcast", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		h.log.Warn("broadcast buffer full, dropping event", zap.String("type", string(ev.Type())))
	}
}

// ServeWS upgrades an HTTP request to a websocket session and starts its pumps.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err))
		return err
	}
	client := NewClient(h, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
	return nil
}
