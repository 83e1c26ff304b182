package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
	"github.com/sellertools/ozon-fbs-bot/internal/product"
)

// WebSocket event types.
const (
	EventNewOrder = "new_order"
	EventError    = "error"
)

// WSMessage is one event on the wire.
type WSMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// wsClient is one connected subscriber.
type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan WSMessage
}

// wsHub tracks subscribers for broadcasts.
type wsHub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[string]*wsClient)}
}

func (h *wsHub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *wsHub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
}

func (h *wsHub) broadcast(msg WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.send <- msg:
		default:
			// Slow subscriber, drop the event.
		}
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan WSMessage, 64),
	}
	s.hub.add(client)
	s.log.WithField("client", client.id).Info("websocket client connected")

	go s.writePump(client)
	go s.readPump(client)
}

func (s *Server) writePump(c *wsClient) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			s.log.WithError(err).WithField("client", c.id).Debug("websocket write failed")
			return
		}
	}
}

// readPump only drains the connection; the feed is one-way.
func (s *Server) readPump(c *wsClient) {
	defer func() {
		s.hub.remove(c)
		close(c.send)
		c.conn.Close()
		s.log.WithField("client", c.id).Info("websocket client disconnected")
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.WithError(err).WithField("client", c.id).Debug("websocket read failed")
			}
			return
		}
	}
}

// BroadcastNewOrder pushes a new-order event to all subscribers.
func (s *Server) BroadcastNewOrder(p *ozon.Posting) {
	s.hub.broadcast(WSMessage{
		Event: EventNewOrder,
		Data: map[string]interface{}{
			"posting_number": p.PostingNumber,
			"status":         p.Status,
			"shipment_date":  p.ShipmentDate,
			"summary":        product.Describe(toLineItems(p.Products)),
		},
	})
}
