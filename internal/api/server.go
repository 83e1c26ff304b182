// Package api exposes a small read-mostly HTTP surface next to the
// Telegram bot: order lists, label rendering and monitor stats, plus a
// WebSocket feed of new-order events.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/sellertools/ozon-fbs-bot/internal/label"
	"github.com/sellertools/ozon-fbs-bot/internal/monitor"
	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
	"github.com/sellertools/ozon-fbs-bot/internal/product"
)

// Server is the HTTP/WebSocket API server.
type Server struct {
	router   *gin.Engine
	client   *ozon.Client
	pipeline *label.Pipeline
	mon      *monitor.Monitor
	upgrader websocket.Upgrader
	hub      *wsHub
	log      *logrus.Entry
}

// NewServer wires the API around the shared ozon client and pipeline.
// mon may be nil when monitoring is disabled.
func NewServer(client *ozon.Client, pipeline *label.Pipeline, mon *monitor.Monitor, mode string, log *logrus.Logger) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	server := &Server{
		router:   router,
		client:   client,
		pipeline: pipeline,
		mon:      mon,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub: newWSHub(),
		log: log.WithField("component", "api"),
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/orders", s.handleListOrders)
	s.router.GET("/orders/:posting", s.handleGetOrder)
	s.router.GET("/orders/:posting/label.png", s.handleOrderLabel)
	s.router.GET("/stats", s.handleStats)

	s.router.GET("/ws", s.handleWebSocket)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

// handleListOrders returns postings in the requested status,
// awaiting_packaging by default.
func (s *Server) handleListOrders(c *gin.Context) {
	status := c.DefaultQuery("status", ozon.StatusAwaitingPackaging)
	postings, err := s.client.ListPostings(c.Request.Context(), status, 100)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}

	orders := make([]gin.H, len(postings))
	for i, p := range postings {
		orders[i] = gin.H{
			"posting_number": p.PostingNumber,
			"status":         p.Status,
			"shipment_date":  p.ShipmentDate,
			"summary":        product.Describe(toLineItems(p.Products)),
			"products":       p.Products,
		}
	}

	c.JSON(200, gin.H{
		"status": status,
		"count":  len(orders),
		"orders": orders,
	})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	p, err := s.client.GetPosting(c.Request.Context(), c.Param("posting"))
	if err != nil {
		if apiErr, ok := err.(*ozon.APIError); ok && apiErr.StatusCode == 404 {
			c.JSON(404, gin.H{"error": "posting not found"})
			return
		}
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, p)
}

// handleOrderLabel runs the full compositing pipeline and streams the
// PNG back.
func (s *Server) handleOrderLabel(c *gin.Context) {
	postingNumber := c.Param("posting")
	ctx := c.Request.Context()

	p, err := s.client.GetPosting(ctx, postingNumber)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}
	pdf, err := s.client.PackageLabel(ctx, []string{postingNumber})
	if err != nil {
		c.JSON(502, gin.H{"error": fmt.Sprintf("label not available: %v", err)})
		return
	}

	payloads := make([]string, 0, len(p.Products))
	for _, pr := range p.Products {
		for i := 0; i < pr.Quantity; i++ {
			payloads = append(payloads, fmt.Sprintf("%d", pr.SKU))
		}
	}
	annotation := product.Describe(toLineItems(p.Products))

	img, err := s.pipeline.BuildLabel(pdf, annotation, payloads, "")
	if err != nil {
		status := 500
		if label.IsKind(err, label.KindDocument) {
			status = 422
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	png, err := label.EncodePNG(img)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.Data(200, "image/png", png)
}

func (s *Server) handleStats(c *gin.Context) {
	resp := gin.H{"monitor": nil}
	if s.mon != nil {
		st := s.mon.Stats(c.Request.Context())
		resp["monitor"] = gin.H{
			"running":    st.Running,
			"checks":     st.Checks,
			"new_found":  st.NewFound,
			"seen_total": st.SeenTotal,
			"interval":   st.Interval.String(),
		}
	}
	c.JSON(200, resp)
}

// NotifyNewPostings implements monitor.Notifier by broadcasting each
// posting to WebSocket subscribers.
func (s *Server) NotifyNewPostings(_ context.Context, postings []ozon.Posting) {
	for _, p := range postings {
		s.BroadcastNewOrder(&p)
	}
}

func toLineItems(products []ozon.PostingProduct) []product.LineItem {
	items := make([]product.LineItem, len(products))
	for i, p := range products {
		items[i] = product.LineItem{
			Name:     p.Name,
			SKU:      fmt.Sprintf("%d", p.SKU),
			Quantity: p.Quantity,
		}
	}
	return items
}

// AttachMonitor wires the monitor after construction; the monitor's
// notifier chain may include this server.
func (s *Server) AttachMonitor(m *monitor.Monitor) {
	s.mon = m
}

// Run starts the API server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, used by httptest in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
