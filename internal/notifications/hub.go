// internal/notifications/hub.go
package notifications

import (
	"context"
	"net/http"
	"sync"
	"time"

	"castnfish/internal/achievements"
	"castnfish/internal/pricewatch"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Notification is one message pushed to a connected user.
type Notification struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

// Notifier delivers domain notifications to users.
type Notifier interface {
	AchievementUnlocked(ctx context.Context, userID int64, achievement achievements.Definition)
	AlertFired(ctx context.Context, alert pricewatch.Alert, currentPrice float64)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust for production
	},
}

type client struct {
	conn *websocket.Conn
	send chan Notification
}

// Hub fans notifications out to a user's open websocket connections.
// A user with no connection simply misses the push; nothing is queued.
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[int64]map[*client]struct{}
}

// NewHub creates a new notification hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[int64]map[*client]struct{}),
	}
}

// HandleConnection upgrades the request and keeps the connection registered
// until the peer goes away. The caller authenticates the user first.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return
	}

	c := &client{conn: conn, send: make(chan Notification, 16)}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("websocket client connected", zap.Int64("user_id", userID))

	go c.writeLoop(h.logger, userID)
	c.readLoop()

	h.mu.Lock()
	delete(h.clients[userID], c)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	close(c.send)

	h.logger.Debug("websocket client disconnected", zap.Int64("user_id", userID))
}

// readLoop drains inbound frames so pings and close frames are processed.
// The hub is push-only; client payloads are discarded.
func (c *client) readLoop() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writeLoop(logger *zap.Logger, userID int64) {
	defer c.conn.Close()
	for n := range c.send {
		if err := c.conn.WriteJSON(n); err != nil {
			logger.Debug("websocket write failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return
		}
	}
}

// Push delivers a notification to every open connection of the user. A slow
// client's full buffer drops the message rather than blocking the caller.
func (h *Hub) Push(userID int64, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- n:
		default:
		}
	}
}

// AchievementUnlocked implements Notifier.
func (h *Hub) AchievementUnlocked(_ context.Context, userID int64, achievement achievements.Definition) {
	h.Push(userID, Notification{
		Type:      "achievement_unlocked",
		Payload:   achievement,
		CreatedAt: time.Now(),
	})
	h.logger.Info("Achievement notification pushed",
		zap.Int64("user_id", userID),
		zap.String("achievement_id", achievement.ID),
	)
}

// AlertFired implements Notifier and pricewatch.Notifier.
func (h *Hub) AlertFired(_ context.Context, alert pricewatch.Alert, currentPrice float64) {
	h.Push(alert.UserID, Notification{
		Type: "price_alert",
		Payload: map[string]interface{}{
			"alert":         alert,
			"current_price": currentPrice,
		},
		CreatedAt: time.Now(),
	})
	h.logger.Info("Price alert notification pushed",
		zap.Int64("user_id", alert.UserID),
		zap.String("product_id", alert.ProductID),
		zap.Float64("current_price", currentPrice),
	)
}

// NopNotifier discards every notification. Used in tests and when the hub is
// disabled.
type NopNotifier struct{}

func (NopNotifier) AchievementUnlocked(context.Context, int64, achievements.Definition) {}
func (NopNotifier) AlertFired(context.Context, pricewatch.Alert, float64)               {}
