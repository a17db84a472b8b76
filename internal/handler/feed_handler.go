package handler

import (
	"crypto/subtle"

	"github.com/bytebender77/honeypot/internal/pkg/logger"
	internalWS "github.com/bytebender77/honeypot/internal/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedHandler exposes the live operations feed. Every session completion
// event published on the hub is pushed to connected clients.
type FeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
	apiKey string
}

func NewFeedHandler(hub *internalWS.Hub, log logger.ILogger, apiKey string) *FeedHandler {
	return &FeedHandler{
		hub:    hub,
		logger: log,
		apiKey: apiKey,
	}
}

// ServeFeed upgrades the connection to a websocket after validating the
// API key. Browsers cannot set headers on a websocket handshake, so the
// key is also accepted as a query parameter.
func (h *FeedHandler) ServeFeed(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	if h.apiKey != "" {
		key := c.Get("x-api-key")
		if key == "" {
			key = c.Query("key")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
			h.logger.Warn("FeedHandler", "rejected feed connection", map[string]interface{}{
				"ip": c.IP(),
			})
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid API key")
		}
	}

	return websocket.New(func(conn *websocket.Conn) {
		internalWS.ServeWs(h.hub, conn)
	})(c)
}

func (h *FeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/feed", h.ServeFeed)
}
