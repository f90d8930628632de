package handlers

import (
	"encoding/json"
	"log"

	"teamfund/internal/core/services"
	"teamfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notifyService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifyService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// List returns the caller's notifications with unread count
// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	out, err := h.notifyService.ListForUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	return response.Success(c, "Notifications retrieved successfully", fiber.Map{
		"notifications": out.Notifications,
		"unread_count":  out.UnreadCount,
	})
}

// MarkAllRead marks all of the caller's notifications as read
// @Summary Mark all notifications read
// @Description Mark every notification of the caller as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.notifyService.MarkAllRead(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read")
	}

	return response.Success(c, "All notifications marked as read", nil)
}

// StreamUpgrade guards the websocket route: only upgrade requests pass
func (h *NotificationHandler) StreamUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		// Locals set by the auth middleware are not visible inside the
		// websocket handler, carry the user id over explicitly
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("wsUserID", userID)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream pushes new notifications to the client over a websocket as
// they are created
func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("wsUserID").(uint)
		if !ok {
			_ = conn.Close()
			return
		}

		sub := h.notifyService.Subscribe(userID)
		defer h.notifyService.Unsubscribe(userID, sub)

		// Reader goroutine: we never expect client messages, but reading
		// is how we learn the peer went away
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case notification, open := <-sub:
				if !open {
					return
				}
				payload, err := json.Marshal(notification)
				if err != nil {
					log.Printf("⚠️ Failed to encode notification %d: %v", notification.ID, err)
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
