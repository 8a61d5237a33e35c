package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/telemart/storefront/internal/server/http/dto"
)

const welcomeText = "Welcome to the store!\nOpen the mini-app from the menu button to browse and order."

// WebhookHandler reacts to inbound bot updates. Unrecognized updates are
// acknowledged silently so Telegram stops retrying them.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Receive handles POST /api/telegram/webhook.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var update dto.WebhookUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Status(http.StatusOK)
		return
	}
	if update.Message == nil || update.Message.Chat.ID == 0 {
		c.Status(http.StatusOK)
		return
	}

	chatID := update.Message.Chat.ID
	switch command(update.Message.Text) {
	case "/start":
		h.facade.NotifyChat(chatID, welcomeText)
	case "/id":
		h.facade.NotifyChat(chatID, fmt.Sprintf("Your chat id: %d", chatID))
	}

	c.Status(http.StatusOK)
}

func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := fields[0]
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return cmd
}
