package dto

// WebhookUpdate is the subset of the Bot API update the webhook reacts to.
type WebhookUpdate struct {
	UpdateID int64           `json:"update_id"`
	Message  *WebhookMessage `json:"message"`
}

// WebhookMessage carries an inbound chat message.
type WebhookMessage struct {
	Chat WebhookChat `json:"chat"`
	From WebhookUser `json:"from"`
	Text string      `json:"text"`
}

// WebhookChat identifies the chat a message arrived from.
type WebhookChat struct {
	ID int64 `json:"id"`
}

// WebhookUser identifies the message author.
type WebhookUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
