package dto

import "github.com/nexusnu/webclient/internal/app/models"

// ConversationListResponse is returned by GET /chat/conversations
type ConversationListResponse struct {
	Conversations []models.PersistedConversation `json:"conversations"`
}

// MessageListResponse is returned by GET /chat/conversations/:id/messages
type MessageListResponse struct {
	Messages []models.Message `json:"messages"`
}

// SendMessageRequest addresses a message by recipient, not by conversation
type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// MessageResponse wraps a single message
type MessageResponse struct {
	Message models.Message `json:"message"`
}

// ChatStateResponse is the chat screen state served to the browser's refresh
// script.
type ChatStateResponse struct {
	State         string                         `json:"state"`
	Conversations []models.PersistedConversation `json:"conversations"`
	SelectedID    string                         `json:"selectedId,omitempty"`
	OtherUserID   string                         `json:"otherUserId,omitempty"`
	Pending       bool                           `json:"pending"`
	Messages      []models.Message               `json:"messages"`
	Sending       bool                           `json:"sending"`
	Unread        int                            `json:"unread"`
}
