package repositories

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
)

// ChatRepository handles the /chat endpoints
type ChatRepository struct {
	api *apiclient.Client
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(api *apiclient.Client) *ChatRepository {
	return &ChatRepository{api: api}
}

// ListConversations returns the current user's threads
func (r *ChatRepository) ListConversations(ctx context.Context) ([]models.PersistedConversation, error) {
	var resp dto.ConversationListResponse
	if err := r.api.Get(ctx, "/chat/conversations", nil, &resp); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return resp.Conversations, nil
}

// ListMessages returns the messages of a backend thread. Pending threads
// have no messages to list and cannot be passed here.
func (r *ChatRepository) ListMessages(ctx context.Context, conv *models.PersistedConversation) ([]models.Message, error) {
	var resp dto.MessageListResponse
	path := "/chat/conversations/" + url.PathEscape(conv.ID) + "/messages"
	if err := r.api.Get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list messages of %s: %w", conv.ID, err)
	}
	return resp.Messages, nil
}

// Send delivers content to recipientID, creating the thread if needed
func (r *ChatRepository) Send(ctx context.Context, recipientID, content string) (*models.Message, error) {
	var resp dto.MessageResponse
	req := dto.SendMessageRequest{RecipientID: recipientID, Content: content}
	if err := r.api.Post(ctx, "/chat/messages", req, &resp); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &resp.Message, nil
}

// MarkRead flags a received message as read
func (r *ChatRepository) MarkRead(ctx context.Context, messageID string) error {
	if err := r.api.Put(ctx, "/chat/messages/"+url.PathEscape(messageID)+"/read", nil, nil); err != nil {
		return fmt.Errorf("mark %s read: %w", messageID, err)
	}
	return nil
}

// DeleteMessage removes one of the current user's messages
func (r *ChatRepository) DeleteMessage(ctx context.Context, messageID string) error {
	if err := r.api.Delete(ctx, "/chat/messages/"+url.PathEscape(messageID), nil); err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	return nil
}
