package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/services"
	"github.com/nexusnu/webclient/internal/middleware"
)

// ChatController serves the chat screen. The screen state lives in the
// session's ChatView; every action redirects back to /chat.
type ChatController struct {
	pollInterval time.Duration
	logger       zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(pollInterval time.Duration, logger zerolog.Logger) *ChatController {
	return &ChatController{
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// enter returns the session's chat view with a fresh conversation list
func (c *ChatController) enter(ctx *gin.Context) (*services.ChatView, bool) {
	session := middleware.CurrentSession(ctx)
	chat, err := session.EnterChat()
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return nil, false
	}
	// A failed load is shown on the page through the snapshot
	_ = chat.Load(requestContext(ctx))
	return chat, true
}

// Index renders the conversation list, selecting ?c=<conversation id>
func (c *ChatController) Index(ctx *gin.Context) {
	chat, ok := c.enter(ctx)
	if !ok {
		return
	}
	if id := ctx.Query("c"); id != "" {
		if err := chat.Select(requestContext(ctx), id); err != nil {
			c.logger.Warn().Err(err).Str("conversationID", id).Msg("Failed to select conversation")
			middleware.AddFlash(ctx, middleware.FlashError, userMessage(err, "Failed to load messages"))
		}
	}
	c.render(ctx, chat)
}

// Open starts or resumes the conversation with a user
func (c *ChatController) Open(ctx *gin.Context) {
	chat, ok := c.enter(ctx)
	if !ok {
		return
	}
	if err := chat.Open(requestContext(ctx), ctx.Param("userId")); err != nil {
		redirectWithError(ctx, err, "Failed to start conversation", "/chat")
		return
	}
	c.render(ctx, chat)
}

func (c *ChatController) render(ctx *gin.Context, chat *services.ChatView) {
	render(ctx, "chat", gin.H{
		"Chat":   chat.Snapshot(),
		"PollMs": c.pollInterval.Milliseconds(),
	})
}

// State serves the open chat screen as JSON
func (c *ChatController) State(ctx *gin.Context) {
	session := middleware.CurrentSession(ctx)
	resp := dto.ChatStateResponse{
		State:         string(services.ChatClosed),
		Conversations: []models.PersistedConversation{},
		Messages:      []models.Message{},
		Unread:        session.UnreadCount(),
	}
	if chat := session.Chat(); chat != nil {
		snap := chat.Snapshot()
		resp.State = string(snap.State)
		resp.SelectedID = snap.SelectedID()
		resp.Pending = snap.IsPending()
		resp.Sending = snap.Sending
		if other := snap.OtherUser(); other != nil {
			resp.OtherUserID = other.ID
		}
		if snap.Conversations != nil {
			resp.Conversations = snap.Conversations
		}
		if snap.Messages != nil {
			resp.Messages = snap.Messages
		}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Messages renders the open thread's message list for the page's refresh.
// 204 tells the page that its chat screen is gone.
func (c *ChatController) Messages(ctx *gin.Context) {
	session := middleware.CurrentSession(ctx)
	chat := session.Chat()
	if chat == nil || chat.Closed() {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.HTML(http.StatusOK, "chat:chatMessages", gin.H{
		"Chat":   chat.Snapshot(),
		"Viewer": session.User(),
	})
}

// Send posts a message to the selected conversation
func (c *ChatController) Send(ctx *gin.Context) {
	chat := middleware.CurrentSession(ctx).Chat()
	if chat == nil {
		ctx.Redirect(http.StatusSeeOther, "/chat")
		return
	}
	if err := chat.Send(requestContext(ctx), ctx.PostForm("content")); err != nil {
		redirectWithError(ctx, err, "Failed to send message", "/chat")
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/chat")
}

// DeleteMessage removes one of the user's messages after confirmation
func (c *ChatController) DeleteMessage(ctx *gin.Context) {
	chat := middleware.CurrentSession(ctx).Chat()
	if chat == nil {
		ctx.Redirect(http.StatusSeeOther, "/chat")
		return
	}
	if err := chat.DeleteMessage(requestContext(ctx), ctx.Param("id"), confirmed(ctx)); err != nil {
		redirectWithError(ctx, err, "Failed to delete message", "/chat")
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Message deleted", "/chat")
}
