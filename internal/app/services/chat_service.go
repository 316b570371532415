package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/scheduler"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// ChatState is the lifecycle of the chat screen
type ChatState string

const (
	ChatLoading           ChatState = "loading"
	ChatReady             ChatState = "ready"
	ChatSelectedPending   ChatState = "selected_pending"
	ChatSelectedPersisted ChatState = "selected_persisted"
	ChatClosed            ChatState = "closed"
)

// ChatSnapshot is an immutable copy of the chat screen for rendering
type ChatSnapshot struct {
	State         ChatState
	Conversations []models.PersistedConversation
	Selected      models.Conversation
	Messages      []models.Message
	Sending       bool
	LoadError     string
	MessagesError string
}

// SelectedID returns the backend id of the selection, empty when nothing
// or a pending thread is selected.
func (s ChatSnapshot) SelectedID() string {
	if c, ok := s.Selected.(*models.PersistedConversation); ok {
		return c.ID
	}
	return ""
}

// OtherUser returns the peer of the selection, nil without one
func (s ChatSnapshot) OtherUser() *models.User {
	if s.Selected == nil {
		return nil
	}
	u := s.Selected.Peer()
	return &u
}

// IsPending reports whether the selection has no backend thread yet
func (s ChatSnapshot) IsPending() bool {
	_, ok := s.Selected.(*models.PendingConversation)
	return ok
}

// ChatView is the chat screen of one session. It owns the message poll:
// at most one runs, always for the current selection, and Close stops it.
//
// Every message load takes a ticket; only the newest ticket issued for the
// current selection may replace the visible messages.
type ChatView struct {
	me        models.User
	chatRepo  *repositories.ChatRepository
	userRepo  *repositories.UserRepository
	interval  time.Duration
	idleAfter time.Duration
	now       func() time.Time
	logger    zerolog.Logger
	base      context.Context

	// onConversations receives every freshly loaded conversation list
	onConversations func([]models.PersistedConversation)

	// opMu serializes selection changes and sends
	opMu sync.Mutex
	poll scheduler.Slot
	seq  scheduler.Sequence
	bg   sync.WaitGroup

	mu            sync.Mutex
	state         ChatState
	conversations []models.PersistedConversation
	selected      models.Conversation
	generation    uint64
	messages      []models.Message
	sending       bool
	loadErr       string
	messagesErr   string
	lastActive    time.Time
}

// ChatViewOptions tunes the chat screen's timers
type ChatViewOptions struct {
	// PollInterval is the message refresh period
	PollInterval time.Duration
	// IdleTimeout closes the view when the browser has not asked for it
	// for this long; zero keeps it open until Close
	IdleTimeout time.Duration
	Now         func() time.Time
}

// NewChatView creates a chat screen for me. base carries the session token
// and bounds the lifetime of background work.
func NewChatView(
	base context.Context,
	me models.User,
	chatRepo *repositories.ChatRepository,
	userRepo *repositories.UserRepository,
	opts ChatViewOptions,
	logger zerolog.Logger,
) *ChatView {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ChatView{
		me:         me,
		chatRepo:   chatRepo,
		userRepo:   userRepo,
		interval:   opts.PollInterval,
		idleAfter:  opts.IdleTimeout,
		now:        opts.Now,
		logger:     logger.With().Str("component", "chat").Str("userID", me.ID).Logger(),
		base:       base,
		state:      ChatLoading,
		lastActive: opts.Now(),
	}
}

// Touch records that the browser is still showing the chat screen
func (v *ChatView) Touch() {
	v.mu.Lock()
	v.lastActive = v.now()
	v.mu.Unlock()
}

// abandoned reports whether the browser stopped asking for the screen
func (v *ChatView) abandoned() bool {
	if v.idleAfter <= 0 {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now().Sub(v.lastActive) > v.idleAfter
}

// Load fetches the conversation list. A failure leaves an empty list and a
// page-level error.
func (v *ChatView) Load(ctx context.Context) error {
	convs, err := v.chatRepo.ListConversations(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == ChatClosed {
		return nil
	}
	if err != nil {
		v.logger.Error().Err(err).Msg("Failed to load conversations")
		v.loadErr = apperrors.UserMessage(err, "Failed to load conversations")
		v.conversations = nil
	} else {
		v.loadErr = ""
		v.setConversationsLocked(convs)
	}
	if v.state == ChatLoading {
		v.state = ChatReady
	}
	return err
}

// Open selects the thread with targetUserID. A listed thread is selected
// directly; otherwise the user is looked up once and a pending thread is
// shown until the first message creates the real one.
func (v *ChatView) Open(ctx context.Context, targetUserID string) error {
	if targetUserID == v.me.ID {
		return apperrors.ErrSelfAction
	}

	v.mu.Lock()
	conv, listed := models.FindConversationWith(v.conversations, targetUserID)
	if p, ok := v.selected.(*models.PendingConversation); ok && !listed && p.OtherUser.ID == targetUserID {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	if listed {
		return v.Select(ctx, conv.ID)
	}

	profile, err := v.userRepo.Get(ctx, targetUserID)
	if err != nil {
		v.logger.Error().Err(err).Str("targetUserID", targetUserID).Msg("Failed to start conversation")
		return err
	}

	v.opMu.Lock()
	defer v.opMu.Unlock()
	v.poll.Stop()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == ChatClosed {
		return nil
	}
	v.generation++
	v.selected = models.NewPendingConversation(profile.User, time.Now())
	v.state = ChatSelectedPending
	v.messages = nil
	v.messagesErr = ""
	return nil
}

// Select switches to a listed thread: the old poll stops, messages load,
// unread received messages are marked read and a new poll starts.
func (v *ChatView) Select(ctx context.Context, conversationID string) error {
	v.opMu.Lock()
	defer v.opMu.Unlock()

	v.mu.Lock()
	if v.state == ChatClosed {
		v.mu.Unlock()
		return nil
	}
	conv, ok := models.FindConversation(v.conversations, conversationID)
	v.mu.Unlock()
	if !ok {
		return apperrors.ErrResourceNotFound
	}

	v.poll.Stop()
	gen := v.selectLocked(conv)

	msgs, err := v.loadMessages(ctx, conv, gen)
	if err == nil {
		v.markRead(conv.ID, msgs)
	}
	v.startPoll(conv, gen)
	return err
}

// selectLocked makes conv the selection; opMu must be held
func (v *ChatView) selectLocked(conv *models.PersistedConversation) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	v.selected = conv
	v.state = ChatSelectedPersisted
	v.messages = nil
	v.messagesErr = ""
	return v.generation
}

// Send posts a message to the selected peer. The first message of a pending
// thread refetches the conversation list once to learn the new thread.
func (v *ChatView) Send(ctx context.Context, raw string) error {
	content, err := validation.MessageContent(raw)
	if err != nil {
		return err
	}

	v.mu.Lock()
	switch {
	case v.state == ChatClosed || v.selected == nil:
		v.mu.Unlock()
		return apperrors.ErrNoSelection
	case v.sending:
		v.mu.Unlock()
		return apperrors.ErrSendInFlight
	}
	v.sending = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.sending = false
		v.mu.Unlock()
	}()

	v.opMu.Lock()
	defer v.opMu.Unlock()

	v.mu.Lock()
	selected, gen := v.selected, v.generation
	v.mu.Unlock()
	if selected == nil {
		return apperrors.ErrNoSelection
	}

	if _, err := v.chatRepo.Send(ctx, selected.Peer().ID, content); err != nil {
		v.logger.Error().Err(err).Str("recipientID", selected.Peer().ID).Msg("Failed to send message")
		return err
	}

	switch conv := selected.(type) {
	case *models.PendingConversation:
		v.promote(ctx, conv, gen)
	case *models.PersistedConversation:
		_, _ = v.loadMessages(ctx, conv, gen)
		v.reloadConversations(ctx)
	}
	return nil
}

// promote swaps a pending thread for the backend thread created by its
// first message. The list is fetched exactly once; if the thread is not in
// it yet, the selection stays pending.
func (v *ChatView) promote(ctx context.Context, pending *models.PendingConversation, gen uint64) {
	convs, err := v.chatRepo.ListConversations(ctx)
	if err != nil {
		v.logger.Error().Err(err).Msg("Failed to reload conversations after first message")
		return
	}

	v.mu.Lock()
	if v.state == ChatClosed {
		v.mu.Unlock()
		return
	}
	v.setConversationsLocked(convs)
	conv, found := models.FindConversationWith(convs, pending.OtherUser.ID)
	if !found || gen != v.generation {
		v.mu.Unlock()
		if !found {
			v.logger.Warn().Str("otherUserID", pending.OtherUser.ID).Msg("New conversation not listed yet")
		}
		return
	}
	v.mu.Unlock()

	gen = v.selectLocked(conv)
	if _, err := v.loadMessages(ctx, conv, gen); err != nil {
		return
	}
	v.startPoll(conv, gen)
}

func (v *ChatView) reloadConversations(ctx context.Context) {
	convs, err := v.chatRepo.ListConversations(ctx)
	if err != nil {
		v.logger.Error().Err(err).Msg("Failed to reload conversations")
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != ChatClosed {
		v.setConversationsLocked(convs)
	}
}

// DeleteMessage removes one of the user's messages after confirmation.
// The message disappears from the local list only.
func (v *ChatView) DeleteMessage(ctx context.Context, messageID string, confirmed bool) error {
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}
	if err := v.chatRepo.DeleteMessage(ctx, messageID); err != nil {
		v.logger.Error().Err(err).Str("messageID", messageID).Msg("Failed to delete message")
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.messages[:0:0]
	for _, m := range v.messages {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	v.messages = kept
	return nil
}

// Snapshot returns a copy of the current screen state
func (v *ChatView) Snapshot() ChatSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := ChatSnapshot{
		State:         v.state,
		Conversations: append([]models.PersistedConversation(nil), v.conversations...),
		Messages:      append([]models.Message(nil), v.messages...),
		Sending:       v.sending,
		LoadError:     v.loadErr,
		MessagesError: v.messagesErr,
	}
	switch c := v.selected.(type) {
	case *models.PersistedConversation:
		cp := *c
		snap.Selected = &cp
	case *models.PendingConversation:
		cp := *c
		snap.Selected = &cp
	}
	return snap
}

// Polling reports whether a message poll is running
func (v *ChatView) Polling() bool {
	return v.poll.Active()
}

// Closed reports whether the view was closed
func (v *ChatView) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state == ChatClosed
}

// Close stops the poll; the view stays closed. Safe to call repeatedly and
// on nil.
func (v *ChatView) Close() {
	if v == nil {
		return
	}
	v.mu.Lock()
	v.state = ChatClosed
	v.generation++
	v.mu.Unlock()
	v.poll.Stop()
}

// loadMessages fetches the thread and applies the result if it is still the
// newest load for the current selection.
func (v *ChatView) loadMessages(ctx context.Context, conv *models.PersistedConversation, gen uint64) ([]models.Message, error) {
	ticket := v.seq.Next()
	msgs, err := v.chatRepo.ListMessages(ctx, conv)

	v.mu.Lock()
	defer v.mu.Unlock()
	current := v.state != ChatClosed && gen == v.generation && v.seq.Latest(ticket)
	if err != nil {
		if current && ctx.Err() == nil {
			v.logger.Error().Err(err).Str("conversationID", conv.ID).Msg("Failed to load messages")
			v.messagesErr = apperrors.UserMessage(err, "Failed to load messages")
		}
		return nil, err
	}
	if current {
		v.messages = msgs
		v.messagesErr = ""
	}
	return msgs, nil
}

// markRead flags received unread messages in msgs. Each request runs on
// its own and failures are only logged.
func (v *ChatView) markRead(conversationID string, msgs []models.Message) {
	var unread []string
	for _, m := range msgs {
		if m.Recipient.ID == v.me.ID && !m.Read {
			unread = append(unread, m.ID)
		}
	}
	if len(unread) == 0 {
		return
	}

	for _, id := range unread {
		v.bg.Add(1)
		go func(id string) {
			defer v.bg.Done()
			if err := v.chatRepo.MarkRead(v.base, id); err != nil && v.base.Err() == nil {
				v.logger.Warn().Err(err).Str("messageID", id).Msg("Failed to mark message read")
			}
		}(id)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.conversations {
		if v.conversations[i].ID == conversationID {
			v.conversations[i].UnreadCount = 0
		}
	}
	if v.onConversations != nil {
		v.onConversations(v.conversations)
	}
}

// startPoll runs the message poll for conv unless the selection moved on
func (v *ChatView) startPoll(conv *models.PersistedConversation, gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == ChatClosed || gen != v.generation {
		return
	}
	v.poll.Replace(scheduler.Every(v.base, v.interval, func(ctx context.Context) {
		if v.abandoned() {
			v.logger.Debug().Str("conversationID", conv.ID).Msg("Chat screen abandoned, stopping poll")
			// Close waits for this goroutine, so it cannot run inline
			go v.Close()
			return
		}
		_, _ = v.loadMessages(ctx, conv, gen)
	}))
}

func (v *ChatView) setConversationsLocked(convs []models.PersistedConversation) {
	v.conversations = convs
	if v.onConversations != nil {
		v.onConversations(convs)
	}
}
