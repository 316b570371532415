package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/scheduler"
)

// UnreadWatcher keeps the navbar's unread message count fresh
type UnreadWatcher struct {
	chatRepo *repositories.ChatRepository
	interval time.Duration
	logger   zerolog.Logger
	// active gates the periodic refresh; polls are skipped while it is false
	active func() bool

	count   atomic.Int64
	mu      sync.Mutex
	task    *scheduler.Task
	stopped bool
}

// NewUnreadWatcher creates a watcher polling every interval
func NewUnreadWatcher(chatRepo *repositories.ChatRepository, interval time.Duration, logger zerolog.Logger) *UnreadWatcher {
	return &UnreadWatcher{
		chatRepo: chatRepo,
		interval: interval,
		logger:   logger,
	}
}

// Start refreshes the count once, then keeps polling until Stop. ctx must
// carry the session token.
func (w *UnreadWatcher) Start(ctx context.Context) {
	_ = w.Refresh(ctx)

	task := scheduler.Every(ctx, w.interval, func(ctx context.Context) {
		if w.active != nil && !w.active() {
			return
		}
		_ = w.Refresh(ctx)
	})

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		task.Stop()
		return
	}
	prev := w.task
	w.task = task
	w.mu.Unlock()
	prev.Stop()
}

// Refresh fetches the conversation list and sums its unread counts
func (w *UnreadWatcher) Refresh(ctx context.Context) error {
	convs, err := w.chatRepo.ListConversations(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn().Err(err).Msg("Failed to refresh unread count")
		}
		return err
	}
	w.Set(convs)
	return nil
}

// Set stores the unread total of convs
func (w *UnreadWatcher) Set(convs []models.PersistedConversation) {
	w.count.Store(int64(models.TotalUnread(convs)))
}

// Count returns the last known unread total
func (w *UnreadWatcher) Count() int {
	if w == nil {
		return 0
	}
	return int(w.count.Load())
}

// Stop ends polling for good; safe on a nil or stopped watcher
func (w *UnreadWatcher) Stop() {
	if w == nil {
		return
	}
	w.mu.Lock()
	task := w.task
	w.task = nil
	w.stopped = true
	w.mu.Unlock()
	task.Stop()
}

// Running reports whether the poll is active
func (w *UnreadWatcher) Running() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.task != nil
}
