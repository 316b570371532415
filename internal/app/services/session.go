package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/auth"
	"github.com/nexusnu/webclient/internal/pkg/scheduler"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// SessionState is the auth lifecycle of one browser session
type SessionState int

const (
	SessionUninitialized SessionState = iota
	SessionLoading
	SessionAuthenticated
	SessionAnonymous
)

// String returns the state name used in logs
func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	}
	return "uninitialized"
}

// SessionOptions tunes the timers a session owns
type SessionOptions struct {
	MessagePollInterval time.Duration
	UnreadPollInterval  time.Duration
	SkillDebounce       time.Duration
	MaxSkills           int
	IdleTimeout         time.Duration
	// PollIdleTimeout pauses the polls once the browser has been quiet
	// this long
	PollIdleTimeout time.Duration
	Now             func() time.Time
}

func (o *SessionOptions) setDefaults() {
	if o.MessagePollInterval <= 0 {
		o.MessagePollInterval = 5 * time.Second
	}
	if o.UnreadPollInterval <= 0 {
		o.UnreadPollInterval = 30 * time.Second
	}
	if o.SkillDebounce <= 0 {
		o.SkillDebounce = 250 * time.Millisecond
	}
	if o.MaxSkills <= 0 {
		o.MaxSkills = validation.DefaultMaxSkills
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 2 * time.Hour
	}
	if o.PollIdleTimeout <= 0 {
		o.PollIdleTimeout = 2 * time.Minute
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type sessionDeps struct {
	authRepo  *repositories.AuthRepository
	chatRepo  *repositories.ChatRepository
	userRepo  *repositories.UserRepository
	skillRepo *repositories.SkillRepository
	opts      SessionOptions
	logger    zerolog.Logger
}

// Session is the client state of one browser: the token, the current user
// and the timers that belong to them. All of it dies with the session.
type Session struct {
	id     string
	deps   *sessionDeps
	root   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     SessionState
	token     string
	user      *models.User
	resolving chan struct{}
	lastSeen  time.Time

	chat   *ChatView
	unread *UnreadWatcher
	skills *SkillPicker
}

func newSession(id, token string, deps *sessionDeps) *Session {
	root, cancel := context.WithCancel(context.Background())
	return &Session{
		id:       id,
		deps:     deps,
		root:     root,
		cancel:   cancel,
		token:    token,
		lastSeen: deps.opts.Now(),
	}
}

// ID returns the session id stored in the browser cookie
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the bearer token, empty when anonymous
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current user, nil when anonymous
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is signed in
func (s *Session) IsAuthenticated() bool {
	return s.State() == SessionAuthenticated
}

// IsAdmin reports whether the signed-in user is an admin
func (s *Session) IsAdmin() bool {
	return s.User().IsAdmin()
}

// Context returns ctx carrying this session's bearer token
func (s *Session) Context(ctx context.Context) context.Context {
	return apiclient.WithToken(ctx, s.Token())
}

// Resolve settles the lifecycle once: Anonymous without a usable token,
// Authenticated when /auth/me accepts it. When the backend cannot answer,
// the session stays unresolved and keeps its token so a later call retries.
// Concurrent callers wait for the resolution already in flight.
func (s *Session) Resolve(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case SessionAuthenticated, SessionAnonymous:
		s.mu.Unlock()
		return nil
	case SessionLoading:
		wait := s.resolving
		s.mu.Unlock()
		select {
		case <-wait:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	done := make(chan struct{})
	s.state = SessionLoading
	s.resolving = done
	token := s.token
	s.mu.Unlock()
	defer close(done)

	// Resolution outlives the request that triggered it
	user, keepToken, err := s.lookupUser(context.WithoutCancel(ctx), token)

	s.mu.Lock()
	if s.resolving != done || s.state != SessionLoading {
		// a login or logout settled the state meanwhile
		s.mu.Unlock()
		return nil
	}
	s.resolving = nil
	if user == nil {
		if keepToken {
			// the token was not judged; the next request asks again
			s.state = SessionUninitialized
		} else {
			s.state = SessionAnonymous
			s.token = ""
		}
		s.mu.Unlock()
		return err
	}
	s.state = SessionAuthenticated
	s.user = user
	s.mu.Unlock()

	s.deps.logger.Debug().Str("session", s.id).Str("userID", user.ID).Msg("Session resolved")
	s.startWatcher(token)
	return nil
}

// lookupUser returns the token's user. keepToken is false when the token is
// known to be dead.
func (s *Session) lookupUser(ctx context.Context, token string) (*models.User, bool, error) {
	if token == "" {
		return nil, false, nil
	}
	if err := auth.CheckExpiry(token, s.deps.opts.Now()); err != nil {
		s.deps.logger.Debug().Str("session", s.id).Msg("Stored token expired")
		return nil, false, nil
	}

	user, err := s.deps.authRepo.Me(apiclient.WithToken(ctx, token))
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, false, nil
		}
		s.deps.logger.Error().Err(err).Str("session", s.id).Msg("Failed to resolve current user")
		return nil, true, err
	}
	return user, true, nil
}

// Login signs in with credentials
func (s *Session) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	if err := validation.Credentials(req.Email, req.Password); err != nil {
		return nil, err
	}
	resp, err := s.deps.authRepo.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	s.becomeAuthenticated(resp.Token, &resp.User)
	return &resp.User, nil
}

// Register creates an account and signs in with it
func (s *Session) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if err := validation.Registration(req.Name, req.Email, req.Password, string(req.Role)); err != nil {
		return nil, err
	}
	resp, err := s.deps.authRepo.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	s.becomeAuthenticated(resp.Token, &resp.User)
	return &resp.User, nil
}

func (s *Session) becomeAuthenticated(token string, user *models.User) {
	s.teardown()

	u := *user
	s.mu.Lock()
	s.token = token
	s.user = &u
	s.state = SessionAuthenticated
	s.resolving = nil
	s.mu.Unlock()

	s.deps.logger.Info().Str("session", s.id).Str("userID", u.ID).Msg("User signed in")
	s.startWatcher(token)
}

// Logout stops every timer the session owns, forgets the user and token,
// and then tells the backend. The backend's answer does not matter.
func (s *Session) Logout(ctx context.Context) {
	s.teardown()

	s.mu.Lock()
	token := s.token
	userID := ""
	if s.user != nil {
		userID = s.user.ID
	}
	s.token = ""
	s.user = nil
	s.state = SessionAnonymous
	s.resolving = nil
	s.mu.Unlock()

	if token == "" {
		return
	}
	if err := s.deps.authRepo.Logout(apiclient.WithToken(ctx, token)); err != nil {
		s.deps.logger.Warn().Err(err).Str("session", s.id).Msg("Backend logout failed")
	}
	s.deps.logger.Info().Str("session", s.id).Str("userID", userID).Msg("User signed out")
}

// Refresh re-reads the current user, e.g. after a profile edit
func (s *Session) Refresh(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return apperrors.ErrUnauthorized
	}
	user, err := s.deps.authRepo.Me(apiclient.WithToken(ctx, token))
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			s.Logout(ctx)
		}
		return err
	}

	s.mu.Lock()
	if s.token == token {
		s.user = user
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) startWatcher(token string) {
	w := NewUnreadWatcher(s.deps.chatRepo, s.deps.opts.UnreadPollInterval, s.deps.logger)
	w.active = s.recentlySeen

	s.mu.Lock()
	if s.token != token || s.state != SessionAuthenticated {
		s.mu.Unlock()
		return
	}
	prev := s.unread
	s.unread = w
	s.mu.Unlock()

	prev.Stop()
	w.Start(apiclient.WithToken(s.root, token))
}

// EnterChat returns the open chat view or creates one for the current user
func (s *Session) EnterChat() (*ChatView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if s.chat != nil && !s.chat.Closed() {
		s.chat.Touch()
		return s.chat, nil
	}
	s.chat = NewChatView(
		apiclient.WithToken(s.root, s.token),
		*s.user,
		s.deps.chatRepo,
		s.deps.userRepo,
		ChatViewOptions{
			PollInterval: s.deps.opts.MessagePollInterval,
			IdleTimeout:  s.deps.opts.PollIdleTimeout,
			Now:          s.deps.opts.Now,
		},
		s.deps.logger,
	)
	if s.unread != nil {
		s.chat.onConversations = s.unread.Set
	}
	return s.chat, nil
}

// Chat returns the open chat view, if any, and marks it as still shown
func (s *Session) Chat() *ChatView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chat != nil {
		s.chat.Touch()
	}
	return s.chat
}

// LeaveChat closes the chat view and its poll
func (s *Session) LeaveChat() {
	s.mu.Lock()
	chat := s.chat
	s.chat = nil
	s.mu.Unlock()
	chat.Close()
}

// UnreadCount is the navbar badge value
func (s *Session) UnreadCount() int {
	s.mu.Lock()
	w := s.unread
	s.mu.Unlock()
	return w.Count()
}

// Skills returns the session's skill picker
func (s *Session) Skills() *SkillPicker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skills == nil {
		s.skills = NewSkillPicker(s.deps.skillRepo, s.deps.opts.SkillDebounce, s.deps.opts.MaxSkills)
	}
	return s.skills
}

// teardown stops every owned timer and drops the owned views
func (s *Session) teardown() {
	s.mu.Lock()
	chat, unread := s.chat, s.unread
	s.chat, s.unread, s.skills = nil, nil, nil
	s.mu.Unlock()

	chat.Close()
	unread.Stop()
}

// Close ends the session for good
func (s *Session) Close() {
	s.teardown()
	s.cancel()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// recentlySeen reports whether the browser made a request within the poll
// idle timeout
func (s *Session) recentlySeen() bool {
	return s.deps.opts.Now().Sub(s.idleSince()) <= s.deps.opts.PollIdleTimeout
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionStore maps session ids to sessions and evicts idle ones
type SessionStore struct {
	deps    *sessionDeps
	sweeper scheduler.Slot

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(repos *repositories.Repositories, opts SessionOptions, logger zerolog.Logger) *SessionStore {
	opts.setDefaults()
	return &SessionStore{
		deps: &sessionDeps{
			authRepo:  repos.AuthRepository,
			chatRepo:  repos.ChatRepository,
			userRepo:  repos.UserRepository,
			skillRepo: repos.SkillRepository,
			opts:      opts,
			logger:    logger,
		},
		sessions: map[string]*Session{},
	}
}

// Get returns the session for id, creating it with token when unknown.
// An empty id always creates a new session.
func (st *SessionStore) Get(id, token string) *Session {
	now := st.deps.opts.Now()

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok && id != "" {
		s.touch(now)
		return s
	}
	if id == "" {
		id = uuid.NewString()
	}
	s := newSession(id, token, st.deps)
	st.sessions[id] = s
	return s
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// StartSweeper evicts idle sessions until ctx ends or Close
func (st *SessionStore) StartSweeper(ctx context.Context) {
	interval := st.deps.opts.IdleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	st.sweeper.Replace(scheduler.Every(ctx, interval, func(context.Context) {
		if n := st.Sweep(st.deps.opts.Now()); n > 0 {
			st.deps.logger.Debug().Int("evicted", n).Msg("Evicted idle sessions")
		}
	}))
}

// Sweep closes sessions idle for longer than the idle timeout
func (st *SessionStore) Sweep(now time.Time) int {
	var stale []*Session

	st.mu.Lock()
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > st.deps.opts.IdleTimeout {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Close stops the sweeper and every session
func (st *SessionStore) Close() {
	st.sweeper.Stop()

	st.mu.Lock()
	all := st.sessions
	st.sessions = map[string]*Session{}
	st.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
