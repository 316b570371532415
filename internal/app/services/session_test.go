package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

const routeMe = "GET /api/auth/me"

func newTestStore(t *testing.T, env *testEnv, opts SessionOptions) *SessionStore {
	t.Helper()
	if opts.UnreadPollInterval == 0 {
		opts.UnreadPollInterval = time.Hour
	}
	if opts.MessagePollInterval == 0 {
		opts.MessagePollInterval = time.Hour
	}
	store := NewSessionStore(env.repos, opts, zerolog.Nop())
	t.Cleanup(store.Close)
	return store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "me",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestResolveWithoutTokenIsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	s := newTestStore(t, env, SessionOptions{}).Get("", "")

	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.State() != SessionAnonymous || s.User() != nil {
		t.Fatalf("expected anonymous session, got %s", s.State())
	}
	if n := env.backend.Calls(routeMe); n != 0 {
		t.Fatalf("anonymous resolution must not call /auth/me, got %d", n)
	}
}

func TestResolveWithValidToken(t *testing.T) {
	env := newTestEnv(t)
	env.addUser("u2", "Linus", "student")
	env.backend.AddMessage("u2", "me", "hi", false)
	env.backend.AddMessage("u2", "me", "there", false)
	s := newTestStore(t, env, SessionOptions{}).Get("", env.token)

	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated, got %s", s.State())
	}
	if u := s.User(); u == nil || u.ID != "me" {
		t.Fatalf("unexpected user %+v", u)
	}
	if got := s.UnreadCount(); got != 2 {
		t.Fatalf("expected unread count 2, got %d", got)
	}
}

func TestResolveRunsOnceForConcurrentCallers(t *testing.T) {
	env := newTestEnv(t)
	release := make(chan struct{})
	env.backend.Hook(routeMe, func() { <-release })
	s := newTestStore(t, env, SessionOptions{}).Get("", env.token)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Resolve(context.Background()); err != nil {
				failures.Add(1)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if failures.Load() != 0 {
		t.Fatalf("%d callers failed", failures.Load())
	}
	if n := env.backend.Calls(routeMe); n != 1 {
		t.Fatalf("expected a single /auth/me call, got %d", n)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated, got %s", s.State())
	}
}

func TestResolveExpiredTokenSkipsBackend(t *testing.T) {
	env := newTestEnv(t)
	s := newTestStore(t, env, SessionOptions{}).Get("", signedToken(t, time.Now().Add(-time.Minute)))

	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.State() != SessionAnonymous || s.Token() != "" {
		t.Fatalf("expected anonymous without token, got %s %q", s.State(), s.Token())
	}
	if n := env.backend.Calls(routeMe); n != 0 {
		t.Fatalf("expired token must not reach the backend, got %d calls", n)
	}
}

func TestResolveRejectedTokenIsDropped(t *testing.T) {
	env := newTestEnv(t)
	s := newTestStore(t, env, SessionOptions{}).Get("", "tok-revoked")

	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.State() != SessionAnonymous || s.Token() != "" {
		t.Fatalf("expected anonymous without token, got %s %q", s.State(), s.Token())
	}
}

func TestResolveBackendDownKeepsToken(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Fail(routeMe, 503, "maintenance")
	s := newTestStore(t, env, SessionOptions{}).Get("", env.token)

	if err := s.Resolve(context.Background()); err == nil {
		t.Fatal("expected an error when the backend is down")
	}
	if s.IsAuthenticated() {
		t.Fatal("session authenticated without a user")
	}
	if s.Token() != env.token {
		t.Fatal("token dropped although it was not rejected")
	}
}

func TestResolveRetriesAfterBackendRecovers(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Fail(routeMe, 503, "maintenance")
	store := newTestStore(t, env, SessionOptions{})
	s := store.Get("", env.token)

	if err := s.Resolve(context.Background()); err == nil {
		t.Fatal("expected an error when the backend is down")
	}

	env.backend.Recover(routeMe)
	again := store.Get(s.ID(), env.token)
	if again != s {
		t.Fatal("store returned a different session")
	}
	if err := again.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve after recovery: %v", err)
	}
	if !again.IsAuthenticated() {
		t.Fatalf("expected authenticated after recovery, got %s", again.State())
	}
	if n := env.backend.Calls(routeMe); n != 2 {
		t.Fatalf("expected a second /auth/me call, got %d", n)
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := newTestEnv(t)
	env.addUser("u2", "Linus", "student")
	env.backend.AddMessage("u2", "me", "hi", true)
	s := newTestStore(t, env, SessionOptions{}).Get("", "")
	_ = s.Resolve(context.Background())

	if _, err := s.Login(context.Background(), &dto.LoginRequest{Email: "ada@nu.edu", Password: "wrong"}); err == nil {
		t.Fatal("expected wrong password to fail")
	}
	if s.IsAuthenticated() {
		t.Fatal("failed login authenticated the session")
	}

	user, err := s.Login(context.Background(), &dto.LoginRequest{Email: "ada@nu.edu", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "me" || !s.IsAuthenticated() || s.Token() == "" {
		t.Fatalf("login did not authenticate: %s", s.State())
	}

	chat, err := s.EnterChat()
	if err != nil {
		t.Fatalf("enter chat: %v", err)
	}
	_ = chat.Load(s.Context(context.Background()))
	if err := chat.Select(s.Context(context.Background()), "c-me-u2"); err != nil {
		t.Fatalf("select: %v", err)
	}

	env.backend.Fail("POST /api/auth/logout", 500, "boom")
	s.Logout(context.Background())

	if s.State() != SessionAnonymous || s.User() != nil || s.Token() != "" {
		t.Fatal("logout did not clear the session")
	}
	if chat.Polling() || !chat.Closed() {
		t.Fatal("chat poll survived logout")
	}
	if s.Chat() != nil || s.UnreadCount() != 0 {
		t.Fatal("owned views survived logout")
	}
	if n := env.backend.Calls("POST /api/auth/logout"); n != 1 {
		t.Fatalf("expected one backend logout, got %d", n)
	}
}

func TestLoginValidatesBeforeRequest(t *testing.T) {
	env := newTestEnv(t)
	s := newTestStore(t, env, SessionOptions{}).Get("", "")

	_, err := s.Login(context.Background(), &dto.LoginRequest{Email: "not-an-email", Password: "x"})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := env.backend.Calls("POST /api/auth/login"); n != 0 {
		t.Fatalf("invalid form reached the backend %d times", n)
	}
}

func TestRegisterAuthenticates(t *testing.T) {
	env := newTestEnv(t)
	s := newTestStore(t, env, SessionOptions{}).Get("", "")

	user, err := s.Register(context.Background(), &dto.RegisterRequest{
		Name: "Edsger", Email: "edsger@nu.edu", Password: "secret1", Role: "professor", Department: "CS",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !s.IsAuthenticated() || user.Name != "Edsger" {
		t.Fatalf("register did not authenticate: %s", s.State())
	}
}

func TestEnterChatRequiresUser(t *testing.T) {
	env := newTestEnv(t)
	s := newTestStore(t, env, SessionOptions{}).Get("", "")
	_ = s.Resolve(context.Background())

	if _, err := s.EnterChat(); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestStoreReturnsSameSession(t *testing.T) {
	env := newTestEnv(t)
	store := newTestStore(t, env, SessionOptions{})

	s := store.Get("", env.token)
	if s.ID() == "" {
		t.Fatal("expected a generated session id")
	}
	if again := store.Get(s.ID(), ""); again != s {
		t.Fatal("expected the stored session")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	store := newTestStore(t, env, SessionOptions{IdleTimeout: time.Hour, Now: clock})

	idle := store.Get("", env.token)
	_ = idle.Resolve(context.Background())

	mu.Lock()
	now = now.Add(30 * time.Minute)
	mu.Unlock()
	active := store.Get("", "")

	if n := store.Sweep(now.Add(45 * time.Minute)); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session left, got %d", store.Len())
	}
	if store.Get(active.ID(), "") != active {
		t.Fatal("active session was evicted")
	}
	if idle.UnreadCount() != 0 {
		t.Fatal("evicted session kept its unread watcher")
	}
}

func TestUnreadPollPausesWhileBrowserIsQuiet(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	store := newTestStore(t, env, SessionOptions{
		UnreadPollInterval: 10 * time.Millisecond,
		PollIdleTimeout:    time.Minute,
		Now:                clock,
	})
	s := store.Get("", env.token)
	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	mu.Lock()
	now = now.Add(5 * time.Minute)
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)

	quiet := env.backend.Calls(routeConversations)
	time.Sleep(60 * time.Millisecond)
	if n := env.backend.Calls(routeConversations); n != quiet {
		t.Fatalf("unread poll kept calling the backend while idle: %d -> %d", quiet, n)
	}

	store.Get(s.ID(), env.token)
	deadline := time.Now().Add(2 * time.Second)
	for env.backend.Calls(routeConversations) == quiet && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if env.backend.Calls(routeConversations) == quiet {
		t.Fatal("unread poll did not resume after the browser came back")
	}
}
