package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/jobsearch"
	"github.com/nexusnu/webclient/internal/testsupport"
)

type testEnv struct {
	backend *testsupport.Backend
	repos   *repositories.Repositories
	me      models.User
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := testsupport.NewBackend(t)
	api := apiclient.New(backend.URL(), 2*time.Second, zerolog.Nop())
	jobs := jobsearch.New(jobsearch.Config{}, zerolog.Nop())

	me := models.User{ID: "me", Name: "Ada", Email: "ada@nu.edu", Role: models.RoleStudent}
	token := backend.AddUser(me, "secret1")
	return &testEnv{
		backend: backend,
		repos:   repositories.NewRepositories(api, jobs),
		me:      me,
		token:   token,
	}
}

// ctx carries the signed-in user's token
func (e *testEnv) ctx() context.Context {
	return apiclient.WithToken(context.Background(), e.token)
}

func (e *testEnv) addUser(id, name string, role models.UserRole) models.User {
	u := models.User{ID: id, Name: name, Email: id + "@nu.edu", Role: role}
	e.backend.AddUser(u, "secret1")
	return u
}

func (e *testEnv) chatView(t *testing.T, interval time.Duration) *ChatView {
	t.Helper()
	return e.chatViewWith(t, ChatViewOptions{PollInterval: interval})
}

func (e *testEnv) chatViewWith(t *testing.T, opts ChatViewOptions) *ChatView {
	t.Helper()
	v := NewChatView(e.ctx(), e.me, e.repos.ChatRepository, e.repos.UserRepository, opts, zerolog.Nop())
	t.Cleanup(v.Close)
	return v
}

// waitBackground blocks until the view's fire-and-forget requests finish
func (v *ChatView) waitBackground() {
	v.bg.Wait()
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
