package routes_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/bootstrap"
	"github.com/nexusnu/webclient/internal/config"
	"github.com/nexusnu/webclient/internal/testsupport"
)

type testApp struct {
	backend *testsupport.Backend
	server  *httptest.Server
	client  *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := testsupport.NewBackend(t)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.SessionSecret = strings.Repeat("k", 32)
	cfg.Backend.BaseURL = backend.URL()
	cfg.Chat.MessagePollInterval = "1h"
	cfg.Chat.UnreadPollInterval = "1h"
	cfg.Skills.MaxSkills = 50

	deps, err := bootstrap.BuildDependencies(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build dependencies: %v", err)
	}
	t.Cleanup(deps.Sessions.Close)

	srv := httptest.NewServer(bootstrap.SetupRouter(cfg, deps, zerolog.Nop()))
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &testApp{
		backend: backend,
		server:  srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (a *testApp) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func (a *testApp) login(t *testing.T, email, password string) {
	t.Helper()
	resp := a.post(t, "/login", url.Values{"email": {email}, "password": {password}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("login: expected redirect home, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		t.Fatalf("expected a redirect to %s, got %d", location, resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

func addStudent(a *testApp) models.User {
	me := models.User{ID: "me", Name: "Ada", Email: "ada@nu.edu", Role: models.RoleStudent}
	a.backend.AddUser(me, "secret1")
	return me
}

func TestProtectedRoutesRedirectAnonymousToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/posts/create", "/events/create", "/profile/edit", "/chat", "/chat/u123"} {
		resp, _ := app.get(t, path)
		expectRedirect(t, resp, "/login")
	}
	if n := app.backend.Calls("GET /api/auth/me"); n != 0 {
		t.Fatalf("anonymous visitor triggered %d /auth/me calls", n)
	}
}

func TestAdminRedirectsAnonymousHome(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/admin")
	expectRedirect(t, resp, "/")
	resp = app.post(t, "/admin/users/u1/delete", nil)
	expectRedirect(t, resp, "/")
	if n := app.backend.Calls("DELETE /api/users/:id"); n != 0 {
		t.Fatalf("anonymous admin action reached the backend %d times", n)
	}
}

func TestChatStateRequiresAuthAsJSON(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/chat/state")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var envelope dto.ErrorResponse
	if err := json.Unmarshal([]byte(body), &envelope); err != nil || envelope.Error == nil {
		t.Fatalf("expected an error envelope, got %s", body)
	}
	if envelope.Error.Code != dto.ErrorCodeUnauthorized {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestAdminRedirectsNonAdminHome(t *testing.T) {
	app := newTestApp(t)
	addStudent(app)
	app.login(t, "ada@nu.edu", "secret1")

	resp, _ := app.get(t, "/admin")
	expectRedirect(t, resp, "/")
}

func TestAdminDashboardRendersForAdmin(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(models.User{ID: "root", Name: "Root", Email: "root@nu.edu", Role: models.RoleAdmin}, "secret1")
	app.login(t, "root@nu.edu", "secret1")

	resp, body := app.get(t, "/admin")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "Admin dashboard") {
		t.Fatal("dashboard not rendered")
	}
}

func TestUnknownPathRedirectsHome(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/no/such/page")
	expectRedirect(t, resp, "/")
}

func TestLoginUnlocksProtectedPages(t *testing.T) {
	app := newTestApp(t)
	addStudent(app)

	resp := app.post(t, "/login", url.Values{"email": {"ada@nu.edu"}, "password": {"wrong"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected the form back with 401, got %d", resp.StatusCode)
	}

	app.login(t, "ada@nu.edu", "secret1")
	resp, body := app.get(t, "/posts/create")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "New post") {
		t.Fatal("post form not rendered")
	}

	resp, _ = app.get(t, "/login")
	expectRedirect(t, resp, "/")

	resp = app.post(t, "/logout", nil)
	expectRedirect(t, resp, "/login")
	resp, _ = app.get(t, "/posts/create")
	expectRedirect(t, resp, "/login")
}

func TestLoginFormValidation(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/login", url.Values{"email": {"not-an-email"}, "password": {"x"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if n := app.backend.Calls("POST /api/auth/login"); n != 0 {
		t.Fatalf("invalid form reached the backend %d times", n)
	}
}

func TestPostLikedByViewerRendersLiked(t *testing.T) {
	app := newTestApp(t)
	addStudent(app)
	app.backend.AddUser(models.User{ID: "u2", Name: "Linus", Email: "linus@nu.edu"}, "secret1")
	id := app.backend.AddPost(models.Post{Title: "Hello", Content: "World", Likes: []string{"me"}}, "u2")
	app.login(t, "ada@nu.edu", "secret1")

	resp, body := app.get(t, "/posts/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `aria-pressed="true"`) {
		t.Fatal("post liked by the viewer is not rendered as liked")
	}

	resp = app.post(t, "/posts/"+id+"/like", nil)
	expectRedirect(t, resp, "/posts/"+id)
	if n := app.backend.Calls("POST /api/posts/:id/like"); n != 1 {
		t.Fatalf("expected one toggle call, got %d", n)
	}
	if p, _ := app.backend.Post(id); len(p.Likes) != 0 {
		t.Fatalf("expected the like removed, got %v", p.Likes)
	}

	_, body = app.get(t, "/posts/" + id)
	if !strings.Contains(body, `aria-pressed="false"`) {
		t.Fatal("unliked post still rendered as liked")
	}
}

func TestAnonymousPostDetailHasNoLikeButton(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(models.User{ID: "u2", Name: "Linus", Email: "linus@nu.edu"}, "secret1")
	id := app.backend.AddPost(models.Post{Title: "Hello", Content: "World"}, "u2")

	resp, body := app.get(t, "/posts/"+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if strings.Contains(body, "aria-pressed") {
		t.Fatal("anonymous visitor got a like button")
	}
}

func TestMissingPostRendersNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/posts/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func chatState(t *testing.T, app *testApp) dto.ChatStateResponse {
	t.Helper()
	resp, body := app.get(t, "/chat/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat state: %d %s", resp.StatusCode, body)
	}
	var envelope struct {
		Data dto.ChatStateResponse `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("decode chat state: %v", err)
	}
	return envelope.Data
}

func TestChatWithUnlistedUserIsPending(t *testing.T) {
	app := newTestApp(t)
	addStudent(app)
	app.backend.AddUser(models.User{ID: "u123", Name: "Grace", Email: "grace@nu.edu"}, "secret1")
	app.login(t, "ada@nu.edu", "secret1")

	resp, body := app.get(t, "/chat/u123")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "new conversation") {
		t.Fatal("pending conversation not rendered")
	}
	if !strings.Contains(body, `id="composer"`) || strings.Contains(body, "disabled>Send") {
		t.Fatal("expected an enabled composer the send script can lock")
	}

	state := chatState(t, app)
	if !state.Pending || state.OtherUserID != "u123" || len(state.Messages) != 0 {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.State != "selected_pending" {
		t.Fatalf("expected selected_pending, got %s", state.State)
	}

	resp = app.post(t, "/chat/send", url.Values{"content": {"Hi Grace"}})
	expectRedirect(t, resp, "/chat")
	state = chatState(t, app)
	if state.Pending || state.SelectedID == "" || len(state.Messages) != 1 {
		t.Fatalf("expected a persisted conversation after the first message, got %+v", state)
	}
}

func TestLeavingChatClosesTheView(t *testing.T) {
	app := newTestApp(t)
	addStudent(app)
	app.backend.AddUser(models.User{ID: "u2", Name: "Linus", Email: "linus@nu.edu"}, "secret1")
	app.backend.AddMessage("u2", "me", "hello", false)
	app.login(t, "ada@nu.edu", "secret1")

	resp, body := app.get(t, "/chat")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "Linus") {
		t.Fatal("conversation list not rendered")
	}
	if got := chatState(t, app).State; got != "ready" {
		t.Fatalf("expected ready, got %s", got)
	}

	app.get(t, "/posts")
	if got := chatState(t, app).State; got != "closed" {
		t.Fatalf("expected the chat view closed after leaving, got %s", got)
	}
}

func TestChatSendRejectsLongMessage(t *testing.T) {
	app := newTestApp(t)
	addStudent(app)
	app.backend.AddUser(models.User{ID: "u2", Name: "Linus", Email: "linus@nu.edu"}, "secret1")
	app.login(t, "ada@nu.edu", "secret1")
	app.get(t, "/chat/u2")

	resp := app.post(t, "/chat/send", url.Values{"content": {strings.Repeat("a", 1001)}})
	expectRedirect(t, resp, "/chat")
	if n := app.backend.Calls("POST /api/chat/messages"); n != 0 {
		t.Fatalf("over-long message reached the backend %d times", n)
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/ping")
	if resp.Header.Get("X-Frame-Options") != "DENY" || resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers: %v", resp.Header)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing request id")
	}
}

func TestChatMessagesFragmentKeepsDeleteForms(t *testing.T) {
	app := newTestApp(t)
	addStudent(app)
	app.backend.AddUser(models.User{ID: "u2", Name: "Linus", Email: "linus@nu.edu"}, "secret1")
	app.backend.AddMessage("u2", "me", "hello", true)
	mine := app.backend.AddMessage("me", "u2", "hi back", true)
	app.login(t, "ada@nu.edu", "secret1")

	if resp, body := app.get(t, "/chat/u2"); resp.StatusCode != http.StatusOK {
		t.Fatalf("open chat: %d %s", resp.StatusCode, body)
	}

	resp, body := app.get(t, "/chat/messages")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(body, "<html") {
		t.Fatal("fragment rendered with the layout")
	}
	if !strings.Contains(body, `data-id="`+mine+`"`) || !strings.Contains(body, `action="/chat/messages/`+mine+`/delete"`) {
		t.Fatalf("own message lost its delete form: %s", body)
	}
	if strings.Count(body, `name="confirm"`) != 1 {
		t.Fatalf("expected a delete form only on the viewer's message: %s", body)
	}
	if !strings.Contains(body, `class="meta"`) {
		t.Fatal("message time missing")
	}

	app.get(t, "/posts")
	resp, _ = app.get(t, "/chat/messages")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 once the chat screen is closed, got %d", resp.StatusCode)
	}
}

func TestProfileUpdateAppliesScriptlessListEdits(t *testing.T) {
	app := newTestApp(t)
	me := addStudent(app)
	app.login(t, "ada@nu.edu", "secret1")

	certs := []string{
		`{"platform":"coursera","certificate_name":"ML","issuer":"Stanford","credential_id":"a"}`,
		`{"platform":"udemy","certificate_name":"Go","issuer":"Udemy","credential_id":"b"}`,
		`{"platform":"edx","certificate_name":"Algo","issuer":"MIT","credential_id":"c"}`,
	}
	resp := app.post(t, "/profile/edit", url.Values{
		"name":        {"Ada"},
		"skills":      {"Go", "SQL"},
		"add_skill":   {" Rust "},
		"cert_json":   certs,
		"remove_cert": {"0", "2", "2", "9", "x"},
	})
	expectRedirect(t, resp, "/profile/"+me.ID)

	saved, _ := app.backend.User(me.ID)
	if strings.Join(saved.Skills, ",") != "Go,SQL,Rust" {
		t.Fatalf("skills: %v", saved.Skills)
	}
	if len(saved.Certifications) != 1 || saved.Certifications[0].CredentialID != "b" {
		t.Fatalf("certifications: %+v", saved.Certifications)
	}

	// naming a selected skill again removes it
	resp = app.post(t, "/profile/edit", url.Values{
		"name":      {"Ada"},
		"skills":    {"Go", "SQL"},
		"add_skill": {"SQL"},
	})
	expectRedirect(t, resp, "/profile/"+me.ID)
	saved, _ = app.backend.User(me.ID)
	if strings.Join(saved.Skills, ",") != "Go" {
		t.Fatalf("skills after toggle: %v", saved.Skills)
	}
}
