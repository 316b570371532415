// Package testsupport provides an in-memory NexusNU API for tests.
package testsupport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
)

type failure struct {
	status  int
	message string
}

// Backend is a fake NexusNU REST API served by httptest. Every route is
// counted by method and gin pattern, e.g. "GET /api/chat/conversations".
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	seq       int
	users     map[string]*models.User
	passwords map[string]string
	tokens    map[string]string
	posts     map[string]*models.Post
	events    map[string]*models.Event
	messages  []*models.Message
	comments  map[string][]models.JobComment
	skills    []models.Skill
	calls     map[string]int
	failures  map[string]failure
	hooks     map[string]func()
	now       func() time.Time
}

// NewBackend starts a fake backend; it is closed when the test ends.
func NewBackend(t interface{ Cleanup(func()) }) *Backend {
	gin.SetMode(gin.TestMode)
	b := &Backend{
		users:     map[string]*models.User{},
		passwords: map[string]string{},
		tokens:    map[string]string{},
		posts:     map[string]*models.Post{},
		events:    map[string]*models.Event{},
		comments:  map[string][]models.JobComment{},
		calls:     map[string]int{},
		failures:  map[string]failure{},
		hooks:     map[string]func(){},
		now:       time.Now,
		skills: []models.Skill{
			{ID: "s1", Name: "Go"}, {ID: "s2", Name: "Golang"}, {ID: "s3", Name: "GraphQL"},
			{ID: "s4", Name: "Python"}, {ID: "s5", Name: "PostgreSQL"},
		},
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API root to configure the client with
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// Calls returns how many times route ("GET /api/users/:id") was hit
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Fail makes every later request to route answer status with message
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, message: message}
}

// Recover undoes Fail
func (b *Backend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

// Hook runs fn before route is handled, outside the backend lock
func (b *Backend) Hook(route string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks[route] = fn
}

// AddUser stores u with password and returns a token for it
func (b *Backend) AddUser(u models.User, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == "" {
		u.ID = b.nextID("u")
	}
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = b.now()
	}
	b.users[u.ID] = &u
	b.passwords[strings.ToLower(u.Email)] = password
	return b.issueToken(u.ID)
}

// TokenFor issues another token for an existing user
func (b *Backend) TokenFor(userID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueToken(userID)
}

// AddPost stores p authored by authorID
func (b *Backend) AddPost(p models.Post, authorID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == "" {
		p.ID = b.nextID("p")
	}
	p.Author = *b.users[authorID]
	if p.CreatedAt.IsZero() {
		p.CreatedAt = b.now()
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	b.posts[p.ID] = &p
	return p.ID
}

// AddEvent stores e organized by organizerID
func (b *Backend) AddEvent(e models.Event, organizerID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.ID == "" {
		e.ID = b.nextID("e")
	}
	e.Organizer = *b.users[organizerID]
	if e.CreatedAt.IsZero() {
		e.CreatedAt = b.now()
	}
	b.events[e.ID] = &e
	return e.ID
}

// AddMessage stores a message from one user to another
func (b *Backend) AddMessage(fromID, toID, content string, read bool) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addMessage(fromID, toID, content, read).ID
}

// Post returns a copy of the stored post
func (b *Backend) Post(id string) (models.Post, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return *p, true
}

// Event returns a copy of the stored event
func (b *Backend) Event(id string) (models.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[id]
	if !ok {
		return models.Event{}, false
	}
	return *e, true
}

// User returns a copy of the stored user
func (b *Backend) User(id string) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// Message returns a copy of a stored message
func (b *Backend) Message(id string) (models.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.messages {
		if m.ID == id {
			return *m, true
		}
	}
	return models.Message{}, false
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return prefix + strconv.Itoa(b.seq)
}

func (b *Backend) issueToken(userID string) string {
	token := "tok-" + b.nextID(userID+"-")
	b.tokens[token] = userID
	return token
}

func (b *Backend) addMessage(fromID, toID, content string, read bool) *models.Message {
	m := &models.Message{
		ID:        b.nextID("m"),
		Sender:    *b.users[fromID],
		Recipient: *b.users[toID],
		Content:   content,
		Read:      read,
		CreatedAt: b.now(),
	}
	b.messages = append(b.messages, m)
	return m
}

func conversationID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return "c-" + a + "-" + b
}

func (b *Backend) router() *gin.Engine {
	r := gin.New()
	r.Use(b.track)

	api := r.Group("/api")
	api.POST("/auth/register", b.register)
	api.POST("/auth/login", b.login)
	api.POST("/auth/logout", b.authed(func(c *gin.Context, me *models.User) { c.JSON(http.StatusOK, gin.H{"message": "Logged out"}) }))
	api.GET("/auth/me", b.authed(func(c *gin.Context, me *models.User) { c.JSON(http.StatusOK, dto.CurrentUserResponse{User: *me}) }))

	api.GET("/users", b.listUsers)
	api.GET("/users/:id", b.getUser)
	api.PUT("/users/profile", b.authed(b.updateProfile))
	api.POST("/users/profile/picture", b.authed(b.uploadPicture))
	api.POST("/users/:id/follow", b.authed(b.follow))
	api.DELETE("/users/:id/unfollow", b.authed(b.unfollow))
	api.DELETE("/users/:id", b.authed(b.deleteUser))

	api.GET("/skills/search", b.searchSkills)
	api.GET("/certifications/fetch", b.authed(b.fetchCertification))

	api.GET("/posts", b.listPosts)
	api.GET("/posts/:id", b.getPost)
	api.GET("/posts/user/:id", b.listPostsByUser)
	api.POST("/posts", b.authed(b.createPost))
	api.PUT("/posts/:id", b.authed(b.updatePost))
	api.DELETE("/posts/:id", b.authed(b.deletePost))
	api.POST("/posts/:id/like", b.authed(b.toggleLike))
	api.POST("/posts/:id/comment", b.authed(b.addComment))
	api.DELETE("/posts/:id/comment/:commentId", b.authed(b.deleteComment))

	api.GET("/events", b.listEvents)
	api.GET("/events/:id", b.getEvent)
	api.GET("/events/user/:id", b.listEventsByUser)
	api.POST("/events", b.authed(b.createEvent))
	api.PUT("/events/:id", b.authed(b.updateEvent))
	api.DELETE("/events/:id", b.authed(b.deleteEvent))
	api.POST("/events/:id/join", b.authed(b.joinEvent))
	api.POST("/events/:id/leave", b.authed(b.leaveEvent))

	api.GET("/chat/conversations", b.authed(b.listConversations))
	api.GET("/chat/conversations/:id/messages", b.authed(b.listMessages))
	api.POST("/chat/messages", b.authed(b.sendMessage))
	api.PUT("/chat/messages/:id/read", b.authed(b.markRead))
	api.DELETE("/chat/messages/:id", b.authed(b.deleteMessage))

	api.GET("/jobs/:id/comments", b.listJobComments)
	api.POST("/jobs/:id/comments", b.authed(b.addJobComment))
	api.DELETE("/jobs/:id/comments/:commentId", b.authed(b.deleteJobComment))
	return r
}

func (b *Backend) track(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()

	b.mu.Lock()
	b.calls[route]++
	f, failing := b.failures[route]
	hook := b.hooks[route]
	b.mu.Unlock()

	if hook != nil {
		hook()
	}
	if failing {
		c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
		return
	}
	c.Next()
}

func (b *Backend) authed(h func(*gin.Context, *models.User)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		b.mu.Lock()
		userID, ok := b.tokens[token]
		me := b.users[userID]
		b.mu.Unlock()
		if !ok || me == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		u := *me
		h(c, &u)
	}
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"message": what + " not found"})
}

func (b *Backend) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid registration data"})
		return
	}
	b.mu.Lock()
	if _, taken := b.passwords[strings.ToLower(req.Email)]; taken {
		b.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}
	b.mu.Unlock()

	u := models.User{Name: req.Name, Email: req.Email, Role: req.Role, Bio: req.Bio, Major: req.Major, Department: req.Department}
	token := b.AddUser(u, req.Password)

	b.mu.Lock()
	created := *b.users[b.tokens[token]]
	b.mu.Unlock()
	c.JSON(http.StatusCreated, dto.AuthResponse{Message: "Registered", User: created, Token: token})
}

func (b *Backend) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.passwords[strings.ToLower(req.Email)] != req.Password || req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	for _, u := range b.users {
		if strings.EqualFold(u.Email, req.Email) {
			c.JSON(http.StatusOK, dto.AuthResponse{Message: "Logged in", User: *u, Token: b.issueToken(u.ID)})
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
}

func (b *Backend) listUsers(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	users := make([]models.User, 0, len(b.users))
	for _, u := range b.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	c.JSON(http.StatusOK, dto.UserListResponse{Users: users})
}

func (b *Backend) getUser(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[c.Param("id")]
	if !ok {
		notFound(c, "User")
		return
	}
	resp := dto.ProfileResponse{User: *u, Posts: []models.Post{}, Events: []models.Event{}}
	for _, p := range b.sortedPosts() {
		if p.Author.ID == u.ID {
			resp.Posts = append(resp.Posts, p)
		}
	}
	for _, e := range b.sortedEvents() {
		if e.Organizer.ID == u.ID {
			resp.Events = append(resp.Events, e)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (b *Backend) updateProfile(c *gin.Context, me *models.User) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[me.ID]
	u.Name, u.Bio, u.Major, u.Department = req.Name, req.Bio, req.Major, req.Department
	u.Skills = req.Skills
	u.Certifications = req.Certifications
	u.UpdatedAt = b.now()
	c.JSON(http.StatusOK, dto.UserResponse{User: *u})
}

func (b *Backend) uploadPicture(c *gin.Context, me *models.User) {
	fh, err := c.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[me.ID]
	u.ProfilePicture = fmt.Sprintf("/uploads/%s-%d-%s", me.ID, fh.Size, fh.Filename)
	c.JSON(http.StatusOK, dto.UserResponse{User: *u})
}

func (b *Backend) follow(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	target, ok := b.users[c.Param("id")]
	if !ok {
		notFound(c, "User")
		return
	}
	if target.ID == me.ID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot follow yourself"})
		return
	}
	if target.FollowedBy(me.ID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already following this user"})
		return
	}
	target.Followers = append(target.Followers, models.UserRef{ID: me.ID})
	self := b.users[me.ID]
	self.Following = append(self.Following, models.UserRef{ID: target.ID})
	c.JSON(http.StatusOK, gin.H{"message": "Followed"})
}

func (b *Backend) unfollow(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	target, ok := b.users[c.Param("id")]
	if !ok {
		notFound(c, "User")
		return
	}
	target.Followers = withoutRef(target.Followers, me.ID)
	self := b.users[me.ID]
	self.Following = withoutRef(self.Following, target.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed"})
}

func withoutRef(refs []models.UserRef, id string) []models.UserRef {
	out := refs[:0:0]
	for _, r := range refs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func (b *Backend) deleteUser(c *gin.Context, me *models.User) {
	if !me.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[c.Param("id")]; !ok {
		notFound(c, "User")
		return
	}
	delete(b.users, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (b *Backend) searchSkills(c *gin.Context) {
	q := strings.ToLower(c.Query("q"))
	out := []models.Skill{}
	for _, s := range b.skills {
		if q != "" && strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	c.JSON(http.StatusOK, dto.SkillSearchResponse{Skills: out})
}

func (b *Backend) fetchCertification(c *gin.Context, _ *models.User) {
	id := c.Query("id")
	if id == "" || id == "unknown" {
		c.JSON(http.StatusNotFound, gin.H{"message": "Certificate not found"})
		return
	}
	c.JSON(http.StatusOK, models.Certification{
		Platform:        c.Query("platform"),
		CertificateName: "Certificate " + id,
		Issuer:          c.Query("platform"),
		CredentialID:    id,
		Verified:        true,
	})
}

func (b *Backend) sortedPosts() []models.Post {
	out := make([]models.Post, 0, len(b.posts))
	for _, p := range b.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (b *Backend) sortedEvents() []models.Event {
	out := make([]models.Event, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func applyLimit[T any](c *gin.Context, items []T) []T {
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n < len(items) {
		return items[:n]
	}
	return items
}

func (b *Backend) listPosts(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, dto.PostListResponse{Posts: applyLimit(c, b.sortedPosts())})
}

func (b *Backend) getPost(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[c.Param("id")]
	if !ok {
		notFound(c, "Post")
		return
	}
	c.JSON(http.StatusOK, dto.PostResponse{Post: *p})
}

func (b *Backend) listPostsByUser(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Post{}
	for _, p := range b.sortedPosts() {
		if p.Author.ID == c.Param("id") {
			out = append(out, p)
		}
	}
	c.JSON(http.StatusOK, dto.PostListResponse{Posts: out})
}

// bindPost accepts both JSON and multipart bodies
func bindPost(c *gin.Context) (dto.PostRequest, int) {
	var req dto.PostRequest
	images := 0
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req.Title = c.PostForm("title")
		req.Content = c.PostForm("content")
		req.Tags = c.PostFormArray("tags")
		if form, err := c.MultipartForm(); err == nil {
			images = len(form.File["images"])
		}
	} else {
		_ = c.ShouldBindJSON(&req)
	}
	return req, images
}

func (b *Backend) createPost(c *gin.Context, me *models.User) {
	req, images := bindPost(c)
	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and content are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &models.Post{
		ID: b.nextID("p"), Title: req.Title, Content: req.Content, Author: *b.users[me.ID],
		Tags: req.Tags, ImageURL: req.ImageURL, Likes: []string{}, CreatedAt: b.now(),
	}
	for i := 0; i < images; i++ {
		p.Images = append(p.Images, fmt.Sprintf("/uploads/%s-%d.jpg", p.ID, i))
	}
	b.posts[p.ID] = p
	c.JSON(http.StatusCreated, dto.PostResponse{Post: *p})
}

func (b *Backend) updatePost(c *gin.Context, me *models.User) {
	req, _ := bindPost(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[c.Param("id")]
	if !ok {
		notFound(c, "Post")
		return
	}
	if p.Author.ID != me.ID && !me.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this post"})
		return
	}
	p.Title, p.Content, p.Tags = req.Title, req.Content, req.Tags
	p.UpdatedAt = b.now()
	c.JSON(http.StatusOK, dto.PostResponse{Post: *p})
}

func (b *Backend) deletePost(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[c.Param("id")]
	if !ok {
		notFound(c, "Post")
		return
	}
	if p.Author.ID != me.ID && !me.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this post"})
		return
	}
	delete(b.posts, p.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (b *Backend) toggleLike(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[c.Param("id")]
	if !ok {
		notFound(c, "Post")
		return
	}
	if p.LikedBy(me.ID) {
		likes := []string{}
		for _, id := range p.Likes {
			if id != me.ID {
				likes = append(likes, id)
			}
		}
		p.Likes = likes
	} else {
		p.Likes = append(p.Likes, me.ID)
	}
	c.JSON(http.StatusOK, gin.H{"likes": len(p.Likes)})
}

func (b *Backend) addComment(c *gin.Context, me *models.User) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[c.Param("id")]
	if !ok {
		notFound(c, "Post")
		return
	}
	u := *b.users[me.ID]
	p.Comments = append(p.Comments, models.Comment{
		ID: b.nextID("cm"), User: models.UserRef{ID: u.ID, User: &u}, Text: req.Text,
		ParentCommentID: req.ParentCommentID, CreatedAt: b.now(),
	})
	c.JSON(http.StatusCreated, dto.PostResponse{Post: *p})
}

func (b *Backend) deleteComment(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[c.Param("id")]
	if !ok {
		notFound(c, "Post")
		return
	}
	kept := p.Comments[:0:0]
	found := false
	for _, cm := range p.Comments {
		if cm.ID == c.Param("commentId") || cm.ParentCommentID == c.Param("commentId") {
			found = true
			continue
		}
		kept = append(kept, cm)
	}
	if !found {
		notFound(c, "Comment")
		return
	}
	p.Comments = kept
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (b *Backend) listEvents(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, dto.EventListResponse{Events: applyLimit(c, b.sortedEvents())})
}

func (b *Backend) getEvent(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[c.Param("id")]
	if !ok {
		notFound(c, "Event")
		return
	}
	c.JSON(http.StatusOK, dto.EventResponse{Event: *e})
}

func (b *Backend) listEventsByUser(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Event{}
	for _, e := range b.sortedEvents() {
		if e.Organizer.ID == c.Param("id") {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, dto.EventListResponse{Events: out})
}

func bindEvent(c *gin.Context) dto.EventRequest {
	var req dto.EventRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req.Title = c.PostForm("title")
		req.Description = c.PostForm("description")
		req.Date = c.PostForm("date")
		req.Location = c.PostForm("location")
		req.MaxParticipants, _ = strconv.Atoi(c.PostForm("maxParticipants"))
		req.Tags = c.PostFormArray("tags")
		return req
	}
	_ = c.ShouldBindJSON(&req)
	return req
}

func parseEventDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (b *Backend) createEvent(c *gin.Context, me *models.User) {
	req := bindEvent(c)
	if req.Title == "" || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and date are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	e := &models.Event{
		ID: b.nextID("e"), Title: req.Title, Description: req.Description, Date: parseEventDate(req.Date),
		Location: req.Location, Organizer: *b.users[me.ID], MaxParticipants: req.MaxParticipants,
		Tags: req.Tags, CreatedAt: b.now(),
	}
	b.events[e.ID] = e
	c.JSON(http.StatusCreated, dto.EventResponse{Event: *e})
}

func (b *Backend) updateEvent(c *gin.Context, me *models.User) {
	req := bindEvent(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[c.Param("id")]
	if !ok {
		notFound(c, "Event")
		return
	}
	if e.Organizer.ID != me.ID && !me.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this event"})
		return
	}
	e.Title, e.Description, e.Location = req.Title, req.Description, req.Location
	e.Date = parseEventDate(req.Date)
	e.MaxParticipants = req.MaxParticipants
	c.JSON(http.StatusOK, dto.EventResponse{Event: *e})
}

func (b *Backend) deleteEvent(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[c.Param("id")]
	if !ok {
		notFound(c, "Event")
		return
	}
	if e.Organizer.ID != me.ID && !me.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this event"})
		return
	}
	delete(b.events, e.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func (b *Backend) joinEvent(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[c.Param("id")]
	if !ok {
		notFound(c, "Event")
		return
	}
	if e.HasParticipant(me.ID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already joined"})
		return
	}
	if e.IsFull() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Event is full"})
		return
	}
	e.Participants = append(e.Participants, *b.users[me.ID])
	c.JSON(http.StatusOK, dto.EventResponse{Event: *e})
}

func (b *Backend) leaveEvent(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.events[c.Param("id")]
	if !ok {
		notFound(c, "Event")
		return
	}
	kept := e.Participants[:0:0]
	for _, p := range e.Participants {
		if p.ID != me.ID {
			kept = append(kept, p)
		}
	}
	e.Participants = kept
	c.JSON(http.StatusOK, dto.EventResponse{Event: *e})
}

func (b *Backend) listConversations(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	byID := map[string]*models.PersistedConversation{}
	lastIdx := map[string]int{}
	for i, m := range b.messages {
		var other models.User
		switch me.ID {
		case m.Sender.ID:
			other = m.Recipient
		case m.Recipient.ID:
			other = m.Sender
		default:
			continue
		}
		id := conversationID(me.ID, other.ID)
		conv, ok := byID[id]
		if !ok {
			conv = &models.PersistedConversation{ID: id, OtherUser: other}
			byID[id] = conv
		}
		last := *m
		conv.LastMessage = &last
		lastIdx[id] = i
		conv.UpdatedAt = m.CreatedAt
		if m.Recipient.ID == me.ID && !m.Read {
			conv.UnreadCount++
		}
	}
	out := []models.PersistedConversation{}
	for _, conv := range byID {
		out = append(out, *conv)
	}
	sort.Slice(out, func(i, j int) bool { return lastIdx[out[i].ID] > lastIdx[out[j].ID] })
	c.JSON(http.StatusOK, dto.ConversationListResponse{Conversations: out})
}

func (b *Backend) listMessages(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Message{}
	for _, m := range b.messages {
		if conversationID(m.Sender.ID, m.Recipient.ID) != c.Param("id") {
			continue
		}
		if m.Sender.ID != me.ID && m.Recipient.ID != me.ID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not part of this conversation"})
			return
		}
		out = append(out, *m)
	}
	c.JSON(http.StatusOK, dto.MessageListResponse{Messages: out})
}

func (b *Backend) sendMessage(c *gin.Context, me *models.User) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message content is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[req.RecipientID]; !ok {
		notFound(c, "Recipient")
		return
	}
	m := b.addMessage(me.ID, req.RecipientID, req.Content, false)
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: *m})
}

func (b *Backend) markRead(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.messages {
		if m.ID == c.Param("id") {
			if m.Recipient.ID != me.ID {
				c.JSON(http.StatusForbidden, gin.H{"message": "Not your message"})
				return
			}
			m.Read = true
			c.JSON(http.StatusOK, dto.MessageResponse{Message: *m})
			return
		}
	}
	notFound(c, "Message")
}

func (b *Backend) deleteMessage(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.messages {
		if m.ID == c.Param("id") {
			if m.Sender.ID != me.ID {
				c.JSON(http.StatusForbidden, gin.H{"message": "You can only delete your own messages"})
				return
			}
			b.messages = append(b.messages[:i], b.messages[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
			return
		}
	}
	notFound(c, "Message")
}

func (b *Backend) listJobComments(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]models.JobComment{}, b.comments[c.Param("id")]...)
	c.JSON(http.StatusOK, dto.JobCommentListResponse{Comments: out})
}

func (b *Backend) addJobComment(c *gin.Context, me *models.User) {
	var req dto.JobCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u := *b.users[me.ID]
	jobID := c.Param("id")
	b.comments[jobID] = append(b.comments[jobID], models.JobComment{
		ID: b.nextID("jc"), JobID: jobID, User: models.UserRef{ID: u.ID, User: &u},
		Text: req.Text, Rating: req.Rating, CreatedAt: b.now(),
	})
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added"})
}

func (b *Backend) deleteJobComment(c *gin.Context, me *models.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	jobID := c.Param("id")
	list := b.comments[jobID]
	for i, cm := range list {
		if cm.ID == c.Param("commentId") {
			if cm.User.ID != me.ID && !me.IsAdmin() {
				c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
				return
			}
			b.comments[jobID] = append(list[:i], list[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
			return
		}
	}
	notFound(c, "Comment")
}
