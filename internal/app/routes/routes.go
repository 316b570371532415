package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexusnu/webclient/internal/app/controllers"
	"github.com/nexusnu/webclient/internal/middleware"
)

// Controllers groups the screen controllers the router dispatches to
type Controllers struct {
	Home  *controllers.HomeController
	Auth  *controllers.AuthController
	Post  *controllers.PostController
	Event *controllers.EventController
	User  *controllers.UserController
	Chat  *controllers.ChatController
	Job   *controllers.JobController
	Admin *controllers.AdminController
}

// SetupRouter configures all application routes. Every page route runs
// after LoadSession so the guards see a resolved session.
func SetupRouter(router *gin.Engine, c *Controllers, sessionMiddleware *middleware.SessionMiddleware, static http.FileSystem) {
	router.StaticFS("/static", static)
	router.Use(sessionMiddleware.LoadSession(), middleware.LeaveChat())

	router.GET("/", c.Home.Home)

	// --- Auth routes ---
	guest := router.Group("")
	guest.Use(middleware.RedirectAuthenticated())
	{
		guest.GET("/login", c.Auth.LoginPage)
		guest.POST("/login", c.Auth.Login)
		guest.GET("/register", c.Auth.RegisterPage)
		guest.POST("/register", c.Auth.Register)
	}
	router.POST("/logout", c.Auth.Logout)

	// --- Public pages ---
	router.GET("/users", c.User.Directory)
	router.GET("/posts", c.Post.List)
	router.GET("/events", c.Event.List)
	router.GET("/jobs", c.Job.Search)
	router.GET("/jobs/:id", c.Job.Detail)

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(middleware.RequireAuth())
	{
		posts := authenticated.Group("/posts")
		{
			posts.GET("/create", c.Post.CreatePage)
			posts.POST("/create", c.Post.Create)
			posts.GET("/:id/edit", c.Post.EditPage)
			posts.POST("/:id/edit", c.Post.Update)
			posts.POST("/:id/delete", c.Post.Delete)
			posts.POST("/:id/like", c.Post.ToggleLike)
			posts.POST("/:id/comments", c.Post.AddComment)
			posts.POST("/:id/comments/:commentId/delete", c.Post.DeleteComment)
		}

		events := authenticated.Group("/events")
		{
			events.GET("/create", c.Event.CreatePage)
			events.POST("/create", c.Event.Create)
			events.GET("/:id/edit", c.Event.EditPage)
			events.POST("/:id/edit", c.Event.Update)
			events.POST("/:id/delete", c.Event.Delete)
			events.POST("/:id/participate", c.Event.ToggleParticipation)
		}

		// /profile/edit is registered before /profile/:id
		authenticated.GET("/profile/edit", c.User.EditPage)
		authenticated.POST("/profile/edit", c.User.Update)
		authenticated.POST("/profile/:id/follow", c.User.ToggleFollow)
		authenticated.GET("/skills/search", c.User.SearchSkills)
		authenticated.GET("/certifications/fetch", c.User.FetchCertification)

		chat := authenticated.Group("/chat")
		{
			chat.GET("", c.Chat.Index)
			chat.GET("/state", c.Chat.State)
			chat.GET("/messages", c.Chat.Messages)
			chat.GET("/:userId", c.Chat.Open)
			chat.POST("/send", c.Chat.Send)
			chat.POST("/messages/:id/delete", c.Chat.DeleteMessage)
		}

		authenticated.POST("/jobs/:id/comments", c.Job.AddComment)
		authenticated.POST("/jobs/:id/comments/:commentId/delete", c.Job.DeleteComment)
	}

	// --- Admin routes: anyone who is not an admin, signed in or not, goes home ---
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", c.Admin.Dashboard)
		admin.POST("/users/:id/delete", c.Admin.DeleteUser)
		admin.POST("/posts/:id/delete", c.Admin.DeletePost)
		admin.POST("/events/:id/delete", c.Admin.DeleteEvent)
	}

	// Detail pages
	router.GET("/posts/:id", c.Post.Detail)
	router.GET("/events/:id", c.Event.Detail)
	router.GET("/profile/:id", c.User.Profile)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/")
	})
}
