package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/middleware"
)

// AuthController handles login, registration and logout
type AuthController struct {
	logger zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(logger zerolog.Logger) *AuthController {
	return &AuthController{logger: logger}
}

// LoginPage renders the login form
func (c *AuthController) LoginPage(ctx *gin.Context) {
	render(ctx, "login", gin.H{"Form": dto.LoginRequest{}})
}

// Login authenticates the session and goes home
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := middleware.BindForm(ctx, &req); err != nil {
		renderForm(ctx, "login", err, gin.H{"Form": req})
		return
	}

	session := middleware.CurrentSession(ctx)
	if _, err := session.Login(ctx.Request.Context(), &req); err != nil {
		c.logger.Info().Err(err).Str("email", req.Email).Msg("Login failed")
		req.Password = ""
		renderForm(ctx, "login", err, gin.H{"Form": req})
		return
	}
	if err := middleware.PersistToken(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Failed to store token in cookie")
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}

// RegisterPage renders the registration form
func (c *AuthController) RegisterPage(ctx *gin.Context) {
	render(ctx, "register", gin.H{"Form": dto.RegisterRequest{Role: "student"}})
}

// Register creates the account and signs it in
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := middleware.BindForm(ctx, &req); err != nil {
		renderForm(ctx, "register", err, gin.H{"Form": req})
		return
	}

	session := middleware.CurrentSession(ctx)
	if _, err := session.Register(ctx.Request.Context(), &req); err != nil {
		c.logger.Info().Err(err).Str("email", req.Email).Msg("Registration failed")
		req.Password = ""
		renderForm(ctx, "register", err, gin.H{"Form": req})
		return
	}
	if err := middleware.PersistToken(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Failed to store token in cookie")
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Welcome to NexusNU!", "/")
}

// Logout tears the session down and returns to the login page
func (c *AuthController) Logout(ctx *gin.Context) {
	session := middleware.CurrentSession(ctx)
	session.Logout(ctx.Request.Context())
	if err := middleware.PersistToken(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear token cookie")
	}
	ctx.Redirect(http.StatusSeeOther, "/login")
}
