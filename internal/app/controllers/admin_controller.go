package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/services"
	"github.com/nexusnu/webclient/internal/middleware"
)

// AdminController handles the admin dashboard
type AdminController struct {
	dashboardService services.DashboardService
	logger           zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(dashboardService services.DashboardService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Dashboard renders stats and the user, post and event tables
func (c *AdminController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.dashboardService.Admin(requestContext(ctx), viewer(ctx))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load admin dashboard")
		middleware.HandlePageError(ctx, err)
		return
	}
	render(ctx, "admin", gin.H{"Dashboard": dashboard})
}

type adminDelete func(ctx context.Context, viewer *models.User, id string, confirmed bool) error

func (c *AdminController) remove(ctx *gin.Context, del adminDelete, what string) {
	id := ctx.Param("id")
	if err := del(requestContext(ctx), viewer(ctx), id, confirmed(ctx)); err != nil {
		c.logger.Warn().Err(err).Str("id", id).Msgf("Admin failed to delete %s", what)
		redirectWithError(ctx, err, "Failed to delete "+what, "/admin")
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Deleted "+what, "/admin")
}

// DeleteUser removes a user account
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	c.remove(ctx, c.dashboardService.DeleteUser, "user")
}

// DeletePost removes a post
func (c *AdminController) DeletePost(ctx *gin.Context) {
	c.remove(ctx, c.dashboardService.DeletePost, "post")
}

// DeleteEvent removes an event
func (c *AdminController) DeleteEvent(ctx *gin.Context) {
	c.remove(ctx, c.dashboardService.DeleteEvent, "event")
}
