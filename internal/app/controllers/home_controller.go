package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/services"
)

// HomeController renders the landing page
type HomeController struct {
	dashboardService services.DashboardService
	logger           zerolog.Logger
}

// NewHomeController creates a new HomeController
func NewHomeController(dashboardService services.DashboardService, logger zerolog.Logger) *HomeController {
	return &HomeController{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Home shows the latest posts and upcoming events
func (c *HomeController) Home(ctx *gin.Context) {
	home, err := c.dashboardService.Home(requestContext(ctx))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load home page")
		render(ctx, "home", gin.H{"Home": &services.HomePage{}, "LoadError": "Failed to load the latest posts and events."})
		return
	}
	render(ctx, "home", gin.H{"Home": home})
}
