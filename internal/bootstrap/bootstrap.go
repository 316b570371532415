package bootstrap

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/nexusnu/webclient/internal/app/controllers"
	appRepos "github.com/nexusnu/webclient/internal/app/repositories"
	appRoutes "github.com/nexusnu/webclient/internal/app/routes"
	appServices "github.com/nexusnu/webclient/internal/app/services"
	"github.com/nexusnu/webclient/internal/app/views"
	"github.com/nexusnu/webclient/internal/config"
	appMiddleware "github.com/nexusnu/webclient/internal/middleware"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/jobsearch"
	"github.com/nexusnu/webclient/internal/pkg/logger"
)

// cookieName is the browser cookie holding the client session
const cookieName = "nexusnu_session"

// Dependencies holds all the application dependencies
type Dependencies struct {
	API               *apiclient.Client
	Jobs              *jobsearch.Client
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	Sessions          *appServices.SessionStore
	SessionMiddleware *appMiddleware.SessionMiddleware
	Controllers       *appRoutes.Controllers
	Renderer          *views.Renderer
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies wires the API clients, repositories, services and
// controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.API = apiclient.New(cfg.Backend.BaseURL, cfg.BackendTimeout(), lgr.With().Str("component", "apiclient").Logger())
	deps.Jobs = jobsearch.New(jobsearch.Config{
		APIKey:  cfg.Jobs.RapidAPIKey,
		Host:    cfg.Jobs.RapidAPIHost,
		BaseURL: cfg.Jobs.BaseURL,
		Timeout: cfg.JobsTimeout(),
	}, lgr.With().Str("component", "jobsearch").Logger())
	if !deps.Jobs.Configured() {
		lgr.Warn().Msg("RapidAPI key is not set, job search is disabled")
	}

	deps.Repos = appRepos.NewRepositories(deps.API, deps.Jobs)
	deps.Services = appServices.NewServices(deps.Repos, cfg.Skills.MaxSkills, lgr)
	deps.Sessions = appServices.NewSessionStore(deps.Repos, appServices.SessionOptions{
		MessagePollInterval: cfg.MessagePollInterval(),
		UnreadPollInterval:  cfg.UnreadPollInterval(),
		SkillDebounce:       cfg.SkillDebounce(),
		MaxSkills:           cfg.Skills.MaxSkills,
		IdleTimeout:         cfg.SessionIdleTimeout(),
		PollIdleTimeout:     cfg.PollIdleTimeout(),
	}, lgr.With().Str("component", "sessions").Logger())
	deps.SessionMiddleware = appMiddleware.NewSessionMiddleware(deps.Sessions, lgr)

	renderer, err := views.New(views.Options{AssetURL: deps.API.AssetURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	deps.Renderer = renderer

	svc := deps.Services
	deps.Controllers = &appRoutes.Controllers{
		Home:  appControllers.NewHomeController(svc.DashboardService, lgr),
		Auth:  appControllers.NewAuthController(lgr),
		Post:  appControllers.NewPostController(svc.PostService, lgr),
		Event: appControllers.NewEventController(svc.EventService, lgr),
		User:  appControllers.NewUserController(svc.UserService, svc.CertificationService, cfg.Skills.MaxSkills, lgr),
		Chat:  appControllers.NewChatController(cfg.MessagePollInterval(), lgr),
		Job:   appControllers.NewJobController(svc.JobService, lgr),
		Admin: appControllers.NewAdminController(svc.DashboardService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionIdleTimeout().Seconds()),
		HttpOnly: true,
		Secure:   cfg.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()),
		appMiddleware.SecurityHeaders(),
		sessions.Sessions(cookieName, store),
	)
	router.HTMLRender = deps.Renderer

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	appRoutes.SetupRouter(router, deps.Controllers, deps.SessionMiddleware, views.Static())
	return router
}
