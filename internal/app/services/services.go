package services

import (
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/repositories"
)

// Services defined in this package:
// - SessionStore: per-browser sessions, their auth lifecycle and timers
// - ChatView: the chat screen state machine owned by a session
// - PostService, EventService, UserService, JobService: page operations
// - DashboardService: home previews and the admin dashboard
// - CertificationService: credential lookups for the profile editor

// Services holds the page services shared by all sessions
type Services struct {
	PostService          PostService
	EventService         EventService
	UserService          UserService
	JobService           JobService
	DashboardService     DashboardService
	CertificationService CertificationService
}

// NewServices initializes all page services
func NewServices(repos *repositories.Repositories, maxSkills int, logger zerolog.Logger) *Services {
	return &Services{
		PostService:          NewPostService(repos.PostRepository, logger.With().Str("service", "post").Logger()),
		EventService:         NewEventService(repos.EventRepository, logger.With().Str("service", "event").Logger()),
		UserService:          NewUserService(repos.UserRepository, maxSkills, logger.With().Str("service", "user").Logger()),
		JobService:           NewJobService(repos.JobRepository, logger.With().Str("service", "job").Logger()),
		DashboardService:     NewDashboardService(repos, logger.With().Str("service", "dashboard").Logger()),
		CertificationService: NewCertificationService(repos.CertificationRepository, logger.With().Str("service", "certification").Logger()),
	}
}
