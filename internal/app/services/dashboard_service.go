package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

// HomeFeedLimit is how many posts and events the home page previews
const HomeFeedLimit = 3

// HomePage is the landing page content
type HomePage struct {
	Posts  []models.Post
	Events []models.Event
}

// AdminStats are the counters on the admin dashboard
type AdminStats struct {
	Users      int
	Students   int
	Professors int
	Posts      int
	Events     int
	Upcoming   int
}

// AdminDashboard is the admin page content
type AdminDashboard struct {
	Users  []models.User
	Posts  []models.Post
	Events []models.Event
	Stats  AdminStats
}

// DashboardService defines the interface for the home and admin pages
type DashboardService interface {
	Home(ctx context.Context) (*HomePage, error)
	Admin(ctx context.Context, viewer *models.User) (*AdminDashboard, error)
	DeleteUser(ctx context.Context, viewer *models.User, id string, confirmed bool) error
	DeletePost(ctx context.Context, viewer *models.User, id string, confirmed bool) error
	DeleteEvent(ctx context.Context, viewer *models.User, id string, confirmed bool) error
}

// dashboardServiceImpl implements the DashboardService interface
type dashboardServiceImpl struct {
	userRepo  *repositories.UserRepository
	postRepo  *repositories.PostRepository
	eventRepo *repositories.EventRepository
	now       func() time.Time
	logger    zerolog.Logger
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(repos *repositories.Repositories, logger zerolog.Logger) DashboardService {
	return &dashboardServiceImpl{
		userRepo:  repos.UserRepository,
		postRepo:  repos.PostRepository,
		eventRepo: repos.EventRepository,
		now:       time.Now,
		logger:    logger,
	}
}

// Home loads the post and event previews concurrently
func (s *dashboardServiceImpl) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts, err := s.postRepo.List(gctx, HomeFeedLimit)
		page.Posts = posts
		return err
	})
	g.Go(func() error {
		events, err := s.eventRepo.List(gctx, HomeFeedLimit)
		page.Events = events
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load home page")
		return nil, err
	}
	return page, nil
}

// Admin loads users, posts and events concurrently and counts them
func (s *dashboardServiceImpl) Admin(ctx context.Context, viewer *models.User) (*AdminDashboard, error) {
	if !viewer.IsAdmin() {
		return nil, apperrors.ErrPermissionDenied
	}
	d := &AdminDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.userRepo.List(gctx)
		d.Users = users
		return err
	})
	g.Go(func() error {
		posts, err := s.postRepo.List(gctx, 0)
		d.Posts = posts
		return err
	})
	g.Go(func() error {
		events, err := s.eventRepo.List(gctx, 0)
		d.Events = events
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load admin dashboard")
		return nil, err
	}

	d.Stats = countStats(d, s.now())
	return d, nil
}

func countStats(d *AdminDashboard, now time.Time) AdminStats {
	stats := AdminStats{
		Users:  len(d.Users),
		Posts:  len(d.Posts),
		Events: len(d.Events),
	}
	for _, u := range d.Users {
		switch u.Role {
		case models.RoleStudent:
			stats.Students++
		case models.RoleProfessor:
			stats.Professors++
		}
	}
	for i := range d.Events {
		if d.Events[i].IsUpcoming(now) {
			stats.Upcoming++
		}
	}
	return stats
}

// DeleteUser removes an account after confirmation
func (s *dashboardServiceImpl) DeleteUser(ctx context.Context, viewer *models.User, id string, confirmed bool) error {
	if err := s.checkAdminDelete(viewer, confirmed); err != nil {
		return err
	}
	if viewer.ID == id {
		return apperrors.ErrSelfAction
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("userID", id).Msg("Admin failed to delete user")
		return err
	}
	s.logger.Info().Str("adminID", viewer.ID).Str("userID", id).Msg("User deleted")
	return nil
}

// DeletePost removes any post after confirmation
func (s *dashboardServiceImpl) DeletePost(ctx context.Context, viewer *models.User, id string, confirmed bool) error {
	if err := s.checkAdminDelete(viewer, confirmed); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("postID", id).Msg("Admin failed to delete post")
		return err
	}
	return nil
}

// DeleteEvent removes any event after confirmation
func (s *dashboardServiceImpl) DeleteEvent(ctx context.Context, viewer *models.User, id string, confirmed bool) error {
	if err := s.checkAdminDelete(viewer, confirmed); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("eventID", id).Msg("Admin failed to delete event")
		return err
	}
	return nil
}

func (s *dashboardServiceImpl) checkAdminDelete(viewer *models.User, confirmed bool) error {
	if !viewer.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}
	return nil
}
