package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nexusnu/webclient/internal/app/auth"
	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/jobsearch"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// DefaultJobQuery is searched when the jobs page has no query
const DefaultJobQuery = "software engineer"

// JobDetails is a posting with the comments students left on it
type JobDetails struct {
	Job           *models.Job
	Comments      []models.JobComment
	AverageRating float64
	CommentsError string
}

// JobService defines the interface for job-related operations
type JobService interface {
	Search(ctx context.Context, params jobsearch.SearchParams) ([]models.Job, jobsearch.SearchParams, error)
	Details(ctx context.Context, jobID string) (*JobDetails, error)
	AddComment(ctx context.Context, jobID string, req *dto.JobCommentRequest) error
	DeleteComment(ctx context.Context, viewer *models.User, jobID, commentID string, confirmed bool) error
}

// jobServiceImpl implements the JobService interface
type jobServiceImpl struct {
	jobRepo *repositories.JobRepository
	logger  zerolog.Logger
}

// NewJobService creates a new job service instance
func NewJobService(jobRepo *repositories.JobRepository, logger zerolog.Logger) JobService {
	return &jobServiceImpl{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// Search runs a job search and returns the effective parameters so the page
// can put them back in the URL.
func (s *jobServiceImpl) Search(ctx context.Context, params jobsearch.SearchParams) ([]models.Job, jobsearch.SearchParams, error) {
	params.Query = strings.TrimSpace(params.Query)
	params.Location = strings.TrimSpace(params.Location)
	if params.Query == "" {
		params.Query = DefaultJobQuery
	}
	if params.Page < 1 {
		params.Page = 1
	}

	jobs, err := s.jobRepo.Search(ctx, params)
	if err != nil {
		s.logger.Error().Err(err).Str("query", params.Query).Msg("Job search failed")
		return nil, params, err
	}
	return jobs, params, nil
}

// Details loads the posting and its comments concurrently. Comments are
// optional: their failure leaves a note instead of failing the page.
func (s *jobServiceImpl) Details(ctx context.Context, jobID string) (*JobDetails, error) {
	details := &JobDetails{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		job, err := s.jobRepo.Details(gctx, jobID)
		if err != nil {
			return err
		}
		details.Job = job
		return nil
	})
	g.Go(func() error {
		comments, err := s.jobRepo.ListComments(gctx, jobID)
		if err != nil {
			if gctx.Err() == nil {
				s.logger.Warn().Err(err).Str("jobID", jobID).Msg("Failed to load job comments")
				details.CommentsError = apperrors.UserMessage(err, "Failed to load comments")
			}
			return nil
		}
		details.Comments = comments
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("jobID", jobID).Msg("Failed to load job")
		return nil, err
	}

	details.AverageRating = models.AverageRating(details.Comments)
	return details, nil
}

// AddComment posts a comment with an optional rating
func (s *jobServiceImpl) AddComment(ctx context.Context, jobID string, req *dto.JobCommentRequest) error {
	text, err := validation.CommentText(req.Text)
	if err != nil {
		return err
	}
	if err := validation.Rating(req.Rating); err != nil {
		return err
	}
	req.Text = text

	if err := s.jobRepo.AddComment(ctx, jobID, req); err != nil {
		s.logger.Error().Err(err).Str("jobID", jobID).Msg("Failed to comment on job")
		return err
	}
	return nil
}

// DeleteComment removes a comment after confirmation
func (s *jobServiceImpl) DeleteComment(ctx context.Context, viewer *models.User, jobID, commentID string, confirmed bool) error {
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}
	comments, err := s.jobRepo.ListComments(ctx, jobID)
	if err != nil {
		return err
	}
	var target *models.JobComment
	for i := range comments {
		if comments[i].ID == commentID {
			target = &comments[i]
			break
		}
	}
	if target == nil {
		return apperrors.ErrResourceNotFound
	}
	if !auth.CanDeleteJobComment(viewer, *target) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.jobRepo.DeleteComment(ctx, jobID, commentID); err != nil {
		s.logger.Error().Err(err).Str("commentID", commentID).Msg("Failed to delete job comment")
		return err
	}
	return nil
}
