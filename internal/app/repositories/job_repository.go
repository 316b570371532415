package repositories

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/jobsearch"
)

// JobRepository reads postings from JSearch and keeps their comments on
// the NexusNU backend.
type JobRepository struct {
	api  *apiclient.Client
	jobs *jobsearch.Client
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(api *apiclient.Client, jobs *jobsearch.Client) *JobRepository {
	return &JobRepository{api: api, jobs: jobs}
}

// Search runs a JSearch query
func (r *JobRepository) Search(ctx context.Context, params jobsearch.SearchParams) ([]models.Job, error) {
	res, err := r.jobs.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return res.Data, nil
}

// Details returns one posting
func (r *JobRepository) Details(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := r.jobs.Details(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("job details: %w", err)
	}
	return job, nil
}

// ListComments returns the comments left on a posting
func (r *JobRepository) ListComments(ctx context.Context, jobID string) ([]models.JobComment, error) {
	var resp dto.JobCommentListResponse
	if err := r.api.Get(ctx, "/jobs/"+url.PathEscape(jobID)+"/comments", nil, &resp); err != nil {
		return nil, fmt.Errorf("list job comments: %w", err)
	}
	return resp.Comments, nil
}

// AddComment posts a comment with an optional rating
func (r *JobRepository) AddComment(ctx context.Context, jobID string, req *dto.JobCommentRequest) error {
	if err := r.api.Post(ctx, "/jobs/"+url.PathEscape(jobID)+"/comments", req, nil); err != nil {
		return fmt.Errorf("comment on job: %w", err)
	}
	return nil
}

// DeleteComment removes a job comment
func (r *JobRepository) DeleteComment(ctx context.Context, jobID, commentID string) error {
	path := "/jobs/" + url.PathEscape(jobID) + "/comments/" + url.PathEscape(commentID)
	if err := r.api.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("delete job comment: %w", err)
	}
	return nil
}
