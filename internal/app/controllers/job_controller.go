package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/services"
	"github.com/nexusnu/webclient/internal/middleware"
	"github.com/nexusnu/webclient/internal/pkg/jobsearch"
)

var employmentTypes = []string{"FULLTIME", "PARTTIME", "CONTRACTOR", "INTERN"}

// JobController handles the job board
type JobController struct {
	jobService services.JobService
	logger     zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService services.JobService, logger zerolog.Logger) *JobController {
	return &JobController{
		jobService: jobService,
		logger:     logger,
	}
}

// Search renders job search results. The search parameters live in the
// query string so results can be bookmarked and paged.
func (c *JobController) Search(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.Query("page"))
	params := jobsearch.SearchParams{
		Query:          ctx.Query("query"),
		Location:       ctx.Query("location"),
		EmploymentType: ctx.Query("employment_type"),
		Page:           page,
	}

	jobs, params, err := c.jobService.Search(requestContext(ctx), params)
	data := gin.H{
		"Jobs":            jobs,
		"Params":          params,
		"EmploymentTypes": employmentTypes,
		"PrevURL":         jobsURL(params, params.Page-1),
		"NextURL":         jobsURL(params, params.Page+1),
	}
	if err != nil {
		data["LoadError"] = userMessage(err, "Failed to load jobs.")
	}
	render(ctx, "jobs", data)
}

func jobsURL(p jobsearch.SearchParams, page int) string {
	q := url.Values{}
	q.Set("query", p.Query)
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	if p.EmploymentType != "" {
		q.Set("employment_type", p.EmploymentType)
	}
	q.Set("page", strconv.Itoa(page))
	return "/jobs?" + q.Encode()
}

// Detail renders one job with its reviews
func (c *JobController) Detail(ctx *gin.Context) {
	details, err := c.jobService.Details(requestContext(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}
	render(ctx, "job_detail", gin.H{"Details": details})
}

// AddComment posts a review
func (c *JobController) AddComment(ctx *gin.Context) {
	id := ctx.Param("id")
	var req dto.JobCommentRequest
	if err := middleware.BindForm(ctx, &req); err != nil {
		redirectWithError(ctx, err, "", "/jobs/"+id)
		return
	}
	if err := c.jobService.AddComment(requestContext(ctx), id, &req); err != nil {
		redirectWithError(ctx, err, "Failed to post review", "/jobs/"+id)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/jobs/"+id)
}

// DeleteComment removes a review after confirmation
func (c *JobController) DeleteComment(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.jobService.DeleteComment(requestContext(ctx), viewer(ctx), id, ctx.Param("commentId"), confirmed(ctx)); err != nil {
		redirectWithError(ctx, err, "Failed to delete review", "/jobs/"+id)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Review deleted", "/jobs/"+id)
}
