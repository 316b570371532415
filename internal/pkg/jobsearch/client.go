// Package jobsearch is a thin client for the JSearch API on RapidAPI.
package jobsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

// Defaults used when the configuration leaves them empty
const (
	DefaultBaseURL = "https://jsearch.p.rapidapi.com"
	DefaultHost    = "jsearch.p.rapidapi.com"
)

// Config holds the JSearch credentials and endpoint
type Config struct {
	APIKey  string
	Host    string
	BaseURL string
	Timeout time.Duration
}

// SearchParams are the filters of the jobs page
type SearchParams struct {
	Query          string
	Location       string
	EmploymentType string
	Page           int
}

// SearchResult is the JSearch search envelope
type SearchResult struct {
	Status    string       `json:"status"`
	RequestID string       `json:"request_id"`
	Data      []models.Job `json:"data"`
}

// Client calls JSearch
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a JSearch client
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Search runs a job search
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	query := strings.TrimSpace(p.Query)
	if loc := strings.TrimSpace(p.Location); loc != "" {
		query = query + " in " + loc
	}
	page := p.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	params.Set("date_posted", "all")
	if p.EmploymentType != "" {
		params.Set("employment_types", p.EmploymentType)
	}

	var result SearchResult
	if err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Details fetches one job by its JSearch id
func (c *Client) Details(ctx context.Context, jobID string) (*models.Job, error) {
	params := url.Values{}
	params.Set("job_id", jobID)

	var result SearchResult
	if err := c.get(ctx, "/job-details", params, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("job %s: %w", jobID, apperrors.ErrResourceNotFound)
	}
	job := result.Data[0]
	return &job, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if !c.Configured() {
		return apperrors.ErrJobAPIKeyMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build jsearch request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.cfg.Host)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("JSearch request failed")
		return fmt.Errorf("%w: jsearch %s: %v", apperrors.ErrTransport, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("JSearch request")

	body, err := apiclient.ReadBody(resp.Body, apiclient.MaxResponseBody)
	if errors.Is(err, apiclient.ErrBodyTooLarge) {
		return fmt.Errorf("%w: jsearch %s", err, path)
	}
	if err != nil {
		return fmt.Errorf("%w: read jsearch body: %v", apperrors.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: jsearch %s: %v", apperrors.ErrMalformedResponse, path, err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	apiErr := apperrors.NewAPIError(status, payload.Message)
	switch status {
	case http.StatusTooManyRequests:
		apiErr.Err = apperrors.ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.Err = apperrors.ErrJobAPIKeyMissing
	}
	return apiErr
}

// IsUnavailable reports whether err means the job search cannot be used
// right now, as opposed to a failed individual lookup.
func IsUnavailable(err error) bool {
	return errors.Is(err, apperrors.ErrJobAPIKeyMissing) || errors.Is(err, apperrors.ErrRateLimited)
}
