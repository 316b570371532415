package dto

import "github.com/nexusnu/webclient/internal/app/models"

// JobSearchResponse is the JSearch /search envelope
type JobSearchResponse struct {
	Status     string       `json:"status"`
	RequestID  string       `json:"request_id"`
	Data       []models.Job `json:"data"`
	Parameters struct {
		Query    string `json:"query"`
		Page     int    `json:"page"`
		NumPages int    `json:"num_pages"`
	} `json:"parameters"`
}

// JobDetailsResponse is the JSearch /job-details envelope
type JobDetailsResponse struct {
	Status string       `json:"status"`
	Data   []models.Job `json:"data"`
}

// JobCommentListResponse is returned by GET /jobs/:id/comments
type JobCommentListResponse struct {
	Comments []models.JobComment `json:"comments"`
}

// JobCommentRequest posts a comment with an optional 1..5 rating
type JobCommentRequest struct {
	Text   string `json:"text" form:"text"`
	Rating int    `json:"rating,omitempty" form:"rating"`
}
