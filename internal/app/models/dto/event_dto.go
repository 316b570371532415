package dto

import "github.com/nexusnu/webclient/internal/app/models"

// EventListResponse is returned by GET /events
type EventListResponse struct {
	Events []models.Event `json:"events"`
}

// EventResponse wraps a single event
type EventResponse struct {
	Event models.Event `json:"event"`
}

// EventRequest is the create/edit event form
type EventRequest struct {
	Title           string   `json:"title" form:"title"`
	Description     string   `json:"description" form:"description"`
	Date            string   `json:"date" form:"date"`
	Location        string   `json:"location" form:"location"`
	MaxParticipants int      `json:"maxParticipants,omitempty" form:"maxParticipants"`
	Tags            []string `json:"tags,omitempty" form:"-"`
	TagsText        string   `json:"-" form:"tags"`
	ImageURL        string   `json:"imageUrl,omitempty" form:"imageUrl"`
}
