package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
)

// EventRepository handles the /events endpoints
type EventRepository struct {
	api *apiclient.Client
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(api *apiclient.Client) *EventRepository {
	return &EventRepository{api: api}
}

// List returns events; limit <= 0 means the backend default
func (r *EventRepository) List(ctx context.Context, limit int) ([]models.Event, error) {
	var resp dto.EventListResponse
	if err := r.api.Get(ctx, "/events", limitQuery(limit), &resp); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return resp.Events, nil
}

// Get returns one event with its participants
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	var resp dto.EventResponse
	if err := r.api.Get(ctx, "/events/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &resp.Event, nil
}

// ListByUser returns the events organized by userID
func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	var resp dto.EventListResponse
	if err := r.api.Get(ctx, "/events/user/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list events of %s: %w", userID, err)
	}
	return resp.Events, nil
}

// Create publishes an event
func (r *EventRepository) Create(ctx context.Context, req *dto.EventRequest, images []apiclient.File) (*models.Event, error) {
	var resp dto.EventResponse
	var err error
	if len(images) > 0 {
		err = r.api.PostMultipart(ctx, "/events", eventFields(req), images, &resp)
	} else {
		err = r.api.Post(ctx, "/events", req, &resp)
	}
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &resp.Event, nil
}

// Update edits an event the caller organizes
func (r *EventRepository) Update(ctx context.Context, id string, req *dto.EventRequest, images []apiclient.File) (*models.Event, error) {
	path := "/events/" + url.PathEscape(id)
	var resp dto.EventResponse
	var err error
	if len(images) > 0 {
		err = r.api.PutMultipart(ctx, path, eventFields(req), images, &resp)
	} else {
		err = r.api.Put(ctx, path, req, &resp)
	}
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	return &resp.Event, nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if err := r.api.Delete(ctx, "/events/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// Join adds the current user to the participants
func (r *EventRepository) Join(ctx context.Context, id string) error {
	if err := r.api.Post(ctx, "/events/"+url.PathEscape(id)+"/join", nil, nil); err != nil {
		return fmt.Errorf("join event %s: %w", id, err)
	}
	return nil
}

// Leave removes the current user from the participants
func (r *EventRepository) Leave(ctx context.Context, id string) error {
	if err := r.api.Post(ctx, "/events/"+url.PathEscape(id)+"/leave", nil, nil); err != nil {
		return fmt.Errorf("leave event %s: %w", id, err)
	}
	return nil
}

func eventFields(req *dto.EventRequest) map[string][]string {
	fields := map[string][]string{
		"title":       {req.Title},
		"description": {req.Description},
		"date":        {req.Date},
		"location":    {req.Location},
	}
	if req.MaxParticipants > 0 {
		fields["maxParticipants"] = []string{strconv.Itoa(req.MaxParticipants)}
	}
	if len(req.Tags) > 0 {
		fields["tags"] = req.Tags
	}
	if req.ImageURL != "" {
		fields["imageUrl"] = []string{req.ImageURL}
	}
	return fields
}
