package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/auth"
	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/repositories"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
	"github.com/nexusnu/webclient/internal/pkg/validation"
)

// EventService defines the interface for event-related operations
type EventService interface {
	List(ctx context.Context, limit int) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, req *dto.EventRequest, images []apiclient.File) (*models.Event, error)
	Update(ctx context.Context, viewer *models.User, id string, req *dto.EventRequest, images []apiclient.File) (*models.Event, error)
	Delete(ctx context.Context, viewer *models.User, id string, confirmed bool) error
	ToggleParticipation(ctx context.Context, viewer *models.User, id string) (*models.Event, error)
}

// eventServiceImpl implements the EventService interface
type eventServiceImpl struct {
	eventRepo *repositories.EventRepository
	logger    zerolog.Logger
}

// NewEventService creates a new event service instance
func NewEventService(eventRepo *repositories.EventRepository, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// List returns events
func (s *eventServiceImpl) List(ctx context.Context, limit int) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load events")
		return nil, err
	}
	return events, nil
}

// Get returns one event
func (s *eventServiceImpl) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.Get(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("eventID", id).Msg("Failed to load event")
		return nil, err
	}
	return event, nil
}

// Create validates the form and publishes the event
func (s *eventServiceImpl) Create(ctx context.Context, req *dto.EventRequest, images []apiclient.File) (*models.Event, error) {
	if err := prepareEvent(req); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.Create(ctx, req, images)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create event")
		return nil, err
	}
	s.logger.Info().Str("eventID", event.ID).Msg("Event created")
	return event, nil
}

// Update edits an event the viewer organizes
func (s *eventServiceImpl) Update(ctx context.Context, viewer *models.User, id string, req *dto.EventRequest, images []apiclient.File) (*models.Event, error) {
	if err := prepareEvent(req); err != nil {
		return nil, err
	}
	current, err := s.eventRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.ValidateModifyEvent(viewer, current); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.Update(ctx, id, req, images)
	if err != nil {
		s.logger.Error().Err(err).Str("eventID", id).Msg("Failed to update event")
		return nil, err
	}
	return event, nil
}

func prepareEvent(req *dto.EventRequest) error {
	if len(req.Tags) == 0 {
		req.Tags = validation.SplitTags(req.TagsText)
	}
	return validation.Event(req.Title, req.Description, req.Date, req.Location, req.MaxParticipants)
}

// Delete removes an event after confirmation
func (s *eventServiceImpl) Delete(ctx context.Context, viewer *models.User, id string, confirmed bool) error {
	if !confirmed {
		return apperrors.ErrConfirmationRequired
	}
	event, err := s.eventRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.ValidateModifyEvent(viewer, event); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("eventID", id).Msg("Failed to delete event")
		return err
	}
	return nil
}

// ToggleParticipation leaves a joined event or joins one with room left,
// then returns the refreshed event.
func (s *eventServiceImpl) ToggleParticipation(ctx context.Context, viewer *models.User, id string) (*models.Event, error) {
	if viewer == nil {
		return nil, apperrors.ErrUnauthorized
	}
	event, err := s.eventRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case event.HasParticipant(viewer.ID):
		err = s.eventRepo.Leave(ctx, id)
	case event.IsFull():
		return nil, apperrors.ErrEventFull
	default:
		err = s.eventRepo.Join(ctx, id)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("eventID", id).Msg("Failed to update participation")
		return nil, err
	}
	return s.eventRepo.Get(ctx, id)
}
