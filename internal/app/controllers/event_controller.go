package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/app/auth"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/app/services"
	"github.com/nexusnu/webclient/internal/middleware"
)

// dateInputLayout is the value format of datetime-local inputs
const dateInputLayout = "2006-01-02T15:04"

// EventController handles event pages and their actions
type EventController struct {
	eventService services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// List renders all events
func (c *EventController) List(ctx *gin.Context) {
	events, err := c.eventService.List(requestContext(ctx), listLimit)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list events")
		render(ctx, "events", gin.H{"LoadError": "Failed to load events."})
		return
	}
	render(ctx, "events", gin.H{"Events": events})
}

// Detail renders one event with its participants
func (c *EventController) Detail(ctx *gin.Context) {
	event, err := c.eventService.Get(requestContext(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}
	user := viewer(ctx)
	joined := false
	if user != nil {
		joined = event.HasParticipant(user.ID)
	}
	render(ctx, "event_detail", gin.H{
		"Event":     event,
		"Joined":    joined,
		"CanModify": auth.CanModifyEvent(user, event),
	})
}

// CreatePage renders an empty event form
func (c *EventController) CreatePage(ctx *gin.Context) {
	render(ctx, "event_form", gin.H{
		"Form":   dto.EventRequest{},
		"Action": "/events/create",
		"Cancel": "/events",
	})
}

// Create publishes an event
func (c *EventController) Create(ctx *gin.Context) {
	var req dto.EventRequest
	formData := gin.H{"Form": &req, "Action": "/events/create", "Cancel": "/events"}
	if err := middleware.BindForm(ctx, &req); err != nil {
		renderForm(ctx, "event_form", err, formData)
		return
	}
	images, err := readImages(ctx, "images")
	if err != nil {
		renderForm(ctx, "event_form", err, formData)
		return
	}

	event, err := c.eventService.Create(requestContext(ctx), &req, images)
	if err != nil {
		renderForm(ctx, "event_form", err, formData)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Event created", "/events/"+event.ID)
}

// EditPage renders the event form filled with the event
func (c *EventController) EditPage(ctx *gin.Context) {
	event, err := c.eventService.Get(requestContext(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandlePageError(ctx, err)
		return
	}
	if !auth.CanModifyEvent(viewer(ctx), event) {
		redirectWithFlash(ctx, middleware.FlashError, "You can only edit your own events", "/events/"+event.ID)
		return
	}

	date := ""
	if !event.Date.IsZero() {
		date = event.Date.Local().Format(dateInputLayout)
	}
	render(ctx, "event_form", gin.H{
		"Form": dto.EventRequest{
			Title:           event.Title,
			Description:     event.Description,
			Date:            date,
			Location:        event.Location,
			MaxParticipants: event.MaxParticipants,
			TagsText:        strings.Join(event.Tags, ", "),
			ImageURL:        event.ImageURL,
		},
		"Editing": true,
		"Action":  "/events/" + event.ID + "/edit",
		"Cancel":  "/events/" + event.ID,
	})
}

// Update saves an edited event
func (c *EventController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	var req dto.EventRequest
	formData := gin.H{"Form": &req, "Editing": true, "Action": "/events/" + id + "/edit", "Cancel": "/events/" + id}
	if err := middleware.BindForm(ctx, &req); err != nil {
		renderForm(ctx, "event_form", err, formData)
		return
	}
	images, err := readImages(ctx, "images")
	if err != nil {
		renderForm(ctx, "event_form", err, formData)
		return
	}

	if _, err := c.eventService.Update(requestContext(ctx), viewer(ctx), id, &req, images); err != nil {
		renderForm(ctx, "event_form", err, formData)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Event updated", "/events/"+id)
}

// Delete removes an event after confirmation
func (c *EventController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.eventService.Delete(requestContext(ctx), viewer(ctx), id, confirmed(ctx)); err != nil {
		redirectWithError(ctx, err, "Failed to delete event", "/events/"+id)
		return
	}
	redirectWithFlash(ctx, middleware.FlashSuccess, "Event deleted", "/events")
}

// ToggleParticipation joins or leaves an event
func (c *EventController) ToggleParticipation(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := c.eventService.ToggleParticipation(requestContext(ctx), viewer(ctx), id); err != nil {
		redirectWithError(ctx, err, "Failed to update participation", "/events/"+id)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/events/"+id)
}
