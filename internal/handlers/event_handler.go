package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "arbor/internal/errors"
	"arbor/internal/pagination"
	"arbor/internal/services"
)

// EventHandler handles event-logging requests.
type EventHandler struct {
	eventService services.EventServicer
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService services.EventServicer) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents the request payload for logging an event.
type CreateEventRequest struct {
	CategoryID   string                    `json:"category_id" binding:"required,uuid"`
	EventDate    string                    `json:"event_date" binding:"required,iso_date"`
	SessionStart *time.Time                `json:"session_start"`
	Comment      *string                   `json:"comment"`
	Attributes   []services.AttributeInput `json:"attributes" binding:"omitempty,dive"`
}

// UpdateEventRequest represents the request payload for updating an event.
type UpdateEventRequest struct {
	Comment *string `json:"comment"`
}

// eventListQuery holds the bindable query parameters for listing events.
type eventListQuery struct {
	pagination.PageRequest
	AreaID     *string `form:"area_id" binding:"omitempty,uuid"`
	CategoryID *string `form:"category_id" binding:"omitempty,uuid"`
	DateFrom   *string `form:"date_from" binding:"omitempty,iso_date"`
	DateTo     *string `form:"date_to" binding:"omitempty,iso_date"`
	Search     string  `form:"search"`
}

// CreateEvent handles logging a new event.
// @Summary     Log an event
// @Description Log an activity event against a leaf category with typed attribute values
// @Tags        events
// @Accept      json
// @Produce     json
// @Param       request body CreateEventRequest true "Event details"
// @Success     201 {object} models.Event "Event logged"
// @Failure     400 {object} ErrorResponse "Invalid input or non-leaf category"
// @Failure     404 {object} ErrorResponse "Category or attribute not found"
// @Router      /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.CreateEvent(req.CategoryID, req.EventDate, req.SessionStart, req.Comment, req.Attributes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// GetEvents handles listing events with filters.
// @Summary     Get events
// @Description Get a filtered, paginated list of events, newest first
// @Tags        events
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       area_id query string false "Filter by area"
// @Param       category_id query string false "Filter by category subtree"
// @Param       date_from query string false "Earliest event date (YYYY-MM-DD)"
// @Param       date_to query string false "Latest event date (YYYY-MM-DD)"
// @Param       search query string false "Comment substring"
// @Success     200 {object} pagination.PageResponse[models.Event] "Events"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Router      /events [get]
func (h *EventHandler) GetEvents(c *gin.Context) {
	var q eventListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.EventFilter{
		AreaID:     q.AreaID,
		CategoryID: q.CategoryID,
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
		Search:     q.Search,
	}
	events, err := h.eventService.GetEvents(q.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEventByID handles retrieving a single event.
// @Summary     Get event by ID
// @Description Get an event with its attribute values
// @Tags        events
// @Produce     json
// @Param       id path string true "Event ID"
// @Success     200 {object} models.Event "Event details"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [get]
func (h *EventHandler) GetEventByID(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.eventService.GetEventByID(eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent handles updating an event's comment.
// @Summary     Update event
// @Description Update an event's comment
// @Tags        events
// @Accept      json
// @Produce     json
// @Param       id path string true "Event ID"
// @Param       request body UpdateEventRequest true "Updated event details"
// @Success     200 {object} models.Event "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	event, err := h.eventService.UpdateEventComment(eventID, req.Comment)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent handles deleting an event.
// @Summary     Delete event
// @Description Delete an event and its attribute values
// @Tags        events
// @Produce     json
// @Param       id path string true "Event ID"
// @Success     200 {object} MessageResponse "Event deleted"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.eventService.DeleteEvent(eventID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
