// file: internal/handlers/api/v1/events/events_controller.go
package events

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"castnfish/internal/contextutils"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewEventController creates a new event controller
func NewEventController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *EventController {
	return &EventController{services: sc, logger: logger, builder: builder}
}

// CreateEvent schedules a new community event
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	var req services.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.OrganizerID = userID

	event, err := c.services.Event.CreateEvent(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, event)
}

// ListEvents returns events inside a date window
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	req := &services.ListEventsRequest{}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			req.From = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			req.To = t
		}
	}
	if userID := contextutils.GetUserID(r.Context()); userID != 0 {
		req.UserID = &userID
	}

	events, err := c.services.Event.ListEvents(r.Context(), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, events)
}

// GetEvent returns a single event
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || eventID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid event ID", err))
		return
	}

	var viewer *int64
	if userID := contextutils.GetUserID(r.Context()); userID != 0 {
		viewer = &userID
	}

	event, err := c.services.Event.GetEvent(r.Context(), eventID, viewer)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, event)
}

// Register signs the authenticated user up for an event
func (c *EventController) Register(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || eventID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid event ID", err))
		return
	}

	event, err := c.services.Event.Register(r.Context(), eventID, userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, event)
}

// Unregister withdraws the authenticated user from an event
func (c *EventController) Unregister(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || eventID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid event ID", err))
		return
	}

	if err := c.services.Event.Unregister(r.Context(), eventID, userID); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}

// Attendees lists the registered users for an event
func (c *EventController) Attendees(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || eventID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid event ID", err))
		return
	}

	attendees, err := c.services.Event.Attendees(r.Context(), eventID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, attendees)
}
