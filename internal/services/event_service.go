// file: internal/services/event_service.go
package services

import (
	"context"
	"errors"
	"time"

	"castnfish/internal/achievements"
	"castnfish/internal/models"
	"castnfish/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// eventService handles community events and registrations.
type eventService struct {
	eventRepo          repositories.EventRepository
	achievementService AchievementService
	logger             *zap.Logger
	validate           *validator.Validate
}

// NewEventService creates a new event service.
func NewEventService(
	eventRepo repositories.EventRepository,
	achievementService AchievementService,
	logger *zap.Logger,
) EventService {
	return &eventService{
		eventRepo:          eventRepo,
		achievementService: achievementService,
		logger:             logger,
		validate:           validator.New(),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*models.Event, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid event data", err)
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, NewBusinessError("event start must be in the future", "EVENT_IN_PAST")
	}

	event := &models.Event{
		OrganizerID: req.OrganizerID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Rules:       req.Rules,
		Capacity:    req.Capacity,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to create event",
			zap.Int64("organizer_id", req.OrganizerID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to create event", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID int64, userID *int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID, userID)
	if err != nil {
		return nil, WrapInternal("failed to load event", err)
	}
	if event == nil {
		return nil, NewNotFoundError("event not found")
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, req *ListEventsRequest) ([]*models.Event, error) {
	from, to := req.From, req.To
	if from.IsZero() {
		from = time.Now()
	}
	if to.IsZero() {
		to = from.AddDate(0, 3, 0)
	}
	if !to.After(from) {
		return nil, NewValidationError("event window end must be after start", nil)
	}

	events, err := s.eventRepo.ListBetween(ctx, from, to, req.UserID)
	if err != nil {
		return nil, WrapInternal("failed to list events", err)
	}
	return events, nil
}

// Register signs the user up and re-checks event achievements when a new
// registration was actually created.
func (s *eventService) Register(ctx context.Context, eventID, userID int64) (*models.Event, error) {
	inserted, err := s.eventRepo.Register(ctx, eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, NewNotFoundError("event not found")
		case errors.Is(err, repositories.ErrEventFull):
			return nil, NewConflictError("event is at capacity", "EVENT_FULL")
		}
		return nil, WrapInternal("failed to register for event", err)
	}

	if inserted {
		if _, err := s.achievementService.CheckCategory(ctx, userID, achievements.CategoryEvents); err != nil {
			s.logger.Warn("Achievement check failed after event registration",
				zap.Int64("user_id", userID),
				zap.Int64("event_id", eventID),
				zap.Error(err),
			)
		}
	}

	return s.GetEvent(ctx, eventID, &userID)
}

func (s *eventService) Unregister(ctx context.Context, eventID, userID int64) error {
	if err := s.eventRepo.Unregister(ctx, eventID, userID); err != nil {
		return WrapInternal("failed to unregister from event", err)
	}
	return nil
}

func (s *eventService) Attendees(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID, nil)
	if err != nil {
		return nil, WrapInternal("failed to load event", err)
	}
	if event == nil {
		return nil, NewNotFoundError("event not found")
	}

	attendees, err := s.eventRepo.ListAttendees(ctx, eventID)
	if err != nil {
		return nil, WrapInternal("failed to list attendees", err)
	}
	return attendees, nil
}
