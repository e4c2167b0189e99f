// file: internal/services/activity_service.go
package services

import (
	"context"
	"time"

	"castnfish/internal/achievements"
	"castnfish/internal/models"
	"castnfish/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// activityService logs catches and trips and keeps achievement state current.
type activityService struct {
	activityRepo       repositories.ActivityRepository
	achievementService AchievementService
	logger             *zap.Logger
	validate           *validator.Validate
}

// NewActivityService creates a new activity service.
func NewActivityService(
	activityRepo repositories.ActivityRepository,
	achievementService AchievementService,
	logger *zap.Logger,
) ActivityService {
	return &activityService{
		activityRepo:       activityRepo,
		achievementService: achievementService,
		logger:             logger,
		validate:           validator.New(),
	}
}

// LogCatch records a catch and re-checks catch and species achievements. An
// achievement failure is logged but never fails the already-persisted catch.
func (s *activityService) LogCatch(ctx context.Context, req *LogCatchRequest) (*models.Catch, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid catch data", err)
	}

	caughtAt := req.CaughtAt
	if caughtAt.IsZero() {
		caughtAt = time.Now()
	}

	c := &models.Catch{
		UserID:   req.UserID,
		Species:  req.Species,
		WeightKg: req.WeightKg,
		LengthCm: req.LengthCm,
		Location: req.Location,
		Bait:     req.Bait,
		Notes:    req.Notes,
		Photos:   req.Photos,
		CaughtAt: caughtAt,
	}
	if err := s.activityRepo.CreateCatch(ctx, c); err != nil {
		s.logger.Error("Failed to create catch",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to log catch", err)
	}

	s.checkAchievements(ctx, req.UserID, achievements.CategoryCatches, achievements.CategorySpecies)
	return c, nil
}

// LogTrip records a trip and re-checks trip achievements.
func (s *activityService) LogTrip(ctx context.Context, req *LogTripRequest) (*models.Trip, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid trip data", err)
	}

	trip := &models.Trip{
		UserID:     req.UserID,
		Location:   req.Location,
		TripDate:   req.TripDate,
		Hours:      req.Hours,
		Companions: req.Companions,
		Notes:      req.Notes,
		Photos:     req.Photos,
	}
	if err := s.activityRepo.CreateTrip(ctx, trip); err != nil {
		s.logger.Error("Failed to create trip",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to log trip", err)
	}

	s.checkAchievements(ctx, req.UserID, achievements.CategoryTrips)
	return trip, nil
}

func (s *activityService) GetStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats, err := s.activityRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, WrapInternal("failed to load activity stats", err)
	}
	return stats, nil
}

func (s *activityService) History(ctx context.Context, req *ActivityHistoryRequest) (*models.PaginatedResponse[models.ActivityItem], error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid history filter", err)
	}

	filter := repositories.ActivityFilter{
		Type:     req.Type,
		Location: req.Location,
		Since:    req.Since,
		Until:    req.Until,
	}
	page, err := s.activityRepo.History(ctx, req.UserID, filter, req.Pagination)
	if err != nil {
		return nil, WrapInternal("failed to load activity history", err)
	}
	return page, nil
}

func (s *activityService) LikeCatch(ctx context.Context, catchID, userID int64) error {
	if err := s.activityRepo.LikeCatch(ctx, catchID, userID); err != nil {
		return WrapInternal("failed to like catch", err)
	}
	return nil
}

// checkAchievements runs the given categories after a successful write.
// Failures are logged; the triggering operation already succeeded.
func (s *activityService) checkAchievements(ctx context.Context, userID int64, categories ...achievements.Category) {
	for _, category := range categories {
		if _, err := s.achievementService.CheckCategory(ctx, userID, category); err != nil {
			s.logger.Warn("Achievement check failed",
				zap.Int64("user_id", userID),
				zap.String("category", string(category)),
				zap.Error(err),
			)
		}
	}
}
