// file: internal/services/achievement_service.go
package services

import (
	"context"
	"time"

	"castnfish/internal/achievements"
	"castnfish/internal/models"
	"castnfish/internal/notifications"
	"castnfish/internal/repositories"

	"go.uber.org/zap"
)

// achievementService composes the pure rule engine with the progress source,
// the award sink and the notification hub.
type achievementService struct {
	engine          *achievements.Engine
	achievementRepo repositories.AchievementRepository
	activityRepo    repositories.ActivityRepository
	notifier        notifications.Notifier
	logger          *zap.Logger
	now             func() time.Time
}

// NewAchievementService creates a new achievement service.
func NewAchievementService(
	engine *achievements.Engine,
	achievementRepo repositories.AchievementRepository,
	activityRepo repositories.ActivityRepository,
	notifier notifications.Notifier,
	logger *zap.Logger,
) AchievementService {
	return &achievementService{
		engine:          engine,
		achievementRepo: achievementRepo,
		activityRepo:    activityRepo,
		notifier:        notifier,
		logger:          logger,
		now:             time.Now,
	}
}

// counterFor maps a category to its running counter. The social counter is
// the sum of forum topics and helpful votes received.
func counterFor(category achievements.Category, stats *models.UserStats) int {
	switch category {
	case achievements.CategoryCatches:
		return stats.TotalCatches
	case achievements.CategorySpecies:
		return stats.DistinctSpecies
	case achievements.CategoryTrips:
		return stats.TotalTrips
	case achievements.CategoryEvents:
		return stats.EventsAttended
	case achievements.CategorySocial:
		return stats.ForumTopics + stats.HelpfulVotes
	}
	return 0
}

// CheckCategory evaluates one category, persists newly earned achievements and
// pushes one notification per unlock. A progress fetch failure aborts the
// check; a persist failure aborts before any notification is sent.
func (s *achievementService) CheckCategory(ctx context.Context, userID int64, category achievements.Category) ([]achievements.Definition, error) {
	if !category.Valid() {
		return nil, NewValidationError("unknown achievement category", nil)
	}

	unlocked, points, err := s.achievementRepo.GetProgress(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch achievement progress",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to fetch achievement progress", err)
	}

	stats, err := s.activityRepo.GetStats(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch user stats",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to fetch user stats", err)
	}

	progress := achievements.Progress{UnlockedIDs: unlocked, Points: points}
	newly := s.engine.Unlocked(progress, category, counterFor(category, stats))
	if len(newly) == 0 {
		return nil, nil
	}

	awards := make([]models.UserAchievement, 0, len(newly))
	unlockedAt := s.now()
	for _, def := range newly {
		awards = append(awards, models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			Points:        def.Points,
			UnlockedAt:    unlockedAt,
		})
	}

	if err := s.achievementRepo.Award(ctx, userID, awards); err != nil {
		s.logger.Error("Failed to persist achievement awards",
			zap.Int64("user_id", userID),
			zap.Int("count", len(awards)),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to persist achievements", err)
	}

	for _, def := range newly {
		s.logger.Info("Achievement unlocked",
			zap.Int64("user_id", userID),
			zap.String("achievement_id", def.ID),
			zap.Int("points", def.Points),
		)
		s.notifier.AchievementUnlocked(ctx, userID, def)
	}
	return newly, nil
}

// CheckAll runs every category in catalog order. The first failure aborts the
// sweep; earlier categories keep whatever they already persisted.
func (s *achievementService) CheckAll(ctx context.Context, userID int64) ([]achievements.Definition, error) {
	var all []achievements.Definition
	for _, category := range s.engine.Categories() {
		newly, err := s.CheckCategory(ctx, userID, category)
		if err != nil {
			return all, err
		}
		all = append(all, newly...)
	}
	return all, nil
}

func (s *achievementService) Summary(ctx context.Context, userID int64) (*AchievementSummary, error) {
	earned, err := s.achievementRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, WrapInternal("failed to list achievements", err)
	}

	points := 0
	for _, a := range earned {
		points += a.Points
	}

	return &AchievementSummary{
		Earned:        earned,
		Points:        points,
		Level:         s.engine.Level(points),
		LevelProgress: s.engine.LevelProgress(points),
		TotalPossible: s.engine.TotalPossiblePoints(),
		Catalog:       s.engine.Groups(),
	}, nil
}

func (s *achievementService) Catalog() []achievements.CategoryGroup {
	return s.engine.Groups()
}
