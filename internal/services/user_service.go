// file: internal/services/user_service.go
package services

import (
	"context"
	"errors"

	"castnfish/internal/achievements"
	"castnfish/internal/media"
	"castnfish/internal/models"
	"castnfish/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// userService handles profile business logic.
type userService struct {
	userRepo        repositories.UserRepository
	activityRepo    repositories.ActivityRepository
	achievementRepo repositories.AchievementRepository
	engine          *achievements.Engine
	storage         media.Storage
	logger          *zap.Logger
	validate        *validator.Validate
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityRepository,
	achievementRepo repositories.AchievementRepository,
	engine *achievements.Engine,
	storage media.Storage,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo:        userRepo,
		activityRepo:    activityRepo,
		achievementRepo: achievementRepo,
		engine:          engine,
		storage:         storage,
		logger:          logger,
		validate:        validator.New(),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, WrapInternal("failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}
	return s.buildProfile(ctx, user)
}

func (s *userService) GetProfileByUsername(ctx context.Context, username string) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, WrapInternal("failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}
	return s.buildProfile(ctx, user)
}

// buildProfile fills the derived achievement fields from persisted awards.
func (s *userService) buildProfile(ctx context.Context, user *models.User) (*ProfileResponse, error) {
	earned, err := s.achievementRepo.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, WrapInternal("failed to load achievements", err)
	}

	points := 0
	for _, a := range earned {
		points += a.Points
	}
	user.Points = points
	user.Level = s.engine.Level(points)
	user.LevelProgress = s.engine.LevelProgress(points)

	stats, err := s.activityRepo.GetStats(ctx, user.ID)
	if err != nil {
		return nil, WrapInternal("failed to load stats", err)
	}

	return &ProfileResponse{User: user, Stats: stats, Achievements: earned}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid profile data", err)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, WrapInternal("failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.FavoriteSpot != nil {
		user.FavoriteSpot = req.FavoriteSpot
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to update profile", err)
	}
	return user, nil
}

// UploadAvatar stores the new avatar and removes the previous one.
func (s *userService) UploadAvatar(ctx context.Context, req *UploadAvatarRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid avatar upload", err)
	}
	if s.storage == nil {
		return nil, NewServiceUnavailableError("photo storage is not configured")
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, WrapInternal("failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}

	result, err := s.storage.UploadImage(ctx, &media.UploadRequest{
		File:        req.File,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Size:        req.Size,
		Folder:      "avatars",
	})
	if err != nil {
		switch {
		case errors.Is(err, media.ErrFileTooLarge),
			errors.Is(err, media.ErrInvalidContentType),
			errors.Is(err, media.ErrInvalidExtension):
			return nil, NewValidationError(err.Error(), err)
		}
		return nil, WrapInternal("failed to upload avatar", err)
	}

	oldPublicID := user.AvatarPublicID
	if err := s.userRepo.UpdateAvatar(ctx, user.ID, result.URL, result.PublicID); err != nil {
		// Roll the orphaned upload back so storage stays consistent.
		if delErr := s.storage.DeleteImage(ctx, result.PublicID); delErr != nil {
			s.logger.Warn("Failed to clean up orphaned avatar", zap.Error(delErr))
		}
		return nil, WrapInternal("failed to save avatar", err)
	}

	if oldPublicID != nil && *oldPublicID != "" {
		if err := s.storage.DeleteImage(ctx, *oldPublicID); err != nil {
			s.logger.Warn("Failed to delete previous avatar",
				zap.String("public_id", *oldPublicID),
				zap.Error(err),
			)
		}
	}

	user.AvatarURL = &result.URL
	user.AvatarPublicID = &result.PublicID
	return user, nil
}
