// file: internal/services/forum_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"castnfish/internal/achievements"
	"castnfish/internal/models"
	"castnfish/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// forumService handles topics, replies and helpful votes.
type forumService struct {
	forumRepo          repositories.ForumRepository
	achievementService AchievementService
	logger             *zap.Logger
	validate           *validator.Validate
}

// NewForumService creates a new forum service.
func NewForumService(
	forumRepo repositories.ForumRepository,
	achievementService AchievementService,
	logger *zap.Logger,
) ForumService {
	return &forumService{
		forumRepo:          forumRepo,
		achievementService: achievementService,
		logger:             logger,
		validate:           validator.New(),
	}
}

// CreateTopic posts a topic and re-checks social achievements for the author.
func (s *forumService) CreateTopic(ctx context.Context, req *CreateTopicRequest) (*models.Topic, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid topic data", err)
	}

	topic := &models.Topic{
		UserID:   req.UserID,
		Category: strings.ToLower(req.Category),
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
	}
	if err := s.forumRepo.CreateTopic(ctx, topic); err != nil {
		s.logger.Error("Failed to create topic",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to create topic", err)
	}

	if _, err := s.achievementService.CheckCategory(ctx, req.UserID, achievements.CategorySocial); err != nil {
		s.logger.Warn("Achievement check failed after topic creation",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
	}
	return topic, nil
}

func (s *forumService) GetTopic(ctx context.Context, topicID int64) (*TopicDetail, error) {
	topic, err := s.forumRepo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, WrapInternal("failed to load topic", err)
	}
	if topic == nil {
		return nil, NewNotFoundError("topic not found")
	}

	replies, err := s.forumRepo.ListReplies(ctx, topicID)
	if err != nil {
		return nil, WrapInternal("failed to load replies", err)
	}
	return &TopicDetail{Topic: topic, Replies: replies}, nil
}

func (s *forumService) ListTopics(ctx context.Context, req *ListTopicsRequest) (*models.PaginatedResponse[*models.Topic], error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid topic filter", err)
	}
	page, err := s.forumRepo.ListTopics(ctx, strings.ToLower(req.Category), req.Pagination)
	if err != nil {
		return nil, WrapInternal("failed to list topics", err)
	}
	return page, nil
}

func (s *forumService) SearchTopics(ctx context.Context, query string, limit int) ([]*models.Topic, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("search query is required", nil)
	}
	topics, err := s.forumRepo.SearchTopics(ctx, query, limit)
	if err != nil {
		return nil, WrapInternal("failed to search topics", err)
	}
	return topics, nil
}

func (s *forumService) CreateReply(ctx context.Context, req *CreateReplyRequest) (*models.Reply, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid reply data", err)
	}

	topic, err := s.forumRepo.GetTopic(ctx, req.TopicID)
	if err != nil {
		return nil, WrapInternal("failed to load topic", err)
	}
	if topic == nil {
		return nil, NewNotFoundError("topic not found")
	}

	reply := &models.Reply{
		TopicID: req.TopicID,
		UserID:  req.UserID,
		Body:    req.Body,
	}
	if err := s.forumRepo.CreateReply(ctx, reply); err != nil {
		return nil, WrapInternal("failed to create reply", err)
	}
	return reply, nil
}

// MarkHelpful records a helpful vote and re-checks social achievements for
// the reply's author. Voting twice is a no-op.
func (s *forumService) MarkHelpful(ctx context.Context, replyID, userID int64) error {
	authorID, err := s.forumRepo.MarkHelpful(ctx, replyID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrReplyNotFound) {
			return NewNotFoundError("reply not found")
		}
		return WrapInternal("failed to mark reply helpful", err)
	}

	// The vote advances the reply author's social counter, not the voter's.
	if _, err := s.achievementService.CheckCategory(ctx, authorID, achievements.CategorySocial); err != nil {
		s.logger.Warn("Achievement check failed after helpful vote",
			zap.Int64("author_id", authorID),
			zap.Error(err),
		)
	}
	return nil
}
