// internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"castnfish/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// UserRepository defines the contract for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateAvatar(ctx context.Context, userID int64, url, publicID string) error
	UpdateLastSeen(ctx context.Context, userID int64) error
}

// AchievementRepository is the progress source and persistence sink for the
// achievement engine.
type AchievementRepository interface {
	// GetProgress returns the user's unlocked achievement IDs and accumulated
	// point total.
	GetProgress(ctx context.Context, userID int64) (unlocked map[string]bool, points int, err error)
	// Award appends achievement rows ({id, points, timestamp}); a duplicate ID
	// for the same user is ignored by the unique constraint, never duplicated.
	Award(ctx context.Context, userID int64, awards []models.UserAchievement) error
	// ListForUser returns the user's awards, newest first.
	ListForUser(ctx context.Context, userID int64) ([]models.UserAchievement, error)
}

// ActivityRepository persists catches and trips and derives the counters the
// achievement engine consumes.
type ActivityRepository interface {
	CreateCatch(ctx context.Context, c *models.Catch) error
	CreateTrip(ctx context.Context, t *models.Trip) error
	GetStats(ctx context.Context, userID int64) (*models.UserStats, error)
	History(ctx context.Context, userID int64, filter ActivityFilter, params models.PaginationParams) (*models.PaginatedResponse[models.ActivityItem], error)
	LikeCatch(ctx context.Context, catchID, userID int64) error
}

// ActivityFilter narrows an activity history listing.
type ActivityFilter struct {
	Type     string // "", "catch" or "trip"
	Location string
	Since    *time.Time
	Until    *time.Time
}

// ForumRepository persists topics and replies.
type ForumRepository interface {
	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopic(ctx context.Context, id int64) (*models.Topic, error)
	ListTopics(ctx context.Context, category string, params models.PaginationParams) (*models.PaginatedResponse[*models.Topic], error)
	SearchTopics(ctx context.Context, query string, limit int) ([]*models.Topic, error)
	CreateReply(ctx context.Context, reply *models.Reply) error
	ListReplies(ctx context.Context, topicID int64) ([]*models.Reply, error)
	// MarkHelpful records a helpful vote and returns the reply author's ID so
	// the caller can refresh that user's achievements. A repeat vote is a
	// no-op but still resolves the author.
	MarkHelpful(ctx context.Context, replyID, userID int64) (authorID int64, err error)
	CountTopicsByUser(ctx context.Context, userID int64) (int, error)
	CountHelpfulForUser(ctx context.Context, userID int64) (int, error)
}

// EventRepository persists events and registrations.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64, userID *int64) (*models.Event, error)
	ListBetween(ctx context.Context, from, to time.Time, userID *int64) ([]*models.Event, error)
	// Register reports whether a new registration was inserted; false means
	// the user was already registered.
	Register(ctx context.Context, eventID, userID int64) (bool, error)
	Unregister(ctx context.Context, eventID, userID int64) error
	ListAttendees(ctx context.Context, eventID int64) ([]*models.Attendee, error)
	CountRegistrationsByUser(ctx context.Context, userID int64) (int, error)
}

// ReportRepository persists trip reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	List(ctx context.Context, filter ReportFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.Report], error)
	Locations(ctx context.Context) ([]*models.ReportLocation, error)
}

// ReportFilter narrows a report listing.
type ReportFilter struct {
	Species   []string
	Locations []string
	Since     *time.Time
	SortBy    string // "date", "location" or "species"
}

// ProductRepository persists products and price history observations.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	ReplacePriceHistory(ctx context.Context, productID string, records []models.PriceRecord) error
	PriceHistory(ctx context.Context, productID string) ([]models.PriceRecord, error)
}

// Collection bundles every repository behind one constructor.
type Collection struct {
	User        UserRepository
	Achievement AchievementRepository
	Activity    ActivityRepository
	Forum       ForumRepository
	Event       EventRepository
	Report      ReportRepository
	Product     ProductRepository
}
