// file: internal/services/interface.go
package services

import (
	"context"
	"time"

	"castnfish/internal/achievements"
	"castnfish/internal/models"
	"castnfish/internal/pricewatch"
	"castnfish/internal/repositories"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// AuthService handles account creation and credential verification.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
}

// UserService handles profile business logic.
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.User, error)
	UploadAvatar(ctx context.Context, req *UploadAvatarRequest) (*models.User, error)
}

// AchievementService composes the pure rule engine with persistence and
// notification delivery.
type AchievementService interface {
	// CheckCategory evaluates one category against the user's current
	// counters, persists any newly earned achievements and notifies the user.
	CheckCategory(ctx context.Context, userID int64, category achievements.Category) ([]achievements.Definition, error)
	// CheckAll runs every category in catalog order.
	CheckAll(ctx context.Context, userID int64) ([]achievements.Definition, error)
	// Summary returns the user's earned achievements, points, level and
	// progress toward the next level.
	Summary(ctx context.Context, userID int64) (*AchievementSummary, error)
	// Catalog exposes the full ordered achievement catalog.
	Catalog() []achievements.CategoryGroup
}

// ActivityService logs catches and trips and keeps achievements current.
type ActivityService interface {
	LogCatch(ctx context.Context, req *LogCatchRequest) (*models.Catch, error)
	LogTrip(ctx context.Context, req *LogTripRequest) (*models.Trip, error)
	GetStats(ctx context.Context, userID int64) (*models.UserStats, error)
	History(ctx context.Context, req *ActivityHistoryRequest) (*models.PaginatedResponse[models.ActivityItem], error)
	LikeCatch(ctx context.Context, catchID, userID int64) error
}

// ForumService handles topics, replies and helpful votes.
type ForumService interface {
	CreateTopic(ctx context.Context, req *CreateTopicRequest) (*models.Topic, error)
	GetTopic(ctx context.Context, topicID int64) (*TopicDetail, error)
	ListTopics(ctx context.Context, req *ListTopicsRequest) (*models.PaginatedResponse[*models.Topic], error)
	SearchTopics(ctx context.Context, query string, limit int) ([]*models.Topic, error)
	CreateReply(ctx context.Context, req *CreateReplyRequest) (*models.Reply, error)
	MarkHelpful(ctx context.Context, replyID, userID int64) error
}

// EventService handles community events and registrations.
type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, eventID int64, userID *int64) (*models.Event, error)
	ListEvents(ctx context.Context, req *ListEventsRequest) ([]*models.Event, error)
	Register(ctx context.Context, eventID, userID int64) (*models.Event, error)
	Unregister(ctx context.Context, eventID, userID int64) error
	Attendees(ctx context.Context, eventID int64) ([]*models.Attendee, error)
}

// ReportService handles trip reports with frozen weather snapshots.
type ReportService interface {
	CreateReport(ctx context.Context, req *CreateReportRequest) (*models.Report, error)
	GetReport(ctx context.Context, reportID int64) (*models.Report, error)
	ListReports(ctx context.Context, req *ListReportsRequest) (*models.PaginatedResponse[*models.Report], error)
	Locations(ctx context.Context) ([]*models.ReportLocation, error)
}

// WeatherService proxies the upstream weather provider.
type WeatherService interface {
	Current(ctx context.Context, latitude, longitude float64) (*WeatherSnapshot, error)
}

// GearService exposes tracked products and their price alerts.
type GearService interface {
	Products(ctx context.Context) ([]*models.Product, error)
	Product(ctx context.Context, productID string) (*ProductDetail, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error)
	CreateAlert(ctx context.Context, req *CreateAlertRequest) (pricewatch.Alert, error)
	DeleteAlert(ctx context.Context, alertID, userID int64) error
	ListAlerts(ctx context.Context, userID int64) ([]pricewatch.Alert, error)
	// RecordPrices replaces a product's stored price series and re-evaluates
	// open alerts against the newest observation.
	RecordPrices(ctx context.Context, productID string, records []models.PriceRecord) error
}

// ===============================
// SUPPORTING TYPES
// ===============================

// TokenClaims is the authenticated identity carried by a verified token.
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// AchievementSummary is a user's full achievement state.
type AchievementSummary struct {
	Earned        []models.UserAchievement  `json:"earned"`
	Points        int                       `json:"points"`
	Level         int                       `json:"level"`
	LevelProgress float64                   `json:"level_progress"`
	TotalPossible int                       `json:"total_possible_points"`
	Catalog       []achievements.CategoryGroup `json:"catalog,omitempty"`
}

// ProfileResponse is a public profile with derived achievement state.
type ProfileResponse struct {
	User         *models.User      `json:"user"`
	Stats        *models.UserStats `json:"stats"`
	Achievements []models.UserAchievement `json:"achievements"`
}

// TopicDetail is a topic with its replies.
type TopicDetail struct {
	Topic   *models.Topic   `json:"topic"`
	Replies []*models.Reply `json:"replies"`
}

// ProductDetail is a product with its price history.
type ProductDetail struct {
	Product *models.Product      `json:"product"`
	History []models.PriceRecord `json:"history"`
}

// WeatherSnapshot is the subset of the upstream forecast the site shows and
// freezes into trip reports.
type WeatherSnapshot struct {
	Summary      string    `json:"summary"`
	TemperatureC float64   `json:"temperature_c"`
	WindKph      float64   `json:"wind_kph"`
	ObservedAt   time.Time `json:"observed_at"`
}

// Collection bundles every service behind one constructor.
type Collection struct {
	Auth        AuthService
	User        UserService
	Achievement AchievementService
	Activity    ActivityService
	Forum       ForumService
	Event       EventService
	Report      ReportService
	Weather     WeatherService
	Gear        GearService

	Repos *repositories.Collection
}
