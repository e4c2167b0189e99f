// internal/models/models.go
package models

import (
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User represents a community member.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"required,email,max=320"`
	Username string `json:"username" db:"username" validate:"required,min=3,max=50,alphanum"`

	// Authentication
	PasswordHash string `json:"-" db:"password_hash"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	// Profile
	DisplayName    string  `json:"display_name" db:"display_name"`
	Bio            *string `json:"bio,omitempty" db:"bio" validate:"omitempty,max=1000"`
	Location       *string `json:"location,omitempty" db:"location" validate:"omitempty,max=255"`
	FavoriteSpot   *string `json:"favorite_spot,omitempty" db:"favorite_spot" validate:"omitempty,max=255"`
	AvatarURL      *string `json:"avatar_url,omitempty" db:"avatar_url"`
	AvatarPublicID *string `json:"-" db:"avatar_public_id"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	LastSeen  time.Time `json:"last_seen" db:"last_seen"`

	// Derived achievement state (not stored; computed from user_achievements)
	Points        int     `json:"points,omitempty" db:"-"`
	Level         int     `json:"level,omitempty" db:"-"`
	LevelProgress float64 `json:"level_progress,omitempty" db:"-"`
}

// Catch is one logged catch.
type Catch struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"user_id" db:"user_id"`
	Species  string    `json:"species" db:"species" validate:"required,max=100"`
	WeightKg *float64  `json:"weight_kg,omitempty" db:"weight_kg" validate:"omitempty,gt=0"`
	LengthCm *float64  `json:"length_cm,omitempty" db:"length_cm" validate:"omitempty,gt=0"`
	Location string    `json:"location" db:"location" validate:"required,max=255"`
	Bait     *string   `json:"bait,omitempty" db:"bait" validate:"omitempty,max=100"`
	Notes    *string   `json:"notes,omitempty" db:"notes" validate:"omitempty,max=2000"`
	Photos   []string  `json:"photos,omitempty" db:"-"`
	CaughtAt time.Time `json:"caught_at" db:"caught_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	Username   string `json:"username,omitempty" db:"-"`
	LikesCount int    `json:"likes_count,omitempty" db:"-"`
}

// Trip is one logged fishing trip.
type Trip struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Location   string    `json:"location" db:"location" validate:"required,max=255"`
	TripDate   time.Time `json:"trip_date" db:"trip_date"`
	Hours      float64   `json:"hours" db:"hours" validate:"gt=0,lte=24"`
	Companions *string   `json:"companions,omitempty" db:"companions" validate:"omitempty,max=255"`
	Notes      *string   `json:"notes,omitempty" db:"notes" validate:"omitempty,max=2000"`
	Photos     []string  `json:"photos,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ActivityItem is one row in a user's combined activity history.
type ActivityItem struct {
	Type       string    `json:"type"` // "catch" or "trip"
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserStats are the running counters the achievement engine evaluates.
type UserStats struct {
	TotalCatches    int `json:"total_catches"`
	DistinctSpecies int `json:"distinct_species"`
	TotalTrips      int `json:"total_trips"`
	DistinctSpots   int `json:"distinct_spots"`
	EventsAttended  int `json:"events_attended"`
	ForumTopics     int `json:"forum_topics"`
	HelpfulVotes    int `json:"helpful_votes"`
}

// ===============================
// FORUM
// ===============================

// Topic is a forum topic.
type Topic struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"user_id" db:"user_id"`
	Category string `json:"category" db:"category" validate:"required,max=100"`
	Title    string `json:"title" db:"title" validate:"required,min=3,max=255"`
	Body     string `json:"body" db:"body" validate:"required,min=10"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields
	Username     string     `json:"username,omitempty" db:"-"`
	RepliesCount int        `json:"replies_count" db:"-"`
	HelpfulCount int        `json:"helpful_count" db:"-"`
	LastReplyAt  *time.Time `json:"last_reply_at,omitempty" db:"-"`
}

// Reply is a forum reply.
type Reply struct {
	ID      int64  `json:"id" db:"id"`
	TopicID int64  `json:"topic_id" db:"topic_id"`
	UserID  int64  `json:"user_id" db:"user_id"`
	Body    string `json:"body" db:"body" validate:"required,min=1"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	Username     string `json:"username,omitempty" db:"-"`
	HelpfulCount int    `json:"helpful_count" db:"-"`
}

// ===============================
// EVENTS
// ===============================

// Event is a community event (tournament, meetup, workshop...).
type Event struct {
	ID          int64     `json:"id" db:"id"`
	OrganizerID int64     `json:"organizer_id" db:"organizer_id"`
	Type        string    `json:"type" db:"type" validate:"required,oneof=tournament meetup workshop cleanup trip"`
	Title       string    `json:"title" db:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description" db:"description" validate:"required"`
	StartsAt    time.Time `json:"starts_at" db:"starts_at"`
	Location    string    `json:"location" db:"location" validate:"required,max=255"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Rules       *string   `json:"rules,omitempty" db:"rules"`
	Capacity    *int      `json:"capacity,omitempty" db:"capacity" validate:"omitempty,gt=0"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	OrganizerName  string `json:"organizer_name,omitempty" db:"-"`
	AttendeesCount int    `json:"attendees_count" db:"-"`
	IsRegistered   bool   `json:"is_registered,omitempty" db:"-"`
}

// Attendee is one event registration.
type Attendee struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Username     string    `json:"username" db:"-"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"-"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// ===============================
// TRIP REPORTS
// ===============================

// Report is a published trip report.
type Report struct {
	ID        int64    `json:"id" db:"id"`
	UserID    int64    `json:"user_id" db:"user_id"`
	Title     string   `json:"title" db:"title" validate:"required,min=3,max=255"`
	Location  string   `json:"location" db:"location" validate:"required,max=255"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Species   []string `json:"species" db:"-"`
	Body      string   `json:"body" db:"body" validate:"required,min=10"`
	Photos    []string `json:"photos,omitempty" db:"-"`

	// Weather snapshot taken when the report was written; never refreshed.
	WeatherSummary *string  `json:"weather_summary,omitempty" db:"weather_summary"`
	TemperatureC   *float64 `json:"temperature_c,omitempty" db:"temperature_c"`
	WindKph        *float64 `json:"wind_kph,omitempty" db:"wind_kph"`

	ReportedAt time.Time `json:"reported_at" db:"reported_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	Username string `json:"username,omitempty" db:"-"`
}

// ReportLocation is a map marker for the reports page.
type ReportLocation struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lng"`
	Species   []string `json:"species"`
	Date      string   `json:"date"`
	Type      string   `json:"type"`
}

// ===============================
// PRODUCTS
// ===============================

// Product is a piece of tracked gear in the price tracker.
type Product struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name" validate:"required,max=255"`
	Category string  `json:"category" db:"category" validate:"required,max=100"`
	ImageURL *string `json:"image_url,omitempty" db:"image_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined fields
	CurrentPrice *float64 `json:"current_price,omitempty" db:"-"`
}

// PriceRecord is one persisted price observation for a product.
type PriceRecord struct {
	ProductID  string    `json:"product_id" db:"product_id"`
	Price      float64   `json:"price" db:"price"`
	ObservedAt time.Time `json:"observed_at" db:"observed_at"`
}

// ===============================
// ACHIEVEMENTS
// ===============================

// UserAchievement is one persisted achievement award.
type UserAchievement struct {
	UserID        int64     `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	Points        int       `json:"points" db:"points"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams carries offset pagination inputs.
type PaginationParams struct {
	Page     int `json:"page" validate:"gte=1"`
	PageSize int `json:"page_size" validate:"gte=1,lte=100"`
}

// Offset converts page/page_size into a SQL offset.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Normalize applies defaults for zero values.
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// PaginatedResponse wraps a page of items with totals.
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginatedResponse assembles a paginated response.
func NewPaginatedResponse[T any](items []T, params PaginationParams, total int64) *PaginatedResponse[T] {
	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize != 0 {
		totalPages++
	}
	return &PaginatedResponse[T]{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
