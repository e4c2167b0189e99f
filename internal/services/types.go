// file: internal/services/types.go
package services

import (
	"io"
	"time"

	"castnfish/internal/models"
	"castnfish/internal/pricewatch"
)

// ===============================
// AUTH REQUESTS
// ===============================

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=320"`
	Username    string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// LoginRequest carries a credential check.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // email or username
	Password   string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ===============================
// PROFILE REQUESTS
// ===============================

// UpdateProfileRequest carries editable profile fields.
type UpdateProfileRequest struct {
	UserID       int64   `json:"-" validate:"required,gt=0"`
	DisplayName  *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	Bio          *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=255"`
	FavoriteSpot *string `json:"favorite_spot,omitempty" validate:"omitempty,max=255"`
}

// UploadAvatarRequest carries an avatar image upload.
type UploadAvatarRequest struct {
	UserID      int64     `json:"-" validate:"required,gt=0"`
	File        io.Reader `json:"-" validate:"required"`
	Filename    string    `json:"-" validate:"required"`
	ContentType string    `json:"-" validate:"required"`
	Size        int64     `json:"-" validate:"gt=0,lte=10485760"`
}

// ===============================
// ACTIVITY REQUESTS
// ===============================

// LogCatchRequest carries one logged catch.
type LogCatchRequest struct {
	UserID   int64     `json:"-" validate:"required,gt=0"`
	Species  string    `json:"species" validate:"required,max=100"`
	WeightKg *float64  `json:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	LengthCm *float64  `json:"length_cm,omitempty" validate:"omitempty,gt=0"`
	Location string    `json:"location" validate:"required,max=255"`
	Bait     *string   `json:"bait,omitempty" validate:"omitempty,max=100"`
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Photos   []string  `json:"photos,omitempty" validate:"max=10,dive,url"`
	CaughtAt time.Time `json:"caught_at"`
}

// LogTripRequest carries one logged trip.
type LogTripRequest struct {
	UserID     int64     `json:"-" validate:"required,gt=0"`
	Location   string    `json:"location" validate:"required,max=255"`
	TripDate   time.Time `json:"trip_date" validate:"required"`
	Hours      float64   `json:"hours" validate:"gt=0,lte=24"`
	Companions *string   `json:"companions,omitempty" validate:"omitempty,max=255"`
	Notes      *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Photos     []string  `json:"photos,omitempty" validate:"max=10,dive,url"`
}

// ActivityHistoryRequest narrows and pages a user's activity history.
type ActivityHistoryRequest struct {
	UserID     int64                   `json:"-" validate:"required,gt=0"`
	Type       string                  `json:"type" validate:"omitempty,oneof=catch trip"`
	Location   string                  `json:"location" validate:"omitempty,max=255"`
	Since      *time.Time              `json:"since,omitempty"`
	Until      *time.Time              `json:"until,omitempty"`
	Pagination models.PaginationParams `json:"pagination"`
}

// ===============================
// FORUM REQUESTS
// ===============================

// CreateTopicRequest carries a new forum topic.
type CreateTopicRequest struct {
	UserID   int64  `json:"-" validate:"required,gt=0"`
	Category string `json:"category" validate:"required,max=100"`
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Body     string `json:"body" validate:"required,min=10"`
}

// ListTopicsRequest narrows and pages a topic listing.
type ListTopicsRequest struct {
	Category   string                  `json:"category" validate:"omitempty,max=100"`
	Pagination models.PaginationParams `json:"pagination"`
}

// CreateReplyRequest carries a new forum reply.
type CreateReplyRequest struct {
	UserID  int64  `json:"-" validate:"required,gt=0"`
	TopicID int64  `json:"topic_id" validate:"required,gt=0"`
	Body    string `json:"body" validate:"required,min=1"`
}

// ===============================
// EVENT REQUESTS
// ===============================

// CreateEventRequest carries a new community event.
type CreateEventRequest struct {
	OrganizerID int64     `json:"-" validate:"required,gt=0"`
	Type        string    `json:"type" validate:"required,oneof=tournament meetup workshop cleanup trip"`
	Title       string    `json:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description" validate:"required"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	Location    string    `json:"location" validate:"required,max=255"`
	Latitude    *float64  `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64  `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Rules       *string   `json:"rules,omitempty"`
	Capacity    *int      `json:"capacity,omitempty" validate:"omitempty,gt=0"`
}

// ListEventsRequest bounds an event listing to a time window.
type ListEventsRequest struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	UserID *int64    `json:"-"`
}

// ===============================
// REPORT REQUESTS
// ===============================

// CreateReportRequest carries a new trip report. Weather is looked up and
// frozen at creation when coordinates are present.
type CreateReportRequest struct {
	UserID     int64     `json:"-" validate:"required,gt=0"`
	Title      string    `json:"title" validate:"required,min=3,max=255"`
	Location   string    `json:"location" validate:"required,max=255"`
	Latitude   *float64  `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64  `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Species    []string  `json:"species" validate:"required,min=1,max=20,dive,max=100"`
	Body       string    `json:"body" validate:"required,min=10"`
	Photos     []string  `json:"photos,omitempty" validate:"max=10,dive,url"`
	ReportedAt time.Time `json:"reported_at"`
}

// ListReportsRequest narrows, sorts and pages a report listing.
type ListReportsRequest struct {
	Species    []string                `json:"species,omitempty"`
	Locations  []string                `json:"locations,omitempty"`
	Since      *time.Time              `json:"since,omitempty"`
	SortBy     string                  `json:"sort_by" validate:"omitempty,oneof=date location species"`
	Pagination models.PaginationParams `json:"pagination"`
}

// ===============================
// GEAR REQUESTS
// ===============================

// CreateProductRequest registers a new tracked product.
type CreateProductRequest struct {
	ID       string  `json:"id" validate:"required,max=100"`
	Name     string  `json:"name" validate:"required,max=255"`
	Category string  `json:"category" validate:"required,max=100"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// CreateAlertRequest carries a new price alert. Exactly one of TargetPrice
// (specific) or PercentDrop (percent_drop) applies, selected by Kind.
type CreateAlertRequest struct {
	UserID      int64           `json:"-" validate:"required,gt=0"`
	ProductID   string          `json:"product_id" validate:"required,max=100"`
	Kind        pricewatch.Kind `json:"kind" validate:"required,oneof=specific percent_drop"`
	TargetPrice float64         `json:"target_price,omitempty" validate:"omitempty,gt=0"`
	PercentDrop float64         `json:"percent_drop,omitempty" validate:"omitempty,gt=0,lt=100"`
}
