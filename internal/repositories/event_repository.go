// internal/repositories/event_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"castnfish/internal/database"
	"castnfish/internal/models"

	"go.uber.org/zap"
)

// eventRepository implements EventRepository over PostgreSQL.
type eventRepository struct {
	*BaseRepository
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *database.Manager, logger *zap.Logger) EventRepository {
	return &eventRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const eventSelect = `
	SELECT
		e.id, e.organizer_id, e.type, e.title, e.description, e.starts_at,
		e.location, e.latitude, e.longitude, e.rules, e.capacity, e.created_at,
		u.username AS organizer_name,
		COALESCE(reg.cnt, 0) AS attendees_count,
		CASE WHEN $1::BIGINT IS NOT NULL AND EXISTS (
			SELECT 1 FROM event_registrations er
			WHERE er.event_id = e.id AND er.user_id = $1
		) THEN TRUE ELSE FALSE END AS is_registered
	FROM events e
	INNER JOIN users u ON e.organizer_id = u.id
	LEFT JOIN (
		SELECT event_id, COUNT(*) AS cnt
		FROM event_registrations
		GROUP BY event_id
	) reg ON e.id = reg.event_id`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Type, &e.Title, &e.Description, &e.StartsAt,
		&e.Location, &e.Latitude, &e.Longitude, &e.Rules, &e.Capacity, &e.CreatedAt,
		&e.OrganizerName, &e.AttendeesCount, &e.IsRegistered,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (organizer_id, type, title, description, starts_at, location, latitude, longitude, rules, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		event.OrganizerID, event.Type, event.Title, event.Description, event.StartsAt,
		event.Location, event.Latitude, event.Longitude, event.Rules, event.Capacity,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.GetLogger().Info("Event created",
		zap.Int64("event_id", event.ID),
		zap.String("type", event.Type),
		zap.String("title", event.Title),
	)
	return nil
}

// GetByID returns the event with attendee count. When userID is non-nil the
// IsRegistered flag reflects that user's registration.
func (r *eventRepository) GetByID(ctx context.Context, id int64, userID *int64) (*models.Event, error) {
	query := eventSelect + `
	WHERE e.id = $2`

	event, err := scanEvent(r.QueryRowContext(ctx, query, userID, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (r *eventRepository) ListBetween(ctx context.Context, from, to time.Time, userID *int64) ([]*models.Event, error) {
	query := eventSelect + `
	WHERE e.starts_at >= $2 AND e.starts_at < $3
	ORDER BY e.starts_at ASC`

	rows, err := r.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Register adds a registration. Returns ErrEventFull when the event has a
// capacity and it is already reached, and reports whether a new row was
// actually inserted (false means the user was already registered).
func (r *eventRepository) Register(ctx context.Context, eventID, userID int64) (bool, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var capacity sql.NullInt64
	var registered int
	err = tx.QueryRowContext(ctx, `
		SELECT e.capacity, COUNT(er.user_id)
		FROM events e
		LEFT JOIN event_registrations er ON er.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.id, e.capacity
		FOR UPDATE OF e`, eventID,
	).Scan(&capacity, &registered)
	if err == sql.ErrNoRows {
		return false, ErrEventNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock event %d: %w", eventID, err)
	}
	if capacity.Valid && int64(registered) >= capacity.Int64 {
		return false, ErrEventFull
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO event_registrations (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING`, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to register for event %d: %w", eventID, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read registration result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit registration: %w", err)
	}
	return inserted > 0, nil
}

func (r *eventRepository) Unregister(ctx context.Context, eventID, userID int64) error {
	query := `DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`
	if _, err := r.ExecContext(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("failed to unregister from event %d: %w", eventID, err)
	}
	return nil
}

func (r *eventRepository) ListAttendees(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	query := `
		SELECT er.user_id, u.username, u.avatar_url, er.registered_at
		FROM event_registrations er
		INNER JOIN users u ON er.user_id = u.id
		WHERE er.event_id = $1
		ORDER BY er.registered_at ASC`

	rows, err := r.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var attendees []*models.Attendee
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.UserID, &a.Username, &a.AvatarURL, &a.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendee row: %w", err)
		}
		attendees = append(attendees, &a)
	}
	return attendees, rows.Err()
}

func (r *eventRepository) CountRegistrationsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_registrations WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations for user %d: %w", userID, err)
	}
	return count, nil
}
