// internal/repositories/activity_repository.go
package repositories

import (
	"context"
	"fmt"
	"strings"

	"castnfish/internal/database"
	"castnfish/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// activityRepository implements ActivityRepository over PostgreSQL.
type activityRepository struct {
	*BaseRepository
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *database.Manager, logger *zap.Logger) ActivityRepository {
	return &activityRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *activityRepository) CreateCatch(ctx context.Context, c *models.Catch) error {
	query := `
		INSERT INTO catches (user_id, species, weight_kg, length_cm, location, bait, notes, photos, caught_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		c.UserID, c.Species, c.WeightKg, c.LengthCm, c.Location, c.Bait, c.Notes,
		pq.Array(c.Photos), c.CaughtAt,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create catch: %w", err)
	}

	r.GetLogger().Info("Catch logged",
		zap.Int64("catch_id", c.ID),
		zap.Int64("user_id", c.UserID),
		zap.String("species", c.Species),
	)
	return nil
}

func (r *activityRepository) CreateTrip(ctx context.Context, t *models.Trip) error {
	query := `
		INSERT INTO trips (user_id, location, trip_date, hours, companions, notes, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query,
		t.UserID, t.Location, t.TripDate, t.Hours, t.Companions, t.Notes, pq.Array(t.Photos),
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	r.GetLogger().Info("Trip logged",
		zap.Int64("trip_id", t.ID),
		zap.Int64("user_id", t.UserID),
		zap.String("location", t.Location),
	)
	return nil
}

func (r *activityRepository) GetStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM catches WHERE user_id = $1) AS total_catches,
			(SELECT COUNT(DISTINCT species) FROM catches WHERE user_id = $1) AS distinct_species,
			(SELECT COUNT(*) FROM trips WHERE user_id = $1) AS total_trips,
			(SELECT COUNT(DISTINCT location) FROM trips WHERE user_id = $1) AS distinct_spots,
			(SELECT COUNT(*) FROM event_registrations WHERE user_id = $1) AS events_attended,
			(SELECT COUNT(*) FROM topics WHERE user_id = $1) AS forum_topics,
			(SELECT COUNT(*)
				FROM reply_reactions rr
				JOIN replies rep ON rep.id = rr.reply_id
				WHERE rep.user_id = $1) AS helpful_votes`

	var stats models.UserStats
	err := r.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalCatches, &stats.DistinctSpecies, &stats.TotalTrips,
		&stats.DistinctSpots, &stats.EventsAttended, &stats.ForumTopics,
		&stats.HelpfulVotes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for user %d: %w", userID, err)
	}
	return &stats, nil
}

func (r *activityRepository) History(ctx context.Context, userID int64, filter ActivityFilter, params models.PaginationParams) (*models.PaginatedResponse[models.ActivityItem], error) {
	params.Normalize()

	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	next := 2

	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", next))
		args = append(args, "%"+filter.Location+"%")
		next++
	}
	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at >= $%d", next))
		args = append(args, *filter.Since)
		next++
	}
	if filter.Until != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at <= $%d", next))
		args = append(args, *filter.Until)
		next++
	}

	typeFilter := ""
	switch filter.Type {
	case "catch":
		typeFilter = "WHERE activity.type = 'catch'"
	case "trip":
		typeFilter = "WHERE activity.type = 'trip'"
	}

	where := strings.Join(conditions, " AND ")
	source := fmt.Sprintf(`
		SELECT * FROM (
			SELECT 'catch' AS type, id, species AS title, location, caught_at AS occurred_at, user_id
			FROM catches
			UNION ALL
			SELECT 'trip' AS type, id, location AS title, location, trip_date AS occurred_at, user_id
			FROM trips
		) activity
		%s`, typeFilter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM (%s) filtered WHERE %s`, source, where)
	var total int64
	if err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count activity history: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT type, id, title, location, occurred_at
		FROM (%s) filtered
		WHERE %s
		ORDER BY occurred_at DESC
		LIMIT $%d OFFSET $%d`, source, where, next, next+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity history: %w", err)
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		var item models.ActivityItem
		if err := rows.Scan(&item.Type, &item.ID, &item.Title, &item.Location, &item.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}

	return models.NewPaginatedResponse(items, params, total), nil
}

func (r *activityRepository) LikeCatch(ctx context.Context, catchID, userID int64) error {
	query := `
		INSERT INTO catch_likes (catch_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (catch_id, user_id) DO NOTHING`
	if _, err := r.ExecContext(ctx, query, catchID, userID); err != nil {
		return fmt.Errorf("failed to like catch %d: %w", catchID, err)
	}
	return nil
}
