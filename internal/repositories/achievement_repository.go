// internal/repositories/achievement_repository.go
package repositories

import (
	"context"
	"fmt"

	"castnfish/internal/database"
	"castnfish/internal/models"

	"go.uber.org/zap"
)

// achievementRepository implements AchievementRepository over PostgreSQL. It
// is the engine's progress source and persistence sink: the engine itself
// never touches storage.
type achievementRepository struct {
	*BaseRepository
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(db *database.Manager, logger *zap.Logger) AchievementRepository {
	return &achievementRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *achievementRepository) GetProgress(ctx context.Context, userID int64) (map[string]bool, int, error) {
	query := `SELECT achievement_id, points FROM user_achievements WHERE user_id = $1`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load achievement progress for user %d: %w", userID, err)
	}
	defer rows.Close()

	unlocked := make(map[string]bool)
	points := 0
	for rows.Next() {
		var id string
		var p int
		if err := rows.Scan(&id, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan achievement row: %w", err)
		}
		unlocked[id] = true
		points += p
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate achievement rows: %w", err)
	}
	return unlocked, points, nil
}

func (r *achievementRepository) Award(ctx context.Context, userID int64, awards []models.UserAchievement) error {
	if len(awards) == 0 {
		return nil
	}

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin award transaction: %w", err)
	}
	defer tx.Rollback()

	// The unique constraint on (user_id, achievement_id) guarantees an award
	// is recorded at most once even under racing checks.
	query := `
		INSERT INTO user_achievements (user_id, achievement_id, points, unlocked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`

	for _, award := range awards {
		if _, err := tx.ExecContext(ctx, query, userID, award.AchievementID, award.Points, award.UnlockedAt); err != nil {
			return fmt.Errorf("failed to award achievement %q: %w", award.AchievementID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit awards: %w", err)
	}

	r.GetLogger().Info("Achievements awarded",
		zap.Int64("user_id", userID),
		zap.Int("count", len(awards)),
	)
	return nil
}

func (r *achievementRepository) ListForUser(ctx context.Context, userID int64) ([]models.UserAchievement, error) {
	query := `
		SELECT user_id, achievement_id, points, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements for user %d: %w", userID, err)
	}
	defer rows.Close()

	var awards []models.UserAchievement
	for rows.Next() {
		var a models.UserAchievement
		if err := rows.Scan(&a.UserID, &a.AchievementID, &a.Points, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement row: %w", err)
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}
