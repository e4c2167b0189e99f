// internal/repositories/user_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"castnfish/internal/database"
	"castnfish/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository over PostgreSQL.
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const userColumns = `
	id, email, username, password_hash, is_active,
	display_name, bio, location, favorite_spot, avatar_url, avatar_public_id,
	created_at, updated_at, last_seen`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive,
		&u.DisplayName, &u.Bio, &u.Location, &u.FavoriteSpot, &u.AvatarURL, &u.AvatarPublicID,
		&u.CreatedAt, &u.UpdatedAt, &u.LastSeen,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, last_seen`

	err := r.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.DisplayName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.LastSeen)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.IsActive = true

	r.GetLogger().Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND is_active = true`, userColumns)
	user, err := scanUser(r.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(username) = LOWER($1) AND is_active = true`, userColumns)
	user, err := scanUser(r.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1) AND is_active = true`, userColumns)
	user, err := scanUser(r.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			display_name = $2, bio = $3, location = $4, favorite_spot = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_active = true
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		user.ID, user.DisplayName, user.Bio, user.Location, user.FavoriteSpot,
	).Scan(&user.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user %d not found", user.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID int64, url, publicID string) error {
	query := `
		UPDATE users SET avatar_url = $2, avatar_public_id = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	if _, err := r.ExecContext(ctx, query, userID, url, publicID); err != nil {
		return fmt.Errorf("failed to update avatar for user %d: %w", userID, err)
	}
	return nil
}

func (r *userRepository) UpdateLastSeen(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_seen = CURRENT_TIMESTAMP WHERE id = $1`
	if _, err := r.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to update last seen for user %d: %w", userID, err)
	}
	return nil
}
