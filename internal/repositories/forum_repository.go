// internal/repositories/forum_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"castnfish/internal/database"
	"castnfish/internal/models"

	"go.uber.org/zap"
)

// forumRepository implements ForumRepository over PostgreSQL.
type forumRepository struct {
	*BaseRepository
}

// NewForumRepository creates a new ForumRepository.
func NewForumRepository(db *database.Manager, logger *zap.Logger) ForumRepository {
	return &forumRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *forumRepository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	query := `
		INSERT INTO topics (user_id, category, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		topic.UserID, topic.Category, topic.Title, topic.Body,
	).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}

	r.GetLogger().Info("Topic created",
		zap.Int64("topic_id", topic.ID),
		zap.Int64("user_id", topic.UserID),
	)
	return nil
}

func (r *forumRepository) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	query := `
		SELECT
			t.id, t.user_id, t.category, t.title, t.body, t.created_at, t.updated_at,
			u.username,
			COALESCE(rs.replies_count, 0) AS replies_count,
			rs.last_reply_at
		FROM topics t
		INNER JOIN users u ON t.user_id = u.id
		LEFT JOIN (
			SELECT topic_id, COUNT(*) AS replies_count, MAX(created_at) AS last_reply_at
			FROM replies
			GROUP BY topic_id
		) rs ON t.id = rs.topic_id
		WHERE t.id = $1`

	var t models.Topic
	err := r.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Category, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt,
		&t.Username, &t.RepliesCount, &t.LastReplyAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic %d: %w", id, err)
	}
	return &t, nil
}

func (r *forumRepository) ListTopics(ctx context.Context, category string, params models.PaginationParams) (*models.PaginatedResponse[*models.Topic], error) {
	params.Normalize()

	where := ""
	countArgs := []interface{}{}
	listArgs := []interface{}{params.PageSize, params.Offset()}
	if category != "" {
		where = "WHERE t.category = $3"
		countArgs = append(countArgs, category)
		listArgs = append(listArgs, category)
	}

	countWhere := ""
	if category != "" {
		countWhere = "WHERE category = $1"
	}
	var total int64
	if err := r.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM topics %s`, countWhere), countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			t.id, t.user_id, t.category, t.title, t.body, t.created_at, t.updated_at,
			u.username,
			COALESCE(rs.replies_count, 0) AS replies_count,
			rs.last_reply_at
		FROM topics t
		INNER JOIN users u ON t.user_id = u.id
		LEFT JOIN (
			SELECT topic_id, COUNT(*) AS replies_count, MAX(created_at) AS last_reply_at
			FROM replies
			GROUP BY topic_id
		) rs ON t.id = rs.topic_id
		%s
		ORDER BY COALESCE(rs.last_reply_at, t.created_at) DESC
		LIMIT $1 OFFSET $2`, where)

	rows, err := r.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Category, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt,
			&t.Username, &t.RepliesCount, &t.LastReplyAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate topic rows: %w", err)
	}

	return models.NewPaginatedResponse(topics, params, total), nil
}

func (r *forumRepository) SearchTopics(ctx context.Context, search string, limit int) ([]*models.Topic, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT t.id, t.user_id, t.category, t.title, t.body, t.created_at, t.updated_at, u.username
		FROM topics t
		INNER JOIN users u ON t.user_id = u.id
		WHERE t.title ILIKE $1 OR t.body ILIKE $1
		ORDER BY t.created_at DESC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, "%"+search+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search topics: %w", err)
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.UserID, &t.Category, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt, &t.Username); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, &t)
	}
	return topics, rows.Err()
}

func (r *forumRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	query := `
		INSERT INTO replies (topic_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.QueryRowContext(ctx, query, reply.TopicID, reply.UserID, reply.Body).
		Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}
	return nil
}

func (r *forumRepository) ListReplies(ctx context.Context, topicID int64) ([]*models.Reply, error) {
	query := `
		SELECT
			rep.id, rep.topic_id, rep.user_id, rep.body, rep.created_at,
			u.username,
			COALESCE(rr.helpful_count, 0) AS helpful_count
		FROM replies rep
		INNER JOIN users u ON rep.user_id = u.id
		LEFT JOIN (
			SELECT reply_id, COUNT(*) AS helpful_count
			FROM reply_reactions
			GROUP BY reply_id
		) rr ON rep.id = rr.reply_id
		WHERE rep.topic_id = $1
		ORDER BY rep.created_at ASC`

	rows, err := r.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies for topic %d: %w", topicID, err)
	}
	defer rows.Close()

	var replies []*models.Reply
	for rows.Next() {
		var rep models.Reply
		if err := rows.Scan(&rep.ID, &rep.TopicID, &rep.UserID, &rep.Body, &rep.CreatedAt, &rep.Username, &rep.HelpfulCount); err != nil {
			return nil, fmt.Errorf("failed to scan reply row: %w", err)
		}
		replies = append(replies, &rep)
	}
	return replies, rows.Err()
}

func (r *forumRepository) MarkHelpful(ctx context.Context, replyID, userID int64) (int64, error) {
	var authorID int64
	err := r.QueryRowContext(ctx, `SELECT user_id FROM replies WHERE id = $1`, replyID).Scan(&authorID)
	if err == sql.ErrNoRows {
		return 0, ErrReplyNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve reply %d: %w", replyID, err)
	}

	query := `
		INSERT INTO reply_reactions (reply_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (reply_id, user_id) DO NOTHING`
	if _, err := r.ExecContext(ctx, query, replyID, userID); err != nil {
		return 0, fmt.Errorf("failed to mark reply %d helpful: %w", replyID, err)
	}
	return authorID, nil
}

func (r *forumRepository) CountTopicsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM topics WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count topics for user %d: %w", userID, err)
	}
	return count, nil
}

func (r *forumRepository) CountHelpfulForUser(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reply_reactions rr
		JOIN replies rep ON rep.id = rr.reply_id
		WHERE rep.user_id = $1`
	var count int
	if err := r.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count helpful reactions for user %d: %w", userID, err)
	}
	return count, nil
}
