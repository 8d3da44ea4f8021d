package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores feed posts in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("feed: database required")
	}
	return &PostgresRepository{db: db}
}

// List returns the most recent posts, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, user_name, content, image_url, likes, created_at
		FROM feed_posts
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("feed: select failed: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.UserName,
			&p.Content,
			&p.ImageURL,
			&p.Likes,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("feed: scan failed: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feed: rows failed: %w", err)
	}
	return posts, nil
}

// Create inserts a new post.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO feed_posts (id, user_id, user_name, content, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.UserID,
		req.UserName,
		req.Content,
		req.ImageURL,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("feed: insert failed: %w", err)
	}

	return &Post{
		ID:        id.String(),
		UserID:    req.UserID,
		UserName:  req.UserName,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		CreatedAt: createdAt,
	}, nil
}

// Like records one like per member per post; repeated likes are no-ops.
// Returns the post's updated like count.
func (r *PostgresRepository) Like(ctx context.Context, postID, userID string) (int, error) {
	insert := `
		INSERT INTO feed_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, insert, postID, userID)
	if err != nil {
		return 0, fmt.Errorf("feed: insert like failed: %w", err)
	}

	var likes int
	if tag.RowsAffected() > 0 {
		query := `UPDATE feed_posts SET likes = likes + 1 WHERE id = $1 RETURNING likes`
		if err := r.db.QueryRow(ctx, query, postID).Scan(&likes); err != nil {
			if err == pgx.ErrNoRows {
				return 0, ErrPostNotFound
			}
			return 0, fmt.Errorf("feed: update likes failed: %w", err)
		}
		return likes, nil
	}

	if err := r.db.QueryRow(ctx, `SELECT likes FROM feed_posts WHERE id = $1`, postID).Scan(&likes); err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrPostNotFound
		}
		return 0, fmt.Errorf("feed: select likes failed: %w", err)
	}
	return likes, nil
}
