package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores loyalty progress in the relational database.
type PostgresRepository struct {
	db  DB
	now func() time.Time
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("loyalty: database required")
	}
	return &PostgresRepository{db: db, now: time.Now}
}

// WithClock overrides the time source. Useful in tests.
func (r *PostgresRepository) WithClock(now func() time.Time) *PostgresRepository {
	r.now = now
	return r
}

// Get fetches a member's progress.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Progress, error) {
	query := `
		SELECT user_id, points, streak, completed_tasks, last_activity, updated_at
		FROM loyalty_progress
		WHERE user_id = $1
	`
	row := r.db.QueryRow(ctx, query, userID)
	var p Progress
	if err := row.Scan(
		&p.UserID,
		&p.Points,
		&p.Streak,
		&p.CompletedTasks,
		&p.LastActivity,
		&p.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("loyalty: select failed: %w", err)
	}
	return &p, nil
}

// RecordActivity awards points, advances the streak, and records the task.
// Completed tasks reset at the start of each new day; repeating a task on the
// same day awards no extra points and returns awarded=false.
func (r *PostgresRepository) RecordActivity(ctx context.Context, userID string, points int, taskID string) (*Progress, bool, error) {
	now := r.now().UTC()

	current, err := r.Get(ctx, userID)
	if err != nil && err != ErrProgressNotFound {
		return nil, false, err
	}
	if current == nil {
		current = &Progress{UserID: userID}
	}

	sameDay := !current.LastActivity.IsZero() &&
		current.LastActivity.UTC().Truncate(24*time.Hour).Equal(now.Truncate(24*time.Hour))

	tasks := current.CompletedTasks
	if !sameDay {
		tasks = nil
	}
	if taskID != "" {
		for _, t := range tasks {
			if t == taskID {
				return current, false, nil
			}
		}
		tasks = append(tasks, taskID)
	}
	if tasks == nil {
		tasks = []string{}
	}

	updated := &Progress{
		UserID:         userID,
		Points:         current.Points + points,
		Streak:         nextStreak(current.Streak, current.LastActivity, now),
		CompletedTasks: tasks,
		LastActivity:   now,
		UpdatedAt:      now,
	}

	query := `
		INSERT INTO loyalty_progress (user_id, points, streak, completed_tasks, last_activity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			points = EXCLUDED.points,
			streak = EXCLUDED.streak,
			completed_tasks = EXCLUDED.completed_tasks,
			last_activity = EXCLUDED.last_activity,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query,
		updated.UserID,
		updated.Points,
		updated.Streak,
		updated.CompletedTasks,
		updated.LastActivity,
		updated.UpdatedAt,
	); err != nil {
		return nil, false, fmt.Errorf("loyalty: upsert failed: %w", err)
	}
	return updated, true, nil
}

// Reset deletes a member's progress row.
func (r *PostgresRepository) Reset(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM loyalty_progress WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("loyalty: delete failed: %w", err)
	}
	return nil
}
