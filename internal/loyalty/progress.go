package loyalty

import (
	"context"
	"errors"
	"time"
)

// ErrProgressNotFound is returned when a member has no progress row yet.
var ErrProgressNotFound = errors.New("loyalty: progress not found")

// Points awarded per event type.
const (
	PointsDailyTask = 10
	PointsBooking   = 100
	PointsPurchase  = 50
)

// Progress is a member's loyalty state.
type Progress struct {
	UserID         string    `json:"userId"`
	Points         int       `json:"points"`
	Streak         int       `json:"streak"`
	CompletedTasks []string  `json:"completedTasks"`
	LastActivity   time.Time `json:"lastActivity"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Achievement is a derived badge; never stored, always recomputed from points
// and streak so thresholds can change without a migration.
type Achievement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unlocked bool   `json:"unlocked"`
}

// Achievements derives the badge list from the member's progress.
func Achievements(p *Progress) []Achievement {
	type threshold struct {
		id, name string
		unlocked bool
	}
	checks := []threshold{
		{"first-steps", "First Steps", p.Points >= 10},
		{"glow-getter", "Glow Getter", p.Points >= 250},
		{"skin-devotee", "Skin Devotee", p.Points >= 1000},
		{"week-streak", "One Week Streak", p.Streak >= 7},
		{"month-streak", "One Month Streak", p.Streak >= 30},
	}
	out := make([]Achievement, 0, len(checks))
	for _, c := range checks {
		out = append(out, Achievement{ID: c.id, Name: c.name, Unlocked: c.unlocked})
	}
	return out
}

// ProgressRepository persists member loyalty progress. RecordActivity reports
// whether points were actually awarded so callers can keep the leaderboard in
// step with deduplicated tasks.
type ProgressRepository interface {
	Get(ctx context.Context, userID string) (*Progress, error)
	RecordActivity(ctx context.Context, userID string, points int, taskID string) (*Progress, bool, error)
	Reset(ctx context.Context, userID string) error
}

// nextStreak applies the consecutive-day rule: same day keeps the streak,
// the following day extends it, any gap resets to 1.
func nextStreak(current int, lastActivity, now time.Time) int {
	if current == 0 || lastActivity.IsZero() {
		return 1
	}
	last := lastActivity.UTC().Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)
	switch today.Sub(last) {
	case 0:
		return current
	case 24 * time.Hour:
		return current + 1
	default:
		return 1
	}
}
