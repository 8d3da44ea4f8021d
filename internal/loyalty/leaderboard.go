package loyalty

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/skinsociete/platform/pkg/logging"
)

const (
	leaderboardKey      = "loyalty:leaderboard"
	leaderboardNamesKey = "loyalty:names"
	leaderboardSize     = 20
)

// Entry is one ranked row on the leaderboard.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Leaderboard ranks members by lifetime points in a Redis sorted set.
type Leaderboard struct {
	redis  *redis.Client
	tracer trace.Tracer
}

func NewLeaderboard(rdb *redis.Client) *Leaderboard {
	if rdb == nil {
		panic("loyalty: redis client cannot be nil")
	}
	return &Leaderboard{
		redis:  rdb,
		tracer: otel.Tracer("skinsociete.internal.loyalty.leaderboard"),
	}
}

// Award adds points to a member's lifetime score and remembers their display
// name for ranking output.
func (l *Leaderboard) Award(ctx context.Context, userID, name string, points int) error {
	ctx, span := l.tracer.Start(ctx, "loyalty.award_points")
	defer span.End()

	if userID == "" {
		return fmt.Errorf("loyalty: user id is required")
	}
	if err := l.redis.ZIncrBy(ctx, leaderboardKey, float64(points), userID).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("loyalty: increment score: %w", err)
	}
	if name != "" {
		if err := l.redis.HSet(ctx, leaderboardNamesKey, userID, name).Err(); err != nil {
			span.RecordError(err)
			return fmt.Errorf("loyalty: store display name: %w", err)
		}
	}
	return nil
}

// Top returns the highest-scoring members, best first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]Entry, error) {
	ctx, span := l.tracer.Start(ctx, "loyalty.leaderboard_top")
	defer span.End()

	if n <= 0 {
		n = leaderboardSize
	}
	scores, err := l.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("loyalty: read leaderboard: %w", err)
	}
	if len(scores) == 0 {
		return []Entry{}, nil
	}

	ids := make([]string, 0, len(scores))
	for _, z := range scores {
		ids = append(ids, z.Member.(string))
	}
	names, err := l.redis.HMGet(ctx, leaderboardNamesKey, ids...).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("loyalty: read display names: %w", err)
	}

	entries := make([]Entry, 0, len(scores))
	for i, z := range scores {
		name := ids[i]
		if i < len(names) {
			if s, ok := names[i].(string); ok && s != "" {
				name = s
			}
		}
		entries = append(entries, Entry{
			Rank:   i + 1,
			UserID: ids[i],
			Name:   name,
			Points: int(z.Score),
		})
	}
	return entries, nil
}

// Refresher keeps a cached snapshot of the leaderboard, refreshed on a fixed
// interval so reads never hit Redis on the request path.
type Refresher struct {
	leaderboard *Leaderboard
	interval    time.Duration
	logger      *logging.Logger

	mu       sync.RWMutex
	snapshot []Entry
}

func NewRefresher(leaderboard *Leaderboard, interval time.Duration, logger *logging.Logger) *Refresher {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Refresher{
		leaderboard: leaderboard,
		interval:    interval,
		logger:      logger,
		snapshot:    []Entry{},
	}
}

// Run refreshes the snapshot until the context is cancelled. A refresh
// failure keeps the previous snapshot.
func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	entries, err := r.leaderboard.Top(ctx, leaderboardSize)
	if err != nil {
		r.logger.Warn("loyalty: leaderboard refresh failed", "error", err)
		return
	}
	r.mu.Lock()
	r.snapshot = entries
	r.mu.Unlock()
}

// Snapshot returns the most recently cached ranking.
func (r *Refresher) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}
