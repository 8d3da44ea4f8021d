package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// draftTTL is how long an unsubmitted draft survives. Drafts older than this
// are treated as abandoned and the form starts fresh.
const draftTTL = 24 * time.Hour

// Draft is one autosaved snapshot of the form for a session.
type Draft struct {
	ServiceID string    `json:"serviceId"`
	Form      Form      `json:"form"`
	SavedAt   time.Time `json:"savedAt"`
}

// AutosaveStore persists per-session form drafts in Redis with an expiry.
// One draft per session; saving a draft for a different service replaces it.
type AutosaveStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewAutosaveStore(rdb *redis.Client) *AutosaveStore {
	if rdb == nil {
		panic("intake: redis client cannot be nil")
	}
	return &AutosaveStore{
		redis:  rdb,
		ttl:    draftTTL,
		tracer: otel.Tracer("skinsociete.internal.intake.autosave"),
	}
}

// WithTTL overrides the draft expiry. Useful in tests.
func (s *AutosaveStore) WithTTL(ttl time.Duration) *AutosaveStore {
	s.ttl = ttl
	return s
}

// Save stores the session's draft, resetting the expiry clock.
func (s *AutosaveStore) Save(ctx context.Context, sessionID string, draft Draft) error {
	ctx, span := s.tracer.Start(ctx, "intake.save_draft")
	defer span.End()

	draft.SavedAt = time.Now().UTC()
	data, err := json.Marshal(draft)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: persist draft: %w", err)
	}
	return nil
}

// Load returns the session's draft, or nil when none exists or it has expired.
func (s *AutosaveStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	ctx, span := s.tracer.Start(ctx, "intake.load_draft")
	defer span.End()

	data, err := s.redis.Get(ctx, draftKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("intake: load draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("intake: decode draft: %w", err)
	}
	return &draft, nil
}

// Clear discards the session's draft after a successful submission.
func (s *AutosaveStore) Clear(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "intake.clear_draft")
	defer span.End()

	if err := s.redis.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("intake: clear draft: %w", err)
	}
	return nil
}

func draftKey(sessionID string) string {
	return fmt.Sprintf("intake:draft:%s", sessionID)
}
