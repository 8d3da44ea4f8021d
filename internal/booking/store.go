package booking

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultWizardTTL = 2 * time.Hour

// Store keeps in-progress wizards in memory. Wizard state is view state for a
// single visit; anything older than the TTL is discarded on access.
type Store struct {
	mu      sync.Mutex
	wizards map[string]*Wizard
	ttl     time.Duration
}

// NewStore creates a wizard store with the default TTL.
func NewStore() *Store {
	return &Store{
		wizards: make(map[string]*Wizard),
		ttl:     defaultWizardTTL,
	}
}

// WithTTL overrides the expiry window (for tests).
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// Create starts a new wizard for the session. Abandoned wizards are swept
// here so the map does not grow for the life of the process.
func (s *Store) Create(sessionID, serviceID, serviceName, clientID, clientName string) *Wizard {
	now := time.Now().UTC()
	wz := &Wizard{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		State:       StateDateTime,
		ServiceID:   serviceID,
		ServiceName: serviceName,
		ClientID:    clientID,
		ClientName:  clientName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.sweepLocked(now)
	s.wizards[wz.ID] = wz
	s.mu.Unlock()
	return wz
}

// Get returns a snapshot of the wizard scoped to the session.
func (s *Store) Get(sessionID, wizardID string) (Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wz, err := s.lookup(sessionID, wizardID)
	if err != nil {
		return Wizard{}, err
	}
	return *wz, nil
}

// Update applies fn to the wizard under the store lock and returns the
// resulting snapshot. fn errors leave prior mutations in place, matching the
// wizard's own stay-on-step failure semantics.
func (s *Store) Update(sessionID, wizardID string, fn func(*Wizard) error) (Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wz, err := s.lookup(sessionID, wizardID)
	if err != nil {
		return Wizard{}, err
	}
	if err := fn(wz); err != nil {
		return *wz, err
	}
	return *wz, nil
}

func (s *Store) sweepLocked(now time.Time) {
	for id, wz := range s.wizards {
		if now.Sub(wz.UpdatedAt) > s.ttl {
			delete(s.wizards, id)
		}
	}
}

func (s *Store) lookup(sessionID, wizardID string) (*Wizard, error) {
	wz, ok := s.wizards[wizardID]
	if !ok || wz.SessionID != sessionID {
		return nil, ErrWizardNotFound
	}
	if time.Since(wz.UpdatedAt) > s.ttl {
		delete(s.wizards, wizardID)
		return nil, ErrWizardNotFound
	}
	return wz, nil
}
