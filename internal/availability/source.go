// Package availability resolves open appointment slots for a date. Two
// SlotSource implementations exist: a Gateway backed by the Phorest API and a
// deterministic seeded Generator used as demo data and as the Gateway's
// fallback when the clinic platform is unreachable.
package availability

import (
	"context"

	"github.com/skinsociete/platform/internal/phorest"
)

// Slot is a bookable interval annotated with a display-only popularity tag.
type Slot struct {
	phorest.Slot
	Popularity string `json:"popularity,omitempty"`
}

// Result is a full availability answer for one date.
type Result struct {
	Slots []Slot          `json:"slots"`
	Staff []phorest.Staff `json:"staff"`
	// Fallback reports that the slots were locally generated rather than
	// fetched from the clinic platform.
	Fallback bool `json:"fallback"`
}

// SlotSource produces the open slots for a date/service pair.
type SlotSource interface {
	Slots(ctx context.Context, req phorest.AvailabilityRequest) (*Result, error)
}
