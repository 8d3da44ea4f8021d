package availability

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/skinsociete/platform/internal/phorest"
)

const (
	openingHour = 9
	closingHour = 17
	stepMinutes = 30

	baseAvailability   = 0.65
	middayAvailability = 0.80
)

// demoRoster is the fixed staff list used for generated schedules.
var demoRoster = []phorest.Staff{
	{ID: "staff-1", Name: "Sarah Chen", Title: "Dermal Clinician", Specialties: []string{"peels", "LED"}, Rating: 4.9, Available: true},
	{ID: "staff-2", Name: "Mia Thompson", Title: "Senior Dermal Clinician", Specialties: []string{"laser", "needling"}, Rating: 4.8, Available: true},
	{ID: "staff-3", Name: "Olivia Nguyen", Title: "Cosmetic Nurse", Specialties: []string{"injectables"}, Rating: 4.7, Available: true},
	{ID: "staff-4", Name: "Grace Park", Title: "Skin Therapist", Specialties: []string{"facials", "dermaplaning"}, Rating: 4.6, Available: true},
}

// Generator produces a deterministic demo schedule. The same (date, serviceID)
// pair always yields the same slots, so tests and demo environments are stable
// across requests.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// WithClock overrides the clock (for tests).
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Slots generates the 09:00–17:00 schedule at 30-minute boundaries. For today,
// slots whose hour has already passed are dropped. Availability is ~70%,
// skewed higher over the midday block.
func (g *Generator) Slots(ctx context.Context, req phorest.AvailabilityRequest) (*Result, error) {
	_ = ctx

	rng := rand.New(rand.NewSource(seed(req.Date, req.ServiceID)))

	now := g.now()
	today := sameDay(req.Date, now)

	slots := make([]Slot, 0, (closingHour-openingHour)*60/stepMinutes)
	for hour := openingHour; hour < closingHour; hour++ {
		for minute := 0; minute < 60; minute += stepMinutes {
			// Keep the stream deterministic: draw before the past-slot skip so
			// afternoon slots keep their values as the day progresses.
			staff := demoRoster[rng.Intn(len(demoRoster))]
			available := rng.Float64() < availabilityChance(hour)

			if today && hour <= now.Hour() {
				continue
			}

			slots = append(slots, Slot{
				Slot: phorest.Slot{
					Time:      fmt.Sprintf("%02d:%02d", hour, minute),
					Available: available,
					StaffID:   staff.ID,
					StaffName: staff.Name,
				},
				Popularity: popularityTag(hour),
			})
		}
	}

	roster := make([]phorest.Staff, len(demoRoster))
	copy(roster, demoRoster)

	return &Result{Slots: slots, Staff: roster, Fallback: true}, nil
}

func availabilityChance(hour int) float64 {
	if hour >= 11 && hour < 14 {
		return middayAvailability
	}
	return baseAvailability
}

func seed(date time.Time, serviceID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(date.Format("2006-01-02")))
	h.Write([]byte{'|'})
	h.Write([]byte(serviceID))
	return int64(h.Sum64())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
