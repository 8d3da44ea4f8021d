package availability

import (
	"context"
	"strconv"
	"strings"

	"github.com/skinsociete/platform/internal/observability/metrics"
	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/pkg/logging"
)

// Fetcher is the slice of the Phorest client the gateway needs.
type Fetcher interface {
	GetAvailability(ctx context.Context, req phorest.AvailabilityRequest) (*phorest.AvailabilityResponse, error)
}

// Gateway fetches live availability from the clinic platform and substitutes
// the generated demo schedule whenever the platform cannot answer. The UI is
// never blocked on a Phorest outage.
type Gateway struct {
	fetcher  Fetcher
	fallback *Generator
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewGateway creates a gateway over the given fetcher.
func NewGateway(fetcher Fetcher, fallback *Generator, m *metrics.BookingMetrics, logger *logging.Logger) *Gateway {
	if fallback == nil {
		fallback = NewGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{fetcher: fetcher, fallback: fallback, metrics: m, logger: logger}
}

// Slots returns the remote schedule when the platform answers cleanly,
// otherwise the generated fallback. A remote answer flagged mock, unsuccessful
// or empty counts as a failure.
func (g *Gateway) Slots(ctx context.Context, req phorest.AvailabilityRequest) (*Result, error) {
	resp, err := g.fetcher.GetAvailability(ctx, req)
	if err != nil || !resp.Success || resp.Mock || len(resp.Slots) == 0 {
		if err != nil {
			g.logger.Warn("availability fetch failed, using generated schedule",
				"error", err, "service_id", req.ServiceID, "date", req.Date.Format("2006-01-02"))
		} else {
			g.logger.Info("availability response unusable, using generated schedule",
				"mock", resp.Mock, "success", resp.Success, "slots", len(resp.Slots))
		}
		g.metrics.ObserveAvailability("fallback")
		return g.fallback.Slots(ctx, req)
	}

	slots := make([]Slot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, Slot{Slot: s, Popularity: popularityForTime(s.Time)})
	}

	g.metrics.ObserveAvailability("remote")
	return &Result{Slots: slots, Staff: resp.Staff, Fallback: false}, nil
}

// popularityTag buckets an hour into a display-only demand hint.
func popularityTag(hour int) string {
	switch {
	case hour < 11:
		return "quiet"
	case hour < 14:
		return "popular"
	default:
		return "steady"
	}
}

// popularityForTime parses an HH:MM slot time. Unparseable times get no tag.
func popularityForTime(hhmm string) string {
	idx := strings.IndexByte(hhmm, ':')
	if idx <= 0 {
		return ""
	}
	hour, err := strconv.Atoi(hhmm[:idx])
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}
	return popularityTag(hour)
}
