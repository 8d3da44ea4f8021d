package availability

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/pkg/logging"
)

// Handler handles HTTP requests for availability lookups
type Handler struct {
	source   SlotSource
	cache    *Cache
	branchID string
	logger   *logging.Logger
}

// NewHandler creates an availability handler. cache may be nil.
func NewHandler(source SlotSource, cache *Cache, branchID string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{source: source, cache: cache, branchID: branchID, logger: logger}
}

// AvailabilityRequest is the POST /api/appointments/availability body.
type AvailabilityRequest struct {
	Date      string `json:"date"`
	ServiceID string `json:"serviceId"`
	BranchID  string `json:"branchId"`
	Duration  int    `json:"duration"`
}

// AvailabilityResponse is the availability payload returned to the front end.
type AvailabilityResponse struct {
	Success  bool            `json:"success"`
	Slots    []Slot          `json:"slots"`
	Staff    []phorest.Staff `json:"staff"`
	Fallback bool            `json:"fallback"`
}

// GetAvailability handles POST /api/appointments/availability
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode availability request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Date == "" || req.ServiceID == "" {
		http.Error(w, "date and serviceId are required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	branchID := req.BranchID
	if branchID == "" {
		branchID = h.branchID
	}

	result, ok := h.cachedResult(date, req.ServiceID)
	if !ok {
		result, err = h.source.Slots(r.Context(), phorest.AvailabilityRequest{
			Date:            date,
			ServiceID:       req.ServiceID,
			BranchID:        branchID,
			DurationMinutes: req.Duration,
		})
		if err != nil {
			h.logger.Error("availability lookup failed", "error", err, "service_id", req.ServiceID)
			http.Error(w, "failed to load availability", http.StatusBadGateway)
			return
		}
		if h.cache != nil {
			h.cache.Put(date, req.ServiceID, result)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AvailabilityResponse{
		Success:  true,
		Slots:    result.Slots,
		Staff:    result.Staff,
		Fallback: result.Fallback,
	})
}

func (h *Handler) cachedResult(date time.Time, serviceID string) (*Result, bool) {
	if h.cache == nil {
		return nil, false
	}
	return h.cache.Get(date, serviceID)
}
