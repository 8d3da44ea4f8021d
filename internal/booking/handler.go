package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/internal/session"
	"github.com/skinsociete/platform/pkg/logging"
)

// ConfirmListener is notified after a booking is confirmed. Listener failures
// are logged and never surfaced to the booking caller.
type ConfirmListener interface {
	BookingConfirmed(ctx context.Context, req SubmissionRequest, conf *phorest.AppointmentConfirmation)
}

// Handler handles HTTP requests for the booking wizard and direct submissions
type Handler struct {
	store     *Store
	gateway   *Gateway
	listeners []ConfirmListener
	logger    *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(store *Store, gateway *Gateway, logger *logging.Logger, listeners ...ConfirmListener) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:     store,
		gateway:   gateway,
		listeners: listeners,
		logger:    logger,
	}
}

// Routes mounts the wizard endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateWizard)
	r.Route("/{wizardID}", func(r chi.Router) {
		r.Get("/", h.GetWizard)
		r.Post("/slot", h.SelectSlot)
		r.Post("/staff", h.SelectStaff)
		r.Post("/back", h.Back)
		r.Post("/confirm", h.Confirm)
	})
	return r
}

// CreateWizardRequest starts a wizard for a service.
type CreateWizardRequest struct {
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	ClientID    string `json:"clientId"`
	ClientName  string `json:"clientName"`
}

// CreateWizard handles POST /api/booking/wizard
func (h *Handler) CreateWizard(w http.ResponseWriter, r *http.Request) {
	var req CreateWizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ServiceID == "" {
		http.Error(w, "serviceId is required", http.StatusBadRequest)
		return
	}

	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	wz := h.store.Create(sessionID, req.ServiceID, req.ServiceName, req.ClientID, req.ClientName)
	h.logger.Info("booking wizard started", "wizard_id", wz.ID, "service_id", req.ServiceID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(wz)
}

// GetWizard handles GET /api/booking/wizard/{wizardID}
func (h *Handler) GetWizard(w http.ResponseWriter, r *http.Request) {
	wz, ok := h.load(w, r)
	if !ok {
		return
	}
	writeWizard(w, wz)
}

// SelectSlotRequest carries the chosen date/time, with the slot's staff
// assignment when the slot implies one.
type SelectSlotRequest struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	StaffID   string `json:"staffId"`
	StaffName string `json:"staffName"`
}

// SelectSlot handles POST /api/booking/wizard/{wizardID}/slot
func (h *Handler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var req SelectSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.update(w, r, func(wz *Wizard) error {
		return wz.SelectSlot(req.Date, req.Time, req.StaffID, req.StaffName)
	})
}

// SelectStaffRequest carries the chosen staff member.
type SelectStaffRequest struct {
	StaffID   string `json:"staffId"`
	StaffName string `json:"staffName"`
}

// SelectStaff handles POST /api/booking/wizard/{wizardID}/staff
func (h *Handler) SelectStaff(w http.ResponseWriter, r *http.Request) {
	var req SelectStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.update(w, r, func(wz *Wizard) error {
		return wz.SelectStaff(req.StaffID, req.StaffName)
	})
}

// Back handles POST /api/booking/wizard/{wizardID}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(wz *Wizard) error {
		return wz.Back()
	})
}

// ConfirmResponse reports the submission outcome.
type ConfirmResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Wizard  *Wizard `json:"wizard,omitempty"`
}

// Confirm handles POST /api/booking/wizard/{wizardID}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	wizardID := chi.URLParam(r, "wizardID")

	var body struct {
		Notes       string `json:"notes"`
		ClientEmail string `json:"clientEmail"`
	}
	// Body is optional on confirm.
	_ = json.NewDecoder(r.Body).Decode(&body)

	wz, err := h.store.Get(sessionID, wizardID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if !wz.CanConfirm() {
		http.Error(w, ErrInvalidTransition.Error(), http.StatusConflict)
		return
	}

	startTime, err := BuildStartTime(wz.Date, wz.Time)
	if err != nil {
		http.Error(w, "invalid date or time selection", http.StatusBadRequest)
		return
	}

	req := SubmissionRequest{
		ClientID:    wz.ClientID,
		ServiceID:   wz.ServiceID,
		StaffID:     wz.StaffID,
		StartTime:   startTime,
		Notes:       body.Notes,
		ServiceName: wz.ServiceName,
		StaffName:   wz.StaffName,
		ClientName:  wz.ClientName,
		ClientEmail: body.ClientEmail,
	}

	conf, err := h.gateway.Submit(r.Context(), req)
	if err != nil {
		message := FailureUnknown.Message()
		var subErr *SubmissionError
		if errors.As(err, &subErr) {
			message = subErr.Message()
		}
		updated, _ := h.store.Update(sessionID, wizardID, func(wz *Wizard) error {
			wz.MarkFailed(message)
			return nil
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ConfirmResponse{Success: false, Message: message, Wizard: &updated})
		return
	}

	updated, _ := h.store.Update(sessionID, wizardID, func(wz *Wizard) error {
		wz.MarkConfirmed(conf)
		return nil
	})
	h.notifyListeners(r.Context(), req, conf)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConfirmResponse{Success: true, Wizard: &updated})
}

// SimpleBookingResponse is the direct submission payload result.
type SimpleBookingResponse struct {
	Success bool                             `json:"success"`
	Message string                           `json:"message,omitempty"`
	Booking *phorest.AppointmentConfirmation `json:"booking,omitempty"`
}

// SimpleBooking handles POST /api/appointments/simple-booking, the wizard-less
// submission used by the mobile flow.
func (h *Handler) SimpleBooking(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conf, err := h.gateway.Submit(r.Context(), req)
	if err != nil {
		message := FailureUnknown.Message()
		var subErr *SubmissionError
		if errors.As(err, &subErr) {
			message = subErr.Message()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(SimpleBookingResponse{Success: false, Message: message})
		return
	}

	h.notifyListeners(r.Context(), req, conf)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SimpleBookingResponse{Success: true, Booking: conf})
}

func (h *Handler) notifyListeners(ctx context.Context, req SubmissionRequest, conf *phorest.AppointmentConfirmation) {
	for _, l := range h.listeners {
		l.BookingConfirmed(ctx, req, conf)
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (Wizard, bool) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return Wizard{}, false
	}
	wz, err := h.store.Get(sessionID, chi.URLParam(r, "wizardID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return Wizard{}, false
	}
	return wz, true
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, fn func(*Wizard) error) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	wz, err := h.store.Update(sessionID, chi.URLParam(r, "wizardID"), fn)
	if err != nil {
		switch {
		case errors.Is(err, ErrWizardNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrMissingSlot), errors.Is(err, ErrMissingStaff):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusConflict)
		}
		return
	}
	writeWizard(w, wz)
}

func writeWizard(w http.ResponseWriter, wz Wizard) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wz)
}
