package intake

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/internal/session"
	"github.com/skinsociete/platform/pkg/logging"
)

// ClientUpserter creates or updates a clinic client record.
type ClientUpserter interface {
	UpsertClient(ctx context.Context, client phorest.ClientRecord) (*phorest.ClientRecord, error)
}

// Handler serves the progressive intake form: draft autosave, restore, and
// final submission to the clinic system.
type Handler struct {
	drafts  *AutosaveStore
	clients ClientUpserter
	logger  *logging.Logger
}

func NewHandler(drafts *AutosaveStore, clients ClientUpserter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{drafts: drafts, clients: clients, logger: logger}
}

// Routes mounts the intake draft endpoints on a chi subrouter.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{serviceID}", h.GetDraft)
	r.Put("/{serviceID}", h.SaveDraft)
	return r
}

// DraftResponse is the restore payload. Restored is false when the form
// starts fresh, either because no draft exists or it was for another service.
type DraftResponse struct {
	Form     Form `json:"form"`
	Restored bool `json:"restored"`
}

// GetDraft handles GET /api/intake/{serviceID}. A draft saved for a different
// service is not restored; each service starts its own form.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}
	serviceID := chi.URLParam(r, "serviceID")

	draft, err := h.drafts.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("intake: loading draft", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "could not load draft")
		return
	}

	if draft == nil || draft.ServiceID != serviceID {
		writeJSON(w, http.StatusOK, DraftResponse{
			Form: Form{ServiceID: serviceID, Section: SectionPersonal},
		})
		return
	}

	writeJSON(w, http.StatusOK, DraftResponse{Form: draft.Form, Restored: true})
}

// SaveDraft handles PUT /api/intake/{serviceID}. The current section may be
// half-filled, but advancing past a section with missing required fields is
// rejected with field-level errors.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}
	serviceID := chi.URLParam(r, "serviceID")

	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if form.Section != "" && !ValidSection(form.Section) {
		writeError(w, http.StatusBadRequest, "unknown section "+form.Section)
		return
	}
	if fieldErrs := form.ValidateCompleted(form.Section); len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "earlier sections are incomplete",
			"fields": fieldErrs,
		})
		return
	}
	form.ServiceID = serviceID

	if err := h.drafts.Save(r.Context(), sessionID, Draft{ServiceID: serviceID, Form: form}); err != nil {
		h.logger.Error("intake: saving draft", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "could not save draft")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// SubmitResponse echoes the created client back to the storefront.
type SubmitResponse struct {
	Success  bool                  `json:"success"`
	ClientID string                `json:"clientId"`
	Client   *phorest.ClientRecord `json:"client"`
}

// Submit handles POST /api/clients: validates the completed form, creates the
// client record upstream, then discards the draft.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := session.IDFromContext(r.Context())

	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := form.ValidateForSubmission(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, userMessage(err))
		return
	}

	record := buildClientRecord(form)
	created, err := h.clients.UpsertClient(r.Context(), record)
	if err != nil {
		h.logger.Error("intake: creating client", "error", err, "session_id", sessionID)
		writeError(w, http.StatusBadGateway, "could not create client record")
		return
	}

	if sessionID != "" {
		if err := h.drafts.Clear(r.Context(), sessionID); err != nil {
			h.logger.Warn("intake: clearing draft after submit", "error", err, "session_id", sessionID)
		}
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Success:  true,
		ClientID: created.ClientID,
		Client:   created,
	})
}

// buildClientRecord flattens the form into the upstream client shape.
func buildClientRecord(form Form) phorest.ClientRecord {
	medical := map[string]string{}
	if len(form.Medical.Conditions) > 0 {
		medical["conditions"] = strings.Join(form.Medical.Conditions, ", ")
	}
	if form.Medical.Medications != "" {
		medical["medications"] = form.Medical.Medications
	}
	if form.Medical.Allergies != "" {
		medical["allergies"] = form.Medical.Allergies
	}
	if form.Medical.PregnantNursing {
		medical["pregnantNursing"] = "yes"
	}

	analysis := map[string]string{}
	if form.SkinAnalysis.SkinType != "" {
		analysis["skinType"] = form.SkinAnalysis.SkinType
	}
	if len(form.SkinAnalysis.Concerns) > 0 {
		analysis["concerns"] = strings.Join(form.SkinAnalysis.Concerns, ", ")
	}
	if form.SkinAnalysis.CurrentRoutine != "" {
		analysis["currentRoutine"] = form.SkinAnalysis.CurrentRoutine
	}
	if form.SkinAnalysis.SunExposure != "" {
		analysis["sunExposure"] = form.SkinAnalysis.SunExposure
	}

	return phorest.ClientRecord{
		FirstName: strings.TrimSpace(form.Personal.FirstName),
		LastName:  strings.TrimSpace(form.Personal.LastName),
		Email:     strings.TrimSpace(form.Contact.Email),
		Phone:     strings.TrimSpace(form.Contact.Phone),
		Medical:   medical,
		SkinAnalysis: analysis,
		Consent: map[string]bool{
			"treatment": form.Consent.TreatmentConsent,
			"privacy":   form.Consent.PrivacyConsent,
		},
	}
}

// userMessage strips the package prefix so API errors read naturally.
func userMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "intake: ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
