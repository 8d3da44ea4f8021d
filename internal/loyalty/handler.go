package loyalty

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/http/middleware"
	"github.com/skinsociete/platform/pkg/logging"
)

// Handler exposes member progress and the leaderboard over HTTP. Progress
// routes require a signed-in member; the leaderboard is public.
type Handler struct {
	progress    ProgressRepository
	leaderboard *Leaderboard
	refresher   *Refresher
	logger      *logging.Logger
}

func NewHandler(progress ProgressRepository, leaderboard *Leaderboard, refresher *Refresher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{progress: progress, leaderboard: leaderboard, refresher: refresher, logger: logger}
}

// ProgressRoutes mounts the member progress endpoints. Mount behind UserJWT.
func (h *Handler) ProgressRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetProgress)
	r.Post("/", h.RecordTask)
	r.Delete("/", h.ResetProgress)
	return r
}

// ProgressResponse pairs the raw progress with the derived achievements.
type ProgressResponse struct {
	Progress     *Progress     `json:"progress"`
	Achievements []Achievement `json:"achievements"`
}

// GetProgress handles GET /api/user/progress. A member with no activity yet
// gets a zeroed record, not a 404.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	p, err := h.progress.Get(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			p = &Progress{UserID: user.ID, CompletedTasks: []string{}}
		} else {
			h.logger.Error("loyalty: loading progress", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "could not load progress")
			return
		}
	}

	writeJSON(w, http.StatusOK, ProgressResponse{Progress: p, Achievements: Achievements(p)})
}

type recordTaskRequest struct {
	TaskID string `json:"taskId"`
}

// RecordTask handles POST /api/user/progress: completes a daily task, awards
// points, and bumps the leaderboard.
func (h *Handler) RecordTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req recordTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TaskID == "" {
		writeError(w, http.StatusBadRequest, "taskId is required")
		return
	}

	p, awarded, err := h.progress.RecordActivity(r.Context(), user.ID, PointsDailyTask, req.TaskID)
	if err != nil {
		h.logger.Error("loyalty: recording task", "error", err, "user_id", user.ID, "task_id", req.TaskID)
		writeError(w, http.StatusInternalServerError, "could not record task")
		return
	}

	// A repeated same-day task awards nothing; the leaderboard must not
	// drift ahead of the stored points.
	if awarded && h.leaderboard != nil {
		if err := h.leaderboard.Award(r.Context(), user.ID, user.Name, PointsDailyTask); err != nil {
			h.logger.Warn("loyalty: awarding leaderboard points", "error", err, "user_id", user.ID)
		}
	}

	writeJSON(w, http.StatusOK, ProgressResponse{Progress: p, Achievements: Achievements(p)})
}

// ResetProgress handles DELETE /api/user/progress.
func (h *Handler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.progress.Reset(r.Context(), user.ID); err != nil {
		h.logger.Error("loyalty: resetting progress", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "could not reset progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

// GetLeaderboard handles GET /api/leaderboard. It serves the refresher's
// cached snapshot when one is running, falling back to a direct read.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.refresher != nil {
		writeJSON(w, http.StatusOK, map[string]any{"entries": h.refresher.Snapshot()})
		return
	}

	if h.leaderboard == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entries": []Entry{}})
		return
	}

	entries, err := h.leaderboard.Top(r.Context(), leaderboardSize)
	if err != nil {
		h.logger.Error("loyalty: reading leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
