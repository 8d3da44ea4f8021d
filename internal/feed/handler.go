package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/http/middleware"
	"github.com/skinsociete/platform/pkg/logging"
)

// Handler serves the community feed. Reading is public; posting and liking
// require a signed-in member.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes mounts the feed endpoints. Write routes still check the context user
// themselves, so mount UserJWT (or OptionalUserJWT) above this router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPosts)
	r.Post("/", h.CreatePost)
	r.Post("/{postID}/like", h.LikePost)
	return r
}

// ListPosts handles GET /api/feed.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	posts, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("feed: listing posts", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load feed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

type createPostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// CreatePost handles POST /api/feed.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.repo.Create(r.Context(), &CreatePostRequest{
		UserID:   user.ID,
		UserName: user.Name,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidPost) {
			writeError(w, http.StatusUnprocessableEntity, strings.TrimPrefix(err.Error(), "feed: invalid post: "))
			return
		}
		h.logger.Error("feed: creating post", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "could not create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// LikePost handles POST /api/feed/{postID}/like.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	postID := chi.URLParam(r, "postID")
	likes, err := h.repo.Like(r.Context(), postID, user.ID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("feed: liking post", "error", err, "post_id", postID, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "could not like post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"postId": postID, "likes": likes})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
