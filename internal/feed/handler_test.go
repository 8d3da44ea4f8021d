package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/http/middleware"
)

type fakeRepo struct {
	posts []Post
	likes map[string]map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{likes: make(map[string]map[string]bool)}
}

func (f *fakeRepo) List(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 || limit > len(f.posts) {
		limit = len(f.posts)
	}
	return f.posts[:limit], nil
}

func (f *fakeRepo) Create(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	post := Post{
		ID:        "post-1",
		UserID:    req.UserID,
		UserName:  req.UserName,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now().UTC(),
	}
	f.posts = append([]Post{post}, f.posts...)
	return &post, nil
}

func (f *fakeRepo) Like(ctx context.Context, postID, userID string) (int, error) {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			if f.likes[postID] == nil {
				f.likes[postID] = make(map[string]bool)
			}
			if !f.likes[postID][userID] {
				f.likes[postID][userID] = true
				f.posts[i].Likes++
			}
			return f.posts[i].Likes, nil
		}
	}
	return 0, ErrPostNotFound
}

const feedSecret = "feed-secret"

func newFeedServer(t *testing.T, repo Repository) *httptest.Server {
	t.Helper()
	h := NewHandler(repo, nil)
	r := chi.NewRouter()
	r.Route("/api/feed", func(r chi.Router) {
		r.Use(middleware.OptionalUserJWT(feedSecret))
		r.Mount("/", h.Routes())
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doFeed(t *testing.T, srv *httptest.Server, method, path, userID string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, srv.URL+path, &buf)
	if userID != "" {
		token, err := middleware.SignUserToken(feedSecret, userID, "Jess")
		if err != nil {
			t.Fatalf("signing token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListPostsIsPublic(t *testing.T) {
	repo := newFakeRepo()
	repo.posts = []Post{{ID: "post-1", UserName: "Mia", Content: "hello"}}
	srv := newFeedServer(t, repo)

	resp := doFeed(t, srv, http.MethodGet, "/api/feed", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Posts []Post `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(out.Posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(out.Posts))
	}
}

func TestListPostsRejectsBadLimit(t *testing.T) {
	srv := newFeedServer(t, newFakeRepo())

	resp := doFeed(t, srv, http.MethodGet, "/api/feed?limit=zero", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreatePostRequiresAuth(t *testing.T) {
	srv := newFeedServer(t, newFakeRepo())

	resp := doFeed(t, srv, http.MethodPost, "/api/feed", "", map[string]string{"content": "hi"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCreatePost(t *testing.T) {
	repo := newFakeRepo()
	srv := newFeedServer(t, repo)

	resp := doFeed(t, srv, http.MethodPost, "/api/feed", "user-1",
		map[string]string{"content": "Day 7 of my routine!"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if post.UserID != "user-1" || post.UserName != "Jess" {
		t.Errorf("author should come from the token, got %+v", post)
	}
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	srv := newFeedServer(t, newFakeRepo())

	resp := doFeed(t, srv, http.MethodPost, "/api/feed", "user-1",
		map[string]string{"content": "   "})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestLikePost(t *testing.T) {
	repo := newFakeRepo()
	repo.posts = []Post{{ID: "post-1", Content: "hello"}}
	srv := newFeedServer(t, repo)

	resp := doFeed(t, srv, http.MethodPost, "/api/feed/post-1/like", "user-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Likes int `json:"likes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if out.Likes != 1 {
		t.Errorf("expected 1 like, got %d", out.Likes)
	}

	// Same member liking again does not double count.
	resp = doFeed(t, srv, http.MethodPost, "/api/feed/post-1/like", "user-1", nil)
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if out.Likes != 1 {
		t.Errorf("expected like to stay at 1, got %d", out.Likes)
	}
}

func TestLikeUnknownPost(t *testing.T) {
	srv := newFeedServer(t, newFakeRepo())

	resp := doFeed(t, srv, http.MethodPost, "/api/feed/post-404/like", "user-1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLikeRequiresAuth(t *testing.T) {
	srv := newFeedServer(t, newFakeRepo())

	resp := doFeed(t, srv, http.MethodPost, "/api/feed/post-1/like", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
