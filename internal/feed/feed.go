package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrPostNotFound is returned when a post id does not exist.
var ErrPostNotFound = errors.New("feed: post not found")

// ErrInvalidPost wraps content validation failures.
var ErrInvalidPost = errors.New("feed: invalid post")

const maxContentLength = 500

// Post is one entry on the community feed.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreatePostRequest is the validated input for a new post.
type CreatePostRequest struct {
	UserID   string
	UserName string
	Content  string
	ImageURL string
}

// Validate checks the post content before it reaches storage.
func (r *CreatePostRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidPost)
	}
	content := strings.TrimSpace(r.Content)
	if content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidPost)
	}
	if len(content) > maxContentLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrInvalidPost, maxContentLength)
	}
	r.Content = content
	return nil
}

// Repository persists feed posts and likes.
type Repository interface {
	List(ctx context.Context, limit int) ([]Post, error)
	Create(ctx context.Context, req *CreatePostRequest) (*Post, error)
	Like(ctx context.Context, postID, userID string) (int, error)
}
