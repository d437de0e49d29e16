package store

import (
	"context"
	"errors"
	"time"

	"github.com/kiranshivaraju/seatboard/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	PublishPost(ctx context.Context, id int64, at time.Time) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	ListPublishedPosts(ctx context.Context, filter PostFilter) ([]*models.Post, int, error)

	// ListPublishedBetween returns posts with start <= published_at <= end,
	// oldest first.
	ListPublishedBetween(ctx context.Context, start, end time.Time) ([]*models.Post, error)
	// CountPublishedSince counts posts with published_at >= since. There is
	// no upper bound.
	CountPublishedSince(ctx context.Context, since time.Time) (int, error)

	CreateSecurityKey(ctx context.Context, key *models.SecurityKey) error
	ListSecurityKeys(ctx context.Context) ([]*models.SecurityKey, error)
	CountSecurityKeys(ctx context.Context) (int, error)
	DeleteSecurityKey(ctx context.Context, label string) error
}

// PostFilter selects a page of posts published at or before PublishedBy.
type PostFilter struct {
	PublishedBy time.Time
	Page        int
	Limit       int
}

// Normalize clamps pagination to sane bounds and returns limit and offset.
func (f PostFilter) Normalize() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
