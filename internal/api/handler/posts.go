package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kiranshivaraju/seatboard/internal/api/response"
	"github.com/kiranshivaraju/seatboard/internal/store"
	"github.com/kiranshivaraju/seatboard/pkg/models"
)

const (
	maxTitleLen  = 200
	maxAuthorLen = 50
)

// PostStore is the slice of store.Store the post handlers use.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	PublishPost(ctx context.Context, id int64, at time.Time) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	ListPublishedPosts(ctx context.Context, filter store.PostFilter) ([]*models.Post, int, error)
}

type postRequest struct {
	Author   string  `json:"author"`
	Title    string  `json:"title"`
	Text     string  `json:"text"`
	ImageRef *string `json:"image_ref"`
}

func (p *postRequest) normalize() {
	p.Author = strings.TrimSpace(p.Author)
	p.Title = strings.TrimSpace(p.Title)
	if p.ImageRef != nil && strings.TrimSpace(*p.ImageRef) == "" {
		p.ImageRef = nil
	}
}

// validate returns per-field messages, or nil when the request is valid.
func (p *postRequest) validate() map[string][]string {
	errs := map[string][]string{}
	if p.Title == "" {
		errs["title"] = append(errs["title"], "title is required")
	} else if utf8.RuneCountInString(p.Title) > maxTitleLen {
		errs["title"] = append(errs["title"], "title must be at most 200 characters")
	}
	if strings.TrimSpace(p.Text) == "" {
		errs["text"] = append(errs["text"], "text is required")
	}
	if utf8.RuneCountInString(p.Author) > maxAuthorLen {
		errs["author"] = append(errs["author"], "author must be at most 50 characters")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// decodePost reads and validates a post body. On failure it writes the error
// response and returns false.
func decodePost(w http.ResponseWriter, r *http.Request) (*postRequest, bool) {
	var req postRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return nil, false
	}
	req.normalize()
	if errs := req.validate(); errs != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid post", errs)
		return nil, false
	}
	return &req, true
}

// NewListPostsHandler returns an http.HandlerFunc for GET /api/v1/posts.
// Only posts published at or before now are listed, newest first.
func NewListPostsHandler(s PostStore, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page", 1)
		if err != nil || page < 1 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "page must be a positive integer", nil)
			return
		}
		limit, err := queryInt(r, "limit", 0)
		if err != nil || limit < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", nil)
			return
		}

		filter := store.PostFilter{PublishedBy: clock.now(), Page: page, Limit: limit}
		posts, total, err := s.ListPublishedPosts(r.Context(), filter)
		if err != nil {
			response.InternalError(w, r, err)
			return
		}

		limit, _ = filter.Normalize()
		response.Collection(w, posts, response.NewPaginationMeta(page, limit, total))
	}
}

// NewGetPostHandler returns an http.HandlerFunc for GET /api/v1/posts/{postID}.
// Unpublished posts are reported as not found.
func NewGetPostHandler(s PostStore, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := positiveIntParam(w, r, "postID")
		if !ok {
			return
		}

		post, err := s.GetPost(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !post.IsPublished(clock.now())) {
			response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Post not found", nil)
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.JSON(w, post)
	}
}

// NewCreatePostHandler returns an http.HandlerFunc for POST /api/v1/posts.
// New posts are published immediately.
func NewCreatePostHandler(s PostStore, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodePost(w, r)
		if !ok {
			return
		}

		now := clock.now()
		post := &models.Post{
			Author:      req.Author,
			Title:       req.Title,
			Text:        req.Text,
			PublishedAt: &now,
			ImageRef:    req.ImageRef,
		}
		if err := s.CreatePost(r.Context(), post); err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.Created(w, post)
	}
}

// NewUpdatePostHandler returns an http.HandlerFunc for PUT /api/v1/posts/{postID}.
// Editing a post re-publishes it at the current time.
func NewUpdatePostHandler(s PostStore, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := positiveIntParam(w, r, "postID")
		if !ok {
			return
		}
		req, ok := decodePost(w, r)
		if !ok {
			return
		}

		post, err := s.GetPost(r.Context(), id)
		if err != nil {
			writePostError(w, r, err)
			return
		}

		now := clock.now()
		post.Author = req.Author
		post.Title = req.Title
		post.Text = req.Text
		post.ImageRef = req.ImageRef
		post.PublishedAt = &now

		if err := s.UpdatePost(r.Context(), post); err != nil {
			writePostError(w, r, err)
			return
		}
		response.JSON(w, post)
	}
}

// NewPublishPostHandler returns an http.HandlerFunc for
// POST /api/v1/posts/{postID}/publish.
func NewPublishPostHandler(s PostStore, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := positiveIntParam(w, r, "postID")
		if !ok {
			return
		}

		post, err := s.PublishPost(r.Context(), id, clock.now())
		if err != nil {
			writePostError(w, r, err)
			return
		}
		response.JSON(w, post)
	}
}

// NewDeletePostHandler returns an http.HandlerFunc for DELETE /api/v1/posts/{postID}.
func NewDeletePostHandler(s PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := positiveIntParam(w, r, "postID")
		if !ok {
			return
		}

		if err := s.DeletePost(r.Context(), id); err != nil {
			writePostError(w, r, err)
			return
		}
		response.JSON(w, map[string]bool{"deleted": true})
	}
}

func writePostError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Post not found", nil)
		return
	}
	response.InternalError(w, r, err)
}
