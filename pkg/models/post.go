// Package models contains shared data models used across the seatboard codebase.
package models

import "time"

// DefaultAuthor is used when a post is created without an author.
const DefaultAuthor = "AnonymousUser"

// Post is a single blog entry. Seat monitors publish their readings as the
// post body, so Text is the only field the dashboard looks at besides
// PublishedAt.
type Post struct {
	ID          int64      `db:"id"           json:"id"`
	Author      string     `db:"author"       json:"author"`
	Title       string     `db:"title"        json:"title"`
	Text        string     `db:"text"         json:"text"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	ImageRef    *string    `db:"image_ref"    json:"image_ref"`
}

// IsPublished reports whether the post was published at or before t.
func (p *Post) IsPublished(t time.Time) bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(t)
}
