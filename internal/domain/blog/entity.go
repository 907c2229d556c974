// internal/domain/blog/entity.go
package blog

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID          string         `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Slug        string         `json:"slug" db:"slug"`
	Content     string         `json:"content" db:"content"`
	Excerpt     *string        `json:"excerpt,omitempty" db:"excerpt"`
	CoverImage  *string        `json:"cover_image,omitempty" db:"cover_image"`
	AuthorID    *string        `json:"author_id,omitempty" db:"author_id"`
	AuthorName  string         `json:"author_name,omitempty" db:"author_name"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
	Published   bool           `json:"published" db:"published"`
	PublishedAt *time.Time     `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
