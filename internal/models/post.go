// internal/models/post.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Post is a blog entry with a generated slug and a publish workflow.
type Post struct {
	BaseModel
	AuthorID    uuid.UUID      `json:"author_id" gorm:"type:uuid;not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;size:280;not null"`
	Excerpt     string         `json:"excerpt" gorm:"type:text"`
	Body        string         `json:"body" gorm:"type:text;not null"`
	CoverImage  string         `json:"cover_image" gorm:"size:500"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status      PostStatus     `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	ViewCount   int64          `json:"view_count" gorm:"default:0"`
	PublishedAt *time.Time     `json:"published_at"`

	// Relationships
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// IsPublished reports whether the post is publicly visible.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
