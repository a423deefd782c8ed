package models

import "time"

const commentExcerptMaxChars = 100

// BlogComment is a reader comment on a blog post. Comments are never
// deleted, only hidden by setting RemovedAt.
type BlogComment struct {
	ID              int64      `json:"id"`
	BlogPostID      int64      `json:"blog_post_id"`
	AuthorName      string     `json:"author_name"`
	AuthorEmail     string     `json:"author_email"`
	AuthorIPAddress string     `json:"author_ip_address,omitempty"`
	Comment         string     `json:"comment"`
	CreatedAt       time.Time  `json:"created_at"`
	RemovedAt       *time.Time `json:"removed_at,omitempty"`
	RemovedBy       string     `json:"removed_by,omitempty"`
}

func (c *BlogComment) IsActive() bool {
	return c.RemovedAt == nil
}

// Excerpt shortens the comment for listings.
func (c *BlogComment) Excerpt() string {
	runes := []rune(c.Comment)
	if len(runes) <= commentExcerptMaxChars {
		return c.Comment
	}
	return string(runes[:commentExcerptMaxChars]) + "…"
}
