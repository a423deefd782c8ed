package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

// Draft workflow states for blog posts. The state only communicates intent
// between editors and has no effect on publication.
const (
	StateDraft  = "draft"
	StateReview = "review"
	StateReady  = "ready"
)

var stripTags = bluemonday.StrictPolicy()

// BlogCategory groups blog posts within one site.
type BlogCategory struct {
	ID     int64  `json:"id"`
	SiteID int64  `json:"site_id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
}

func (c *BlogCategory) EnsureSlug() {
	if c.Slug == "" && c.Title != "" {
		c.Slug = slug.Make(c.Title)
	}
}

// BlogPost is a dated post. Path is derived from the date and slug, so the
// date must not change after publication.
type BlogPost struct {
	ID              int64      `json:"id"`
	SiteID          int64      `json:"site_id"`
	Date            time.Time  `json:"date"`
	Slug            string     `json:"slug"`
	Path            string     `json:"path"`
	Author          string     `json:"author,omitempty"`
	State           string     `json:"state"`
	InternalNotes   string     `json:"internal_notes,omitempty"`
	Title           string     `json:"title"`
	Body            string     `json:"body"`
	OverrideExcerpt string     `json:"override_excerpt,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublicFrom      *time.Time `json:"public_from,omitempty"`
	VisibleFrom     *time.Time `json:"visible_from,omitempty"`

	Categories []BlogCategory `json:"categories,omitempty"`
}

func (p *BlogPost) EnsureSlug() {
	if p.Slug == "" && p.Title != "" {
		p.Slug = slug.Make(p.Title)
	}
}

// MakePath derives the canonical blog post path, e.g. blog/2024/05/17/tickets.
func (p *BlogPost) MakePath() string {
	return fmt.Sprintf("blog/%04d/%02d/%02d/%s", p.Date.Year(), p.Date.Month(), p.Date.Day(), p.Slug)
}

func (p *BlogPost) LocalURL() string {
	return "/" + p.Path
}

// Excerpt returns the override excerpt if set, otherwise the body stripped
// of HTML and cut at maxChars.
func (p *BlogPost) Excerpt(maxChars int) string {
	if p.OverrideExcerpt != "" {
		return p.OverrideExcerpt
	}
	plain := strings.TrimSpace(stripTags.Sanitize(p.Body))
	runes := []rune(plain)
	if len(runes) <= maxChars {
		return plain
	}
	return string(runes[:maxChars]) + "…"
}

func (p *BlogPost) IsPublic(t time.Time) bool {
	return p.PublicFrom != nil && !p.PublicFrom.After(t)
}

func (p *BlogPost) IsVisible(t time.Time) bool {
	return p.VisibleFrom != nil && !p.VisibleFrom.After(t)
}
