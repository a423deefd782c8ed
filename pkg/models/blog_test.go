package models

import (
	"strings"
	"testing"
	"time"
)

func TestBlogPostMakePath(t *testing.T) {
	p := BlogPost{
		Date: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		Slug: "tickets-on-sale",
	}
	want := "blog/2024/05/17/tickets-on-sale"
	if got := p.MakePath(); got != want {
		t.Errorf("MakePath() = %q, want %q", got, want)
	}

	// Single-digit months and days are zero-padded.
	p.Date = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	want = "blog/2024/06/01/tickets-on-sale"
	if got := p.MakePath(); got != want {
		t.Errorf("MakePath() = %q, want %q", got, want)
	}
}

func TestBlogPostExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		post     BlogPost
		maxChars int
		want     string
	}{
		{
			name:     "override wins",
			post:     BlogPost{OverrideExcerpt: "Short and sweet.", Body: "<p>long body</p>"},
			maxChars: 300,
			want:     "Short and sweet.",
		},
		{
			name:     "tags stripped",
			post:     BlogPost{Body: "<p>Hello <strong>world</strong></p>"},
			maxChars: 300,
			want:     "Hello world",
		},
		{
			name:     "cut with ellipsis",
			post:     BlogPost{Body: "<p>" + strings.Repeat("a", 40) + "</p>"},
			maxChars: 10,
			want:     strings.Repeat("a", 10) + "…",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.Excerpt(tt.maxChars); got != tt.want {
				t.Errorf("Excerpt(%d) = %q, want %q", tt.maxChars, got, tt.want)
			}
		})
	}
}

func TestBlogPostExcerptCountsRunes(t *testing.T) {
	p := BlogPost{Body: strings.Repeat("ä", 20)}
	got := p.Excerpt(10)
	if got != strings.Repeat("ä", 10)+"…" {
		t.Errorf("Excerpt(10) = %q, want 10 runes and an ellipsis", got)
	}
}

func TestBlogCategoryEnsureSlug(t *testing.T) {
	c := BlogCategory{Title: "Guests of Honour"}
	c.EnsureSlug()
	if c.Slug != "guests-of-honour" {
		t.Errorf("slug = %q, want guests-of-honour", c.Slug)
	}
}

func TestBlogCommentIsActive(t *testing.T) {
	c := BlogComment{Comment: "Nice!"}
	if !c.IsActive() {
		t.Error("comment without removed_at should be active")
	}

	now := time.Now()
	c.RemovedAt = &now
	if c.IsActive() {
		t.Error("removed comment should not be active")
	}
}

func TestBlogCommentExcerpt(t *testing.T) {
	short := BlogComment{Comment: "Nice!"}
	if got := short.Excerpt(); got != "Nice!" {
		t.Errorf("Excerpt() = %q, want unchanged", got)
	}

	long := BlogComment{Comment: strings.Repeat("x", 150)}
	if got := long.Excerpt(); got != strings.Repeat("x", 100)+"…" {
		t.Errorf("Excerpt() = %q, want 100 runes and an ellipsis", got)
	}
}
