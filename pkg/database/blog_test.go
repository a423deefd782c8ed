package database

import (
	"errors"
	"testing"
	"time"

	"tracontent/pkg/models"
)

func TestSaveBlogPostDerivesPath(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	post := &models.BlogPost{
		SiteID: site.ID,
		Date:   time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		Title:  "Tickets on sale",
	}
	if err := db.SaveBlogPost(post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}

	if post.Slug != "tickets-on-sale" {
		t.Errorf("slug = %q, want tickets-on-sale", post.Slug)
	}
	if post.Path != "blog/2024/05/17/tickets-on-sale" {
		t.Errorf("path = %q, want blog/2024/05/17/tickets-on-sale", post.Path)
	}
	if post.State != models.StateDraft {
		t.Errorf("state = %q, want draft by default", post.State)
	}
}

func TestSaveBlogPostDefaultsDateToToday(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	post := &models.BlogPost{SiteID: site.ID, Title: "Quick note"}
	if err := db.SaveBlogPost(post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}
	if post.Date.IsZero() {
		t.Error("date should default to today")
	}
}

func TestGetBlogPostByDateAndSlug(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	date := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	post := &models.BlogPost{
		SiteID:     site.ID,
		Date:       date,
		Title:      "Tickets on sale",
		Body:       "<p>Get yours!</p>",
		Categories: []models.BlogCategory{{Title: "Announcements"}},
	}
	if err := db.SaveBlogPost(post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}

	got, err := db.GetBlogPost(site.ID, date, "tickets-on-sale")
	if err != nil {
		t.Fatalf("GetBlogPost: %v", err)
	}
	if got.ID != post.ID || got.Body != post.Body {
		t.Errorf("got %+v, want the saved post", got)
	}
	if len(got.Categories) != 1 || got.Categories[0].Slug != "announcements" {
		t.Errorf("categories = %v, want [announcements]", got.Categories)
	}

	// Wrong date, right slug: not found.
	otherDay := date.AddDate(0, 0, 1)
	if _, err := db.GetBlogPost(site.ID, otherDay, "tickets-on-sale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong date: err = %v, want ErrNotFound", err)
	}
}

func TestBlogCategoriesAreSharedPerSite(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	first, err := db.GetOrCreateBlogCategory(site.ID, "Announcements")
	if err != nil {
		t.Fatalf("GetOrCreateBlogCategory: %v", err)
	}
	second, err := db.GetOrCreateBlogCategory(site.ID, "Announcements")
	if err != nil {
		t.Fatalf("GetOrCreateBlogCategory (existing): %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("got id %d, want %d (same category)", second.ID, first.ID)
	}
}

func TestSaveBlogPostReplacesCategories(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	post := &models.BlogPost{
		SiteID:     site.ID,
		Date:       time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		Title:      "Tickets on sale",
		Categories: []models.BlogCategory{{Title: "Announcements"}},
	}
	if err := db.SaveBlogPost(post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}

	post.Categories = []models.BlogCategory{{Title: "Tickets"}}
	if err := db.SaveBlogPost(post); err != nil {
		t.Fatalf("SaveBlogPost (update): %v", err)
	}

	got, err := db.GetBlogPostByID(post.ID)
	if err != nil {
		t.Fatalf("GetBlogPostByID: %v", err)
	}
	if len(got.Categories) != 1 || got.Categories[0].Slug != "tickets" {
		t.Errorf("categories = %v, want only [tickets]", got.Categories)
	}
}

func TestListVisibleBlogPosts(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	posts := []*models.BlogPost{
		{SiteID: site.ID, Date: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), Title: "Older", VisibleFrom: &past, PublicFrom: &past},
		{SiteID: site.ID, Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Title: "Newer", VisibleFrom: &past, PublicFrom: &past},
		{SiteID: site.ID, Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Title: "Scheduled", VisibleFrom: &future},
		{SiteID: site.ID, Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Title: "Draft"},
	}
	for _, p := range posts {
		if err := db.SaveBlogPost(p); err != nil {
			t.Fatalf("SaveBlogPost(%s): %v", p.Title, err)
		}
	}

	visible, err := db.ListVisibleBlogPosts(site.ID, now, 0)
	if err != nil {
		t.Fatalf("ListVisibleBlogPosts: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("got %d posts, want 2", len(visible))
	}
	if visible[0].Slug != "newer" || visible[1].Slug != "older" {
		t.Errorf("order = [%s %s], want newest first", visible[0].Slug, visible[1].Slug)
	}

	limited, err := db.ListVisibleBlogPosts(site.ID, now, 1)
	if err != nil {
		t.Fatalf("ListVisibleBlogPosts (limit): %v", err)
	}
	if len(limited) != 1 || limited[0].Slug != "newer" {
		t.Errorf("limited = %v, want just the newest post", limited)
	}
}

func TestDeleteBlogPost(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	post := &models.BlogPost{SiteID: site.ID, Title: "Gone soon"}
	if err := db.SaveBlogPost(post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}
	if err := db.DeleteBlogPost(post.ID); err != nil {
		t.Errorf("DeleteBlogPost: %v", err)
	}
	if err := db.DeleteBlogPost(post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	post := &models.BlogPost{SiteID: site.ID, Title: "Discuss"}
	if err := db.SaveBlogPost(post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}

	first := &models.BlogComment{
		BlogPostID:  post.ID,
		AuthorName:  "Visitor",
		AuthorEmail: "visitor@example.com",
		Comment:     "Looking forward to it!",
	}
	if err := db.InsertComment(first); err != nil {
		t.Fatalf("InsertComment: %v", err)
	}
	second := &models.BlogComment{
		BlogPostID:  post.ID,
		AuthorName:  "Spammer",
		AuthorEmail: "spam@example.com",
		Comment:     "Buy cheap watches",
	}
	if err := db.InsertComment(second); err != nil {
		t.Fatalf("InsertComment: %v", err)
	}

	if err := db.RemoveComment(second.ID, "moderator"); err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	// Removing twice is a no-op failure, the moderation record stays.
	if err := db.RemoveComment(second.ID, "other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double remove: err = %v, want ErrNotFound", err)
	}

	active, err := db.ListActiveComments(post.ID)
	if err != nil {
		t.Fatalf("ListActiveComments: %v", err)
	}
	if len(active) != 1 || active[0].ID != first.ID {
		t.Errorf("active = %v, want only the first comment", active)
	}

	all, err := db.ListAllComments(post.ID)
	if err != nil {
		t.Fatalf("ListAllComments: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d comments, want 2", len(all))
	}
	removed := all[1]
	if removed.IsActive() || removed.RemovedBy != "moderator" {
		t.Errorf("removed comment = %+v, want removed_at set and removed_by moderator", removed)
	}
}
