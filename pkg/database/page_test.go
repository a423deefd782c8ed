package database

import (
	"errors"
	"testing"
	"time"

	"tracontent/pkg/models"
)

func testSite(t *testing.T, db *DB, domain string) *models.Site {
	t.Helper()
	site, err := db.CreateSite(domain, "Test Site")
	if err != nil {
		t.Fatalf("CreateSite(%s): %v", domain, err)
	}
	return site
}

func TestSavePageDerivesPath(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	root := &models.Page{SiteID: site.ID, Title: "Programme"}
	if err := db.SavePage(root); err != nil {
		t.Fatalf("SavePage(root): %v", err)
	}
	if root.Slug != "programme" || root.Path != "programme" {
		t.Errorf("root slug/path = %q/%q, want programme/programme", root.Slug, root.Path)
	}

	child := &models.Page{SiteID: site.ID, ParentID: &root.ID, Title: "Guests"}
	if err := db.SavePage(child); err != nil {
		t.Fatalf("SavePage(child): %v", err)
	}
	if child.Path != "programme/guests" {
		t.Errorf("child path = %q, want programme/guests", child.Path)
	}
}

func TestSavePageRefusesForeignParent(t *testing.T) {
	db := setupTestDB(t)
	siteA := testSite(t, db, "a.example:8000")
	siteB := testSite(t, db, "b.example:8000")

	parent := &models.Page{SiteID: siteA.ID, Title: "Programme"}
	if err := db.SavePage(parent); err != nil {
		t.Fatalf("SavePage(parent): %v", err)
	}

	orphan := &models.Page{SiteID: siteB.ID, ParentID: &parent.ID, Title: "Guests"}
	if err := db.SavePage(orphan); err == nil {
		t.Error("expected an error for a parent on another site")
	}
}

func TestSavePageRefreshesChildPaths(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	root := &models.Page{SiteID: site.ID, Title: "Programme"}
	if err := db.SavePage(root); err != nil {
		t.Fatalf("SavePage(root): %v", err)
	}
	child := &models.Page{SiteID: site.ID, ParentID: &root.ID, Title: "Guests"}
	if err := db.SavePage(child); err != nil {
		t.Fatalf("SavePage(child): %v", err)
	}
	grandchild := &models.Page{SiteID: site.ID, ParentID: &child.ID, Title: "Headliner"}
	if err := db.SavePage(grandchild); err != nil {
		t.Fatalf("SavePage(grandchild): %v", err)
	}

	// Renaming the root must cascade to every descendant path.
	root.Slug = "ohjelma"
	if err := db.SavePage(root); err != nil {
		t.Fatalf("SavePage(rename): %v", err)
	}

	got, err := db.GetPageByID(grandchild.ID)
	if err != nil {
		t.Fatalf("GetPageByID: %v", err)
	}
	if got.Path != "ohjelma/guests/headliner" {
		t.Errorf("grandchild path = %q, want ohjelma/guests/headliner", got.Path)
	}

	if _, err := db.GetPageByPath(site.ID, "programme/guests"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old path should be gone, err = %v", err)
	}
}

func TestListVisiblePages(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	visible := &models.Page{SiteID: site.ID, Title: "Tickets", VisibleFrom: &past, PublicFrom: &past}
	scheduled := &models.Page{SiteID: site.ID, Title: "Aftermovie", VisibleFrom: &future}
	hidden := &models.Page{SiteID: site.ID, Title: "Scratchpad"}
	for _, p := range []*models.Page{visible, scheduled, hidden} {
		if err := db.SavePage(p); err != nil {
			t.Fatalf("SavePage(%s): %v", p.Title, err)
		}
	}

	pages, err := db.ListVisiblePages(site.ID, now)
	if err != nil {
		t.Fatalf("ListVisiblePages: %v", err)
	}
	if len(pages) != 1 || pages[0].Slug != "tickets" {
		t.Errorf("got %d pages (%v), want only tickets", len(pages), pages)
	}
}

func TestListVisiblePagesOrdersBySortOrder(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	past := time.Now().UTC().Add(-time.Hour)
	pages := []*models.Page{
		{SiteID: site.ID, Title: "Zebra", Order: 10, VisibleFrom: &past},
		{SiteID: site.ID, Title: "Aardvark", Order: 20, VisibleFrom: &past},
	}
	for _, p := range pages {
		if err := db.SavePage(p); err != nil {
			t.Fatalf("SavePage: %v", err)
		}
	}

	got, err := db.ListVisiblePages(site.ID, time.Now())
	if err != nil {
		t.Fatalf("ListVisiblePages: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "zebra" {
		t.Errorf("sort order must beat alphabetical order, got %v", got)
	}
}

func TestDeletePage(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	parent := &models.Page{SiteID: site.ID, Title: "Programme"}
	if err := db.SavePage(parent); err != nil {
		t.Fatalf("SavePage(parent): %v", err)
	}
	child := &models.Page{SiteID: site.ID, ParentID: &parent.ID, Title: "Guests"}
	if err := db.SavePage(child); err != nil {
		t.Fatalf("SavePage(child): %v", err)
	}

	if err := db.DeletePage(parent.ID); err == nil {
		t.Error("deleting a page with children must fail")
	}
	if err := db.DeletePage(child.ID); err != nil {
		t.Errorf("DeletePage(child): %v", err)
	}
	if err := db.DeletePage(parent.ID); err != nil {
		t.Errorf("DeletePage(parent after child): %v", err)
	}
	if err := db.DeletePage(parent.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}

func TestCopyPageToSite(t *testing.T) {
	db := setupTestDB(t)
	src := testSite(t, db, "a.example:8000")
	dest := testSite(t, db, "b.example:8000")

	page := &models.Page{SiteID: src.ID, Title: "Tickets", Body: "<p>Buy now</p>"}
	if err := db.SavePage(page); err != nil {
		t.Fatalf("SavePage: %v", err)
	}

	copied, err := db.CopyPageToSite(page.ID, dest.ID)
	if err != nil {
		t.Fatalf("CopyPageToSite: %v", err)
	}
	if copied.SiteID != dest.ID || copied.Slug != "tickets" || copied.Body != page.Body {
		t.Errorf("copy = %+v, want same slug and body on dest site", copied)
	}

	// A second copy collides on the slug and gets a suffix.
	again, err := db.CopyPageToSite(page.ID, dest.ID)
	if err != nil {
		t.Fatalf("CopyPageToSite (collision): %v", err)
	}
	if again.Slug != "tickets-copy-1" {
		t.Errorf("colliding copy slug = %q, want tickets-copy-1", again.Slug)
	}
}

func TestCopyPageToSiteNeedsParentPath(t *testing.T) {
	db := setupTestDB(t)
	src := testSite(t, db, "a.example:8000")
	dest := testSite(t, db, "b.example:8000")

	parent := &models.Page{SiteID: src.ID, Title: "Programme"}
	if err := db.SavePage(parent); err != nil {
		t.Fatalf("SavePage(parent): %v", err)
	}
	child := &models.Page{SiteID: src.ID, ParentID: &parent.ID, Title: "Guests"}
	if err := db.SavePage(child); err != nil {
		t.Fatalf("SavePage(child): %v", err)
	}

	if _, err := db.CopyPageToSite(child.ID, dest.ID); err == nil {
		t.Error("copying a child page must fail when the parent path is missing on the target site")
	}
}

func TestRedirects(t *testing.T) {
	db := setupTestDB(t)
	site := testSite(t, db, "example.com:8000")

	r := &models.Redirect{SiteID: site.ID, Path: "old-tickets", Target: "/tickets"}
	if err := db.SaveRedirect(r); err != nil {
		t.Fatalf("SaveRedirect: %v", err)
	}
	if r.ID == 0 {
		t.Error("saved redirect should carry its row id")
	}

	// Saving the same path again replaces the target and keeps the id.
	again := &models.Redirect{SiteID: site.ID, Path: "old-tickets", Target: "https://example.com/"}
	if err := db.SaveRedirect(again); err != nil {
		t.Fatalf("SaveRedirect (upsert): %v", err)
	}
	if again.ID != r.ID {
		t.Errorf("upserted redirect id = %d, want the existing row id %d", again.ID, r.ID)
	}

	got, err := db.GetRedirect(site.ID, "old-tickets")
	if err != nil {
		t.Fatalf("GetRedirect: %v", err)
	}
	if got.Target != "https://example.com/" {
		t.Errorf("target = %q, want replaced value", got.Target)
	}

	if _, err := db.GetRedirect(site.ID, "nothing-here"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing redirect: err = %v, want ErrNotFound", err)
	}

	if err := db.DeleteRedirect(got.ID); err != nil {
		t.Errorf("DeleteRedirect: %v", err)
	}
}
