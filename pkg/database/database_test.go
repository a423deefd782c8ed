package database

import (
	"errors"
	"path/filepath"
	"testing"

	"tracontent/pkg/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite3"), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRequiresExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sqlite3")
	_, err := Open(path, Options{CreateIfNotExists: false})
	if err == nil {
		t.Fatal("expected an error for a missing database file")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite3")
	db, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	// Reopening an existing database must not fail on the schema.
	db, err = Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	db.Close()
}

func TestSiteCRUD(t *testing.T) {
	db := setupTestDB(t)

	site, err := db.CreateSite("example.com:8000", "Example Con")
	if err != nil {
		t.Fatalf("CreateSite: %v", err)
	}
	if site.ID == 0 {
		t.Error("created site should have an id")
	}

	got, err := db.GetSiteByDomain("example.com:8000")
	if err != nil {
		t.Fatalf("GetSiteByDomain: %v", err)
	}
	if got.ID != site.ID || got.Name != "Example Con" {
		t.Errorf("got %+v, want id %d and name Example Con", got, site.ID)
	}

	if _, err := db.GetSiteByDomain("nosuch.example"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing site: err = %v, want ErrNotFound", err)
	}
}

func TestGetOrCreateSite(t *testing.T) {
	db := setupTestDB(t)

	first, err := db.GetOrCreateSite("example.com:8000", "Example Con")
	if err != nil {
		t.Fatalf("GetOrCreateSite: %v", err)
	}

	// A second call must return the same site, not create another one.
	second, err := db.GetOrCreateSite("example.com:8000", "Other Name")
	if err != nil {
		t.Fatalf("GetOrCreateSite (existing): %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("got id %d, want %d", second.ID, first.ID)
	}
	if second.Name != "Example Con" {
		t.Errorf("name = %q, existing name must win", second.Name)
	}

	sites, err := db.ListSites()
	if err != nil {
		t.Fatalf("ListSites: %v", err)
	}
	if len(sites) != 1 {
		t.Errorf("got %d sites, want 1", len(sites))
	}
}

func TestSiteSettingsUpsert(t *testing.T) {
	db := setupTestDB(t)
	site, err := db.CreateSite("example.com:8000", "Example Con")
	if err != nil {
		t.Fatalf("CreateSite: %v", err)
	}

	settings := &models.SiteSettings{
		SiteID:       site.ID,
		Description:  "An example convention",
		PageTemplate: "page.html",
	}
	if err := db.UpsertSiteSettings(settings); err != nil {
		t.Fatalf("UpsertSiteSettings: %v", err)
	}
	if settings.ID == 0 {
		t.Error("saved settings should carry their row id")
	}
	firstID := settings.ID

	settings.Description = "Updated description"
	if err := db.UpsertSiteSettings(settings); err != nil {
		t.Fatalf("UpsertSiteSettings (update): %v", err)
	}
	if settings.ID != firstID {
		t.Errorf("upserted settings id = %d, want the existing row id %d", settings.ID, firstID)
	}

	got, err := db.GetSiteSettings(site.ID)
	if err != nil {
		t.Fatalf("GetSiteSettings: %v", err)
	}
	if got.Description != "Updated description" {
		t.Errorf("description = %q, want updated value", got.Description)
	}
	if got.Site == nil || got.Site.Domain != "example.com:8000" {
		t.Errorf("settings should carry the joined site, got %+v", got.Site)
	}

	if _, err := db.GetSiteSettings(site.ID + 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing settings: err = %v, want ErrNotFound", err)
	}
}
