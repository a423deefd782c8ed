package services

import (
	"sync"
	"time"

	"tracontent/pkg/database"
	"tracontent/pkg/models"
)

// Visible pages change over time too (visible_from), so cached entries
// expire even without an explicit invalidation.
const menuCacheTTL = time.Minute

var (
	menuMutex sync.Mutex
	menuCache = map[int64]menuCacheEntry{}
)

type menuCacheEntry struct {
	pages    []models.Page
	loadedAt time.Time
}

// SiteMenu builds the menu for a site, highlighting the entry matching
// currentURL. The underlying visible-page list is cached per site.
func SiteMenu(db *database.DB, siteID int64, currentURL string) ([]models.MenuEntry, error) {
	pages, err := visiblePages(db, siteID)
	if err != nil {
		return nil, err
	}
	return models.BuildMenu(pages, currentURL), nil
}

func visiblePages(db *database.DB, siteID int64) ([]models.Page, error) {
	menuMutex.Lock()
	defer menuMutex.Unlock()

	if entry, ok := menuCache[siteID]; ok && time.Since(entry.loadedAt) < menuCacheTTL {
		return entry.pages, nil
	}

	pages, err := db.ListVisiblePages(siteID, time.Now())
	if err != nil {
		return nil, err
	}

	menuCache[siteID] = menuCacheEntry{pages: pages, loadedAt: time.Now()}
	return pages, nil
}

// InvalidateMenu drops the cached page list of a site. Called whenever a
// page is created, saved or deleted.
func InvalidateMenu(siteID int64) {
	menuMutex.Lock()
	defer menuMutex.Unlock()
	delete(menuCache, siteID)
}
