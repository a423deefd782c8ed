package services

import (
	"tracontent/pkg/database"
	"tracontent/pkg/models"
)

// TestSiteDomain is the site created by `setup --test`.
const TestSiteDomain = "example.com"

// SetupTestSite creates the example.com test site with dummy settings so a
// fresh checkout can be poked at without real content.
func SetupTestSite(db *database.DB) (*models.Site, error) {
	site, err := db.GetOrCreateSite(TestSiteDomain, "Test site")
	if err != nil {
		return nil, err
	}

	if _, err := db.GetSiteSettings(site.ID); err == nil {
		return site, nil
	}

	err = db.UpsertSiteSettings(&models.SiteSettings{
		SiteID:            site.ID,
		BaseTemplate:      "base.html",
		PageTemplate:      "page.html",
		BlogIndexTemplate: "blog_index.html",
		BlogPostTemplate:  "blog_post.html",
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}
