package services

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tracontent/pkg/database"
	"tracontent/pkg/models"
)

//go:embed fixtures
var fixtureFS embed.FS

// siteFixture mirrors fixtures/site.yaml.
type siteFixture struct {
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	Keywords          string `yaml:"keywords"`
	BaseTemplate      string `yaml:"base_template"`
	PageTemplate      string `yaml:"page_template"`
	BlogIndexTemplate string `yaml:"blog_index_template"`
	BlogPostTemplate  string `yaml:"blog_post_template"`
}

// SeedExampleContent creates the site for domain and fills it with the
// embedded example content tree. Re-running updates existing pages and
// posts in place instead of duplicating them.
func SeedExampleContent(db *database.DB, domain string) error {
	raw, err := fixtureFS.ReadFile("fixtures/site.yaml")
	if err != nil {
		return fmt.Errorf("failed to read site fixture: %w", err)
	}
	var fixture siteFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("failed to parse site fixture: %w", err)
	}

	site, err := db.GetOrCreateSite(domain, fixture.Name)
	if err != nil {
		return err
	}

	if err := db.UpsertSiteSettings(&models.SiteSettings{
		SiteID:            site.ID,
		Description:       fixture.Description,
		Keywords:          fixture.Keywords,
		BaseTemplate:      fixture.BaseTemplate,
		PageTemplate:      fixture.PageTemplate,
		BlogIndexTemplate: fixture.BlogIndexTemplate,
		BlogPostTemplate:  fixture.BlogPostTemplate,
	}); err != nil {
		return err
	}

	if err := seedPages(db, site); err != nil {
		return err
	}
	if err := seedBlogPosts(db, site); err != nil {
		return err
	}

	InvalidateMenu(site.ID)
	slog.Info("example content seeded", "domain", domain)
	return nil
}

func seedPages(db *database.DB, site *models.Site) error {
	var files []string
	err := fs.WalkDir(fixtureFS, "fixtures/pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".html") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk page fixtures: %w", err)
	}

	// Parents must exist before their children: shallower paths first.
	sort.Slice(files, func(i, j int) bool {
		di, dj := strings.Count(files[i], "/"), strings.Count(files[j], "/")
		if di != dj {
			return di < dj
		}
		return files[i] < files[j]
	})

	now := time.Now().UTC()
	for _, file := range files {
		if err := seedPage(db, site, file, now); err != nil {
			return fmt.Errorf("failed to seed page %s: %w", file, err)
		}
	}
	return nil
}

func seedPage(db *database.DB, site *models.Site, file string, now time.Time) error {
	content, err := fixtureFS.ReadFile(file)
	if err != nil {
		return err
	}
	fm, body, _, err := ParseFrontMatter(content)
	if err != nil {
		return err
	}

	slug := fmString(fm, "slug")
	if slug == "" {
		slug = strings.TrimSuffix(path.Base(file), ".html")
	}

	// The directory under fixtures/pages is the parent path.
	parentPath := strings.Trim(strings.TrimPrefix(path.Dir(file), "fixtures/pages"), "/")
	var parentID *int64
	pagePath := slug
	if parentPath != "" {
		parent, err := db.GetPageByPath(site.ID, parentPath)
		if err != nil {
			return fmt.Errorf("parent page %s not seeded yet: %w", parentPath, err)
		}
		parentID = &parent.ID
		pagePath = parentPath + "/" + slug
	}

	page := &models.Page{
		SiteID:             site.ID,
		ParentID:           parentID,
		Slug:               slug,
		Title:              fmString(fm, "title"),
		OverrideMenuText:   fmString(fm, "menu_text"),
		PageControllerCode: fmString(fm, "controller"),
		Order:              fmInt(fm, "order"),
		Body:               body,
	}
	if fmBool(fm, "public", true) {
		page.PublicFrom = &now
	}
	if fmBool(fm, "visible", true) {
		page.VisibleFrom = &now
	}

	if existing, err := db.GetPageByPath(site.ID, pagePath); err == nil {
		page.ID = existing.ID
		page.CreatedAt = existing.CreatedAt
		page.PublicFrom = keepEarlier(existing.PublicFrom, page.PublicFrom)
		page.VisibleFrom = keepEarlier(existing.VisibleFrom, page.VisibleFrom)
	}

	return db.SavePage(page)
}

func seedBlogPosts(db *database.DB, site *models.Site) error {
	entries, err := fs.ReadDir(fixtureFS, "fixtures/blog")
	if err != nil {
		return fmt.Errorf("failed to read blog fixtures: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		if err := seedBlogPost(db, site, "fixtures/blog/"+entry.Name()); err != nil {
			return fmt.Errorf("failed to seed blog post %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func seedBlogPost(db *database.DB, site *models.Site, file string) error {
	content, err := fixtureFS.ReadFile(file)
	if err != nil {
		return err
	}
	fm, body, _, err := ParseFrontMatter(content)
	if err != nil {
		return err
	}

	// Blog fixture files are named YYYY-MM-DD-slug.html.
	name := strings.TrimSuffix(path.Base(file), ".html")
	if len(name) < 11 {
		return fmt.Errorf("blog fixture name %q is not YYYY-MM-DD-slug", name)
	}
	date, err := time.Parse("2006-01-02", name[:10])
	if err != nil {
		return fmt.Errorf("blog fixture name %q is not YYYY-MM-DD-slug: %w", name, err)
	}
	slug := strings.TrimPrefix(name[10:], "-")

	publicFrom := date
	post := &models.BlogPost{
		SiteID:          site.ID,
		Date:            date,
		Slug:            slug,
		Author:          fmString(fm, "author"),
		State:           models.StateReady,
		Title:           fmString(fm, "title"),
		Body:            body,
		OverrideExcerpt: fmString(fm, "excerpt"),
		PublicFrom:      &publicFrom,
		VisibleFrom:     &publicFrom,
	}
	if category := fmString(fm, "category"); category != "" {
		post.Categories = append(post.Categories, models.BlogCategory{Title: category})
	}

	if existing, err := db.GetBlogPost(site.ID, date, slug); err == nil {
		post.ID = existing.ID
		post.CreatedAt = existing.CreatedAt
	}

	return db.SaveBlogPost(post)
}

func keepEarlier(existing, seeded *time.Time) *time.Time {
	if existing != nil {
		return existing
	}
	return seeded
}

func fmString(fm map[string]interface{}, key string) string {
	if v, ok := fm[key].(string); ok {
		return v
	}
	return ""
}

func fmInt(fm map[string]interface{}, key string) int {
	switch v := fm[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func fmBool(fm map[string]interface{}, key string, fallback bool) bool {
	if v, ok := fm[key].(bool); ok {
		return v
	}
	return fallback
}
