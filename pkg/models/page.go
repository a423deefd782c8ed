package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// FrontPageSlug marks the root page served at /.
const FrontPageSlug = "front-page"

// Page is a content page in the site's page tree. Path is derived from the
// slug chain and never set directly.
type Page struct {
	ID                   int64      `json:"id"`
	SiteID               int64      `json:"site_id"`
	ParentID             *int64     `json:"parent_id,omitempty"`
	Slug                 string     `json:"slug"`
	Path                 string     `json:"path"`
	Title                string     `json:"title"`
	OverrideMenuText     string     `json:"override_menu_text,omitempty"`
	OverridePageTemplate string     `json:"override_page_template,omitempty"`
	PageControllerCode   string     `json:"page_controller_code,omitempty"`
	Order                int        `json:"order"`
	Body                 string     `json:"body"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	PublicFrom           *time.Time `json:"public_from,omitempty"`
	VisibleFrom          *time.Time `json:"visible_from,omitempty"`
}

// EnsureSlug fills in the slug from the title when it was left empty.
func (p *Page) EnsureSlug() {
	if p.Slug == "" && p.Title != "" {
		p.Slug = slug.Make(p.Title)
	}
}

// MakePath derives the page path from its parent's path.
func (p *Page) MakePath(parentPath string) string {
	if parentPath == "" {
		return p.Slug
	}
	return parentPath + "/" + p.Slug
}

// ParentPath returns the path of the parent, derived from this page's path.
func (p *Page) ParentPath() string {
	idx := strings.LastIndex(p.Path, "/")
	if idx < 0 {
		return ""
	}
	return p.Path[:idx]
}

// MenuText is the text shown for this page in the site menu.
func (p *Page) MenuText() string {
	if p.OverrideMenuText != "" {
		return p.OverrideMenuText
	}
	return p.Title
}

// Template picks the template this page renders with.
func (p *Page) Template(settings *SiteSettings) string {
	if p.OverridePageTemplate != "" {
		return p.OverridePageTemplate
	}
	return settings.PageTemplate
}

func (p *Page) IsFrontPage() bool {
	return p.ParentID == nil && p.Slug == FrontPageSlug
}

// LocalURL is the path portion of the page URL on its own site.
func (p *Page) LocalURL() string {
	if p.IsFrontPage() {
		return "/"
	}
	return "/" + p.Path
}

func (p *Page) IsPublic(t time.Time) bool {
	return p.PublicFrom != nil && !p.PublicFrom.After(t)
}

func (p *Page) IsVisible(t time.Time) bool {
	return p.VisibleFrom != nil && !p.VisibleFrom.After(t)
}

// Redirect maps a path on a site to another URL.
type Redirect struct {
	ID     int64  `json:"id"`
	SiteID int64  `json:"site_id"`
	Path   string `json:"path"`
	Target string `json:"target"`
}
