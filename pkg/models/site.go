package models

// Site is one website served by this installation. Domain is the host:port
// (or bare host) the site answers to and doubles as the multisite key.
type Site struct {
	ID     int64  `json:"id"`
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

// SiteSettings holds the per-site configuration editors manage.
type SiteSettings struct {
	ID                   int64  `json:"id"`
	SiteID               int64  `json:"site_id"`
	Description          string `json:"description"`
	Keywords             string `json:"keywords"`
	BaseTemplate         string `json:"base_template"`
	PageTemplate         string `json:"page_template"`
	BlogIndexTemplate    string `json:"blog_index_template"`
	BlogPostTemplate     string `json:"blog_post_template"`
	AnalyticsToken       string `json:"analytics_token"`
	ContextProcessorCode string `json:"context_processor_code"`

	Site *Site `json:"-"`
}

// Title is the site name shown in page headers and mail subjects.
func (s *SiteSettings) Title() string {
	if s.Site == nil {
		return ""
	}
	return s.Site.Name
}

func (s *SiteSettings) AbsoluteURL() string {
	if s.Site == nil {
		return ""
	}
	return "//" + s.Site.Domain
}
