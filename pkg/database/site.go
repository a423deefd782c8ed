package database

import (
	"database/sql"
	"errors"
	"fmt"

	"tracontent/pkg/models"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// CreateSite inserts a new site.
func (d *DB) CreateSite(domain, name string) (*models.Site, error) {
	res, err := d.db.Exec("INSERT INTO sites (domain, name) VALUES (?, ?)", domain, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create site %s: %w", domain, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Site{ID: id, Domain: domain, Name: name}, nil
}

// GetSiteByDomain looks up a site by its host:port key.
func (d *DB) GetSiteByDomain(domain string) (*models.Site, error) {
	var site models.Site
	err := d.db.QueryRow("SELECT id, domain, name FROM sites WHERE domain = ?", domain).
		Scan(&site.ID, &site.Domain, &site.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site %s: %w", domain, err)
	}
	return &site, nil
}

// GetOrCreateSite returns the site for domain, creating it when missing.
// The name is only applied on creation.
func (d *DB) GetOrCreateSite(domain, name string) (*models.Site, error) {
	site, err := d.GetSiteByDomain(domain)
	if err == nil {
		return site, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return d.CreateSite(domain, name)
}

// ListSites returns all sites ordered by domain.
func (d *DB) ListSites() ([]models.Site, error) {
	rows, err := d.db.Query("SELECT id, domain, name FROM sites ORDER BY domain")
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		var site models.Site
		if err := rows.Scan(&site.ID, &site.Domain, &site.Name); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// UpsertSiteSettings creates or updates the settings row for a site.
func (d *DB) UpsertSiteSettings(settings *models.SiteSettings) error {
	_, err := d.db.Exec(`
		INSERT INTO site_settings (
			site_id, description, keywords, base_template, page_template,
			blog_index_template, blog_post_template, analytics_token, context_processor_code
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(site_id) DO UPDATE SET
			description = excluded.description,
			keywords = excluded.keywords,
			base_template = excluded.base_template,
			page_template = excluded.page_template,
			blog_index_template = excluded.blog_index_template,
			blog_post_template = excluded.blog_post_template,
			analytics_token = excluded.analytics_token,
			context_processor_code = excluded.context_processor_code`,
		settings.SiteID, settings.Description, settings.Keywords, settings.BaseTemplate,
		settings.PageTemplate, settings.BlogIndexTemplate, settings.BlogPostTemplate,
		settings.AnalyticsToken, settings.ContextProcessorCode,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert site settings: %w", err)
	}
	// Populate the id on both the insert and the conflict path.
	err = d.db.QueryRow("SELECT id FROM site_settings WHERE site_id = ?",
		settings.SiteID).Scan(&settings.ID)
	if err != nil {
		return fmt.Errorf("failed to read back site settings: %w", err)
	}
	return nil
}

// GetSiteSettings returns the settings of a site with the site attached.
func (d *DB) GetSiteSettings(siteID int64) (*models.SiteSettings, error) {
	var s models.SiteSettings
	var site models.Site
	err := d.db.QueryRow(`
		SELECT ss.id, ss.site_id, ss.description, ss.keywords, ss.base_template,
			ss.page_template, ss.blog_index_template, ss.blog_post_template,
			ss.analytics_token, ss.context_processor_code,
			s.id, s.domain, s.name
		FROM site_settings ss
		JOIN sites s ON s.id = ss.site_id
		WHERE ss.site_id = ?`, siteID).
		Scan(&s.ID, &s.SiteID, &s.Description, &s.Keywords, &s.BaseTemplate,
			&s.PageTemplate, &s.BlogIndexTemplate, &s.BlogPostTemplate,
			&s.AnalyticsToken, &s.ContextProcessorCode,
			&site.ID, &site.Domain, &site.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}
	s.Site = &site
	return &s, nil
}
