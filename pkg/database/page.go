package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tracontent/pkg/models"
)

const pageColumns = `id, site_id, parent_id, slug, path, title, override_menu_text,
	override_page_template, page_controller_code, sort_order, body,
	created_at, updated_at, public_from, visible_from`

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	var p models.Page
	var parentID sql.NullInt64
	var publicFrom, visibleFrom sql.NullTime
	err := row.Scan(&p.ID, &p.SiteID, &parentID, &p.Slug, &p.Path, &p.Title,
		&p.OverrideMenuText, &p.OverridePageTemplate, &p.PageControllerCode,
		&p.Order, &p.Body, &p.CreatedAt, &p.UpdatedAt, &publicFrom, &visibleFrom)
	if err != nil {
		return nil, err
	}
	p.ParentID = int64Ptr(parentID)
	p.PublicFrom = timePtr(publicFrom)
	p.VisibleFrom = timePtr(visibleFrom)
	return &p, nil
}

// SavePage inserts or updates a page. The slug is generated from the title
// when empty, and the path is re-derived from the parent chain. Paths of
// child pages are refreshed afterwards in case the path changed.
func (d *DB) SavePage(p *models.Page) error {
	p.EnsureSlug()
	if p.Slug == "" {
		return fmt.Errorf("page needs a slug or a title")
	}

	parentPath := ""
	if p.ParentID != nil {
		parent, err := d.GetPageByID(*p.ParentID)
		if err != nil {
			return fmt.Errorf("failed to resolve parent page: %w", err)
		}
		if parent.SiteID != p.SiteID {
			return fmt.Errorf("parent page belongs to another site")
		}
		parentPath = parent.Path
	}
	p.Path = p.MakePath(parentPath)

	now := time.Now().UTC()
	p.UpdatedAt = now

	if p.ID == 0 {
		p.CreatedAt = now
		res, err := d.db.Exec(`
			INSERT INTO pages (site_id, parent_id, slug, path, title, override_menu_text,
				override_page_template, page_controller_code, sort_order, body,
				created_at, updated_at, public_from, visible_from)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.SiteID, p.ParentID, p.Slug, p.Path, p.Title, p.OverrideMenuText,
			p.OverridePageTemplate, p.PageControllerCode, p.Order, p.Body,
			p.CreatedAt, p.UpdatedAt, nullTime(p.PublicFrom), nullTime(p.VisibleFrom))
		if err != nil {
			return fmt.Errorf("failed to insert page %s: %w", p.Path, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = id
	} else {
		_, err := d.db.Exec(`
			UPDATE pages SET site_id = ?, parent_id = ?, slug = ?, path = ?, title = ?,
				override_menu_text = ?, override_page_template = ?, page_controller_code = ?,
				sort_order = ?, body = ?, updated_at = ?, public_from = ?, visible_from = ?
			WHERE id = ?`,
			p.SiteID, p.ParentID, p.Slug, p.Path, p.Title,
			p.OverrideMenuText, p.OverridePageTemplate, p.PageControllerCode,
			p.Order, p.Body, p.UpdatedAt, nullTime(p.PublicFrom), nullTime(p.VisibleFrom),
			p.ID)
		if err != nil {
			return fmt.Errorf("failed to update page %s: %w", p.Path, err)
		}
	}

	return d.refreshChildPaths(p.ID, p.Path)
}

// refreshChildPaths rewrites the derived paths of all descendants.
func (d *DB) refreshChildPaths(pageID int64, path string) error {
	rows, err := d.db.Query("SELECT id, slug FROM pages WHERE parent_id = ?", pageID)
	if err != nil {
		return err
	}
	type child struct {
		id   int64
		slug string
	}
	var children []child
	for rows.Next() {
		var c child
		if err := rows.Scan(&c.id, &c.slug); err != nil {
			rows.Close()
			return err
		}
		children = append(children, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range children {
		childPath := path + "/" + c.slug
		if _, err := d.db.Exec("UPDATE pages SET path = ? WHERE id = ?", childPath, c.id); err != nil {
			return err
		}
		if err := d.refreshChildPaths(c.id, childPath); err != nil {
			return err
		}
	}
	return nil
}

// GetPageByID returns one page by its primary key.
func (d *DB) GetPageByID(id int64) (*models.Page, error) {
	p, err := scanPage(d.db.QueryRow("SELECT "+pageColumns+" FROM pages WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", id, err)
	}
	return p, nil
}

// GetPageByPath returns the page at path on a site.
func (d *DB) GetPageByPath(siteID int64, path string) (*models.Page, error) {
	p, err := scanPage(d.db.QueryRow(
		"SELECT "+pageColumns+" FROM pages WHERE site_id = ? AND path = ?", siteID, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", path, err)
	}
	return p, nil
}

func (d *DB) queryPages(query string, args ...any) ([]models.Page, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// ListPages returns all pages of a site ordered for tree display.
func (d *DB) ListPages(siteID int64) ([]models.Page, error) {
	pages, err := d.queryPages(
		"SELECT "+pageColumns+" FROM pages WHERE site_id = ? ORDER BY path", siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// ListVisiblePages returns the pages shown in the menu at time t, ordered
// by sort order within each parent.
func (d *DB) ListVisiblePages(siteID int64, t time.Time) ([]models.Page, error) {
	pages, err := d.queryPages(
		"SELECT "+pageColumns+` FROM pages
		WHERE site_id = ? AND visible_from IS NOT NULL AND visible_from <= ?
		ORDER BY sort_order, path`, siteID, t.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list visible pages: %w", err)
	}
	return pages, nil
}

// DeletePage removes a page. Pages with children cannot be deleted.
func (d *DB) DeletePage(id int64) error {
	var childCount int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM pages WHERE parent_id = ?", id).Scan(&childCount); err != nil {
		return err
	}
	if childCount > 0 {
		return fmt.Errorf("page %d has %d child pages, delete them first", id, childCount)
	}
	res, err := d.db.Exec("DELETE FROM pages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete page %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CopyPageToSite copies a page to another site under the same parent path.
// On a slug collision the copy gets a "-copy-N" suffix.
func (d *DB) CopyPageToSite(pageID, destSiteID int64) (*models.Page, error) {
	src, err := d.GetPageByID(pageID)
	if err != nil {
		return nil, err
	}

	var parentID *int64
	if parentPath := src.ParentPath(); parentPath != "" {
		parent, err := d.GetPageByPath(destSiteID, parentPath)
		if err != nil {
			return nil, fmt.Errorf("parent path %s does not exist on target site: %w", parentPath, err)
		}
		parentID = &parent.ID
	}

	slug := src.Slug
	for counter := 1; d.slugTaken(destSiteID, parentID, slug); counter++ {
		slug = fmt.Sprintf("%s-copy-%d", src.Slug, counter)
	}

	page := &models.Page{
		SiteID:           destSiteID,
		ParentID:         parentID,
		Slug:             slug,
		Title:            src.Title,
		OverrideMenuText: src.OverrideMenuText,
		Order:            src.Order,
		Body:             src.Body,
	}
	if err := d.SavePage(page); err != nil {
		return nil, err
	}
	return page, nil
}

func (d *DB) slugTaken(siteID int64, parentID *int64, slug string) bool {
	var n int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM pages WHERE site_id = ? AND IFNULL(parent_id, 0) = IFNULL(?, 0) AND slug = ?",
		siteID, parentID, slug).Scan(&n)
	return err == nil && n > 0
}
