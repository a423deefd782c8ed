package database

import (
	"database/sql"
	"errors"
	"fmt"

	"tracontent/pkg/models"
)

// GetRedirect returns the redirect registered at path on a site.
func (d *DB) GetRedirect(siteID int64, path string) (*models.Redirect, error) {
	var r models.Redirect
	err := d.db.QueryRow(
		"SELECT id, site_id, path, target FROM redirects WHERE site_id = ? AND path = ?",
		siteID, path).Scan(&r.ID, &r.SiteID, &r.Path, &r.Target)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redirect %s: %w", path, err)
	}
	return &r, nil
}

// SaveRedirect creates or replaces the redirect at path.
func (d *DB) SaveRedirect(r *models.Redirect) error {
	_, err := d.db.Exec(`
		INSERT INTO redirects (site_id, path, target) VALUES (?, ?, ?)
		ON CONFLICT(site_id, path) DO UPDATE SET target = excluded.target`,
		r.SiteID, r.Path, r.Target)
	if err != nil {
		return fmt.Errorf("failed to save redirect %s: %w", r.Path, err)
	}
	// LastInsertId is stale on the conflict path, read the real row id.
	err = d.db.QueryRow("SELECT id FROM redirects WHERE site_id = ? AND path = ?",
		r.SiteID, r.Path).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to read back redirect %s: %w", r.Path, err)
	}
	return nil
}

// ListRedirects returns all redirects of a site.
func (d *DB) ListRedirects(siteID int64) ([]models.Redirect, error) {
	rows, err := d.db.Query(
		"SELECT id, site_id, path, target FROM redirects WHERE site_id = ? ORDER BY path", siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redirects: %w", err)
	}
	defer rows.Close()

	var redirects []models.Redirect
	for rows.Next() {
		var r models.Redirect
		if err := rows.Scan(&r.ID, &r.SiteID, &r.Path, &r.Target); err != nil {
			return nil, err
		}
		redirects = append(redirects, r)
	}
	return redirects, rows.Err()
}

// DeleteRedirect removes a redirect by id.
func (d *DB) DeleteRedirect(id int64) error {
	res, err := d.db.Exec("DELETE FROM redirects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete redirect %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
