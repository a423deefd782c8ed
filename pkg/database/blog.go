package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tracontent/pkg/models"
)

// Blog post dates are stored as plain ISO dates: the date is part of the
// post URL and must not shift with time zones.
const blogDateFormat = "2006-01-02"

const blogPostColumns = `id, site_id, date, slug, path, author, state, internal_notes,
	title, body, override_excerpt, created_at, updated_at, public_from, visible_from`

func scanBlogPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	var p models.BlogPost
	var date string
	var publicFrom, visibleFrom sql.NullTime
	err := row.Scan(&p.ID, &p.SiteID, &date, &p.Slug, &p.Path, &p.Author, &p.State,
		&p.InternalNotes, &p.Title, &p.Body, &p.OverrideExcerpt,
		&p.CreatedAt, &p.UpdatedAt, &publicFrom, &visibleFrom)
	if err != nil {
		return nil, err
	}
	p.Date, err = time.Parse(blogDateFormat, date)
	if err != nil {
		return nil, fmt.Errorf("invalid blog post date %q: %w", date, err)
	}
	p.PublicFrom = timePtr(publicFrom)
	p.VisibleFrom = timePtr(visibleFrom)
	return &p, nil
}

// SaveBlogPost inserts or updates a blog post. The slug is generated from
// the title when empty, the date defaults to today, and the path is derived
// from date and slug.
func (d *DB) SaveBlogPost(p *models.BlogPost) error {
	p.EnsureSlug()
	if p.Slug == "" {
		return fmt.Errorf("blog post needs a slug or a title")
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	if p.State == "" {
		p.State = models.StateDraft
	}
	p.Path = p.MakePath()

	now := time.Now().UTC()
	p.UpdatedAt = now

	if p.ID == 0 {
		p.CreatedAt = now
		res, err := d.db.Exec(`
			INSERT INTO blog_posts (site_id, date, slug, path, author, state, internal_notes,
				title, body, override_excerpt, created_at, updated_at, public_from, visible_from)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.SiteID, p.Date.Format(blogDateFormat), p.Slug, p.Path, p.Author, p.State,
			p.InternalNotes, p.Title, p.Body, p.OverrideExcerpt,
			p.CreatedAt, p.UpdatedAt, nullTime(p.PublicFrom), nullTime(p.VisibleFrom))
		if err != nil {
			return fmt.Errorf("failed to insert blog post %s: %w", p.Path, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = id
	} else {
		_, err := d.db.Exec(`
			UPDATE blog_posts SET site_id = ?, date = ?, slug = ?, path = ?, author = ?,
				state = ?, internal_notes = ?, title = ?, body = ?, override_excerpt = ?,
				updated_at = ?, public_from = ?, visible_from = ?
			WHERE id = ?`,
			p.SiteID, p.Date.Format(blogDateFormat), p.Slug, p.Path, p.Author,
			p.State, p.InternalNotes, p.Title, p.Body, p.OverrideExcerpt,
			p.UpdatedAt, nullTime(p.PublicFrom), nullTime(p.VisibleFrom), p.ID)
		if err != nil {
			return fmt.Errorf("failed to update blog post %s: %w", p.Path, err)
		}
	}

	return d.setPostCategories(p)
}

func (d *DB) setPostCategories(p *models.BlogPost) error {
	if _, err := d.db.Exec("DELETE FROM blog_post_categories WHERE blog_post_id = ?", p.ID); err != nil {
		return err
	}
	for i := range p.Categories {
		cat := &p.Categories[i]
		if cat.ID == 0 {
			saved, err := d.GetOrCreateBlogCategory(p.SiteID, cat.Title)
			if err != nil {
				return err
			}
			*cat = *saved
		}
		if _, err := d.db.Exec(
			"INSERT OR IGNORE INTO blog_post_categories (blog_post_id, category_id) VALUES (?, ?)",
			p.ID, cat.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreateBlogCategory finds a category by its slugified title, creating
// it when missing.
func (d *DB) GetOrCreateBlogCategory(siteID int64, title string) (*models.BlogCategory, error) {
	cat := &models.BlogCategory{SiteID: siteID, Title: title}
	cat.EnsureSlug()
	if cat.Slug == "" {
		return nil, fmt.Errorf("blog category needs a title")
	}

	err := d.db.QueryRow(
		"SELECT id, site_id, slug, title FROM blog_categories WHERE site_id = ? AND slug = ?",
		siteID, cat.Slug).Scan(&cat.ID, &cat.SiteID, &cat.Slug, &cat.Title)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get blog category %s: %w", cat.Slug, err)
	}

	res, err := d.db.Exec("INSERT INTO blog_categories (site_id, slug, title) VALUES (?, ?, ?)",
		siteID, cat.Slug, cat.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create blog category %s: %w", cat.Slug, err)
	}
	cat.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (d *DB) loadPostCategories(p *models.BlogPost) error {
	rows, err := d.db.Query(`
		SELECT c.id, c.site_id, c.slug, c.title
		FROM blog_categories c
		JOIN blog_post_categories pc ON pc.category_id = c.id
		WHERE pc.blog_post_id = ?
		ORDER BY c.title`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cat models.BlogCategory
		if err := rows.Scan(&cat.ID, &cat.SiteID, &cat.Slug, &cat.Title); err != nil {
			return err
		}
		p.Categories = append(p.Categories, cat)
	}
	return rows.Err()
}

// GetBlogPost returns the post published at date/slug on a site, with its
// categories attached.
func (d *DB) GetBlogPost(siteID int64, date time.Time, slug string) (*models.BlogPost, error) {
	p, err := scanBlogPost(d.db.QueryRow(
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE site_id = ? AND date = ? AND slug = ?",
		siteID, date.Format(blogDateFormat), slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post %s: %w", slug, err)
	}
	if err := d.loadPostCategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetBlogPostByID returns one post by its primary key.
func (d *DB) GetBlogPostByID(id int64) (*models.BlogPost, error) {
	p, err := scanBlogPost(d.db.QueryRow(
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post %d: %w", id, err)
	}
	if err := d.loadPostCategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *DB) queryBlogPosts(query string, args ...any) ([]models.BlogPost, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ListBlogPosts returns all posts of a site, newest first.
func (d *DB) ListBlogPosts(siteID int64) ([]models.BlogPost, error) {
	posts, err := d.queryBlogPosts(
		"SELECT "+blogPostColumns+" FROM blog_posts WHERE site_id = ? ORDER BY date DESC, public_from DESC",
		siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

// ListVisibleBlogPosts returns the posts shown in the blog index at time t,
// newest first. limit <= 0 means no limit.
func (d *DB) ListVisibleBlogPosts(siteID int64, t time.Time, limit int) ([]models.BlogPost, error) {
	query := "SELECT " + blogPostColumns + ` FROM blog_posts
		WHERE site_id = ? AND visible_from IS NOT NULL AND visible_from <= ?
		ORDER BY date DESC, public_from DESC`
	args := []any{siteID, t.UTC()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	posts, err := d.queryBlogPosts(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visible blog posts: %w", err)
	}
	return posts, nil
}

// DeleteBlogPost removes a post by id.
func (d *DB) DeleteBlogPost(id int64) error {
	res, err := d.db.Exec("DELETE FROM blog_posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
