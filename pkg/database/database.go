// Package database provides SQLite-backed storage for sites and content.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the content database. It manages connection pooling and provides
// CRUD methods for sites, pages, redirects and the blog.
type DB struct {
	db   *sql.DB
	path string
}

// Options configures how the database is opened.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent reads.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the content database at the given file path.
func Open(path string, opts Options) (*DB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run setup first)", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{db: sqlDB, path: path}

	if opts.EnableWAL {
		if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := db.createTables(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS site_settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL UNIQUE REFERENCES sites(id) ON DELETE CASCADE,
		description TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '',
		base_template TEXT NOT NULL DEFAULT '',
		page_template TEXT NOT NULL DEFAULT '',
		blog_index_template TEXT NOT NULL DEFAULT '',
		blog_post_template TEXT NOT NULL DEFAULT '',
		analytics_token TEXT NOT NULL DEFAULT '',
		context_processor_code TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		parent_id INTEGER REFERENCES pages(id),
		slug TEXT NOT NULL,
		path TEXT NOT NULL,
		title TEXT NOT NULL,
		override_menu_text TEXT NOT NULL DEFAULT '',
		override_page_template TEXT NOT NULL DEFAULT '',
		page_controller_code TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		body TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		public_from DATETIME,
		visible_from DATETIME,
		UNIQUE (site_id, path)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_site_parent_slug
		ON pages(site_id, IFNULL(parent_id, 0), slug);

	CREATE TABLE IF NOT EXISTS redirects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		target TEXT NOT NULL,
		UNIQUE (site_id, path)
	);

	CREATE TABLE IF NOT EXISTS blog_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		UNIQUE (site_id, slug)
	);

	CREATE TABLE IF NOT EXISTS blog_posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site_id INTEGER NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		slug TEXT NOT NULL,
		path TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT 'draft',
		internal_notes TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		override_excerpt TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		public_from DATETIME,
		visible_from DATETIME,
		UNIQUE (site_id, path),
		UNIQUE (site_id, date, slug)
	);

	CREATE TABLE IF NOT EXISTS blog_post_categories (
		blog_post_id INTEGER NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
		category_id INTEGER NOT NULL REFERENCES blog_categories(id) ON DELETE CASCADE,
		PRIMARY KEY (blog_post_id, category_id)
	);

	CREATE TABLE IF NOT EXISTS blog_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		blog_post_id INTEGER NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
		author_name TEXT NOT NULL,
		author_email TEXT NOT NULL,
		author_ip_address TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		removed_at DATETIME,
		removed_by TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_blog_comments_post_removed
		ON blog_comments(blog_post_id, removed_at);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// nullTime converts a *time.Time into a driver-friendly value.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// timePtr converts a scanned sql.NullTime back into a *time.Time.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// int64Ptr converts a scanned sql.NullInt64 back into an *int64.
func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
