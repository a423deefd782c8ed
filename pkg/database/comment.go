package database

import (
	"database/sql"
	"fmt"
	"time"

	"tracontent/pkg/models"
)

const commentColumns = `id, blog_post_id, author_name, author_email, author_ip_address,
	comment, created_at, removed_at, removed_by`

func scanComment(row interface{ Scan(...any) error }) (*models.BlogComment, error) {
	var c models.BlogComment
	var removedAt sql.NullTime
	err := row.Scan(&c.ID, &c.BlogPostID, &c.AuthorName, &c.AuthorEmail,
		&c.AuthorIPAddress, &c.Comment, &c.CreatedAt, &removedAt, &c.RemovedBy)
	if err != nil {
		return nil, err
	}
	c.RemovedAt = timePtr(removedAt)
	return &c, nil
}

// InsertComment stores a new reader comment.
func (d *DB) InsertComment(c *models.BlogComment) error {
	c.CreatedAt = time.Now().UTC()
	res, err := d.db.Exec(`
		INSERT INTO blog_comments (blog_post_id, author_name, author_email,
			author_ip_address, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.BlogPostID, c.AuthorName, c.AuthorEmail, c.AuthorIPAddress, c.Comment, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (d *DB) queryComments(query string, args ...any) ([]models.BlogComment, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.BlogComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// ListActiveComments returns the comments shown under a post, oldest first.
func (d *DB) ListActiveComments(postID int64) ([]models.BlogComment, error) {
	comments, err := d.queryComments(
		"SELECT "+commentColumns+" FROM blog_comments WHERE blog_post_id = ? AND removed_at IS NULL ORDER BY created_at",
		postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListAllComments returns every comment of a post, removed ones included.
func (d *DB) ListAllComments(postID int64) ([]models.BlogComment, error) {
	comments, err := d.queryComments(
		"SELECT "+commentColumns+" FROM blog_comments WHERE blog_post_id = ? ORDER BY created_at",
		postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// RemoveComment hides a comment and records who moderated it away.
func (d *DB) RemoveComment(id int64, removedBy string) error {
	res, err := d.db.Exec(
		"UPDATE blog_comments SET removed_at = ?, removed_by = ? WHERE id = ? AND removed_at IS NULL",
		time.Now().UTC(), removedBy, id)
	if err != nil {
		return fmt.Errorf("failed to remove comment %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
