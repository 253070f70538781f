// ABOUTME: SQLite persistence for contact form submissions
// ABOUTME: Append-only; the admin list is newest first

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateContactSubmission records a message from the contact form.
func (s *SQLiteStore) CreateContactSubmission(ctx context.Context, c *ContactSubmission) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}

	err := s.execInsert(ctx, "inserting contact submission", `
		INSERT INTO contact_submissions (id, name, email, company, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, c.Company, c.Message, formatTime(c.CreatedAt))
	if err != nil {
		return err
	}

	s.logger.Debug("recorded contact submission", "id", c.ID)
	return nil
}

// ListContactSubmissions returns the most recent submissions, newest first.
// If limit is 0 or negative, a default limit of 100 is used.
func (s *SQLiteStore) ListContactSubmissions(ctx context.Context, limit int) ([]*ContactSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, company, message, created_at
		FROM contact_submissions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying contact submissions: %w", err)
	}
	defer rows.Close()

	out := []*ContactSubmission{}
	for rows.Next() {
		var c ContactSubmission
		var createdAtStr string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Message, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning contact submission row: %w", err)
		}
		if err := parseTimes(createdAtStr, "", &c.CreatedAt, nil); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact submission rows: %w", err)
	}
	return out, nil
}
