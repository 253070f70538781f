// ABOUTME: SQLite persistence for editable page content and visitor feedback
// ABOUTME: Feedback is append-only and listed newest first

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const pageColumns = `id, slug, title, meta_description, content, display_order, created_at, updated_at`

func scanPage(row rowScanner) (*Page, error) {
	var p Page
	var createdAtStr, updatedAtStr string

	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.MetaDescription, &p.Content, &p.DisplayOrder, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	if err := parseTimes(createdAtStr, updatedAtStr, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPages returns pages in display order.
func (s *SQLiteStore) ListPages(ctx context.Context, filter ListFilter) ([]*Page, error) {
	clause, args := listClause(filter, filterColumns{})

	rows, err := s.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	out := []*Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating page rows: %w", err)
	}
	return out, nil
}

// GetPage retrieves a page by ID.
func (s *SQLiteStore) GetPage(ctx context.Context, id string) (*Page, error) {
	return onePage(s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id))
}

// GetPageBySlug retrieves the first page with the slug.
func (s *SQLiteStore) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	return onePage(s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ? ORDER BY display_order ASC, rowid ASC LIMIT 1`, slug))
}

func onePage(row *sql.Row) (*Page, error) {
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying page: %w", err)
	}
	return p, nil
}

// CreatePage inserts a page.
func (s *SQLiteStore) CreatePage(ctx context.Context, p *Page) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return s.execInsert(ctx, "inserting page", `
		INSERT INTO pages (`+pageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Slug, p.Title, p.MetaDescription, p.Content, p.DisplayOrder, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
}

// UpdatePage overwrites an existing page.
func (s *SQLiteStore) UpdatePage(ctx context.Context, p *Page) error {
	p.UpdatedAt = nowUTC()
	return s.execMutation(ctx, "updating page", `
		UPDATE pages SET slug = ?, title = ?, meta_description = ?, content = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`, p.Slug, p.Title, p.MetaDescription, p.Content, p.DisplayOrder, formatTime(p.UpdatedAt), p.ID)
}

// DeletePage removes a page by ID.
func (s *SQLiteStore) DeletePage(ctx context.Context, id string) error {
	return s.execMutation(ctx, "deleting page", `DELETE FROM pages WHERE id = ?`, id)
}

// CreateFeedback records a visitor submission.
func (s *SQLiteStore) CreateFeedback(ctx context.Context, f *Feedback) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = nowUTC()
	}

	var metadataJSON *string
	if len(f.Metadata) > 0 {
		data, err := json.Marshal(f.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling feedback metadata: %w", err)
		}
		str := string(data)
		metadataJSON = &str
	}

	err := s.execInsert(ctx, "inserting feedback", `
		INSERT INTO feedback (id, content, sentiment, page_url, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, f.ID, f.Content, f.Sentiment, f.PageURL, metadataJSON, formatTime(f.CreatedAt))
	if err != nil {
		return err
	}

	s.logger.Debug("recorded feedback", "id", f.ID, "page", f.PageURL)
	return nil
}

// ListFeedback returns the most recent feedback, newest first.
// If limit is 0 or negative, a default limit of 100 is used.
func (s *SQLiteStore) ListFeedback(ctx context.Context, limit int) ([]*Feedback, error) {
	limit = normalizeLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, sentiment, page_url, metadata_json, created_at
		FROM feedback
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	out := []*Feedback{}
	for rows.Next() {
		var f Feedback
		var metadataJSON *string
		var createdAtStr string

		if err := rows.Scan(&f.ID, &f.Content, &f.Sentiment, &f.PageURL, &metadataJSON, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		if metadataJSON != nil {
			if err := json.Unmarshal([]byte(*metadataJSON), &f.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling feedback metadata: %w", err)
			}
		}
		if err := parseTimes(createdAtStr, "", &f.CreatedAt, nil); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback rows: %w", err)
	}
	return out, nil
}
