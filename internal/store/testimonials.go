// ABOUTME: SQLite persistence for client testimonials
// ABOUTME: Testimonials may reference a project by ID and carry a process phase tag

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const testimonialColumns = `id, quote, author, title, company, avatar_url, project_id, phase_tag,
	featured, display_order, created_at, updated_at`

func scanTestimonial(row rowScanner) (*Testimonial, error) {
	var t Testimonial
	var createdAtStr, updatedAtStr string

	if err := row.Scan(
		&t.ID,
		&t.Quote,
		&t.Author,
		&t.Title,
		&t.Company,
		&t.AvatarURL,
		&t.ProjectID,
		&t.PhaseTag,
		&t.Featured,
		&t.DisplayOrder,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, err
	}

	if err := parseTimes(createdAtStr, updatedAtStr, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTestimonials returns testimonials matching the filter.
func (s *SQLiteStore) ListTestimonials(ctx context.Context, filter ListFilter) ([]*Testimonial, error) {
	clause, args := listClause(filter, filterColumns{featured: true})

	rows, err := s.db.QueryContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying testimonials: %w", err)
	}
	defer rows.Close()

	out := []*Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning testimonial row: %w", err)
		}
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating testimonial rows: %w", err)
	}
	return out, nil
}

// GetTestimonial retrieves a testimonial by ID.
func (s *SQLiteStore) GetTestimonial(ctx context.Context, id string) (*Testimonial, error) {
	t, err := scanTestimonial(s.db.QueryRowContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying testimonial: %w", err)
	}
	return t, nil
}

// CreateTestimonial inserts a testimonial.
func (s *SQLiteStore) CreateTestimonial(ctx context.Context, t *Testimonial) error {
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	err := s.execInsert(ctx, "inserting testimonial", `
		INSERT INTO testimonials (`+testimonialColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.Quote, t.Author, t.Title, t.Company, t.AvatarURL, t.ProjectID, t.PhaseTag,
		boolInt(t.Featured), t.DisplayOrder, formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return err
	}

	s.logger.Debug("created testimonial", "id", t.ID, "author", t.Author)
	return nil
}

// UpdateTestimonial overwrites an existing testimonial.
func (s *SQLiteStore) UpdateTestimonial(ctx context.Context, t *Testimonial) error {
	t.UpdatedAt = nowUTC()
	return s.execMutation(ctx, "updating testimonial", `
		UPDATE testimonials
		SET quote = ?, author = ?, title = ?, company = ?, avatar_url = ?, project_id = ?,
			phase_tag = ?, featured = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`,
		t.Quote, t.Author, t.Title, t.Company, t.AvatarURL, t.ProjectID,
		t.PhaseTag, boolInt(t.Featured), t.DisplayOrder, formatTime(t.UpdatedAt),
		t.ID,
	)
}

// DeleteTestimonial removes a testimonial by ID.
func (s *SQLiteStore) DeleteTestimonial(ctx context.Context, id string) error {
	return s.execMutation(ctx, "deleting testimonial", `DELETE FROM testimonials WHERE id = ?`, id)
}
