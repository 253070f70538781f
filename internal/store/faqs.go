// ABOUTME: SQLite persistence for FAQ entries and process steps
// ABOUTME: Both are plain ordered lists without slugs

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const faqColumns = `id, question, answer, category, display_order, created_at, updated_at`

func scanFAQ(row rowScanner) (*FAQ, error) {
	var f FAQ
	var createdAtStr, updatedAtStr string

	if err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Category, &f.DisplayOrder, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	if err := parseTimes(createdAtStr, updatedAtStr, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFAQs returns FAQs matching the filter. Category is honoured; Featured is ignored.
func (s *SQLiteStore) ListFAQs(ctx context.Context, filter ListFilter) ([]*FAQ, error) {
	clause, args := listClause(filter, filterColumns{category: true})

	rows, err := s.db.QueryContext(ctx, `SELECT `+faqColumns+` FROM faqs`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying faqs: %w", err)
	}
	defer rows.Close()

	out := []*FAQ{}
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning faq row: %w", err)
		}
		out = append(out, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating faq rows: %w", err)
	}
	return out, nil
}

// GetFAQ retrieves an FAQ by ID.
func (s *SQLiteStore) GetFAQ(ctx context.Context, id string) (*FAQ, error) {
	f, err := scanFAQ(s.db.QueryRowContext(ctx, `SELECT `+faqColumns+` FROM faqs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying faq: %w", err)
	}
	return f, nil
}

// CreateFAQ inserts an FAQ.
func (s *SQLiteStore) CreateFAQ(ctx context.Context, f *FAQ) error {
	stamp(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	return s.execInsert(ctx, "inserting faq", `
		INSERT INTO faqs (`+faqColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Question, f.Answer, f.Category, f.DisplayOrder, formatTime(f.CreatedAt), formatTime(f.UpdatedAt))
}

// UpdateFAQ overwrites an existing FAQ.
func (s *SQLiteStore) UpdateFAQ(ctx context.Context, f *FAQ) error {
	f.UpdatedAt = nowUTC()
	return s.execMutation(ctx, "updating faq", `
		UPDATE faqs SET question = ?, answer = ?, category = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`, f.Question, f.Answer, f.Category, f.DisplayOrder, formatTime(f.UpdatedAt), f.ID)
}

// DeleteFAQ removes an FAQ by ID.
func (s *SQLiteStore) DeleteFAQ(ctx context.Context, id string) error {
	return s.execMutation(ctx, "deleting faq", `DELETE FROM faqs WHERE id = ?`, id)
}

const processStepColumns = `id, title, description, icon, display_order, created_at, updated_at`

func scanProcessStep(row rowScanner) (*ProcessStep, error) {
	var p ProcessStep
	var createdAtStr, updatedAtStr string

	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Icon, &p.DisplayOrder, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	if err := parseTimes(createdAtStr, updatedAtStr, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProcessSteps returns process steps in display order. Only Limit applies.
func (s *SQLiteStore) ListProcessSteps(ctx context.Context, filter ListFilter) ([]*ProcessStep, error) {
	clause, args := listClause(filter, filterColumns{})

	rows, err := s.db.QueryContext(ctx, `SELECT `+processStepColumns+` FROM process_steps`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying process steps: %w", err)
	}
	defer rows.Close()

	out := []*ProcessStep{}
	for rows.Next() {
		p, err := scanProcessStep(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning process step row: %w", err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating process step rows: %w", err)
	}
	return out, nil
}

// GetProcessStep retrieves a process step by ID.
func (s *SQLiteStore) GetProcessStep(ctx context.Context, id string) (*ProcessStep, error) {
	p, err := scanProcessStep(s.db.QueryRowContext(ctx,
		`SELECT `+processStepColumns+` FROM process_steps WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying process step: %w", err)
	}
	return p, nil
}

// CreateProcessStep inserts a process step.
func (s *SQLiteStore) CreateProcessStep(ctx context.Context, p *ProcessStep) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return s.execInsert(ctx, "inserting process step", `
		INSERT INTO process_steps (`+processStepColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Description, p.Icon, p.DisplayOrder, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
}

// UpdateProcessStep overwrites an existing process step.
func (s *SQLiteStore) UpdateProcessStep(ctx context.Context, p *ProcessStep) error {
	p.UpdatedAt = nowUTC()
	return s.execMutation(ctx, "updating process step", `
		UPDATE process_steps SET title = ?, description = ?, icon = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Description, p.Icon, p.DisplayOrder, formatTime(p.UpdatedAt), p.ID)
}

// DeleteProcessStep removes a process step by ID.
func (s *SQLiteStore) DeleteProcessStep(ctx context.Context, id string) error {
	return s.execMutation(ctx, "deleting process step", `DELETE FROM process_steps WHERE id = ?`, id)
}
