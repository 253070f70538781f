// ABOUTME: SQLite persistence for services offered on the /services pages
// ABOUTME: Deliverables are stored as a JSON array

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const serviceColumns = `id, title, slug, description, icon, deliverables_json, display_order, featured, slug_pinned, created_at, updated_at`

func scanService(row rowScanner) (*Service, error) {
	var sv Service
	var deliverablesJSON, createdAtStr, updatedAtStr string

	if err := row.Scan(
		&sv.ID,
		&sv.Title,
		&sv.Slug,
		&sv.Description,
		&sv.Icon,
		&deliverablesJSON,
		&sv.DisplayOrder,
		&sv.Featured,
		&sv.SlugPinned,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, err
	}

	var err error
	if sv.Deliverables, err = decodeStrings(deliverablesJSON); err != nil {
		return nil, fmt.Errorf("decoding deliverables: %w", err)
	}
	if err := parseTimes(createdAtStr, updatedAtStr, &sv.CreatedAt, &sv.UpdatedAt); err != nil {
		return nil, err
	}
	return &sv, nil
}

// ListServices returns services matching the filter, ordered by display_order.
func (s *SQLiteStore) ListServices(ctx context.Context, filter ListFilter) ([]*Service, error) {
	clause, args := listClause(filter, filterColumns{featured: true})

	rows, err := s.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer rows.Close()

	services := []*Service{}
	for rows.Next() {
		sv, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning service row: %w", err)
		}
		services = append(services, sv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service rows: %w", err)
	}
	return services, nil
}

// GetService retrieves a service by ID.
func (s *SQLiteStore) GetService(ctx context.Context, id string) (*Service, error) {
	return oneService(s.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id))
}

// GetServiceBySlug retrieves the first service (by display order) with the slug.
func (s *SQLiteStore) GetServiceBySlug(ctx context.Context, slug string) (*Service, error) {
	return oneService(s.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE slug = ? ORDER BY display_order ASC, rowid ASC LIMIT 1`, slug))
}

func oneService(row *sql.Row) (*Service, error) {
	sv, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying service: %w", err)
	}
	return sv, nil
}

// CreateService inserts a service.
func (s *SQLiteStore) CreateService(ctx context.Context, sv *Service) error {
	stamp(&sv.ID, &sv.CreatedAt, &sv.UpdatedAt)

	deliverablesJSON, err := encodeStrings(sv.Deliverables)
	if err != nil {
		return fmt.Errorf("encoding deliverables: %w", err)
	}

	err = s.execInsert(ctx, "inserting service", `
		INSERT INTO services (`+serviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sv.ID, sv.Title, sv.Slug, sv.Description, sv.Icon, deliverablesJSON,
		sv.DisplayOrder, boolInt(sv.Featured), boolInt(sv.SlugPinned), formatTime(sv.CreatedAt), formatTime(sv.UpdatedAt),
	)
	if err != nil {
		return err
	}

	s.logger.Debug("created service", "id", sv.ID, "slug", sv.Slug)
	return nil
}

// UpdateService overwrites an existing service.
func (s *SQLiteStore) UpdateService(ctx context.Context, sv *Service) error {
	sv.UpdatedAt = nowUTC()

	deliverablesJSON, err := encodeStrings(sv.Deliverables)
	if err != nil {
		return fmt.Errorf("encoding deliverables: %w", err)
	}

	err = s.execMutation(ctx, "updating service", `
		UPDATE services
		SET title = ?, slug = ?, description = ?, icon = ?, deliverables_json = ?,
			display_order = ?, featured = ?, slug_pinned = ?, updated_at = ?
		WHERE id = ?
	`,
		sv.Title, sv.Slug, sv.Description, sv.Icon, deliverablesJSON,
		sv.DisplayOrder, boolInt(sv.Featured), boolInt(sv.SlugPinned), formatTime(sv.UpdatedAt),
		sv.ID,
	)
	if err != nil {
		return err
	}

	s.logger.Debug("updated service", "id", sv.ID)
	return nil
}

// DeleteService removes a service by ID.
func (s *SQLiteStore) DeleteService(ctx context.Context, id string) error {
	return s.execMutation(ctx, "deleting service", `DELETE FROM services WHERE id = ?`, id)
}
