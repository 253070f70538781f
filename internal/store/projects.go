// ABOUTME: SQLite persistence for portfolio projects
// ABOUTME: Images and tags are stored as JSON arrays; tag filters use json_each

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const projectColumns = `id, title, slug, description, content, client, year, role,
	thumbnail_url, images_json, tags_json, display_order, featured, scheduled, slug_pinned, created_at, updated_at`

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	var imagesJSON, tagsJSON, createdAtStr, updatedAtStr string

	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Description,
		&p.Content,
		&p.Client,
		&p.Year,
		&p.Role,
		&p.ThumbnailURL,
		&imagesJSON,
		&tagsJSON,
		&p.DisplayOrder,
		&p.Featured,
		&p.Scheduled,
		&p.SlugPinned,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, err
	}

	var err error
	if p.Images, err = decodeStrings(imagesJSON); err != nil {
		return nil, fmt.Errorf("decoding images: %w", err)
	}
	if p.Tags, err = decodeStrings(tagsJSON); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if err := parseTimes(createdAtStr, updatedAtStr, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns projects matching the filter, ordered by display_order.
func (s *SQLiteStore) ListProjects(ctx context.Context, filter ListFilter) ([]*Project, error) {
	clause, args := listClause(filter, filterColumns{featured: true, scheduled: true, tags: true})

	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}
	return projects, nil
}

// GetProject retrieves a project by ID.
// Returns ErrNotFound if the project doesn't exist.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return s.oneProject(row)
}

// GetProjectBySlug retrieves the first project (by display order) with the slug.
func (s *SQLiteStore) GetProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = ? ORDER BY display_order ASC, rowid ASC LIMIT 1`, slug)
	return s.oneProject(row)
}

func (s *SQLiteStore) oneProject(row *sql.Row) (*Project, error) {
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	return p, nil
}

// CreateProject inserts a project, generating its ID and timestamps when unset.
func (s *SQLiteStore) CreateProject(ctx context.Context, p *Project) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	imagesJSON, err := encodeStrings(p.Images)
	if err != nil {
		return fmt.Errorf("encoding images: %w", err)
	}
	tagsJSON, err := encodeStrings(p.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	err = s.execInsert(ctx, "inserting project", `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Title, p.Slug, p.Description, p.Content, p.Client, p.Year, p.Role,
		p.ThumbnailURL, imagesJSON, tagsJSON, p.DisplayOrder, boolInt(p.Featured), boolInt(p.Scheduled),
		boolInt(p.SlugPinned), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return err
	}

	s.logger.Debug("created project", "id", p.ID, "slug", p.Slug)
	return nil
}

// UpdateProject overwrites every mutable column of an existing project.
// Returns ErrNotFound if the project doesn't exist.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p *Project) error {
	p.UpdatedAt = nowUTC()

	imagesJSON, err := encodeStrings(p.Images)
	if err != nil {
		return fmt.Errorf("encoding images: %w", err)
	}
	tagsJSON, err := encodeStrings(p.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	err = s.execMutation(ctx, "updating project", `
		UPDATE projects
		SET title = ?, slug = ?, description = ?, content = ?, client = ?, year = ?, role = ?,
			thumbnail_url = ?, images_json = ?, tags_json = ?, display_order = ?, featured = ?,
			scheduled = ?, slug_pinned = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Title, p.Slug, p.Description, p.Content, p.Client, p.Year, p.Role,
		p.ThumbnailURL, imagesJSON, tagsJSON, p.DisplayOrder, boolInt(p.Featured),
		boolInt(p.Scheduled), boolInt(p.SlugPinned), formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return err
	}

	s.logger.Debug("updated project", "id", p.ID)
	return nil
}

// DeleteProject removes a project by ID.
// Returns ErrNotFound if the project doesn't exist.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	if err := s.execMutation(ctx, "deleting project", `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return err
	}
	s.logger.Debug("deleted project", "id", id)
	return nil
}
