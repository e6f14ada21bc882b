package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkfolio/internal/common"
	"inkfolio/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, featured *bool, limit, offset int) ([]model.Project, int, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

type pgProjectRepository struct {
	db *sql.DB
}

func NewPgProjectRepository(db *sql.DB) ProjectRepository {
	return &pgProjectRepository{db: db}
}

func (r *pgProjectRepository) Create(ctx context.Context, p *model.Project) error {
	query := `INSERT INTO projects (id, title, summary, link, body, thumbnail, featured, author_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Title, p.Summary, p.Link, p.Body, p.Thumbnail, p.Featured, p.AuthorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("project already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProjectRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	query := `
        SELECT p.id, p.title, p.summary, p.link, p.body, p.thumbnail, p.featured,
               p.author_id, u.name AS author_name, p.created_at, p.updated_at
        FROM projects p
        LEFT JOIN users u ON p.author_id = u.id
        WHERE p.id = $1`

	project := &model.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Title, &project.Summary, &project.Link, &project.Body,
		&project.Thumbnail, &project.Featured,
		&project.AuthorID, &project.AuthorName, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProjectRepository.FindByID: %w", err)
	}
	return project, nil
}

func (r *pgProjectRepository) List(ctx context.Context, featured *bool, limit, offset int) ([]model.Project, int, error) {
	query := `
        SELECT p.id, p.title, p.summary, p.link, p.body, p.thumbnail, p.featured,
               p.author_id, u.name AS author_name, p.created_at, p.updated_at,
               COUNT(*) OVER() AS total
        FROM projects p
        LEFT JOIN users u ON p.author_id = u.id
        WHERE ($1::boolean IS NULL OR p.featured = $1)
        ORDER BY p.created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, featured, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProjectRepository.List: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	total := 0
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Summary, &p.Link, &p.Body, &p.Thumbnail, &p.Featured,
			&p.AuthorID, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("pgProjectRepository.List scan: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgProjectRepository.List rows: %w", err)
	}
	return projects, total, nil
}

func (r *pgProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `UPDATE projects SET
                title = $1, summary = $2, link = $3, body = $4, thumbnail = $5,
                featured = $6, updated_at = CURRENT_TIMESTAMP
              WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query, p.Title, p.Summary, p.Link, p.Body, p.Thumbnail, p.Featured, p.ID)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProjectRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
