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

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// List returns a page of posts ordered by creation time descending,
	// along with the total row count for the filter. featured == nil means
	// no featured filtering.
	List(ctx context.Context, featured *bool, limit, offset int) ([]model.Post, int, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}

type pgPostRepository struct {
	db *sql.DB
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db}
}

func (r *pgPostRepository) Create(ctx context.Context, p *model.Post) error {
	query := `INSERT INTO posts (id, title, body, thumbnail, featured, author_id)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Title, p.Body, p.Thumbnail, p.Featured, p.AuthorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("post already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	query := `
        SELECT p.id, p.title, p.body, p.thumbnail, p.featured,
               p.author_id, u.name AS author_name, p.created_at, p.updated_at
        FROM posts p
        LEFT JOIN users u ON p.author_id = u.id
        WHERE p.id = $1`

	post := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Body, &post.Thumbnail, &post.Featured,
		&post.AuthorID, &post.AuthorName, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPostRepository.FindByID: %w", err)
	}
	return post, nil
}

func (r *pgPostRepository) List(ctx context.Context, featured *bool, limit, offset int) ([]model.Post, int, error) {
	query := `
        SELECT p.id, p.title, p.body, p.thumbnail, p.featured,
               p.author_id, u.name AS author_name, p.created_at, p.updated_at,
               COUNT(*) OVER() AS total
        FROM posts p
        LEFT JOIN users u ON p.author_id = u.id
        WHERE ($1::boolean IS NULL OR p.featured = $1)
        ORDER BY p.created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, featured, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgPostRepository.List: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	total := 0
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Body, &p.Thumbnail, &p.Featured,
			&p.AuthorID, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("pgPostRepository.List scan: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgPostRepository.List rows: %w", err)
	}
	return posts, total, nil
}

func (r *pgPostRepository) Update(ctx context.Context, p *model.Post) error {
	query := `UPDATE posts SET
                title = $1, body = $2, thumbnail = $3, featured = $4,
                updated_at = CURRENT_TIMESTAMP
              WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, p.Title, p.Body, p.Thumbnail, p.Featured, p.ID)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
