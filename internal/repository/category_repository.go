package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (id, name, created_by, created_at)
        VALUES ($1,$2,$3,$4)`
	_, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		category.ID,
		category.Name,
		category.CreatedBy,
		category.CreatedAt,
	)
	return translate(err)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `SELECT id, name, created_by, created_at FROM categories WHERE id=$1`
	var category domain.Category
	if err := persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedBy,
		&category.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name, created_by, created_at FROM categories ORDER BY name`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var category domain.Category
		err := row.Scan(&category.ID, &category.Name, &category.CreatedBy, &category.CreatedAt)
		return category, err
	})
}
