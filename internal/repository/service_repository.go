package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
)

const serviceColumns = `id, category_id, created_by, name, price_cents, created_at, updated_at, deleted_at`

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository instantiates the repository.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (id, category_id, created_by, name, price_cents, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		service.ID,
		service.CategoryID,
		service.CreatedBy,
		service.Name,
		service.Price.Cents(),
		service.CreatedAt,
		service.UpdatedAt,
	)
	return translate(err)
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET category_id=$1, name=$2, price_cents=$3, updated_at=$4, deleted_at=$5
        WHERE id=$6`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		service.CategoryID,
		service.Name,
		service.Price.Cents(),
		service.UpdatedAt,
		service.DeletedAt,
		service.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id=$1`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	service, err := pgx.CollectOneRow(rows, scanService)
	if err != nil {
		return nil, translate(err)
	}
	return &service, nil
}

// List pages through every service, soft deleted ones included.
func (r *serviceRepository) List(ctx context.Context, page Page) ([]domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY name`
	if page.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, max(page.Offset, 0))
	}
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanService)
}

func scanService(row pgx.CollectableRow) (domain.Service, error) {
	var (
		service    domain.Service
		priceCents int64
	)
	if err := row.Scan(
		&service.ID,
		&service.CategoryID,
		&service.CreatedBy,
		&service.Name,
		&priceCents,
		&service.CreatedAt,
		&service.UpdatedAt,
		&service.DeletedAt,
	); err != nil {
		return domain.Service{}, err
	}
	service.Price = domain.MoneyFromCents(priceCents)
	return service, nil
}
