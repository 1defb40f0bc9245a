package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (id, name, email, password_hash, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.PasswordHash,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	return translate(err)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, email=$2, password_hash=$3, updated_at=$4, deleted_at=$5
        WHERE id=$6`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		customer.Name,
		customer.Email,
		customer.PasswordHash,
		customer.UpdatedAt,
		customer.DeletedAt,
		customer.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at, deleted_at
        FROM customers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const query = `
        SELECT id, name, email, password_hash, created_at, updated_at, deleted_at
        FROM customers WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

// List pages through customers in sign up order, soft deleted ones included.
func (r *customerRepository) List(ctx context.Context, page Page) ([]domain.Customer, error) {
	query := `
        SELECT id, name, email, password_hash, created_at, updated_at, deleted_at
        FROM customers ORDER BY created_at, id`
	if page.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, max(page.Offset, 0))
	}
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Customer, error) {
		var customer domain.Customer
		err := row.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.PasswordHash,
			&customer.CreatedAt,
			&customer.UpdatedAt,
			&customer.DeletedAt,
		)
		return customer, err
	})
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	if err := persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.PasswordHash,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.DeletedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}
