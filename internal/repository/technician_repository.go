package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
)

const technicianColumns = `id, name, email, password_hash, must_update_password, created_at, updated_at, deleted_at`

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository. Create and Update
// write the technician row and its schedules; callers that need atomicity
// wrap them in a persistence.Transactor.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	const query = `
        INSERT INTO technicians (id, name, email, password_hash, must_update_password, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	q := persistence.QuerierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, query,
		technician.ID,
		technician.Name,
		technician.Email,
		technician.PasswordHash,
		technician.MustUpdatePassword,
		technician.CreatedAt,
		technician.UpdatedAt,
	); err != nil {
		return translate(err)
	}
	return r.insertSchedules(ctx, q, technician.Availability)
}

func (r *technicianRepository) Update(ctx context.Context, technician *domain.Technician) error {
	const query = `
        UPDATE technicians
        SET name=$1, email=$2, password_hash=$3, must_update_password=$4, updated_at=$5, deleted_at=$6
        WHERE id=$7`
	q := persistence.QuerierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query,
		technician.Name,
		technician.Email,
		technician.PasswordHash,
		technician.MustUpdatePassword,
		technician.UpdatedAt,
		technician.DeletedAt,
		technician.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := q.Exec(ctx, `DELETE FROM work_schedules WHERE technician_id=$1`, technician.ID); err != nil {
		return err
	}
	return r.insertSchedules(ctx, q, technician.Availability)
}

func (r *technicianRepository) insertSchedules(ctx context.Context, q persistence.Querier, schedules []domain.WorkSchedule) error {
	const query = `
        INSERT INTO work_schedules (id, technician_id, weekday, before_lunch_start, before_lunch_end, after_lunch_start, after_lunch_end)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	for _, schedule := range schedules {
		if _, err := q.Exec(ctx, query,
			schedule.ID,
			schedule.TechnicianID,
			schedule.Weekday,
			schedule.BeforeLunch.Start().String(),
			schedule.BeforeLunch.End().String(),
			schedule.AfterLunch.Start().String(),
			schedule.AfterLunch.End().String(),
		); err != nil {
			return translate(err)
		}
	}
	return nil
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	return r.fetchSingle(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id=$1`, id)
}

func (r *technicianRepository) GetByEmail(ctx context.Context, email string) (*domain.Technician, error) {
	return r.fetchSingle(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE email=$1`, email)
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	technician, err := pgx.CollectOneRow(rows, scanTechnician)
	if err != nil {
		return nil, translate(err)
	}
	technicians := []domain.Technician{technician}
	if err := r.attachSchedules(ctx, technicians); err != nil {
		return nil, err
	}
	return &technicians[0], nil
}

// List returns every technician, soft deleted ones included.
func (r *technicianRepository) List(ctx context.Context) ([]domain.Technician, error) {
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx,
		`SELECT `+technicianColumns+` FROM technicians ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	technicians, err := pgx.CollectRows(rows, scanTechnician)
	if err != nil {
		return nil, err
	}
	if err := r.attachSchedules(ctx, technicians); err != nil {
		return nil, err
	}
	return technicians, nil
}

func (r *technicianRepository) attachSchedules(ctx context.Context, technicians []domain.Technician) error {
	if len(technicians) == 0 {
		return nil
	}
	ids := make([]string, len(technicians))
	index := make(map[string]int, len(technicians))
	for i, technician := range technicians {
		ids[i] = technician.ID
		index[technician.ID] = i
	}

	const query = `
        SELECT id, technician_id, weekday, before_lunch_start, before_lunch_end, after_lunch_start, after_lunch_end
        FROM work_schedules WHERE technician_id = ANY($1::uuid[])`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, technicianID, weekday string
			beforeStart, beforeEnd    string
			afterStart, afterEnd      string
		)
		if err := rows.Scan(&id, &technicianID, &weekday, &beforeStart, &beforeEnd, &afterStart, &afterEnd); err != nil {
			return err
		}
		schedule, err := domain.NewWorkSchedule(id, technicianID, domain.WorkScheduleInput{
			Weekday:          weekday,
			BeforeLunchStart: beforeStart,
			BeforeLunchEnd:   beforeEnd,
			AfterLunchStart:  afterStart,
			AfterLunchEnd:    afterEnd,
		})
		if err != nil {
			return fmt.Errorf("stored work schedule %s: %w", id, err)
		}
		i := index[technicianID]
		technicians[i].Availability = append(technicians[i].Availability, schedule)
	}
	return rows.Err()
}

func scanTechnician(row pgx.CollectableRow) (domain.Technician, error) {
	var technician domain.Technician
	err := row.Scan(
		&technician.ID,
		&technician.Name,
		&technician.Email,
		&technician.PasswordHash,
		&technician.MustUpdatePassword,
		&technician.CreatedAt,
		&technician.UpdatedAt,
		&technician.DeletedAt,
	)
	return technician, err
}
