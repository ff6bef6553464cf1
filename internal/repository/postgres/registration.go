package postgres

import (
	"context"
	"database/sql"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) repository.RegistrationRepository {
	return &registrationRepository{db: db}
}

const registrationColumns = `id, officer_nric, project_id, status, registered_on, decided_on`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.OfficerRegistration) error {
	query := `INSERT INTO officer_registrations (` + registrationColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, reg.ID, reg.OfficerNRIC, reg.ProjectID, reg.Status, reg.RegisteredOn, reg.DecidedOn)
	return err
}

func (r *registrationRepository) scanOne(row *sql.Row) (*domain.OfficerRegistration, error) {
	reg := &domain.OfficerRegistration{}
	err := row.Scan(&reg.ID, &reg.OfficerNRIC, &reg.ProjectID, &reg.Status, &reg.RegisteredOn, &reg.DecidedOn)
	if err != nil {
		return nil, notFound(err)
	}
	return reg, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.OfficerRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM officer_registrations WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByOfficerProject(ctx context.Context, officerNRIC string, projectID int32) (*domain.OfficerRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM officer_registrations WHERE officer_nric = $1 AND project_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, officerNRIC, projectID))
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.OfficerRegistration) error {
	query := `UPDATE officer_registrations SET status=$1, decided_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, reg.Status, reg.DecidedOn, reg.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) ListByOfficer(ctx context.Context, officerNRIC string) ([]domain.OfficerRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM officer_registrations WHERE officer_nric = $1 ORDER BY registered_on DESC`
	return r.list(ctx, query, officerNRIC)
}

func (r *registrationRepository) ListByProject(ctx context.Context, projectID int32) ([]domain.OfficerRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM officer_registrations WHERE project_id = $1 ORDER BY registered_on DESC`
	return r.list(ctx, query, projectID)
}

func (r *registrationRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.OfficerRegistration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []domain.OfficerRegistration
	for rows.Next() {
		var reg domain.OfficerRegistration
		if err := rows.Scan(&reg.ID, &reg.OfficerNRIC, &reg.ProjectID, &reg.Status, &reg.RegisteredOn, &reg.DecidedOn); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
