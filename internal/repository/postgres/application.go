package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, applicant_nric, project_id, requested_flat_type, status, prior_status, booked_flat_id, applied_on, status_updated_on`

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	query := `INSERT INTO applications (` + applicationColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ApplicantNRIC, a.ProjectID, a.RequestedFlatType, a.Status, a.PriorStatus, a.BookedFlatID, a.AppliedOn, a.StatusUpdatedOn)
	return err
}

func (r *applicationRepository) scanOne(row *sql.Row) (*domain.Application, error) {
	a := &domain.Application{}
	err := row.Scan(&a.ID, &a.ApplicantNRIC, &a.ProjectID, &a.RequestedFlatType, &a.Status, &a.PriorStatus, &a.BookedFlatID, &a.AppliedOn, &a.StatusUpdatedOn)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *applicationRepository) GetActiveByApplicant(ctx context.Context, nric string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
	          WHERE applicant_nric = $1 AND status <> $2
	          ORDER BY applied_on DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, nric, domain.ApplicationStatusUnsuccessful))
}

func (r *applicationRepository) Update(ctx context.Context, a *domain.Application) error {
	query := `UPDATE applications SET status=$1, prior_status=$2, booked_flat_id=$3, status_updated_on=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, a.Status, a.PriorStatus, a.BookedFlatID, a.StatusUpdatedOn, a.ID)
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

func (r *applicationRepository) ListByApplicant(ctx context.Context, nric string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE applicant_nric = $1 ORDER BY applied_on DESC`
	rows, err := r.db.QueryContext(ctx, query, nric)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepository) ListByProject(ctx context.Context, projectID int32, status string, page, pageSize int32) ([]domain.Application, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE project_id = $1`
	args := []interface{}{projectID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY applied_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps, err := scanApplications(rows)
	if err != nil {
		return nil, 0, err
	}
	return apps, count, nil
}

func (r *applicationRepository) ExistsForApplicantProject(ctx context.Context, nric string, projectID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE applicant_nric = $1 AND project_id = $2)`
	err := r.db.QueryRowContext(ctx, query, nric, projectID).Scan(&exists)
	return exists, err
}

func scanApplications(rows *sql.Rows) ([]domain.Application, error) {
	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.ApplicantNRIC, &a.ProjectID, &a.RequestedFlatType, &a.Status, &a.PriorStatus, &a.BookedFlatID, &a.AppliedOn, &a.StatusUpdatedOn); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
