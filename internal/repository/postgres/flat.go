package postgres

import (
	"context"
	"database/sql"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
)

type flatRepository struct {
	db *sql.DB
}

func NewFlatRepository(db *sql.DB) repository.FlatRepository {
	return &flatRepository{db: db}
}

func (r *flatRepository) Create(ctx context.Context, f *domain.Flat) error {
	query := `INSERT INTO flats (id, project_id, flat_type, application_id, created_on) VALUES ($1, $2, $3, $4, $5)`
	f.CreatedOn = time.Now().Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, query, f.ID, f.ProjectID, f.FlatType, f.ApplicationID, f.CreatedOn)
	return err
}

func (r *flatRepository) GetByID(ctx context.Context, id string) (*domain.Flat, error) {
	f := &domain.Flat{}
	query := `SELECT id, project_id, flat_type, application_id, created_on FROM flats WHERE id = $1`
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.ProjectID, &f.FlatType, &f.ApplicationID, &createdOn)
	if err != nil {
		return nil, notFound(err)
	}
	f.CreatedOn = createdOn.Format("2006-01-02")
	return f, nil
}

func (r *flatRepository) CountByProjectType(ctx context.Context, projectID int32, ft domain.FlatType) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM flats WHERE project_id = $1 AND flat_type = $2`
	err := r.db.QueryRowContext(ctx, query, projectID, ft).Scan(&count)
	return count, err
}

func (r *flatRepository) ListByProject(ctx context.Context, projectID int32) ([]domain.Flat, error) {
	query := `SELECT id, project_id, flat_type, application_id, created_on FROM flats WHERE project_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flats []domain.Flat
	for rows.Next() {
		var f domain.Flat
		var createdOn time.Time
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.FlatType, &f.ApplicationID, &createdOn); err != nil {
			return nil, err
		}
		f.CreatedOn = createdOn.Format("2006-01-02")
		flats = append(flats, f)
	}
	return flats, rows.Err()
}
