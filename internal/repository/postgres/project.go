package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
)

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO projects (name, neighborhood, open_date, close_date, manager_nric, officer_slot_capacity, available_officer_slots, officer_nrics, visible, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	p.CreatedOn = time.Now().Format("2006-01-02")
	err = tx.QueryRowContext(ctx, query,
		p.Name, p.Neighborhood, p.OpenDate, p.CloseDate, p.ManagerNRIC,
		p.OfficerSlotCapacity, p.AvailableOfficerSlots, strings.Join(p.OfficerNRICs, ";"), p.Visible, p.CreatedOn,
	).Scan(&p.ID)
	if err != nil {
		return err
	}

	unitQuery := `INSERT INTO project_units (project_id, flat_type, total_units, available_units) VALUES ($1, $2, $3, $4)`
	for _, inv := range p.Inventory {
		if _, err := tx.ExecContext(ctx, unitQuery, p.ID, inv.FlatType, inv.TotalUnits, inv.AvailableUnits); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *projectRepository) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	p := &domain.Project{}
	query := `SELECT id, name, neighborhood, open_date, close_date, manager_nric, officer_slot_capacity, available_officer_slots, COALESCE(officer_nrics, ''), visible, created_on
	          FROM projects WHERE id = $1`
	var officers string
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Neighborhood, &p.OpenDate, &p.CloseDate, &p.ManagerNRIC,
		&p.OfficerSlotCapacity, &p.AvailableOfficerSlots, &officers, &p.Visible, &createdOn,
	)
	if err != nil {
		return nil, notFound(err)
	}
	p.CreatedOn = createdOn.Format("2006-01-02")
	if officers != "" {
		p.OfficerNRICs = strings.Split(officers, ";")
	}
	if err := r.loadInventory(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepository) loadInventory(ctx context.Context, p *domain.Project) error {
	query := `SELECT flat_type, total_units, available_units FROM project_units WHERE project_id = $1 ORDER BY flat_type`
	rows, err := r.db.QueryContext(ctx, query, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Inventory = nil
	for rows.Next() {
		var inv domain.FlatTypeInventory
		if err := rows.Scan(&inv.FlatType, &inv.TotalUnits, &inv.AvailableUnits); err != nil {
			return err
		}
		p.Inventory = append(p.Inventory, inv)
	}
	return rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name=$1, neighborhood=$2, open_date=$3, close_date=$4, manager_nric=$5, visible=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Neighborhood, p.OpenDate, p.CloseDate, p.ManagerNRIC, p.Visible, p.ID)
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

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	return r.list(ctx, `SELECT id FROM projects ORDER BY open_date DESC`)
}

func (r *projectRepository) ListVisibleOpen(ctx context.Context, asOf time.Time) ([]domain.Project, error) {
	query := `SELECT id FROM projects WHERE visible = TRUE AND open_date <= $1 AND close_date >= $1 ORDER BY open_date DESC`
	return r.list(ctx, query, asOf)
}

func (r *projectRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var projects []domain.Project
	for _, id := range ids {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, nil
}

func (r *projectRepository) SetVisibility(ctx context.Context, id int32, visible bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET visible = $1 WHERE id = $2`, visible, id)
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

// ReserveUnit is a single conditional update so two concurrent approvals can
// never both consume the last unit.
func (r *projectRepository) ReserveUnit(ctx context.Context, projectID int32, ft domain.FlatType) error {
	query := `UPDATE project_units SET available_units = available_units - 1
	          WHERE project_id = $1 AND flat_type = $2 AND available_units > 0`
	res, err := r.db.ExecContext(ctx, query, projectID, ft)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNoUnitsAvailable
	}
	return nil
}

// ReleaseUnit caps available at total, tolerating duplicate withdrawal
// processing.
func (r *projectRepository) ReleaseUnit(ctx context.Context, projectID int32, ft domain.FlatType) error {
	query := `UPDATE project_units SET available_units = available_units + 1
	          WHERE project_id = $1 AND flat_type = $2 AND available_units < total_units`
	_, err := r.db.ExecContext(ctx, query, projectID, ft)
	return err
}

func (r *projectRepository) TakeOfficerSlot(ctx context.Context, projectID int32, officerNRIC string) error {
	query := `UPDATE projects
	          SET available_officer_slots = available_officer_slots - 1,
	              officer_nrics = CASE WHEN COALESCE(officer_nrics, '') = '' THEN $2
	                                   ELSE officer_nrics || ';' || $2 END
	          WHERE id = $1 AND available_officer_slots > 0`
	res, err := r.db.ExecContext(ctx, query, projectID, officerNRIC)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNoOfficerSlots
	}
	return nil
}

func (r *projectRepository) ReturnOfficerSlot(ctx context.Context, projectID int32, officerNRIC string) error {
	p, err := r.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	var kept []string
	for _, nric := range p.OfficerNRICs {
		if nric != officerNRIC {
			kept = append(kept, nric)
		}
	}
	query := `UPDATE projects
	          SET available_officer_slots = LEAST(available_officer_slots + 1, officer_slot_capacity),
	              officer_nrics = $2
	          WHERE id = $1`
	_, err = r.db.ExecContext(ctx, query, projectID, strings.Join(kept, ";"))
	return err
}
