package postgres

import (
	"context"
	"database/sql"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (nric, name, age, marital_status, email, password_hash, role, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now().Format("2006-01-02")
	u.CreatedOn = now
	u.UpdatedOn = now
	_, err := r.db.ExecContext(ctx, query, u.NRIC, u.Name, u.Age, u.MaritalStatus, u.Email, u.PasswordHash, u.Role, u.CreatedOn, u.UpdatedOn)
	return err
}

func (r *userRepository) GetByNRIC(ctx context.Context, nric string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT nric, name, age, marital_status, COALESCE(email, ''), password_hash, role, created_on, updated_on
	          FROM users WHERE UPPER(nric) = UPPER($1)`
	var createdOn, updatedOn time.Time
	err := r.db.QueryRowContext(ctx, query, nric).Scan(&u.NRIC, &u.Name, &u.Age, &u.MaritalStatus, &u.Email, &u.PasswordHash, &u.Role, &createdOn, &updatedOn)
	if err != nil {
		return nil, notFound(err)
	}
	u.CreatedOn = createdOn.Format("2006-01-02")
	u.UpdatedOn = updatedOn.Format("2006-01-02")
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, age=$2, marital_status=$3, email=$4, password_hash=$5, updated_on=$6 WHERE nric=$7`
	u.UpdatedOn = time.Now().Format("2006-01-02")
	res, err := r.db.ExecContext(ctx, query, u.Name, u.Age, u.MaritalStatus, u.Email, u.PasswordHash, u.UpdatedOn, u.NRIC)
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

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	query := `SELECT nric, name, age, marital_status, COALESCE(email, ''), password_hash, role, created_on, updated_on
	          FROM users WHERE role = $1 ORDER BY nric`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var createdOn, updatedOn time.Time
		if err := rows.Scan(&u.NRIC, &u.Name, &u.Age, &u.MaritalStatus, &u.Email, &u.PasswordHash, &u.Role, &createdOn, &updatedOn); err != nil {
			return nil, err
		}
		u.CreatedOn = createdOn.Format("2006-01-02")
		u.UpdatedOn = updatedOn.Format("2006-01-02")
		users = append(users, u)
	}
	return users, rows.Err()
}
