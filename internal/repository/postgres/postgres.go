package postgres

import (
	"database/sql"
	"errors"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ProjectRepository
	repository.ApplicationRepository
	repository.FlatRepository
	repository.RegistrationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ProjectRepository:      NewProjectRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		FlatRepository:         NewFlatRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// notFound maps the driver's no-rows condition onto the domain taxonomy so
// callers never have to know about database/sql.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
