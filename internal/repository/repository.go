package repository

import (
	"context"
	"time"

	"bto-portal-backend/internal/domain"
)

// Implementations translate their storage-level "no rows" condition into
// domain.ErrNotFound so services never synthesize placeholder records.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByNRIC(ctx context.Context, nric string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id int32) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	List(ctx context.Context) ([]domain.Project, error)
	ListVisibleOpen(ctx context.Context, asOf time.Time) ([]domain.Project, error)
	SetVisibility(ctx context.Context, id int32, visible bool) error

	// Inventory ledger. ReserveUnit decrements available by one iff it is
	// positive and returns domain.ErrNoUnitsAvailable otherwise. ReleaseUnit
	// increments available capped at total, so duplicate releases are safe.
	ReserveUnit(ctx context.Context, projectID int32, ft domain.FlatType) error
	ReleaseUnit(ctx context.Context, projectID int32, ft domain.FlatType) error

	// Officer slot bookkeeping, guarded the same way as inventory.
	TakeOfficerSlot(ctx context.Context, projectID int32, officerNRIC string) error
	ReturnOfficerSlot(ctx context.Context, projectID int32, officerNRIC string) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	// GetActiveByApplicant returns the applicant's single non-terminal
	// application, or domain.ErrNotFound when there is none.
	GetActiveByApplicant(ctx context.Context, nric string) (*domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	ListByApplicant(ctx context.Context, nric string) ([]domain.Application, error)
	ListByProject(ctx context.Context, projectID int32, status string, page, pageSize int32) ([]domain.Application, int32, error)
	ExistsForApplicantProject(ctx context.Context, nric string, projectID int32) (bool, error)
}

type FlatRepository interface {
	Create(ctx context.Context, flat *domain.Flat) error
	GetByID(ctx context.Context, id string) (*domain.Flat, error)
	CountByProjectType(ctx context.Context, projectID int32, ft domain.FlatType) (int32, error)
	ListByProject(ctx context.Context, projectID int32) ([]domain.Flat, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.OfficerRegistration) error
	GetByID(ctx context.Context, id string) (*domain.OfficerRegistration, error)
	GetByOfficerProject(ctx context.Context, officerNRIC string, projectID int32) (*domain.OfficerRegistration, error)
	Update(ctx context.Context, reg *domain.OfficerRegistration) error
	ListByOfficer(ctx context.Context, officerNRIC string) ([]domain.OfficerRegistration, error)
	ListByProject(ctx context.Context, projectID int32) ([]domain.OfficerRegistration, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userNRIC string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id int32, userNRIC string) error
}
