package service

import (
	"context"

	"bto-portal-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, nric, name string, age int32, marital domain.MaritalStatus, email, password string) (*domain.User, error)
	Login(ctx context.Context, nric, password string) (string, string, *domain.User, error) // access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type ProjectService interface {
	CreateProject(ctx context.Context, managerNRIC string, project *domain.Project) error
	GetProject(ctx context.Context, id int32) (*domain.Project, error)
	// ListOpenProjects returns projects an applicant may currently discover:
	// visible and inside their application window.
	ListOpenProjects(ctx context.Context) ([]domain.Project, error)
	// ListAllProjects is the staff view and includes hidden/closed projects.
	ListAllProjects(ctx context.Context, requesterNRIC string) ([]domain.Project, error)
	SetVisibility(ctx context.Context, managerNRIC string, projectID int32, visible bool) error
	// EligibleFlatTypes exposes the eligibility evaluator for a given
	// applicant and project, for display before submission.
	EligibleFlatTypes(ctx context.Context, applicantNRIC string, projectID int32) ([]domain.FlatType, error)
}

type ApplicationService interface {
	Apply(ctx context.Context, applicantNRIC string, projectID int32, requestedType domain.FlatType) (*domain.Application, error)
	Decide(ctx context.Context, managerNRIC, applicationID string, approve bool) (*domain.Application, error)
	Book(ctx context.Context, officerNRIC, applicationID string, chosenType domain.FlatType) (*domain.Application, *domain.Flat, error)
	RequestWithdrawal(ctx context.Context, applicantNRIC, applicationID string) (*domain.Application, error)
	ResolveWithdrawal(ctx context.Context, managerNRIC, applicationID string, approve bool) (*domain.Application, error)
	GetApplication(ctx context.Context, requesterNRIC, applicationID string) (*domain.Application, error)
	ListMyApplications(ctx context.Context, applicantNRIC string) ([]domain.Application, error)
	ListProjectApplications(ctx context.Context, requesterNRIC string, projectID int32, status string, page, pageSize int32) ([]domain.Application, int32, error)
}

type RegistrationService interface {
	Register(ctx context.Context, officerNRIC string, projectID int32) (*domain.OfficerRegistration, error)
	Decide(ctx context.Context, managerNRIC, registrationID string, approve bool) (*domain.OfficerRegistration, error)
	ListMyRegistrations(ctx context.Context, officerNRIC string) ([]domain.OfficerRegistration, error)
	ListProjectRegistrations(ctx context.Context, managerNRIC string, projectID int32) ([]domain.OfficerRegistration, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userNRIC string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userNRIC string, notificationID int32) error
}

type EmailService interface {
	SendApplicationReceipt(ctx context.Context, email, name, projectName string, flatType domain.FlatType) error
	SendApplicationOutcome(ctx context.Context, email, name, projectName string, status domain.ApplicationStatus) error
	SendBookingConfirmation(ctx context.Context, email, name, projectName, flatID string) error
	SendWithdrawalOutcome(ctx context.Context, email, name, projectName string, approved bool) error
	SendRegistrationOutcome(ctx context.Context, email, name, projectName string, status domain.RegistrationStatus) error
	SendPendingDecisionReminder(ctx context.Context, email, name, projectName string, pendingCount int32) error
}
