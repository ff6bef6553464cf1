package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/logger"
	"bto-portal-backend/internal/repository"
	"bto-portal-backend/internal/utils"

	"github.com/google/uuid"
)

type applicationService struct {
	appRepo     repository.ApplicationRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	flatRepo    repository.FlatRepository
	regRepo     repository.RegistrationRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	flatRepo repository.FlatRepository,
	regRepo repository.RegistrationRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) ApplicationService {
	return &applicationService{
		appRepo:     appRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		flatRepo:    flatRepo,
		regRepo:     regRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *applicationService) Apply(ctx context.Context, applicantNRIC string, projectID int32, requestedType domain.FlatType) (*domain.Application, error) {
	applicant, err := s.userRepo.GetByNRIC(ctx, applicantNRIC)
	if err != nil {
		return nil, err
	}
	if applicant.Role == domain.UserRoleManager {
		return nil, fmt.Errorf("managers cannot apply for flats: %w", domain.ErrUnauthorized)
	}

	// One active application per applicant, across all projects.
	if _, err := s.appRepo.GetActiveByApplicant(ctx, applicantNRIC); err == nil {
		return nil, domain.ErrAlreadyHasActiveApplication
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.Visible {
		return nil, domain.ErrProjectNotVisible
	}
	if !project.IsOpenAt(time.Now()) {
		return nil, domain.ErrProjectNotOpen
	}

	// An officer handling this project cannot also apply to it.
	if _, err := s.regRepo.GetByOfficerProject(ctx, applicantNRIC, projectID); err == nil {
		return nil, domain.ErrConflictingRole
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	eligible := utils.EligibleFlatTypes(applicant, project)
	if len(eligible) == 0 {
		return nil, domain.ErrNotEligible
	}
	if !utils.ContainsFlatType(eligible, requestedType) {
		return nil, domain.ErrNotEligible
	}

	now := time.Now()
	app := &domain.Application{
		ID:                uuid.NewString(),
		ApplicantNRIC:     applicant.NRIC,
		ProjectID:         projectID,
		RequestedFlatType: requestedType,
		Status:            domain.ApplicationStatusPending,
		AppliedOn:         now,
		StatusUpdatedOn:   now,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	_ = s.emailSvc.SendApplicationReceipt(ctx, applicant.Email, applicant.Name, project.Name, requestedType)
	s.notify(ctx, applicant.NRIC, "Application Received",
		fmt.Sprintf("Your application for %s (%s) was received and is pending review", project.Name, requestedType),
		"APPLICATION_SUBMITTED", app.ID)

	return app, nil
}

// Decide approves or rejects a PENDING application. Approval reserves one
// unit of the requested flat type; if the inventory is exhausted, the
// application becomes UNSUCCESSFUL regardless of the manager's intent.
func (s *applicationService) Decide(ctx context.Context, managerNRIC, applicationID string, approve bool) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.ManagerNRIC != managerNRIC {
		return nil, domain.ErrUnauthorized
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, fmt.Errorf("cannot decide application in status %s: %w", app.Status, domain.ErrInvalidTransition)
	}

	if approve {
		switch err := s.projectRepo.ReserveUnit(ctx, app.ProjectID, app.RequestedFlatType); {
		case err == nil:
			app.Status = domain.ApplicationStatusSuccessful
		case errors.Is(err, domain.ErrNoUnitsAvailable):
			logger.Warn("Approval overridden by inventory exhaustion",
				"application_id", app.ID, "project_id", app.ProjectID, "flat_type", app.RequestedFlatType)
			app.Status = domain.ApplicationStatusUnsuccessful
		default:
			return nil, err
		}
	} else {
		app.Status = domain.ApplicationStatusUnsuccessful
	}
	app.StatusUpdatedOn = time.Now()
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	if applicant, err := s.userRepo.GetByNRIC(ctx, app.ApplicantNRIC); err == nil {
		_ = s.emailSvc.SendApplicationOutcome(ctx, applicant.Email, applicant.Name, project.Name, app.Status)
		s.notify(ctx, applicant.NRIC, "Application Decision",
			fmt.Sprintf("Your application for %s is now %s", project.Name, app.Status),
			"APPLICATION_DECIDED", app.ID)
	}
	return app, nil
}

// Book turns a SUCCESSFUL application into a BOOKED one and creates the flat
// record. The unit itself was reserved at approval, so booking the same flat
// type moves no inventory; switching to another eligible type reserves the
// new one before releasing the old reservation.
func (s *applicationService) Book(ctx context.Context, officerNRIC, applicationID string, chosenType domain.FlatType) (*domain.Application, *domain.Flat, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if !containsNRIC(project.OfficerNRICs, officerNRIC) {
		return nil, nil, domain.ErrUnauthorized
	}
	if app.Status != domain.ApplicationStatusSuccessful || app.BookedFlatID != nil {
		return nil, nil, fmt.Errorf("cannot book application in status %s: %w", app.Status, domain.ErrInvalidTransition)
	}

	applicant, err := s.userRepo.GetByNRIC(ctx, app.ApplicantNRIC)
	if err != nil {
		return nil, nil, err
	}
	// Availability is ignored here for the reserved type: the applicant's
	// own reservation may have consumed the last unit at approval.
	if !utils.ContainsFlatType(utils.OfferedEligibleFlatTypes(applicant, project), chosenType) {
		return nil, nil, domain.ErrNotEligible
	}
	if chosenType != app.RequestedFlatType {
		if err := s.projectRepo.ReserveUnit(ctx, app.ProjectID, chosenType); err != nil {
			return nil, nil, err
		}
		if err := s.projectRepo.ReleaseUnit(ctx, app.ProjectID, app.RequestedFlatType); err != nil {
			return nil, nil, err
		}
		app.RequestedFlatType = chosenType
	}

	seq, err := s.flatRepo.CountByProjectType(ctx, app.ProjectID, chosenType)
	if err != nil {
		return nil, nil, err
	}
	flat := &domain.Flat{
		ID:            domain.FlatID(app.ProjectID, chosenType, seq+1),
		ProjectID:     app.ProjectID,
		FlatType:      chosenType,
		ApplicationID: app.ID,
	}
	if err := s.flatRepo.Create(ctx, flat); err != nil {
		return nil, nil, err
	}

	app.BookedFlatID = &flat.ID
	app.Status = domain.ApplicationStatusBooked
	app.StatusUpdatedOn = time.Now()
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, nil, err
	}

	_ = s.emailSvc.SendBookingConfirmation(ctx, applicant.Email, applicant.Name, project.Name, flat.ID)
	s.notify(ctx, applicant.NRIC, "Flat Booked",
		fmt.Sprintf("Flat %s in %s has been booked for you", flat.ID, project.Name),
		"FLAT_BOOKED", app.ID)

	return app, flat, nil
}

// RequestWithdrawal parks the application in WITHDRAWAL_REQUESTED, keeping
// the status it came from so a rejected request can revert. Inventory is not
// touched until a manager resolves the request.
func (s *applicationService) RequestWithdrawal(ctx context.Context, applicantNRIC, applicationID string) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantNRIC != applicantNRIC {
		return nil, domain.ErrUnauthorized
	}
	if !app.CanTransitionTo(domain.ApplicationStatusWithdrawalRequested) {
		return nil, fmt.Errorf("cannot request withdrawal from status %s: %w", app.Status, domain.ErrInvalidTransition)
	}

	prior := app.Status
	app.PriorStatus = &prior
	app.Status = domain.ApplicationStatusWithdrawalRequested
	app.StatusUpdatedOn = time.Now()
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ResolveWithdrawal(ctx context.Context, managerNRIC, applicationID string, approve bool) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.ManagerNRIC != managerNRIC {
		return nil, domain.ErrUnauthorized
	}
	if app.Status != domain.ApplicationStatusWithdrawalRequested {
		return nil, fmt.Errorf("cannot resolve withdrawal in status %s: %w", app.Status, domain.ErrInvalidTransition)
	}

	if approve {
		if app.BookedFlatID != nil {
			flat, err := s.flatRepo.GetByID(ctx, *app.BookedFlatID)
			if err != nil {
				return nil, err
			}
			if err := s.projectRepo.ReleaseUnit(ctx, app.ProjectID, flat.FlatType); err != nil {
				return nil, err
			}
			app.BookedFlatID = nil
		} else if app.PriorStatus != nil && *app.PriorStatus == domain.ApplicationStatusSuccessful {
			// The unit was reserved at approval and never booked.
			if err := s.projectRepo.ReleaseUnit(ctx, app.ProjectID, app.RequestedFlatType); err != nil {
				return nil, err
			}
		}
		app.Status = domain.ApplicationStatusUnsuccessful
	} else {
		// Revert to the recorded pre-withdrawal status; fall back to
		// deriving it from booked-flat presence for older records.
		if app.PriorStatus != nil {
			app.Status = *app.PriorStatus
		} else if app.BookedFlatID != nil {
			app.Status = domain.ApplicationStatusBooked
		} else {
			app.Status = domain.ApplicationStatusSuccessful
		}
	}
	app.PriorStatus = nil
	app.StatusUpdatedOn = time.Now()
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	if applicant, err := s.userRepo.GetByNRIC(ctx, app.ApplicantNRIC); err == nil {
		_ = s.emailSvc.SendWithdrawalOutcome(ctx, applicant.Email, applicant.Name, project.Name, approve)
		s.notify(ctx, applicant.NRIC, "Withdrawal Decision",
			fmt.Sprintf("Your withdrawal request for %s was %s", project.Name, withdrawalVerb(approve)),
			"WITHDRAWAL_DECIDED", app.ID)
	}
	return app, nil
}

func (s *applicationService) GetApplication(ctx context.Context, requesterNRIC, applicationID string) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantNRIC == requesterNRIC {
		return app, nil
	}
	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.ManagerNRIC == requesterNRIC || containsNRIC(project.OfficerNRICs, requesterNRIC) {
		return app, nil
	}
	return nil, domain.ErrUnauthorized
}

func (s *applicationService) ListMyApplications(ctx context.Context, applicantNRIC string) ([]domain.Application, error) {
	return s.appRepo.ListByApplicant(ctx, applicantNRIC)
}

func (s *applicationService) ListProjectApplications(ctx context.Context, requesterNRIC string, projectID int32, status string, page, pageSize int32) ([]domain.Application, int32, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	if project.ManagerNRIC != requesterNRIC && !containsNRIC(project.OfficerNRICs, requesterNRIC) {
		return nil, 0, domain.ErrUnauthorized
	}
	return s.appRepo.ListByProject(ctx, projectID, status, page, pageSize)
}

func (s *applicationService) notify(ctx context.Context, nric, title, message, kind, applicationID string) {
	note := &domain.Notification{
		UserNRIC: nric,
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"type":           kind,
			"application_id": applicationID,
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create notification", "user", nric, "type", kind, "error", err)
	}
}

func containsNRIC(nrics []string, nric string) bool {
	for _, n := range nrics {
		if n == nric {
			return true
		}
	}
	return false
}

func withdrawalVerb(approved bool) string {
	if approved {
		return "approved"
	}
	return "rejected"
}
