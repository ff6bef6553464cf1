package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/logger"
	"bto-portal-backend/internal/repository"

	"github.com/google/uuid"
)

type registrationService struct {
	regRepo     repository.RegistrationRepository
	projectRepo repository.ProjectRepository
	appRepo     repository.ApplicationRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewRegistrationService(
	regRepo repository.RegistrationRepository,
	projectRepo repository.ProjectRepository,
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) RegistrationService {
	return &registrationService{
		regRepo:     regRepo,
		projectRepo: projectRepo,
		appRepo:     appRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

// Register files an officer's request to handle a project. The conflict
// checks run in a fixed order so callers get a stable first failure: role,
// duplicate registration, free slots, overlapping assignment, own application.
func (s *registrationService) Register(ctx context.Context, officerNRIC string, projectID int32) (*domain.OfficerRegistration, error) {
	officer, err := s.userRepo.GetByNRIC(ctx, officerNRIC)
	if err != nil {
		return nil, err
	}
	if officer.Role != domain.UserRoleOfficer {
		return nil, fmt.Errorf("only officers may register to handle projects: %w", domain.ErrUnauthorized)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ManagerNRIC == officerNRIC {
		return nil, domain.ErrConflictingRole
	}

	if _, err := s.regRepo.GetByOfficerProject(ctx, officerNRIC, projectID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if project.AvailableOfficerSlots <= 0 {
		return nil, domain.ErrNoOfficerSlots
	}

	if err := s.checkOverlap(ctx, officerNRIC, project); err != nil {
		return nil, err
	}

	// An applicant for a project cannot also handle it as an officer,
	// regardless of where that application ended up.
	applied, err := s.appRepo.ExistsForApplicantProject(ctx, officerNRIC, projectID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, domain.ErrConflictingRole
	}

	reg := &domain.OfficerRegistration{
		ID:           uuid.NewString(),
		OfficerNRIC:  officerNRIC,
		ProjectID:    projectID,
		Status:       domain.RegistrationStatusPending,
		RegisteredOn: time.Now(),
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, err
	}
	logger.Info("Officer registration filed", "registration_id", reg.ID, "officer", officerNRIC, "project_id", projectID)
	return reg, nil
}

// Decide approves or rejects a pending registration. Approval re-runs the
// overlap check, because another registration may have been approved since
// this one was filed, then claims an officer slot on the project.
func (s *registrationService) Decide(ctx context.Context, managerNRIC, registrationID string, approve bool) (*domain.OfficerRegistration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, reg.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.ManagerNRIC != managerNRIC {
		return nil, domain.ErrUnauthorized
	}
	if reg.Status != domain.RegistrationStatusPending {
		return nil, fmt.Errorf("registration already decided as %s: %w", reg.Status, domain.ErrInvalidTransition)
	}

	if approve {
		if err := s.checkOverlap(ctx, reg.OfficerNRIC, project); err != nil {
			return nil, err
		}
		if err := s.projectRepo.TakeOfficerSlot(ctx, reg.ProjectID, reg.OfficerNRIC); err != nil {
			return nil, err
		}
		reg.Status = domain.RegistrationStatusApproved
	} else {
		reg.Status = domain.RegistrationStatusRejected
	}
	now := time.Now()
	reg.DecidedOn = &now
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}

	if officer, err := s.userRepo.GetByNRIC(ctx, reg.OfficerNRIC); err == nil {
		_ = s.emailSvc.SendRegistrationOutcome(ctx, officer.Email, officer.Name, project.Name, reg.Status)
		note := &domain.Notification{
			UserNRIC: officer.NRIC,
			Title:    "Registration Decision",
			Message:  fmt.Sprintf("Your registration for %s is now %s", project.Name, reg.Status),
			Attributes: map[string]string{
				"type":            "REGISTRATION_DECIDED",
				"registration_id": reg.ID,
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Error("Failed to create notification", "user", officer.NRIC, "error", err)
		}
	}
	return reg, nil
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, officerNRIC string) ([]domain.OfficerRegistration, error) {
	return s.regRepo.ListByOfficer(ctx, officerNRIC)
}

func (s *registrationService) ListProjectRegistrations(ctx context.Context, managerNRIC string, projectID int32) ([]domain.OfficerRegistration, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ManagerNRIC != managerNRIC {
		return nil, domain.ErrUnauthorized
	}
	return s.regRepo.ListByProject(ctx, projectID)
}

// checkOverlap rejects the registration when the officer already holds an
// APPROVED assignment on a project whose application window overlaps the
// candidate project's window.
func (s *registrationService) checkOverlap(ctx context.Context, officerNRIC string, candidate *domain.Project) error {
	existing, err := s.regRepo.ListByOfficer(ctx, officerNRIC)
	if err != nil {
		return err
	}
	for _, reg := range existing {
		if reg.Status != domain.RegistrationStatusApproved || reg.ProjectID == candidate.ID {
			continue
		}
		other, err := s.projectRepo.GetByID(ctx, reg.ProjectID)
		if err != nil {
			return err
		}
		if candidate.WindowOverlaps(other) {
			return domain.ErrOverlappingAssignment
		}
	}
	return nil
}
