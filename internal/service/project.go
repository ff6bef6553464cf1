package service

import (
	"context"
	"fmt"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/logger"
	"bto-portal-backend/internal/repository"
	"bto-portal-backend/internal/utils"
)

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) ProjectService {
	return &projectService{projectRepo: projectRepo, userRepo: userRepo}
}

func (s *projectService) CreateProject(ctx context.Context, managerNRIC string, project *domain.Project) error {
	manager, err := s.userRepo.GetByNRIC(ctx, managerNRIC)
	if err != nil {
		return err
	}
	if manager.Role != domain.UserRoleManager {
		return fmt.Errorf("only managers may create projects: %w", domain.ErrUnauthorized)
	}
	if project.Name == "" || project.Neighborhood == "" {
		return fmt.Errorf("project name and neighborhood are required")
	}
	if project.CloseDate.Before(project.OpenDate) {
		return fmt.Errorf("close date %s precedes open date %s",
			project.CloseDate.Format("2006-01-02"), project.OpenDate.Format("2006-01-02"))
	}
	if project.OfficerSlotCapacity <= 0 {
		return fmt.Errorf("officer slot capacity must be positive")
	}
	for _, inv := range project.Inventory {
		if inv.TotalUnits < 0 || inv.AvailableUnits < 0 || inv.AvailableUnits > inv.TotalUnits {
			return fmt.Errorf("invalid inventory for %s: %d available of %d total",
				inv.FlatType, inv.AvailableUnits, inv.TotalUnits)
		}
	}

	// A manager handles at most one project per application period.
	all, err := s.projectRepo.List(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ManagerNRIC == managerNRIC && project.WindowOverlaps(&all[i]) {
			return domain.ErrOverlappingAssignment
		}
	}

	project.ManagerNRIC = managerNRIC
	project.AvailableOfficerSlots = project.OfficerSlotCapacity
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return err
	}
	logger.Info("Project created", "project_id", project.ID, "name", project.Name, "manager", managerNRIC)
	return nil
}

func (s *projectService) GetProject(ctx context.Context, id int32) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

func (s *projectService) ListOpenProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projectRepo.ListVisibleOpen(ctx, time.Now())
}

func (s *projectService) ListAllProjects(ctx context.Context, requesterNRIC string) ([]domain.Project, error) {
	requester, err := s.userRepo.GetByNRIC(ctx, requesterNRIC)
	if err != nil {
		return nil, err
	}
	if requester.Role == domain.UserRoleApplicant {
		return nil, domain.ErrUnauthorized
	}
	return s.projectRepo.List(ctx)
}

func (s *projectService) SetVisibility(ctx context.Context, managerNRIC string, projectID int32, visible bool) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.ManagerNRIC != managerNRIC {
		return domain.ErrUnauthorized
	}
	if err := s.projectRepo.SetVisibility(ctx, projectID, visible); err != nil {
		return err
	}
	logger.Info("Project visibility changed", "project_id", projectID, "visible", visible)
	return nil
}

func (s *projectService) EligibleFlatTypes(ctx context.Context, applicantNRIC string, projectID int32) ([]domain.FlatType, error) {
	applicant, err := s.userRepo.GetByNRIC(ctx, applicantNRIC)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return utils.EligibleFlatTypes(applicant, project), nil
}
