// Package memory holds an in-memory implementation of the repository
// interfaces. It backs the service tests and doubles as a storage mode for
// local development without postgres. One store-wide mutex guards all
// mutations, which also gives the "inventory and status move together"
// discipline a single-writer guarantee.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
)

type state struct {
	mu            sync.RWMutex
	users         map[string]*domain.User
	projects      map[int32]*domain.Project
	applications  map[string]*domain.Application
	flats         map[string]*domain.Flat
	registrations map[string]*domain.OfficerRegistration
	notifications []*domain.Notification
	nextProjectID int32
	nextNoteID    int32
}

type Store struct {
	repository.UserRepository
	repository.ProjectRepository
	repository.ApplicationRepository
	repository.FlatRepository
	repository.RegistrationRepository
	repository.NotificationRepository
}

func NewStore() *Store {
	st := &state{
		users:         make(map[string]*domain.User),
		projects:      make(map[int32]*domain.Project),
		applications:  make(map[string]*domain.Application),
		flats:         make(map[string]*domain.Flat),
		registrations: make(map[string]*domain.OfficerRegistration),
		nextProjectID: 1,
		nextNoteID:    1,
	}
	return &Store{
		UserRepository:         &userRepo{st},
		ProjectRepository:      &projectRepo{st},
		ApplicationRepository:  &applicationRepo{st},
		FlatRepository:         &flatRepo{st},
		RegistrationRepository: &registrationRepo{st},
		NotificationRepository: &notificationRepo{st},
	}
}

// Users

type userRepo struct{ s *state }

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().Format("2006-01-02")
	u.CreatedOn = now
	u.UpdatedOn = now
	cp := *u
	r.s.users[strings.ToUpper(u.NRIC)] = &cp
	return nil
}

func (r *userRepo) GetByNRIC(ctx context.Context, nric string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[strings.ToUpper(nric)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[strings.ToUpper(u.NRIC)]; !ok {
		return domain.ErrNotFound
	}
	u.UpdatedOn = time.Now().Format("2006-01-02")
	cp := *u
	r.s.users[strings.ToUpper(u.NRIC)] = &cp
	return nil
}

func (r *userRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NRIC < out[j].NRIC })
	return out, nil
}

// Projects

type projectRepo struct{ s *state }

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextProjectID
	r.s.nextProjectID++
	p.CreatedOn = time.Now().Format("2006-01-02")
	r.s.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *projectRepo) Update(ctx context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.projects[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Name = p.Name
	existing.Neighborhood = p.Neighborhood
	existing.OpenDate = p.OpenDate
	existing.CloseDate = p.CloseDate
	existing.ManagerNRIC = p.ManagerNRIC
	existing.Visible = p.Visible
	return nil
}

func (r *projectRepo) List(ctx context.Context) ([]domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Project
	for _, p := range r.s.projects {
		out = append(out, *cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *projectRepo) ListVisibleOpen(ctx context.Context, asOf time.Time) ([]domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Project
	for _, p := range r.s.projects {
		if p.Visible && p.IsOpenAt(asOf) {
			out = append(out, *cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *projectRepo) SetVisibility(ctx context.Context, id int32, visible bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Visible = visible
	return nil
}

func (r *projectRepo) ReserveUnit(ctx context.Context, projectID int32, ft domain.FlatType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range p.Inventory {
		if p.Inventory[i].FlatType == ft {
			if p.Inventory[i].AvailableUnits <= 0 {
				return domain.ErrNoUnitsAvailable
			}
			p.Inventory[i].AvailableUnits--
			return nil
		}
	}
	return domain.ErrNoUnitsAvailable
}

func (r *projectRepo) ReleaseUnit(ctx context.Context, projectID int32, ft domain.FlatType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range p.Inventory {
		if p.Inventory[i].FlatType == ft {
			// Capped at total, so a duplicate release is a no-op.
			if p.Inventory[i].AvailableUnits < p.Inventory[i].TotalUnits {
				p.Inventory[i].AvailableUnits++
			}
			return nil
		}
	}
	return nil
}

func (r *projectRepo) TakeOfficerSlot(ctx context.Context, projectID int32, officerNRIC string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.AvailableOfficerSlots <= 0 {
		return domain.ErrNoOfficerSlots
	}
	p.AvailableOfficerSlots--
	p.OfficerNRICs = append(p.OfficerNRICs, officerNRIC)
	return nil
}

func (r *projectRepo) ReturnOfficerSlot(ctx context.Context, projectID int32, officerNRIC string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	var kept []string
	for _, nric := range p.OfficerNRICs {
		if nric != officerNRIC {
			kept = append(kept, nric)
		}
	}
	p.OfficerNRICs = kept
	if p.AvailableOfficerSlots < p.OfficerSlotCapacity {
		p.AvailableOfficerSlots++
	}
	return nil
}

// Applications

type applicationRepo struct{ s *state }

func (r *applicationRepo) Create(ctx context.Context, a *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.applications[a.ID] = &cp
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *applicationRepo) GetActiveByApplicant(ctx context.Context, nric string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.applications {
		if a.ApplicantNRIC == nric && a.Status.IsActive() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *applicationRepo) Update(ctx context.Context, a *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.applications[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.s.applications[a.ID] = &cp
	return nil
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, nric string) ([]domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Application
	for _, a := range r.s.applications {
		if a.ApplicantNRIC == nric {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedOn.After(out[j].AppliedOn) })
	return out, nil
}

func (r *applicationRepo) ListByProject(ctx context.Context, projectID int32, status string, page, pageSize int32) ([]domain.Application, int32, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []domain.Application
	for _, a := range r.s.applications {
		if a.ProjectID != projectID {
			continue
		}
		if status != "" && string(a.Status) != status {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AppliedOn.After(all[j].AppliedOn) })
	count := int32(len(all))
	start := (page - 1) * pageSize
	if start < 0 || start >= count {
		return nil, count, nil
	}
	end := start + pageSize
	if end > count {
		end = count
	}
	return all[start:end], count, nil
}

func (r *applicationRepo) ExistsForApplicantProject(ctx context.Context, nric string, projectID int32) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.applications {
		if a.ApplicantNRIC == nric && a.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

// Flats

type flatRepo struct{ s *state }

func (r *flatRepo) Create(ctx context.Context, f *domain.Flat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.CreatedOn = time.Now().Format("2006-01-02")
	cp := *f
	r.s.flats[f.ID] = &cp
	return nil
}

func (r *flatRepo) GetByID(ctx context.Context, id string) (*domain.Flat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.flats[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *flatRepo) CountByProjectType(ctx context.Context, projectID int32, ft domain.FlatType) (int32, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int32
	for _, f := range r.s.flats {
		if f.ProjectID == projectID && f.FlatType == ft {
			count++
		}
	}
	return count, nil
}

func (r *flatRepo) ListByProject(ctx context.Context, projectID int32) ([]domain.Flat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Flat
	for _, f := range r.s.flats {
		if f.ProjectID == projectID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Officer registrations

type registrationRepo struct{ s *state }

func (r *registrationRepo) Create(ctx context.Context, reg *domain.OfficerRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *reg
	r.s.registrations[reg.ID] = &cp
	return nil
}

func (r *registrationRepo) GetByID(ctx context.Context, id string) (*domain.OfficerRegistration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *registrationRepo) GetByOfficerProject(ctx context.Context, officerNRIC string, projectID int32) (*domain.OfficerRegistration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, reg := range r.s.registrations {
		if reg.OfficerNRIC == officerNRIC && reg.ProjectID == projectID {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *registrationRepo) Update(ctx context.Context, reg *domain.OfficerRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.registrations[reg.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *reg
	r.s.registrations[reg.ID] = &cp
	return nil
}

func (r *registrationRepo) ListByOfficer(ctx context.Context, officerNRIC string) ([]domain.OfficerRegistration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.OfficerRegistration
	for _, reg := range r.s.registrations {
		if reg.OfficerNRIC == officerNRIC {
			out = append(out, *reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredOn.After(out[j].RegisteredOn) })
	return out, nil
}

func (r *registrationRepo) ListByProject(ctx context.Context, projectID int32) ([]domain.OfficerRegistration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.OfficerRegistration
	for _, reg := range r.s.registrations {
		if reg.ProjectID == projectID {
			out = append(out, *reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredOn.After(out[j].RegisteredOn) })
	return out, nil
}

// Notifications

type notificationRepo struct{ s *state }

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.nextNoteID
	r.s.nextNoteID++
	n.CreatedOn = time.Now().Format("2006-01-02")
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r *notificationRepo) List(ctx context.Context, userNRIC string, limit, offset int32) ([]domain.Notification, int32, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []domain.Notification
	for _, n := range r.s.notifications {
		if n.UserNRIC == userNRIC {
			all = append(all, *n)
		}
	}
	count := int32(len(all))
	if offset >= count {
		return nil, count, nil
	}
	end := offset + limit
	if end > count {
		end = count
	}
	return all[offset:end], count, nil
}

func (r *notificationRepo) MarkAsRead(ctx context.Context, id int32, userNRIC string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id && n.UserNRIC == userNRIC {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func cloneProject(p *domain.Project) *domain.Project {
	cp := *p
	cp.Inventory = append([]domain.FlatTypeInventory(nil), p.Inventory...)
	cp.OfficerNRICs = append([]string(nil), p.OfficerNRICs...)
	return &cp
}
