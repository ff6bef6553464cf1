package service_test

import (
	"context"
	"testing"
	"time"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository/memory"
	"bto-portal-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emailStub satisfies service.EmailService without talking to SMTP.
type emailStub struct {
	sent []string
}

func (e *emailStub) SendApplicationReceipt(ctx context.Context, email, name, projectName string, flatType domain.FlatType) error {
	e.sent = append(e.sent, "receipt:"+email)
	return nil
}
func (e *emailStub) SendApplicationOutcome(ctx context.Context, email, name, projectName string, status domain.ApplicationStatus) error {
	e.sent = append(e.sent, "outcome:"+email)
	return nil
}
func (e *emailStub) SendBookingConfirmation(ctx context.Context, email, name, projectName, flatID string) error {
	e.sent = append(e.sent, "booking:"+email)
	return nil
}
func (e *emailStub) SendWithdrawalOutcome(ctx context.Context, email, name, projectName string, approved bool) error {
	e.sent = append(e.sent, "withdrawal:"+email)
	return nil
}
func (e *emailStub) SendRegistrationOutcome(ctx context.Context, email, name, projectName string, status domain.RegistrationStatus) error {
	e.sent = append(e.sent, "registration:"+email)
	return nil
}
func (e *emailStub) SendPendingDecisionReminder(ctx context.Context, email, name, projectName string, pendingCount int32) error {
	e.sent = append(e.sent, "reminder:"+email)
	return nil
}

type testEnv struct {
	store *memory.Store
	email *emailStub
	apps  service.ApplicationService
	regs  service.RegistrationService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	email := &emailStub{}
	return &testEnv{
		store: store,
		email: email,
		apps: service.NewApplicationService(
			store.ApplicationRepository,
			store.ProjectRepository,
			store.UserRepository,
			store.FlatRepository,
			store.RegistrationRepository,
			store.NotificationRepository,
			email,
		),
		regs: service.NewRegistrationService(
			store.RegistrationRepository,
			store.ProjectRepository,
			store.ApplicationRepository,
			store.UserRepository,
			store.NotificationRepository,
			email,
		),
	}
}

func (e *testEnv) addUser(t *testing.T, nric string, role domain.UserRole, marital domain.MaritalStatus, age int32) *domain.User {
	t.Helper()
	u := &domain.User{
		NRIC:          nric,
		Name:          "User " + nric,
		Age:           age,
		MaritalStatus: marital,
		Email:         nric + "@test.local",
		Role:          role,
	}
	require.NoError(t, e.store.UserRepository.Create(context.Background(), u))
	return u
}

func (e *testEnv) addProject(t *testing.T, managerNRIC string, twoRoom, threeRoom int32, officers ...string) *domain.Project {
	t.Helper()
	p := &domain.Project{
		Name:                  "Acacia Breeze",
		Neighborhood:          "Yishun",
		OpenDate:              time.Now().AddDate(0, 0, -1),
		CloseDate:             time.Now().AddDate(0, 1, 0),
		ManagerNRIC:           managerNRIC,
		OfficerSlotCapacity:   10,
		AvailableOfficerSlots: 10,
		OfficerNRICs:          officers,
		Visible:               true,
		Inventory: []domain.FlatTypeInventory{
			{FlatType: domain.FlatTypeTwoRoom, TotalUnits: twoRoom, AvailableUnits: twoRoom},
			{FlatType: domain.FlatTypeThreeRoom, TotalUnits: threeRoom, AvailableUnits: threeRoom},
		},
	}
	require.NoError(t, e.store.ProjectRepository.Create(context.Background(), p))
	return p
}

func (e *testEnv) available(t *testing.T, projectID int32, ft domain.FlatType) int32 {
	t.Helper()
	p, err := e.store.ProjectRepository.GetByID(context.Background(), projectID)
	require.NoError(t, err)
	return p.AvailableUnits(ft)
}

func TestApplicationService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, "S0000001A", 5, 5)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeThreeRoom)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
		assert.Equal(t, domain.FlatTypeThreeRoom, app.RequestedFlatType)
		assert.NotEmpty(t, app.ID)
		// Submission reserves nothing.
		assert.Equal(t, int32(5), env.available(t, project.ID, domain.FlatTypeThreeRoom))
		assert.Contains(t, env.email.sent, "receipt:"+applicant.Email)
	})

	t.Run("Second active application rejected", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, "S0000001A", 5, 5)

		_, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		_, err = env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeThreeRoom)
		assert.ErrorIs(t, err, domain.ErrAlreadyHasActiveApplication)
	})

	t.Run("Hidden project rejected", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, "S0000001A", 5, 5)
		require.NoError(t, env.store.ProjectRepository.SetVisibility(ctx, project.ID, false))

		_, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrProjectNotVisible)
	})

	t.Run("Closed window rejected", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, "S0000001A", 5, 5)
		stored, err := env.store.ProjectRepository.GetByID(ctx, project.ID)
		require.NoError(t, err)
		stored.OpenDate = time.Now().AddDate(0, -2, 0)
		stored.CloseDate = time.Now().AddDate(0, -1, 0)
		require.NoError(t, env.store.ProjectRepository.Update(ctx, stored))

		_, err = env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrProjectNotOpen)
	})

	t.Run("Single under 35 rejected", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusSingle, 34)
		project := env.addProject(t, "S0000001A", 5, 5)

		_, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrNotEligible)
	})

	t.Run("Single 35 cannot request three-room", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusSingle, 35)
		project := env.addProject(t, "S0000001A", 5, 5)

		_, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeThreeRoom)
		assert.ErrorIs(t, err, domain.ErrNotEligible)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	})

	t.Run("Handling officer cannot apply to own project", func(t *testing.T) {
		env := newTestEnv()
		env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		officer := env.addUser(t, "S2000001C", domain.UserRoleOfficer, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, "S0000001A", 5, 5)

		_, err := env.regs.Register(ctx, officer.NRIC, project.ID)
		require.NoError(t, err)

		_, err = env.apps.Apply(ctx, officer.NRIC, project.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrConflictingRole)
	})

	t.Run("Manager cannot apply", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		project := env.addProject(t, manager.NRIC, 5, 5)

		_, err := env.apps.Apply(ctx, manager.NRIC, project.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestApplicationService_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("Approval reserves a unit", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 3, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		decided, err := env.apps.Decide(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusSuccessful, decided.Status)
		assert.Equal(t, int32(2), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Rejection touches no inventory", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 3, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		decided, err := env.apps.Decide(ctx, manager.NRIC, app.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusUnsuccessful, decided.Status)
		assert.Equal(t, int32(3), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Exhausted inventory overrides approval", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		first := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		second := env.addUser(t, "S1000002C", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 1, 3)

		appA, err := env.apps.Apply(ctx, first.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		appB, err := env.apps.Apply(ctx, second.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		decidedA, err := env.apps.Decide(ctx, manager.NRIC, appA.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusSuccessful, decidedA.Status)
		assert.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))

		// The manager approves, but no unit remains.
		decidedB, err := env.apps.Decide(ctx, manager.NRIC, appB.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusUnsuccessful, decidedB.Status)
		assert.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Only the responsible manager may decide", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		other := env.addUser(t, "S0000002B", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 3, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		_, err = env.apps.Decide(ctx, other.NRIC, app.ID, true)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Deciding twice is rejected", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 3, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		_, err = env.apps.Decide(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)

		_, err = env.apps.Decide(ctx, manager.NRIC, app.ID, false)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestApplicationService_Book(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, twoRoom int32) (*testEnv, *domain.Project, *domain.Application) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		env.addUser(t, "S2000001C", domain.UserRoleOfficer, domain.MaritalStatusMarried, 30)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, twoRoom, 3, "S2000001C")

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		app, err = env.apps.Decide(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		require.Equal(t, domain.ApplicationStatusSuccessful, app.Status)
		return env, project, app
	}

	t.Run("Booking the reserved type succeeds with zero availability", func(t *testing.T) {
		env, project, app := setup(t, 1)
		require.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))

		booked, flat, err := env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusBooked, booked.Status)
		require.NotNil(t, booked.BookedFlatID)
		assert.Equal(t, flat.ID, *booked.BookedFlatID)
		assert.Equal(t, "1-TWO_ROOM-001", flat.ID)
		// The unit was consumed at approval; booking moves nothing.
		assert.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Switching type swaps the reservation", func(t *testing.T) {
		env, project, app := setup(t, 2)
		require.Equal(t, int32(1), env.available(t, project.ID, domain.FlatTypeTwoRoom))

		booked, flat, err := env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeThreeRoom)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusBooked, booked.Status)
		assert.Equal(t, domain.FlatTypeThreeRoom, flat.FlatType)
		// Old reservation released, new type reserved.
		assert.Equal(t, int32(2), env.available(t, project.ID, domain.FlatTypeTwoRoom))
		assert.Equal(t, int32(2), env.available(t, project.ID, domain.FlatTypeThreeRoom))
	})

	t.Run("Only a roster officer may book", func(t *testing.T) {
		env, _, app := setup(t, 2)
		env.addUser(t, "S2000009Z", domain.UserRoleOfficer, domain.MaritalStatusMarried, 30)

		_, _, err := env.apps.Book(ctx, "S2000009Z", app.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Booking twice is rejected", func(t *testing.T) {
		env, _, app := setup(t, 2)
		_, _, err := env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		_, _, err = env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Pending application cannot book", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		env.addUser(t, "S2000001C", domain.UserRoleOfficer, domain.MaritalStatusMarried, 30)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 3, 3, "S2000001C")

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		_, _, err = env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Ineligible type is rejected", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		env.addUser(t, "S2000001C", domain.UserRoleOfficer, domain.MaritalStatusMarried, 30)
		single := env.addUser(t, "S1000003D", domain.UserRoleApplicant, domain.MaritalStatusSingle, 40)
		project := env.addProject(t, manager.NRIC, 3, 3, "S2000001C")

		app, err := env.apps.Apply(ctx, single.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		app, err = env.apps.Decide(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)

		_, _, err = env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeThreeRoom)
		assert.ErrorIs(t, err, domain.ErrNotEligible)
	})
}

func TestApplicationService_Withdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("Approved withdrawal of a booked flat releases the unit", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		env.addUser(t, "S2000001C", domain.UserRoleOfficer, domain.MaritalStatusMarried, 30)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 1, 3, "S2000001C")

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		app, err = env.apps.Decide(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		app, _, err = env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		require.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))

		app, err = env.apps.RequestWithdrawal(ctx, applicant.NRIC, app.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusWithdrawalRequested, app.Status)
		// Requesting alone releases nothing.
		assert.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))

		app, err = env.apps.ResolveWithdrawal(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusUnsuccessful, app.Status)
		assert.Nil(t, app.BookedFlatID)
		assert.Equal(t, int32(1), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Approved withdrawal of an unbooked approval releases the reservation", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 2, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		app, err = env.apps.Decide(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		require.Equal(t, int32(1), env.available(t, project.ID, domain.FlatTypeTwoRoom))

		app, err = env.apps.RequestWithdrawal(ctx, applicant.NRIC, app.ID)
		require.NoError(t, err)
		app, err = env.apps.ResolveWithdrawal(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusUnsuccessful, app.Status)
		assert.Equal(t, int32(2), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Approved withdrawal of a pending application touches no inventory", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 2, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		app, err = env.apps.RequestWithdrawal(ctx, applicant.NRIC, app.ID)
		require.NoError(t, err)
		app, err = env.apps.ResolveWithdrawal(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusUnsuccessful, app.Status)
		assert.Equal(t, int32(2), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Rejected withdrawal reverts to the prior status", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		env.addUser(t, "S2000001C", domain.UserRoleOfficer, domain.MaritalStatusMarried, 30)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 2, 3, "S2000001C")

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		app, err = env.apps.Decide(ctx, manager.NRIC, app.ID, true)
		require.NoError(t, err)
		app, _, err = env.apps.Book(ctx, "S2000001C", app.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		app, err = env.apps.RequestWithdrawal(ctx, applicant.NRIC, app.ID)
		require.NoError(t, err)
		app, err = env.apps.ResolveWithdrawal(ctx, manager.NRIC, app.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusBooked, app.Status)
		assert.NotNil(t, app.BookedFlatID)
		assert.Nil(t, app.PriorStatus)
		// Inventory untouched by a rejected withdrawal.
		assert.Equal(t, int32(1), env.available(t, project.ID, domain.FlatTypeTwoRoom))
	})

	t.Run("Only the applicant may request withdrawal", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		intruder := env.addUser(t, "S1000002C", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 2, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)

		_, err = env.apps.RequestWithdrawal(ctx, intruder.NRIC, app.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Unsuccessful application cannot request withdrawal", func(t *testing.T) {
		env := newTestEnv()
		manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 40)
		applicant := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 30)
		project := env.addProject(t, manager.NRIC, 2, 3)

		app, err := env.apps.Apply(ctx, applicant.NRIC, project.ID, domain.FlatTypeTwoRoom)
		require.NoError(t, err)
		_, err = env.apps.Decide(ctx, manager.NRIC, app.ID, false)
		require.NoError(t, err)

		_, err = env.apps.RequestWithdrawal(ctx, applicant.NRIC, app.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

// Walks the full allocation lifecycle against a one-unit project.
func TestApplicationService_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	manager := env.addUser(t, "S0000001A", domain.UserRoleManager, domain.MaritalStatusMarried, 45)
	env.addUser(t, "S2000001C", domain.UserRoleOfficer, domain.MaritalStatusMarried, 32)
	alice := env.addUser(t, "S1000001B", domain.UserRoleApplicant, domain.MaritalStatusMarried, 28)
	bob := env.addUser(t, "S1000002C", domain.UserRoleApplicant, domain.MaritalStatusMarried, 29)
	project := env.addProject(t, manager.NRIC, 1, 0, "S2000001C")

	// Both apply for the single two-room unit.
	appAlice, err := env.apps.Apply(ctx, alice.NRIC, project.ID, domain.FlatTypeTwoRoom)
	require.NoError(t, err)
	appBob, err := env.apps.Apply(ctx, bob.NRIC, project.ID, domain.FlatTypeTwoRoom)
	require.NoError(t, err)

	// Alice's approval consumes the unit.
	appAlice, err = env.apps.Decide(ctx, manager.NRIC, appAlice.ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationStatusSuccessful, appAlice.Status)
	require.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))

	// Bob's approval finds nothing left.
	appBob, err = env.apps.Decide(ctx, manager.NRIC, appBob.ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationStatusUnsuccessful, appBob.Status)

	// Alice books her reserved unit even though availability reads zero.
	appAlice, flat, err := env.apps.Book(ctx, "S2000001C", appAlice.ID, domain.FlatTypeTwoRoom)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationStatusBooked, appAlice.Status)
	require.Equal(t, int32(0), env.available(t, project.ID, domain.FlatTypeTwoRoom))

	// Alice withdraws; the manager approves and the unit returns.
	appAlice, err = env.apps.RequestWithdrawal(ctx, alice.NRIC, appAlice.ID)
	require.NoError(t, err)
	appAlice, err = env.apps.ResolveWithdrawal(ctx, manager.NRIC, appAlice.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusUnsuccessful, appAlice.Status)
	assert.Equal(t, int32(1), env.available(t, project.ID, domain.FlatTypeTwoRoom))

	// The flat record itself stays for audit.
	kept, err := env.store.FlatRepository.GetByID(ctx, flat.ID)
	require.NoError(t, err)
	assert.Equal(t, appAlice.ID, kept.ApplicationID)

	// Bob, now terminal, can start over.
	_, err = env.apps.Apply(ctx, bob.NRIC, project.ID, domain.FlatTypeTwoRoom)
	require.NoError(t, err)
}
