package postgres_test

import (
	"context"
	"testing"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestProjectRepository_ReserveUnit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProjectRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE project_units SET available_units = available_units - 1").
			WithArgs(int32(1), domain.FlatTypeTwoRoom).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveUnit(ctx, 1, domain.FlatTypeTwoRoom)
		assert.NoError(t, err)
	})

	t.Run("No units left", func(t *testing.T) {
		mock.ExpectExec("UPDATE project_units SET available_units = available_units - 1").
			WithArgs(int32(1), domain.FlatTypeTwoRoom).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReserveUnit(ctx, 1, domain.FlatTypeTwoRoom)
		assert.ErrorIs(t, err, domain.ErrNoUnitsAvailable)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_ReleaseUnit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProjectRepository(db)
	ctx := context.Background()

	t.Run("Duplicate release is a no-op", func(t *testing.T) {
		// Zero rows affected because available already equals total.
		mock.ExpectExec("UPDATE project_units SET available_units = available_units \\+ 1").
			WithArgs(int32(1), domain.FlatTypeThreeRoom).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReleaseUnit(ctx, 1, domain.FlatTypeThreeRoom)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_TakeOfficerSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProjectRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE projects").
			WithArgs(int32(2), "S2000001C").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TakeOfficerSlot(ctx, 2, "S2000001C")
		assert.NoError(t, err)
	})

	t.Run("No slots left", func(t *testing.T) {
		mock.ExpectExec("UPDATE projects").
			WithArgs(int32(2), "S2000001C").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.TakeOfficerSlot(ctx, 2, "S2000001C")
		assert.ErrorIs(t, err, domain.ErrNoOfficerSlots)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_SetVisibility(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProjectRepository(db)
	ctx := context.Background()

	t.Run("Unknown project", func(t *testing.T) {
		mock.ExpectExec("UPDATE projects SET visible").
			WithArgs(false, int32(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetVisibility(ctx, 99, false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
