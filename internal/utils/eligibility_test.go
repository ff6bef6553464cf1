package utils

import (
	"testing"

	"bto-portal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testProject(twoAvail, threeAvail int32) *domain.Project {
	return &domain.Project{
		ID:   1,
		Name: "Acacia Breeze",
		Inventory: []domain.FlatTypeInventory{
			{FlatType: domain.FlatTypeTwoRoom, TotalUnits: 10, AvailableUnits: twoAvail},
			{FlatType: domain.FlatTypeThreeRoom, TotalUnits: 10, AvailableUnits: threeAvail},
		},
	}
}

func TestEligibleFlatTypes(t *testing.T) {
	project := testProject(5, 5)

	tests := []struct {
		name    string
		marital domain.MaritalStatus
		age     int32
		want    []domain.FlatType
	}{
		{"Single 34 gets nothing", domain.MaritalStatusSingle, 34, nil},
		{"Single 35 gets two-room only", domain.MaritalStatusSingle, 35, []domain.FlatType{domain.FlatTypeTwoRoom}},
		{"Single 70 gets two-room only", domain.MaritalStatusSingle, 70, []domain.FlatType{domain.FlatTypeTwoRoom}},
		{"Married 20 gets nothing", domain.MaritalStatusMarried, 20, nil},
		{"Married 21 gets both", domain.MaritalStatusMarried, 21, []domain.FlatType{domain.FlatTypeTwoRoom, domain.FlatTypeThreeRoom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &domain.User{NRIC: "S1234567A", MaritalStatus: tt.marital, Age: tt.age}
			assert.Equal(t, tt.want, EligibleFlatTypes(user, project))
		})
	}
}

func TestEligibleFlatTypes_IntersectsAvailability(t *testing.T) {
	married := &domain.User{NRIC: "S1234567A", MaritalStatus: domain.MaritalStatusMarried, Age: 30}

	t.Run("Exhausted type drops out", func(t *testing.T) {
		got := EligibleFlatTypes(married, testProject(0, 5))
		assert.Equal(t, []domain.FlatType{domain.FlatTypeThreeRoom}, got)
	})

	t.Run("Fully exhausted project yields nothing", func(t *testing.T) {
		assert.Nil(t, EligibleFlatTypes(married, testProject(0, 0)))
	})

	t.Run("Type not offered drops out", func(t *testing.T) {
		project := &domain.Project{
			Inventory: []domain.FlatTypeInventory{
				{FlatType: domain.FlatTypeTwoRoom, TotalUnits: 3, AvailableUnits: 3},
			},
		}
		got := EligibleFlatTypes(married, project)
		assert.Equal(t, []domain.FlatType{domain.FlatTypeTwoRoom}, got)
	})
}

func TestOfferedEligibleFlatTypes_IgnoresAvailability(t *testing.T) {
	married := &domain.User{NRIC: "S1234567A", MaritalStatus: domain.MaritalStatusMarried, Age: 30}
	got := OfferedEligibleFlatTypes(married, testProject(0, 0))
	assert.Equal(t, []domain.FlatType{domain.FlatTypeTwoRoom, domain.FlatTypeThreeRoom}, got)

	single := &domain.User{NRIC: "S1234567A", MaritalStatus: domain.MaritalStatusSingle, Age: 34}
	assert.Nil(t, OfferedEligibleFlatTypes(single, testProject(0, 0)))
}

func TestContainsFlatType(t *testing.T) {
	set := []domain.FlatType{domain.FlatTypeTwoRoom}
	assert.True(t, ContainsFlatType(set, domain.FlatTypeTwoRoom))
	assert.False(t, ContainsFlatType(set, domain.FlatTypeThreeRoom))
	assert.False(t, ContainsFlatType(nil, domain.FlatTypeTwoRoom))
}
