package utils

import (
	"bto-portal-backend/internal/domain"
)

// Eligibility rules:
//   - SINGLE under 35: no flat types.
//   - SINGLE 35 and above: TWO_ROOM only.
//   - MARRIED 21 and above: TWO_ROOM and THREE_ROOM.
//   - MARRIED under 21: no flat types.
// The demographic set is then intersected with what the project offers.

const (
	minAgeSingle  = 35
	minAgeMarried = 21
)

func demographicFlatTypes(user *domain.User) []domain.FlatType {
	switch user.MaritalStatus {
	case domain.MaritalStatusSingle:
		if user.Age >= minAgeSingle {
			return []domain.FlatType{domain.FlatTypeTwoRoom}
		}
	case domain.MaritalStatusMarried:
		if user.Age >= minAgeMarried {
			return []domain.FlatType{domain.FlatTypeTwoRoom, domain.FlatTypeThreeRoom}
		}
	}
	return nil
}

// EligibleFlatTypes returns the flat types the user may apply for in the
// project: demographic eligibility intersected with types the project offers
// and currently has available. Read-only; used to gate submission.
func EligibleFlatTypes(user *domain.User, project *domain.Project) []domain.FlatType {
	var out []domain.FlatType
	for _, ft := range demographicFlatTypes(user) {
		if project.Offers(ft) && project.AvailableUnits(ft) > 0 {
			out = append(out, ft)
		}
	}
	return out
}

// OfferedEligibleFlatTypes is the booking-time variant: it ignores the
// available count, because the applicant's own unit was already reserved at
// approval and may have driven the count to zero.
func OfferedEligibleFlatTypes(user *domain.User, project *domain.Project) []domain.FlatType {
	var out []domain.FlatType
	for _, ft := range demographicFlatTypes(user) {
		if project.Offers(ft) {
			out = append(out, ft)
		}
	}
	return out
}

// ContainsFlatType reports whether ft is in the set.
func ContainsFlatType(set []domain.FlatType, ft domain.FlatType) bool {
	for _, t := range set {
		if t == ft {
			return true
		}
	}
	return false
}
