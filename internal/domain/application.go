package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending             ApplicationStatus = "PENDING"
	ApplicationStatusSuccessful          ApplicationStatus = "SUCCESSFUL"
	ApplicationStatusUnsuccessful        ApplicationStatus = "UNSUCCESSFUL"
	ApplicationStatusBooked              ApplicationStatus = "BOOKED"
	ApplicationStatusWithdrawalRequested ApplicationStatus = "WITHDRAWAL_REQUESTED"
)

// applicationTransitions is the legal status graph. WITHDRAWAL_REQUESTED may
// also revert to the recorded prior status when a withdrawal is rejected;
// that edge is validated against PriorStatus in CanTransitionTo.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:    {ApplicationStatusSuccessful, ApplicationStatusUnsuccessful, ApplicationStatusWithdrawalRequested},
	ApplicationStatusSuccessful: {ApplicationStatusBooked, ApplicationStatusWithdrawalRequested},
	ApplicationStatusBooked:     {ApplicationStatusWithdrawalRequested},
	ApplicationStatusWithdrawalRequested: {ApplicationStatusUnsuccessful},
	ApplicationStatusUnsuccessful:        {},
}

// Application records one applicant's attempt at one project. Rows are never
// deleted; UNSUCCESSFUL is terminal but kept for audit.
type Application struct {
	ID                string            `json:"id"`
	ApplicantNRIC     string            `json:"applicant_nric"`
	ProjectID         int32             `json:"project_id"`
	RequestedFlatType FlatType          `json:"requested_flat_type"`
	Status            ApplicationStatus `json:"status"`
	// PriorStatus holds the status a withdrawal request was raised from, so
	// a rejected withdrawal can revert without guessing.
	PriorStatus     *ApplicationStatus `json:"prior_status,omitempty"`
	BookedFlatID    *string            `json:"booked_flat_id,omitempty"`
	AppliedOn       time.Time          `json:"applied_on"`
	StatusUpdatedOn time.Time          `json:"status_updated_on"`
}

// IsTerminal reports whether the status allows no further transitions.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusUnsuccessful
}

// IsActive reports whether an application with this status blocks the
// applicant from submitting another one.
func (s ApplicationStatus) IsActive() bool {
	return !s.IsTerminal()
}

// CanTransitionTo reports whether moving the application to the target
// status is legal from its current status.
func (a *Application) CanTransitionTo(target ApplicationStatus) bool {
	for _, next := range applicationTransitions[a.Status] {
		if next == target {
			return true
		}
	}
	// Withdrawal rejection reverts to the recorded prior status.
	if a.Status == ApplicationStatusWithdrawalRequested && a.PriorStatus != nil && *a.PriorStatus == target {
		return true
	}
	return false
}
