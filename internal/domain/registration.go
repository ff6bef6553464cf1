package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "PENDING"
	RegistrationStatusApproved RegistrationStatus = "APPROVED"
	RegistrationStatusRejected RegistrationStatus = "REJECTED"
)

// OfficerRegistration is an officer's request to join a project's handling
// roster. At most one registration exists per (officer, project) pair; an
// APPROVED registration occupies one of the project's officer slots.
type OfficerRegistration struct {
	ID           string             `json:"id"`
	OfficerNRIC  string             `json:"officer_nric"`
	ProjectID    int32              `json:"project_id"`
	Status       RegistrationStatus `json:"status"`
	RegisteredOn time.Time          `json:"registered_on"`
	DecidedOn    *time.Time         `json:"decided_on,omitempty"`
}
