package domain

import "errors"

// Rule violations are returned as typed failures so callers can branch on
// them; services wrap these with context via fmt.Errorf and %w.
var (
	ErrAlreadyHasActiveApplication = errors.New("applicant already has an active application")
	ErrNotEligible                 = errors.New("applicant is not eligible for any offered flat type")
	ErrProjectNotOpen              = errors.New("project application window is not open")
	ErrProjectNotVisible           = errors.New("project is not visible to applicants")
	ErrNoUnitsAvailable            = errors.New("no units available for the requested flat type")
	ErrInvalidTransition           = errors.New("illegal application status transition")
	ErrAlreadyRegistered           = errors.New("officer already registered for this project")
	ErrNoOfficerSlots              = errors.New("project has no officer slots available")
	ErrOverlappingAssignment       = errors.New("officer already handles a project with an overlapping window")
	ErrConflictingRole             = errors.New("officer has applied to this project as an applicant")
	ErrNotFound                    = errors.New("not found")
	ErrUnauthorized                = errors.New("actor is not allowed to perform this action")
)
