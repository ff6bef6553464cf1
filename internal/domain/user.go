package domain

type MaritalStatus string

const (
	MaritalStatusSingle  MaritalStatus = "SINGLE"
	MaritalStatusMarried MaritalStatus = "MARRIED"
)

type UserRole string

const (
	UserRoleApplicant UserRole = "APPLICANT"
	UserRoleOfficer   UserRole = "OFFICER"
	UserRoleManager   UserRole = "MANAGER"
)

// User is any actor in the system. Applicants, officers and managers share
// the same record; the role decides which workflows they may drive.
type User struct {
	NRIC          string        `json:"nric"`
	Name          string        `json:"name"`
	Age           int32         `json:"age"`
	MaritalStatus MaritalStatus `json:"marital_status"`
	Email         string        `json:"email"`
	PasswordHash  string        `json:"-"`
	Role          UserRole      `json:"role"`
	CreatedOn     string        `json:"created_on"`
	UpdatedOn     string        `json:"updated_on"`
}
