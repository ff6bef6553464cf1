package domain

import "fmt"

// Flat is created at booking time only; the unit itself was consumed from
// the project inventory when the application was approved.
type Flat struct {
	ID            string   `json:"id"`
	ProjectID     int32    `json:"project_id"`
	FlatType      FlatType `json:"flat_type"`
	ApplicationID string   `json:"application_id"`
	CreatedOn     string   `json:"created_on"`
}

// FlatID derives the identity deterministically from the project, flat type
// and booking sequence, so re-runs over the same data produce the same ids.
func FlatID(projectID int32, ft FlatType, seq int32) string {
	return fmt.Sprintf("%d-%s-%03d", projectID, ft, seq)
}
