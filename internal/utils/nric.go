package utils

import (
	"fmt"
	"regexp"
)

// NRIC format: one letter, seven digits, one letter. Validated at the API
// boundary so the core never sees malformed identities.
var nricPattern = regexp.MustCompile(`^[A-Za-z][0-9]{7}[A-Za-z]$`)

// ValidateNRIC checks the identity string against the required pattern.
func ValidateNRIC(nric string) error {
	if !nricPattern.MatchString(nric) {
		return fmt.Errorf("invalid NRIC format: %q", nric)
	}
	return nil
}
