// Package enquiry defines the lead-capture form and its validation
// rules.
package enquiry

import (
	"regexp"
	"strings"
)

// Form field names, used as keys in the validation error map.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldMessage = "message"
)

// A minimal structural check, not full RFC validation: something,
// an @, something, a dot, something.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Form is the enquiry draft a visitor fills in. Phone is optional.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Validate applies every rule independently and returns all failures
// keyed by field name. An empty map means the form is valid.
func Validate(f Form) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(f.Name) == "" {
		errors[FieldName] = "Name is required"
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errors[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(f.Email):
		errors[FieldEmail] = "Email is invalid"
	}

	if strings.TrimSpace(f.Message) == "" {
		errors[FieldMessage] = "Message is required"
	}

	return errors
}
