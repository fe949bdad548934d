// Package validation provides input validation utilities. Rules are checked
// independently and every violation is collected, so a caller always sees the
// full list of problems with an input object, not just the first one.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"quill/internal/models"
)

// MinFieldLength is the minimum length for titles, content, and passwords.
const MinFieldLength = 5

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Violations accumulates violated rules for one input object.
type Violations struct {
	list []models.FieldError
}

// Add records a violation for the given field.
func (v *Violations) Add(field, message string) {
	v.list = append(v.list, models.FieldError{Field: field, Message: message})
}

// List returns the accumulated violations in the order they were recorded.
func (v *Violations) List() []models.FieldError {
	return v.list
}

// Empty reports whether no rule was violated.
func (v *Violations) Empty() bool {
	return len(v.list) == 0
}

// Err converts the accumulated violations into a single aggregate failure,
// or nil when everything passed.
func (v *Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return models.NewValidationError(v.list)
}

// RequireNonEmpty checks that value is not blank.
func (v *Violations) RequireNonEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("%s is required", field))
	}
}

// RequireMinLength checks that value has at least min characters.
// A blank value is reported as missing rather than too short.
func (v *Violations) RequireMinLength(field, value string, min int) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("%s is required", field))
		return
	}
	if len(value) < min {
		v.Add(field, fmt.Sprintf("%s must be at least %d characters long", field, min))
	}
}

// RequireEmail checks basic email format.
func (v *Violations) RequireEmail(field, value string) {
	if !emailRegex.MatchString(value) {
		v.Add(field, fmt.Sprintf("%s is not a valid email address", field))
	}
}

// SignupInput validates a registration request.
func SignupInput(email, name, password string) *Violations {
	v := &Violations{}
	v.RequireEmail("email", email)
	v.RequireNonEmpty("name", name)
	v.RequireMinLength("password", password, MinFieldLength)
	return v
}

// PostInput validates the mutable fields of a post. requireImage is true on
// creation, where an image reference must be present.
func PostInput(title, content, imageURL string, requireImage bool) *Violations {
	v := &Violations{}
	v.RequireMinLength("title", title, MinFieldLength)
	v.RequireMinLength("content", content, MinFieldLength)
	if requireImage {
		v.RequireNonEmpty("imageUrl", imageURL)
	}
	return v
}

// StatusInput validates a status update.
func StatusInput(status string) *Violations {
	v := &Violations{}
	v.RequireNonEmpty("status", status)
	return v
}
