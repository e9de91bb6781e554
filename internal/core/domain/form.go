package domain

import "strings"

// Form is a single form submission as stored and returned by the API.
// ID is assigned by the store on creation and never changes.
type Form struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
}

// FormInput carries the five client-supplied fields for create and update.
// Update always replaces all of them.
type FormInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
}

// MissingFields returns the JSON names of empty fields, in declaration order.
func (in FormInput) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"username", in.Username},
		{"email", in.Email},
		{"description", in.Description},
		{"phone", in.Phone},
		{"city", in.City},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate returns ErrValidation naming the missing fields, or nil.
func (in FormInput) Validate() error {
	if missing := in.MissingFields(); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ValidationError lists the required fields a request left empty.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
