package service

import (
	"errors"
	"strings"
)

// ValidationErrors collects every problem found in a submitted form so the
// page can show them all at once. errors.Is matches any collected error.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

func (v ValidationErrors) Unwrap() []error {
	return v
}

// Messages returns one line per error for the form template.
func (v ValidationErrors) Messages() []string {
	out := make([]string, len(v))
	for i, err := range v {
		out[i] = err.Error()
	}
	return out
}

// Add appends err when it is not nil.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		*v = append(*v, err)
	}
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidation extracts ValidationErrors from err.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
