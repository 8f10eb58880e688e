// Package types provides type definitions for structured data used throughout the build-order validator.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Severity levels for a Violation
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation represents a single validation failure
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`

	// Location of the offending note; nil when the violation is file- or step-level
	Rule       int  `json:"rule,omitempty"`
	StepNumber *int `json:"step_number,omitempty"`
	LineNumber *int `json:"line_number,omitempty"`
}

// IsError reports whether the violation invalidates the file
func (v Violation) IsError() bool {
	return v.Severity != SeverityWarning
}

// Violations represents a collection of validation failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any violation has error severity
func (v *Violations) HasErrors() bool {
	if v == nil {
		return false
	}
	for _, violation := range v.Violations {
		if violation.IsError() {
			return true
		}
	}
	return false
}

// Split separates violation details into error and warning messages, preserving order.
// Both slices are non-nil so results compare equal across runs.
func (v *Violations) Split() (errs []string, warnings []string) {
	errs = []string{}
	warnings = []string{}
	if v == nil {
		return errs, warnings
	}
	for _, violation := range v.Violations {
		if violation.IsError() {
			errs = append(errs, violation.Details)
		} else {
			warnings = append(warnings, violation.Details)
		}
	}
	return errs, warnings
}
