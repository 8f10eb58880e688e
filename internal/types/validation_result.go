package types

// ValidationResult is the per-file outcome of a validator run
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult builds a result from collected violations.
// The file is valid iff no violation has error severity.
func NewValidationResult(file string, violations *Violations) ValidationResult {
	errs, warnings := violations.Split()
	return ValidationResult{
		File:     file,
		Valid:    !violations.HasErrors(),
		Errors:   errs,
		Warnings: warnings,
	}
}

// FileError builds an invalid result carrying a single file-level error
func FileError(file string, message string) ValidationResult {
	return ValidationResult{
		File:     file,
		Valid:    false,
		Errors:   []string{message},
		Warnings: []string{},
	}
}

// Clean reports whether the result has no errors, and no warnings when strict is set
func (r ValidationResult) Clean(strict bool) bool {
	if !r.Valid {
		return false
	}
	return !strict || len(r.Warnings) == 0
}
