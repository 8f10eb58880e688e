package batch

import "fmt"

// FileReadError represents an error reading a build order file
type FileReadError struct {
	Path     string
	NotFound bool
	Cause    error
}

func (e *FileReadError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("File not found: %s", e.Path)
	}
	return fmt.Sprintf("Error reading file: %v", e.Cause)
}

func (e *FileReadError) Unwrap() error {
	return e.Cause
}

// ParseError represents a malformed JSON document
type ParseError struct {
	Path   string
	Line   int
	Column int
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("JSON parse error: %v (line %d, column %d)", e.Cause, e.Line, e.Column)
	}
	return fmt.Sprintf("JSON parse error: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
