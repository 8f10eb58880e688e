package schemas

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/buildorder-validator/internal/types"
)

// BuildOrderSchema is the JSON Schema of a build order file
//
//go:embed build_order.schema.json
var BuildOrderSchema []byte

// StructureValidator checks build order files against a JSON Schema
type StructureValidator struct {
	name   string
	schema []byte
	// path is set for schema files; they are loaded by reference so relative $refs resolve
	path string
}

// NewStructureValidator returns a validator using the embedded build order schema
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{name: "build_order.schema.json", schema: BuildOrderSchema}
}

// NewStructureValidatorFromFile returns a validator using the schema file at path.
// Documents are then validated from their files with ValidateJSON.
func NewStructureValidatorFromFile(path string) (*StructureValidator, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Path: path, Message: "failed to read schema file", Cause: err}
	}
	return &StructureValidator{name: path, schema: content, path: path}, nil
}

// Validate checks JSON content and returns the per-file result. With a schema
// file the document is re-read from file.
func (s *StructureValidator) Validate(file string, content []byte) types.ValidationResult {
	var err error
	if s.path != "" {
		err = ValidateJSON(s.path, file)
	} else {
		err = ValidateJSONBytes(s.name, s.schema, content)
	}
	if err == nil {
		return types.NewValidationResult(file, &types.Violations{})
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		return types.FileError(file, fmt.Sprintf("Error reading file: %v", err))
	}

	fieldErrors := append([]FieldError(nil), validationErr.Errors...)
	sort.SliceStable(fieldErrors, func(i, j int) bool {
		return lessFieldError(fieldErrors[i], fieldErrors[j])
	})

	violations := &types.Violations{Violations: make([]types.Violation, 0, len(fieldErrors))}
	for _, fe := range fieldErrors {
		violations.Violations = append(violations.Violations, types.Violation{
			Type:     fe.Type,
			Severity: types.SeverityError,
			Details:  DescribeFieldError(fe),
		})
	}
	return types.NewValidationResult(file, violations)
}

// fieldPath is a parsed gojsonschema field such as "build_order.2.notes.0"
type fieldPath struct {
	step     int // 1-based, 0 when outside build_order items
	note     int // 1-based, 0 when not a note entry
	segments []string
}

func parseFieldPath(field string) fieldPath {
	if field == "" || field == "(root)" {
		return fieldPath{}
	}
	fp := fieldPath{segments: strings.Split(field, ".")}
	if len(fp.segments) >= 2 && fp.segments[0] == "build_order" {
		if n, err := strconv.Atoi(fp.segments[1]); err == nil {
			fp.step = n + 1
		}
	}
	if fp.step > 0 && len(fp.segments) == 4 && fp.segments[2] == "notes" {
		if n, err := strconv.Atoi(fp.segments[3]); err == nil {
			fp.note = n + 1
		}
	}
	return fp
}

// leaf returns the last path segment, or "" at the root
func (fp fieldPath) leaf() string {
	if len(fp.segments) == 0 {
		return ""
	}
	return fp.segments[len(fp.segments)-1]
}

// inResources reports whether the path points inside a step's resources object
func (fp fieldPath) inResources() bool {
	return fp.step > 0 && len(fp.segments) >= 3 && fp.segments[2] == "resources"
}

func lessFieldError(a, b FieldError) bool {
	pa, pb := parseFieldPath(a.Field), parseFieldPath(b.Field)
	if pa.step != pb.step {
		return pa.step < pb.step
	}
	if pa.note != pb.note {
		return pa.note < pb.note
	}
	return DescribeFieldError(a) < DescribeFieldError(b)
}

// DescribeFieldError renders a schema error the way build order authors read it,
// e.g. "Step 2: Missing required field 'notes'".
func DescribeFieldError(fe FieldError) string {
	fp := parseFieldPath(fe.Field)
	prefix := ""
	if fp.step > 0 {
		prefix = fmt.Sprintf("Step %d: ", fp.step)
	}
	if fp.note > 0 {
		prefix = fmt.Sprintf("Step %d, note %d: ", fp.step, fp.note)
	}

	switch fe.Type {
	case "required":
		property := fmt.Sprint(fe.Details["property"])
		switch {
		case fp.step == 0:
			return fmt.Sprintf("Missing required field: '%s'", property)
		case fp.inResources():
			return prefix + fmt.Sprintf("Missing resource '%s'", property)
		default:
			return prefix + fmt.Sprintf("Missing required field '%s'", property)
		}

	case "invalid_type":
		expected := fmt.Sprint(fe.Details["expected"])
		switch {
		case fp.note > 0:
			return prefix + "Must be a string"
		case fp.step == 0 && fp.leaf() == "":
			return "Build order must be a JSON object"
		case fp.step == 0:
			return fmt.Sprintf("'%s' must be %s", fp.leaf(), article(expected))
		case len(fp.segments) == 2:
			return prefix + "Must be a dictionary"
		case fp.inResources() && len(fp.segments) == 4:
			return prefix + fmt.Sprintf("Resource '%s' must be an integer", fp.leaf())
		default:
			return prefix + fmt.Sprintf("'%s' must be %s", fp.leaf(), article(expected))
		}

	case "array_min_items":
		if fp.step == 0 {
			return fmt.Sprintf("'%s' must contain at least one step", fp.leaf())
		}
		return prefix + fmt.Sprintf("'%s' must contain at least one note", fp.leaf())
	}

	return prefix + fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// article maps a JSON Schema type to the phrase used in messages
func article(schemaType string) string {
	switch schemaType {
	case "array":
		return "a list"
	case "object":
		return "a dictionary"
	case "integer":
		return "an integer"
	case "string":
		return "a string"
	default:
		return schemaType
	}
}
