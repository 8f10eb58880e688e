package bong

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonathan/buildorder-validator/internal/types"
)

// report accumulates the violations of one validation run
type report struct {
	violations []types.Violation
}

func (r *report) add(v types.Violation) {
	r.violations = append(r.violations, v)
}

func (r *report) fileError(kind string, format string, args ...any) {
	r.add(types.Violation{
		Type:     kind,
		Severity: types.SeverityError,
		Details:  fmt.Sprintf(format, args...),
	})
}

func (r *report) stepError(kind string, rule, stepNum int, format string, args ...any) {
	r.add(types.Violation{
		Type:       kind,
		Severity:   types.SeverityError,
		Details:    fmt.Sprintf("Step %d: ", stepNum) + fmt.Sprintf(format, args...),
		Rule:       rule,
		StepNumber: intPtr(stepNum),
	})
}

func (r *report) lineError(kind string, rule, stepNum, lineNum int, format string, args ...any) {
	r.add(types.Violation{
		Type:       kind,
		Severity:   types.SeverityError,
		Details:    fmt.Sprintf("Step %d, line %d: ", stepNum, lineNum) + fmt.Sprintf(format, args...),
		Rule:       rule,
		StepNumber: intPtr(stepNum),
		LineNumber: intPtr(lineNum),
	})
}

func (r *report) errorCount() int {
	n := 0
	for _, v := range r.violations {
		if v.IsError() {
			n++
		}
	}
	return n
}

// Validator checks build orders against the BONG notation rules
type Validator struct {
	reconciler Reconciler
}

// Option configures a Validator
type Option func(*Validator)

// WithReconciler replaces the strategy used to commit a step into the worker state
func WithReconciler(r Reconciler) Option {
	return func(v *Validator) {
		if r != nil {
			v.reconciler = r
		}
	}
}

// NewValidator creates a Validator using MetadataReconciler unless overridden
func NewValidator(opts ...Option) *Validator {
	v := &Validator{reconciler: MetadataReconciler{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every rule over the build order. Each call starts from a zero
// WorkerState, so validating the same document twice yields the same violations.
func (v *Validator) Validate(doc *types.BuildOrder) *types.Violations {
	r := &report{}
	v.validate(r, doc)
	return &types.Violations{Violations: r.violations}
}

// ValidateResult runs Validate and folds the violations into a per-file result
func (v *Validator) ValidateResult(file string, doc *types.BuildOrder) types.ValidationResult {
	return types.NewValidationResult(file, v.Validate(doc))
}

func (v *Validator) validate(r *report, doc *types.BuildOrder) {
	if doc == nil || !doc.HasSteps() {
		r.fileError("missing_build_order", "Missing 'build_order' field")
		return
	}

	steps, err := doc.DecodeSteps()
	if err != nil {
		r.fileError("malformed_build_order", "%v", err)
		return
	}
	if len(steps) == 0 {
		r.fileError("empty_build_order", "Build order has no steps")
		return
	}

	state := WorkerState{}
	var last StepInput

	for i, raw := range steps {
		before := r.errorCount()
		input, ok := v.checkStep(r, i+1, raw, state)
		last = input
		if ok && r.errorCount() == before {
			state = v.reconciler.Reconcile(state, input)
		}
	}

	if checker, ok := v.reconciler.(FinalChecker); ok {
		for _, violation := range checker.FinalCheck(state, last) {
			r.add(violation)
		}
	}
}

// checkStep validates one step against the state left by the previous steps.
// The boolean is false when the step could not be decoded far enough to check its notes.
func (v *Validator) checkStep(r *report, stepNum int, raw json.RawMessage, prev WorkerState) (StepInput, bool) {
	input := StepInput{Number: stepNum}

	var step types.Step
	if err := json.Unmarshal(raw, &step); err != nil {
		r.stepError("malformed_step", 0, stepNum, "Malformed step: %v", err)
		return input, false
	}
	input.Step = &step

	notes, ok := decodeNotes(r, stepNum, step.Notes)
	if !ok {
		return input, false
	}
	input.Notes = notes

	for i, note := range notes {
		tokens := ParseNote(note)
		checkNote(r, stepNum, i+1, note, tokens)
		input.addTokens(tokens)
	}

	if step.TracksVillagers() {
		declared := *step.VillagerCount
		calculated := prev.Total + input.WorkersAdded
		if declared != calculated {
			r.stepError("worker_count_mismatch", RuleWorkerCount, stepNum,
				"Worker count mismatch. Metadata: %d, Calculated: %d (Rule #3)", declared, calculated)
		}
	}

	return input, true
}

// decodeNotes unpacks the notes array, reporting a missing or non-list value
// as a step error and a non-string entry as a line error.
func decodeNotes(r *report, stepNum int, raw json.RawMessage) ([]string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		r.stepError("missing_notes", 0, stepNum, "Missing 'notes' field")
		return nil, false
	}
	if trimmed[0] != '[' {
		r.stepError("notes_not_list", 0, stepNum, "'notes' must be a list")
		return nil, false
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		r.stepError("notes_not_list", 0, stepNum, "'notes' must be a list")
		return nil, false
	}

	notes := make([]string, 0, len(entries))
	for i, entry := range entries {
		var note string
		if err := json.Unmarshal(entry, &note); err != nil {
			r.lineError("note_not_string", 0, stepNum, i+1, "Note must be a string")
			note = "" // keeps later notes on their own line numbers
		}
		notes = append(notes, note)
	}
	return notes, true
}

func intPtr(i int) *int {
	return &i
}

// Check decodes a JSON build order and validates it. A document that is not a
// JSON object is reported as a single file-level error.
func (v *Validator) Check(file string, content []byte) types.ValidationResult {
	var doc types.BuildOrder
	if err := json.Unmarshal(content, &doc); err != nil {
		return types.FileError(file, fmt.Sprintf("Build order must be a JSON object: %v", err))
	}
	return v.ValidateResult(file, &doc)
}
