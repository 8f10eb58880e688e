package bong

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/expr-lang/expr"
)

// Rule numbers enforced by the validator
const (
	RuleWorkerCount      = 3
	RuleMetadataMatch    = 5
	RuleNoCalculation    = 6
	RuleNoInstructions   = 7
	RuleArrowSpacing     = 8
	RuleTemporaryReturns = 10
	RuleMoveSubscripts   = 11
)

// Arrow is the directional glyph separating the sides of a movement
const Arrow = "→"

var (
	calculationPattern = regexp.MustCompile(`\([0-9+\-*/]+\)`)

	// Phrases that turn a note into an instruction rather than a statement of fact
	instructionPattern = regexp.MustCompile(`(?i)\b(make sure|remember to|don't forget|do not forget|you should|you need to|try to)\b`)
)

// FindCalculations returns every parenthesised arithmetic expression in the note
func FindCalculations(note string) []string {
	return calculationPattern.FindAllString(note, -1)
}

// EvaluateCalculation computes the value of a parenthesised expression such as "(3+2)".
// The second return is false when the expression is malformed or not finite.
func EvaluateCalculation(calc string) (string, bool) {
	out, err := expr.Eval(calc, nil)
	if err != nil {
		return "", false
	}
	switch v := out.(type) {
	case int:
		return fmt.Sprintf("%d", v), true
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", false
		}
		return fmt.Sprintf("%g", v), true
	default:
		return "", false
	}
}

// MissingArrowSpace reports whether any arrow in the note is not directly preceded by whitespace
func MissingArrowSpace(note string) bool {
	rest := note
	offset := 0
	for {
		idx := strings.Index(rest, Arrow)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		if pos == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(note[:pos])
		if !unicode.IsSpace(prev) {
			return true
		}
		offset = pos + len(Arrow)
		rest = note[offset:]
	}
}

// FindInstruction returns the first instructional phrase in the note, or ""
func FindInstruction(note string) string {
	return instructionPattern.FindString(note)
}

// subscriptHint suggests the glyph form of a tally typed with ASCII digits,
// e.g. ", write ₁₂ instead of 12". It is empty for any other invalid tally.
func subscriptHint(tally string) string {
	if tally == "" || strings.TrimLeft(tally, "0123456789") != "" {
		return ""
	}
	n, ok := parseCount(tally)
	if !ok {
		return ""
	}
	return fmt.Sprintf(", write %s instead of %s", EncodeSubscript(n), tally)
}

// checkNote applies the per-note formatting rules and token grammar checks
func checkNote(r *report, stepNum, lineNum int, note string, tokens NoteTokens) {
	for _, calc := range FindCalculations(note) {
		if value, ok := EvaluateCalculation(calc); ok {
			r.lineError("calculation_notation", RuleNoCalculation, stepNum, lineNum,
				"Contains calculation notation %s, write %s instead (Rule #6)", calc, value)
		} else {
			r.lineError("calculation_notation", RuleNoCalculation, stepNum, lineNum,
				"Contains calculation notation %s (Rule #6)", calc)
		}
	}

	if phrase := FindInstruction(note); phrase != "" {
		r.lineError("instructional_text", RuleNoInstructions, stepNum, lineNum,
			"Contains instructional text %q (Rule #7)", phrase)
	}

	if MissingArrowSpace(note) {
		r.lineError("arrow_spacing", RuleArrowSpacing, stepNum, lineNum,
			"Missing space before arrow (Rule #8)")
	}

	for _, add := range tokens.Adds {
		if !add.Valid {
			r.lineError("invalid_subscript", 0, stepNum, lineNum, "Invalid subscript%s", subscriptHint(add.Subscript))
		}
	}

	for _, move := range tokens.Moves {
		if move.Valid() {
			continue
		}
		bad := move.SourceSubscript
		if move.SourceValid {
			bad = move.DestSubscript
		}
		r.lineError("invalid_subscript", RuleMoveSubscripts, stepNum, lineNum,
			"Invalid subscript in movement%s (Rule #11)", subscriptHint(bad))
	}

	for _, tmp := range tokens.Temporaries {
		if !tmp.Returns() {
			r.lineError("temporary_not_returned", RuleTemporaryReturns, stepNum, lineNum,
				"Temporary builders must return to %s, not %s (Rule #10)",
				strings.TrimSpace(tmp.Source), strings.TrimSpace(tmp.Return))
		}
	}
}
