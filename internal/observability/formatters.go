// Package observability provides formatted report output for the validator CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/buildorder-validator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// bannerWidth is the width of the "=" rule around each file header
	bannerWidth = 60
)

var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
)

// Printer handles formatted report output
type Printer struct {
	out io.Writer

	header  lipgloss.Style
	valid   lipgloss.Style
	errors  lipgloss.Style
	warning lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer.
// Styling is dropped automatically when the writer is not a terminal.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		header:  r.NewStyle().Bold(true).Foreground(colorCyan),
		valid:   r.NewStyle().Bold(true).Foreground(colorGreen),
		errors:  r.NewStyle().Bold(true).Foreground(colorRed),
		warning: r.NewStyle().Bold(true).Foreground(colorYellow),
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes
func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// PrintFileHeader outputs the banner opening a file's section, e.g. "Testing: opening.json"
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFileHeader(label, name string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(p.out, "\n%s\n", rule)
	fmt.Fprintf(p.out, "%s\n", p.header.Render(fmt.Sprintf("%s: %s", label, name)))
	fmt.Fprintf(p.out, "%s\n", rule)
}

// PrintResult outputs the outcome of one file: the valid marker, or the
// enumerated errors and warnings.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResult(result types.ValidationResult, validMessage string) {
	if result.Valid && len(result.Warnings) == 0 {
		fmt.Fprintf(p.out, "%s - %s\n", p.valid.Render("[VALID]"), validMessage)
		return
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(p.out, "\n%s\n", p.errors.Render(fmt.Sprintf("[ERRORS] (%d):", len(result.Errors))))
		for _, e := range result.Errors {
			fmt.Fprintf(p.out, "  - %s\n", e)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(p.out, "\n%s\n", p.warning.Render(fmt.Sprintf("[WARNINGS] (%d):", len(result.Warnings))))
		for _, w := range result.Warnings {
			fmt.Fprintf(p.out, "  - %s\n", w)
		}
	}
}

// PrintSummary outputs the trailing global summary line
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(allValid bool, passMessage string) {
	fmt.Fprintf(p.out, "\n%s\n", strings.Repeat("=", bannerWidth))
	if allValid {
		fmt.Fprintf(p.out, "%s\n", p.valid.Render(passMessage))
		return
	}
	fmt.Fprintf(p.out, "%s\n", p.errors.Render("Some files failed validation."))
}

// RunInfo describes a batch run for verbose output
type RunInfo struct {
	RunID     string
	Validator string
	Files     int
	Workers   int
	Schema    string
}

// PrintRunInfo outputs a summary of the batch about to run
func (p *Printer) PrintRunInfo(info RunInfo) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", info.RunID))
	sb.WriteString(fmt.Sprintf("Files:    %d\n", info.Files))
	sb.WriteString(fmt.Sprintf("Workers:  %d\n", info.Workers))
	if info.Schema != "" {
		sb.WriteString(fmt.Sprintf("Schema:   %s\n", info.Schema))
	}
	p.printBox(strings.ToUpper(info.Validator)+" VALIDATION", sb.String())
}

// PrintBuildOrder outputs the descriptive fields of a build order
func (p *Printer) PrintBuildOrder(doc *types.BuildOrder) {
	if doc == nil {
		return
	}
	steps, _ := doc.DecodeSteps()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:          %s\n", types.Text(doc.Name)))
	if civ := types.Text(doc.Civilization); civ != "" {
		sb.WriteString(fmt.Sprintf("Civilization:  %s\n", civ))
	}
	if author := types.Text(doc.Author); author != "" {
		sb.WriteString(fmt.Sprintf("Author:        %s\n", author))
	}
	sb.WriteString(fmt.Sprintf("Steps:         %d\n", len(steps)))
	p.printBox("BUILD ORDER", sb.String())
}
