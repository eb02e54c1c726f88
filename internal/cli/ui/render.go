// Package ui renders engine errors and compatibility issues for the
// terminal.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/weft-lang/weft/engine/compat"
	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// WriteIssues renders a compatibility issue list: blocking issues in
// red, advisory ones in yellow.
func WriteIssues(w io.Writer, issues []compat.Issue, noColor bool) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	if noColor {
		red.DisableColor()
		yellow.DisableColor()
	}

	for _, issue := range issues {
		c := yellow
		if issue.Blocking() {
			c = red
		}
		c.Fprintf(w, "%s [%s] %s\n", strings.ToUpper(string(issue.Severity)), issue.Code, issue.Message)
		if len(issue.Directives) > 0 {
			fmt.Fprintf(w, "   directives: %s\n", strings.Join(issue.Directives, ", "))
		}
	}
}

// WriteError renders an engine error (or error list) with its code,
// location and suggestion. Unknown directive names get "did you mean"
// suggestions from the candidate list.
func WriteError(w io.Writer, err error, candidates []string, noColor bool) {
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan)
	if noColor {
		red.DisableColor()
		cyan.DisableColor()
	}

	var list *wefterrors.List
	if errors.As(err, &list) {
		for _, ee := range list.Errors {
			writeOne(w, ee, candidates, red, cyan)
		}
		return
	}

	var ee *wefterrors.EngineError
	if errors.As(err, &ee) {
		writeOne(w, ee, candidates, red, cyan)
		return
	}

	red.Fprintf(w, "error: %v\n", err)
}

func writeOne(w io.Writer, ee *wefterrors.EngineError, candidates []string, red, cyan *color.Color) {
	red.Fprintf(w, "%s\n", ee.Error())
	if ee.Span != nil {
		fmt.Fprintf(w, "   at offset %d..%d\n", ee.Span.Start, ee.Span.End)
	}
	if ee.Suggestion != "" {
		cyan.Fprintf(w, "   → %s\n", ee.Suggestion)
	}
	if ee.Code == wefterrors.ErrUnknownDirective && ee.Directive != "" {
		if similar := FindSimilar(ee.Directive, candidates); len(similar) > 0 {
			cyan.Fprintf(w, "   Did you mean: %s?\n", strings.Join(similar, ", "))
		}
	}
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	green.Fprintf(w, "✓ %s\n", message)
}
