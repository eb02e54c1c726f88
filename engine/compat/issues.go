// Package compat classifies compatibility issues among an ordered set of
// directive instances: declared conflicts, unmet requirements, standard
// version mismatches and positional rules. The resolver only classifies;
// whether a blocking issue aborts the pipeline is the caller's decision.
package compat

import (
	"fmt"
	"strings"
)

// Severity distinguishes blocking issues from advisory ones.
type Severity string

const (
	// SeverityBlocking issues indicate the sequence cannot compose
	// correctly; callers in strict mode abort on them.
	SeverityBlocking Severity = "blocking"
	// SeverityAdvisory issues are reported without halting composition.
	SeverityAdvisory Severity = "advisory"
)

// Issue is one compatibility finding for a directive sequence.
type Issue struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Directives []string `json:"directives,omitempty"`
}

// Blocking reports whether the issue should abort strict composition.
func (i Issue) Blocking() bool {
	return i.Severity == SeverityBlocking
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s (%s)", i.Severity, i.Message, strings.Join(i.Directives, ", "))
}

// AnyBlocking reports whether the list contains a blocking issue.
func AnyBlocking(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Blocking() {
			return true
		}
	}
	return false
}

// FirstBlocking returns the first blocking issue, if any.
func FirstBlocking(issues []Issue) (Issue, bool) {
	for _, issue := range issues {
		if issue.Blocking() {
			return issue, true
		}
	}
	return Issue{}, false
}
