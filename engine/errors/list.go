package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// List aggregates multiple engine errors so callers can report every
// problem in an annotation sequence at once instead of only the first.
type List struct {
	Errors []*EngineError
}

// NewList creates an empty error list.
func NewList() *List {
	return &List{}
}

// Add appends an error to the list. Nil errors are ignored; an
// *EngineError is stored as-is, anything else is wrapped.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	if ee, ok := err.(*EngineError); ok {
		l.Errors = append(l.Errors, ee)
		return
	}
	if other, ok := err.(*List); ok {
		l.Errors = append(l.Errors, other.Errors...)
		return
	}
	l.Errors = append(l.Errors, New("engine", "W000", err.Error()).Wrap(err))
}

// HasErrors returns true if the list contains at least one error.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

// Count returns the number of collected errors.
func (l *List) Count() int {
	return len(l.Errors)
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (l *List) Unwrap() []error {
	errs := make([]error, len(l.Errors))
	for i, e := range l.Errors {
		errs[i] = e
	}
	return errs
}

// ErrOrNil returns the list itself when it holds errors, nil otherwise.
func (l *List) ErrOrNil() error {
	if l.HasErrors() {
		return l
	}
	return nil
}

// Error implements the error interface
func (l *List) Error() string {
	if len(l.Errors) == 0 {
		return "no errors"
	}
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors:", len(l.Errors)))
	for _, e := range l.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// MarshalJSON implements json.Marshaler
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Errors []*EngineError `json:"errors"`
	}{Errors: l.Errors})
}
