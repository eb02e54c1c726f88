package errors

import (
	"encoding/json"
	"fmt"
)

// Severity represents the severity level of an engine error.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Span identifies the region of the input text an error refers to,
// as byte offsets into the original (pre-extraction) text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// EngineError is the structured error type shared by every engine phase.
// The Phase and Code fields identify where the error came from; Directive,
// Parameter and Value carry enough context to render a precise user-facing
// message without re-parsing the input.
type EngineError struct {
	Phase      string   // "parser", "registry", "validation", "compatibility", "composition"
	Code       string   // "W001", "W100", etc.
	Message    string   // Human-readable message
	Directive  string   // Directive name, if known
	Parameter  string   // Parameter name, if the error is parameter-scoped
	Value      string   // Offending raw value, if any
	Span       *Span    // Location in the original text, if known
	Severity   Severity // Warning, Error, Fatal
	Suggestion string   // Optional hint for fixing the input
	Wrapped    error    // Underlying error, set for chain-step failures
}

// Error implements the error interface
func (e *EngineError) Error() string {
	switch {
	case e.Directive != "" && e.Parameter != "":
		return fmt.Sprintf("%s [%s]: %s.%s: %s", e.Phase, e.Code, e.Directive, e.Parameter, e.Message)
	case e.Directive != "":
		return fmt.Sprintf("%s [%s]: %s: %s", e.Phase, e.Code, e.Directive, e.Message)
	default:
		return fmt.Sprintf("%s [%s]: %s", e.Phase, e.Code, e.Message)
	}
}

// Unwrap returns the wrapped error, if any.
func (e *EngineError) Unwrap() error {
	return e.Wrapped
}

// New creates a new EngineError at Error severity.
func New(phase, code, message string) *EngineError {
	return &EngineError{
		Phase:    phase,
		Code:     code,
		Message:  message,
		Severity: Error,
	}
}

// WithDirective attaches the directive name to the error.
func (e *EngineError) WithDirective(name string) *EngineError {
	e.Directive = name
	return e
}

// WithParameter attaches the parameter name to the error.
func (e *EngineError) WithParameter(name string) *EngineError {
	e.Parameter = name
	return e
}

// WithValue attaches the offending raw value to the error.
func (e *EngineError) WithValue(value string) *EngineError {
	e.Value = value
	return e
}

// WithSpan attaches a source span to the error.
func (e *EngineError) WithSpan(start, end int) *EngineError {
	e.Span = &Span{Start: start, End: end}
	return e
}

// WithSuggestion attaches a fix suggestion to the error.
func (e *EngineError) WithSuggestion(suggestion string) *EngineError {
	e.Suggestion = suggestion
	return e
}

// Wrap attaches an underlying error.
func (e *EngineError) Wrap(err error) *EngineError {
	e.Wrapped = err
	return e
}

// MarshalJSON implements json.Marshaler
func (e *EngineError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Phase      string   `json:"phase"`
		Code       string   `json:"code"`
		Message    string   `json:"message"`
		Severity   Severity `json:"severity"`
		Directive  string   `json:"directive,omitempty"`
		Parameter  string   `json:"parameter,omitempty"`
		Value      string   `json:"value,omitempty"`
		Span       *Span    `json:"span,omitempty"`
		Suggestion string   `json:"suggestion,omitempty"`
	}{
		Phase:      e.Phase,
		Code:       e.Code,
		Message:    e.Message,
		Severity:   e.Severity,
		Directive:  e.Directive,
		Parameter:  e.Parameter,
		Value:      e.Value,
		Span:       e.Span,
		Suggestion: e.Suggestion,
	})
}
