package errors

import stderrors "errors"

// Error code constants organized by phase
// W001-W099: Parser errors
// W100-W199: Registry errors
// W200-W299: Validation errors
// W300-W399: Compatibility errors
// W400-W499: Composition errors

const (
	// Parser errors (W001-W099)
	ErrUnterminatedQuote   = "W001"
	ErrUnterminatedList    = "W002"
	ErrUnterminatedParams  = "W003"
	ErrMalformedParameter  = "W004"
	ErrEmptyParameterName  = "W005"
	ErrEmptyParameterValue = "W006"

	// Registry errors (W100-W199)
	ErrUnknownDirective    = "W100"
	ErrIncompatibleVersion = "W101"
	ErrDuplicateDefinition = "W102"
	ErrInvalidDefinition   = "W103"
	ErrInvalidVersion      = "W104"

	// Validation errors (W200-W299)
	ErrMissingParameter = "W200"
	ErrTypeMismatch     = "W201"
	ErrOutOfRange       = "W202"
	ErrNotInEnum        = "W203"
	ErrPatternMismatch  = "W204"
	ErrArrayLength      = "W205"
	ErrArrayElement     = "W206"
	ErrMissingKey       = "W207"
	ErrUnexpectedKey    = "W208"
	ErrUnknownParameter = "W209"

	// Compatibility errors (W300-W399)
	ErrConflict           = "W300"
	ErrMissingRequirement = "W301"
	ErrVersionPlacement   = "W302"
	ErrStandardVersion    = "W303"
	ErrBlockingIssue      = "W304"
	ErrRedundantDirective = "W305"

	// Composition errors (W400-W499)
	ErrChainStep         = "W400"
	ErrUnknownMetaTarget = "W401"
)

// Phase name constants shared by the engine packages.
const (
	PhaseParser        = "parser"
	PhaseRegistry      = "registry"
	PhaseValidation    = "validation"
	PhaseCompatibility = "compatibility"
	PhaseComposition   = "composition"
)

// IsCode reports whether err (or any error it wraps or aggregates) is an
// EngineError carrying the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if list, ok := err.(*List); ok {
		for _, e := range list.Errors {
			if IsCode(e, code) {
				return true
			}
		}
		return false
	}
	var ee *EngineError
	if stderrors.As(err, &ee) {
		if ee.Code == code {
			return true
		}
		return IsCode(ee.Wrapped, code)
	}
	return false
}
