package directive

import "fmt"

// Placement controls where a rendered instruction is inserted relative
// to the accumulated text.
type Placement string

const (
	PlacementPrepend Placement = "prepend"
	PlacementAppend  Placement = "append"
	PlacementReplace Placement = "replace"
	PlacementWrap    Placement = "wrap"
)

// Behavior controls how a rendered instruction combines with instructions
// already occupying the same semantic slot (tracked by category).
type Behavior string

const (
	BehaviorOverride   Behavior = "override"
	BehaviorAccumulate Behavior = "accumulate"
)

// CompositionTemplate describes how a directive's instruction text is
// rendered and combined with other directives. The Instruction field is
// the base wording; ParameterEffects maps a parameter name and canonical
// value to the instruction fragment that value contributes.
type CompositionTemplate struct {
	Instruction string    `json:"instruction"`
	Placement   Placement `json:"placement"`
	Behavior    Behavior  `json:"behavior"`

	// WrapSuffix is the closing fragment appended after the text when
	// Placement is wrap.
	WrapSuffix string `json:"wrap_suffix,omitempty"`

	// ParameterEffects maps parameter name -> canonical value string ->
	// instruction fragment. A "*" value key matches any value not listed
	// explicitly.
	ParameterEffects map[string]map[string]string `json:"parameter_effects,omitempty"`
}

func (t *CompositionTemplate) validate() error {
	switch t.Placement {
	case PlacementPrepend, PlacementAppend, PlacementReplace, PlacementWrap:
	default:
		return fmt.Errorf("unknown placement %q", t.Placement)
	}
	switch t.Behavior {
	case BehaviorOverride, BehaviorAccumulate:
	default:
		return fmt.Errorf("unknown composition behavior %q", t.Behavior)
	}
	if t.Placement == PlacementWrap && t.WrapSuffix == "" {
		return fmt.Errorf("wrap placement requires a wrap_suffix")
	}
	return nil
}
