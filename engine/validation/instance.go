package validation

import (
	"fmt"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// Instance validates a raw parameter map against the definition's schema
// and constructs an immutable directive instance. Every error in the map
// is collected before returning, so a caller can report all problems at
// once rather than only the first.
func Instance(def *directive.Definition, raw map[string]any) (*directive.Instance, error) {
	errs := wefterrors.NewList()
	params := make(map[string]any, len(def.Parameters))

	for _, spec := range def.Parameters {
		value, supplied := raw[spec.Name]
		if supplied && value != nil {
			coerced, err := Validate(spec, def.Name, value)
			if err != nil {
				errs.Add(err)
				continue
			}
			params[spec.Name] = coerced
			continue
		}

		// Absent or explicit null: fall back to the default, then to the
		// required check. Null is only accepted where a default exists or
		// the parameter is optional.
		if spec.Default != nil {
			coerced, err := Validate(spec, def.Name, spec.Default)
			if err != nil {
				// Defaults are checked at registration; reaching this
				// means the definition bypassed Register.
				errs.Add(err)
				continue
			}
			params[spec.Name] = coerced
			continue
		}
		if spec.Required {
			errs.Add(wefterrors.New(wefterrors.PhaseValidation, wefterrors.ErrMissingParameter,
				fmt.Sprintf("required parameter %q is missing", spec.Name)).
				WithDirective(def.Name).
				WithParameter(spec.Name))
		}
	}

	for name := range raw {
		if def.Parameter(name) == nil {
			errs.Add(wefterrors.New(wefterrors.PhaseValidation, wefterrors.ErrUnknownParameter,
				fmt.Sprintf("parameter %q is not declared by %s", name, def.Name)).
				WithDirective(def.Name).
				WithParameter(name))
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return directive.NewInstance(def, params), nil
}

// CheckDefaults verifies that every declared default value satisfies its
// own spec's constraints. Called by the catalog at registration time to
// enforce the definition invariant.
func CheckDefaults(def *directive.Definition) error {
	for _, spec := range def.Parameters {
		if spec.Default == nil {
			continue
		}
		if _, err := Validate(spec, def.Name, spec.Default); err != nil {
			return wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidDefinition,
				fmt.Sprintf("default for parameter %q fails its own constraints: %v",
					spec.Name, elementReason(err))).
				WithDirective(def.Name).
				WithParameter(spec.Name)
		}
	}
	return nil
}
