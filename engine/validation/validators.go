// Package validation checks and coerces raw annotation values against a
// directive's declared parameter schema. Coercion is total: on success
// the returned value has the canonical in-memory type for its kind
// (bool, float64, string, []any or map[string]any), so downstream
// composition code never re-parses. Validation is idempotent: an
// already-coerced value validates to itself.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// Validate checks rawValue against spec and returns the coerced value.
// dirName is carried into errors for reporting only.
func Validate(spec *directive.ParameterSpec, dirName string, rawValue any) (any, error) {
	switch spec.Kind {
	case directive.KindString:
		return validateString(spec, dirName, rawValue)
	case directive.KindBoolean:
		return validateBoolean(spec, dirName, rawValue)
	case directive.KindNumber:
		return validateNumber(spec, dirName, rawValue)
	case directive.KindEnum:
		return validateEnum(spec, dirName, rawValue)
	case directive.KindArray:
		return validateArray(spec, dirName, rawValue)
	case directive.KindObject:
		return validateObject(spec, dirName, rawValue)
	default:
		return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
			fmt.Sprintf("unknown parameter kind %q", spec.Kind), rawValue)
	}
}

func validateString(spec *directive.ParameterSpec, dirName string, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
			fmt.Sprintf("expected a string, got %s", kindOf(raw)), raw)
	}
	if spec.Pattern != "" {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fail(spec, dirName, wefterrors.ErrPatternMismatch,
				fmt.Sprintf("invalid pattern %q: %v", spec.Pattern, err), raw)
		}
		if !re.MatchString(s) {
			return nil, fail(spec, dirName, wefterrors.ErrPatternMismatch,
				fmt.Sprintf("value %q does not match pattern %q", s, spec.Pattern), raw)
		}
	}
	return s, nil
}

func validateBoolean(spec *directive.ParameterSpec, dirName string, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		// Serialized forms re-enter through the decode path as strings.
		switch strings.ToLower(v) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
		fmt.Sprintf("expected a boolean, got %s", kindOf(raw)), raw)
}

func validateNumber(spec *directive.ParameterSpec, dirName string, raw any) (any, error) {
	n, ok := toFloat64(raw)
	if !ok {
		return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
			fmt.Sprintf("expected a number, got %s", kindOf(raw)), raw)
	}
	// NaN compares false against any bound, so it must be rejected
	// before the range checks.
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
			fmt.Sprintf("expected a finite number, got %v", n), raw)
	}
	if spec.Min != nil && n < *spec.Min {
		return nil, fail(spec, dirName, wefterrors.ErrOutOfRange,
			fmt.Sprintf("value %v is below the minimum %v", n, *spec.Min), raw)
	}
	if spec.Max != nil && n > *spec.Max {
		return nil, fail(spec, dirName, wefterrors.ErrOutOfRange,
			fmt.Sprintf("value %v is above the maximum %v", n, *spec.Max), raw)
	}
	return n, nil
}

func validateEnum(spec *directive.ParameterSpec, dirName string, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
			fmt.Sprintf("expected an enum value, got %s", kindOf(raw)), raw)
	}
	for _, allowed := range spec.EnumValues {
		if s == allowed {
			return allowed, nil
		}
	}
	return nil, failWith(spec, dirName, wefterrors.ErrNotInEnum,
		fmt.Sprintf("value %q is not one of the allowed values", s), raw,
		"allowed values: "+strings.Join(spec.EnumValues, ", "))
}

func validateArray(spec *directive.ParameterSpec, dirName string, raw any) (any, error) {
	items, ok := toSlice(raw)
	if !ok {
		return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
			fmt.Sprintf("expected a list, got %s", kindOf(raw)), raw)
	}
	if spec.MinLength != nil && len(items) < *spec.MinLength {
		return nil, fail(spec, dirName, wefterrors.ErrArrayLength,
			fmt.Sprintf("list has %d items, minimum is %d", len(items), *spec.MinLength), raw)
	}
	if spec.MaxLength != nil && len(items) > *spec.MaxLength {
		return nil, fail(spec, dirName, wefterrors.ErrArrayLength,
			fmt.Sprintf("list has %d items, maximum is %d", len(items), *spec.MaxLength), raw)
	}
	coerced := make([]any, len(items))
	for i, item := range items {
		v, err := Validate(spec.Items, dirName, item)
		if err != nil {
			return nil, fail(spec, dirName, wefterrors.ErrArrayElement,
				fmt.Sprintf("element %d: %v", i, elementReason(err)), item)
		}
		coerced[i] = v
	}
	return coerced, nil
}

func validateObject(spec *directive.ParameterSpec, dirName string, raw any) (any, error) {
	obj, ok := toStringMap(raw)
	if !ok {
		return nil, fail(spec, dirName, wefterrors.ErrTypeMismatch,
			fmt.Sprintf("expected an object, got %s", kindOf(raw)), raw)
	}
	for _, key := range spec.RequiredKeys {
		if _, present := obj[key]; !present {
			return nil, fail(spec, dirName, wefterrors.ErrMissingKey,
				fmt.Sprintf("missing required key %q", key), raw)
		}
	}
	coerced := make(map[string]any, len(obj))
	for key, value := range obj {
		sub, declared := spec.Properties[key]
		if !declared {
			if !spec.AllowExtra {
				return nil, fail(spec, dirName, wefterrors.ErrUnexpectedKey,
					fmt.Sprintf("unexpected key %q", key), value)
			}
			coerced[key] = value
			continue
		}
		v, err := Validate(sub, dirName, value)
		if err != nil {
			return nil, fail(spec, dirName, wefterrors.ErrUnexpectedKey,
				fmt.Sprintf("key %q: %v", key, elementReason(err)), value)
		}
		coerced[key] = v
	}
	return coerced, nil
}

// toFloat64 accepts the canonical float64 plus the integer forms that
// arrive from JSON decoding with UseNumber disabled or from Go callers.
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	default:
		return nil, false
	}
}

func toStringMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return m, true
	default:
		return nil, false
	}
}

// kindOf names the raw value's type for error messages.
func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64:
		return "number"
	case string:
		return "string"
	case []any, []string:
		return "list"
	case map[string]any, map[string]string:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// elementReason strips the directive/parameter framing from a nested
// error so the message reads well inside the enclosing one.
func elementReason(err error) string {
	if ee, ok := err.(*wefterrors.EngineError); ok {
		return ee.Message
	}
	return err.Error()
}

func fail(spec *directive.ParameterSpec, dirName, code, message string, raw any) *wefterrors.EngineError {
	return wefterrors.New(wefterrors.PhaseValidation, code, message).
		WithDirective(dirName).
		WithParameter(spec.Name).
		WithValue(fmt.Sprintf("%v", raw))
}

func failWith(spec *directive.ParameterSpec, dirName, code, message string, raw any, suggestion string) *wefterrors.EngineError {
	return fail(spec, dirName, code, message, raw).WithSuggestion(suggestion)
}
