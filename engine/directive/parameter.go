package directive

import (
	"fmt"
	"regexp"
)

// Kind identifies the declared type of a directive parameter.
type Kind string

const (
	KindString  Kind = "string"
	KindBoolean Kind = "boolean"
	KindNumber  Kind = "number"
	KindEnum    Kind = "enum"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// knownKinds lists every valid parameter kind.
var knownKinds = map[Kind]bool{
	KindString:  true,
	KindBoolean: true,
	KindNumber:  true,
	KindEnum:    true,
	KindArray:   true,
	KindObject:  true,
}

// ParameterSpec declares a single parameter of a directive: its kind,
// whether it is required, an optional default, and kind-specific
// constraints. Constraint fields that do not apply to the declared kind
// are ignored.
type ParameterSpec struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`

	// Numeric constraints (inclusive on both ends)
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// String constraints
	Pattern string `json:"pattern,omitempty"`

	// Enum constraints
	EnumValues []string `json:"enum_values,omitempty"`

	// Array constraints
	Items     *ParameterSpec `json:"items,omitempty"`
	MinLength *int           `json:"min_length,omitempty"`
	MaxLength *int           `json:"max_length,omitempty"`

	// Object constraints
	RequiredKeys []string                  `json:"required_keys,omitempty"`
	Properties   map[string]*ParameterSpec `json:"properties,omitempty"`
	AllowExtra   bool                      `json:"allow_extra,omitempty"`
}

// validate performs structural checks on the spec itself. Whether a
// declared default satisfies its own constraints is checked separately
// at registration time, through the parameter validator.
func (p *ParameterSpec) validate(path string) error {
	if p.Name == "" && path == "" {
		return fmt.Errorf("parameter name is empty")
	}
	if !knownKinds[p.Kind] {
		return fmt.Errorf("parameter %s: unknown kind %q", p.displayName(path), p.Kind)
	}
	switch p.Kind {
	case KindEnum:
		if len(p.EnumValues) == 0 {
			return fmt.Errorf("parameter %s: enum kind requires at least one value", p.displayName(path))
		}
		seen := make(map[string]bool, len(p.EnumValues))
		for _, v := range p.EnumValues {
			if seen[v] {
				return fmt.Errorf("parameter %s: duplicate enum value %q", p.displayName(path), v)
			}
			seen[v] = true
		}
	case KindNumber:
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return fmt.Errorf("parameter %s: min %v exceeds max %v", p.displayName(path), *p.Min, *p.Max)
		}
	case KindArray:
		if p.Items == nil {
			return fmt.Errorf("parameter %s: array kind requires an item spec", p.displayName(path))
		}
		if p.MinLength != nil && p.MaxLength != nil && *p.MinLength > *p.MaxLength {
			return fmt.Errorf("parameter %s: min_length %d exceeds max_length %d",
				p.displayName(path), *p.MinLength, *p.MaxLength)
		}
		if err := p.Items.validate(p.displayName(path) + "[]"); err != nil {
			return err
		}
	case KindObject:
		for key, sub := range p.Properties {
			if sub == nil {
				return fmt.Errorf("parameter %s: property %q has no spec", p.displayName(path), key)
			}
			if err := sub.validate(p.displayName(path) + "." + key); err != nil {
				return err
			}
		}
		for _, key := range p.RequiredKeys {
			if _, ok := p.Properties[key]; !ok {
				return fmt.Errorf("parameter %s: required key %q has no property spec", p.displayName(path), key)
			}
		}
	case KindString:
		if p.Pattern != "" {
			if _, err := regexp.Compile(p.Pattern); err != nil {
				return fmt.Errorf("parameter %s: invalid pattern: %v", p.displayName(path), err)
			}
		}
	}
	return nil
}

func (p *ParameterSpec) displayName(path string) string {
	if path != "" {
		return path
	}
	return p.Name
}
