// Package directive defines the core data model of the weft engine:
// directive definitions (name, version, parameter schema, composition
// template, compatibility rules) and validated runtime instances.
// Definitions are immutable once registered in a catalog.
package directive

import (
	"fmt"
	"regexp"

	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// namePattern is the identifier grammar shared by directive names and
// annotation names in the parser.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidName reports whether s is a well-formed directive name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// CategoryMeta is the category of directives that reorder, retarget or
// gate other directives instead of rendering their own instruction.
const CategoryMeta = "meta"

// Compatibility declares how a directive combines with other directives
// and which range of the standard it supports.
type Compatibility struct {
	Requires           []string `json:"requires,omitempty"`
	Conflicts          []string `json:"conflicts,omitempty"`
	MinStandardVersion string   `json:"min_standard_version,omitempty"`
	MaxStandardVersion string   `json:"max_standard_version,omitempty"`
}

// Definition is a single versioned directive definition. A catalog may
// hold multiple versions of the same name, keyed by (name, version).
type Definition struct {
	Name          string              `json:"name"`
	Version       string              `json:"version"`
	Category      string              `json:"category,omitempty"`
	Description   string              `json:"description,omitempty"`
	Parameters    []*ParameterSpec    `json:"parameters,omitempty"`
	Template      CompositionTemplate `json:"template"`
	Compatibility Compatibility       `json:"compatibility,omitempty"`
}

// Validate performs structural validation of the definition: name and
// version grammar, parameter spec well-formedness, template placement and
// behavior values, and compatibility version bounds. Default values are
// checked against their own constraints at registration time by the
// parameter validator, not here.
func (d *Definition) Validate() error {
	fail := func(msg string) error {
		return wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidDefinition, msg).
			WithDirective(d.Name)
	}

	if !ValidName(d.Name) {
		return fail(fmt.Sprintf("invalid directive name %q", d.Name))
	}
	if _, err := ParseVersion(d.Version); err != nil {
		return fail(fmt.Sprintf("invalid version %q", d.Version))
	}

	seen := make(map[string]bool, len(d.Parameters))
	for _, spec := range d.Parameters {
		if spec == nil {
			return fail("nil parameter spec")
		}
		if seen[spec.Name] {
			return fail(fmt.Sprintf("duplicate parameter %q", spec.Name))
		}
		seen[spec.Name] = true
		if err := spec.validate(""); err != nil {
			return fail(err.Error())
		}
	}

	if err := d.Template.validate(); err != nil {
		return fail(err.Error())
	}
	for param := range d.Template.ParameterEffects {
		if !seen[param] {
			return fail(fmt.Sprintf("parameter effect refers to undeclared parameter %q", param))
		}
	}

	c := d.Compatibility
	if c.MinStandardVersion != "" {
		if _, err := ParseVersion(c.MinStandardVersion); err != nil {
			return fail(fmt.Sprintf("invalid min_standard_version %q", c.MinStandardVersion))
		}
	}
	if c.MaxStandardVersion != "" {
		if _, err := ParseVersion(c.MaxStandardVersion); err != nil {
			return fail(fmt.Sprintf("invalid max_standard_version %q", c.MaxStandardVersion))
		}
	}
	for _, name := range append(append([]string{}, c.Requires...), c.Conflicts...) {
		if !ValidName(name) {
			return fail(fmt.Sprintf("invalid compatibility reference %q", name))
		}
	}
	return nil
}

// Parameter returns the spec for the named parameter, or nil.
func (d *Definition) Parameter(name string) *ParameterSpec {
	for _, spec := range d.Parameters {
		if spec.Name == name {
			return spec
		}
	}
	return nil
}

// IsMeta reports whether the definition belongs to the meta category.
func (d *Definition) IsMeta() bool {
	return d.Category == CategoryMeta
}

// Requires reports whether the definition declares a requirement on name.
func (d *Definition) Requires(name string) bool {
	for _, r := range d.Compatibility.Requires {
		if r == name {
			return true
		}
	}
	return false
}

// ConflictsWith reports whether the definition declares a conflict with name.
func (d *Definition) ConflictsWith(name string) bool {
	for _, c := range d.Compatibility.Conflicts {
		if c == name {
			return true
		}
	}
	return false
}
