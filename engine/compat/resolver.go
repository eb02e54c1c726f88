package compat

import (
	"fmt"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// Resolver checks an ordered directive sequence against the declared
// compatibility relationships and the active standard version.
type Resolver struct {
	standard string // caller-declared standard version, may be empty
}

// NewResolver creates a resolver. standardVersion is the caller-declared
// standard; a Version directive in the sequence takes precedence over it.
func NewResolver(standardVersion string) *Resolver {
	return &Resolver{standard: standardVersion}
}

// Check classifies every compatibility issue in the sequence. Instances
// must be in original annotation order; the Version-first rule depends
// on it. Check never aborts.
func (r *Resolver) Check(instances []*directive.Instance) []Issue {
	var issues []Issue

	present := make(map[string]bool, len(instances))
	for _, inst := range instances {
		present[inst.Name()] = true
	}

	// The standard mandates Version be first when used; it also decides
	// the active standard for range checks below.
	active := r.standard
	for idx, inst := range instances {
		if inst.Name() != directive.NameVersion {
			continue
		}
		if std := inst.StringParameter("standard"); std != "" {
			active = std
		}
		if idx != 0 {
			issues = append(issues, Issue{
				Severity:   SeverityBlocking,
				Code:       wefterrors.ErrVersionPlacement,
				Message:    fmt.Sprintf("Version must be the first annotation, found at position %d", idx+1),
				Directives: []string{directive.NameVersion},
			})
		}
	}

	// Pairwise conflicts: one blocking issue per unordered pair, no
	// matter which side declares the conflict or in which order the
	// instances appear.
	for i := 0; i < len(instances); i++ {
		for j := i + 1; j < len(instances); j++ {
			a, b := instances[i], instances[j]
			if a.Definition().ConflictsWith(b.Name()) || b.Definition().ConflictsWith(a.Name()) {
				issues = append(issues, Issue{
					Severity:   SeverityBlocking,
					Code:       wefterrors.ErrConflict,
					Message:    fmt.Sprintf("%s conflicts with %s", a.Name(), b.Name()),
					Directives: []string{a.Name(), b.Name()},
				})
			}
		}
	}

	// Unmet requirements.
	for _, inst := range instances {
		for _, required := range inst.Definition().Compatibility.Requires {
			if !present[required] {
				issues = append(issues, Issue{
					Severity:   SeverityBlocking,
					Code:       wefterrors.ErrMissingRequirement,
					Message:    fmt.Sprintf("%s requires %s, which is not in the sequence", inst.Name(), required),
					Directives: []string{inst.Name(), required},
				})
			}
		}
	}

	// Standard version range checks.
	if active != "" {
		if std, err := directive.ParseVersion(active); err == nil {
			for _, inst := range instances {
				compat := inst.Definition().Compatibility
				if !std.InRange(compat.MinStandardVersion, compat.MaxStandardVersion) {
					issues = append(issues, Issue{
						Severity: SeverityBlocking,
						Code:     wefterrors.ErrStandardVersion,
						Message: fmt.Sprintf("%s@%s does not support standard version %s",
							inst.Name(), inst.Version(), active),
						Directives: []string{inst.Name()},
					})
				}
			}
		} else {
			issues = append(issues, Issue{
				Severity:   SeverityBlocking,
				Code:       wefterrors.ErrStandardVersion,
				Message:    fmt.Sprintf("invalid standard version %q", active),
				Directives: []string{directive.NameVersion},
			})
		}
	}

	// Redundant repetition is advisory only.
	counted := make(map[string]int, len(instances))
	for _, inst := range instances {
		counted[inst.Name()]++
	}
	for _, inst := range instances {
		if counted[inst.Name()] > 1 {
			issues = append(issues, Issue{
				Severity:   SeverityAdvisory,
				Code:       wefterrors.ErrRedundantDirective,
				Message:    fmt.Sprintf("%s appears %d times; repeated applications are redundant", inst.Name(), counted[inst.Name()]),
				Directives: []string{inst.Name()},
			})
			counted[inst.Name()] = 0 // report once per name
		}
	}

	return issues
}

// ActiveStandard returns the standard version governing the sequence: a
// Version directive's declared standard when present, otherwise the
// resolver's caller-declared one.
func (r *Resolver) ActiveStandard(instances []*directive.Instance) string {
	for _, inst := range instances {
		if inst.Name() == directive.NameVersion {
			if std := inst.StringParameter("standard"); std != "" {
				return std
			}
		}
	}
	return r.standard
}
