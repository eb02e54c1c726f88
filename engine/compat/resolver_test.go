package compat

import (
	"testing"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
)

func inst(name string, compat directive.Compatibility, params map[string]any) *directive.Instance {
	def := &directive.Definition{
		Name:     name,
		Version:  "1.0.0",
		Category: "test",
		Template: directive.CompositionTemplate{
			Instruction: name + " instruction.",
			Placement:   directive.PlacementPrepend,
			Behavior:    directive.BehaviorAccumulate,
		},
		Compatibility: compat,
	}
	return directive.NewInstance(def, params)
}

func versionInst(standard string) *directive.Instance {
	def := &directive.Definition{
		Name:     directive.NameVersion,
		Version:  "1.0.0",
		Category: directive.CategoryMeta,
		Template: directive.CompositionTemplate{
			Placement: directive.PlacementPrepend,
			Behavior:  directive.BehaviorAccumulate,
		},
	}
	return directive.NewInstance(def, map[string]any{"standard": standard})
}

func codesOf(issues []Issue) []string {
	codes := make([]string, len(issues))
	for i, issue := range issues {
		codes[i] = issue.Code
	}
	return codes
}

func TestCheckCleanSequence(t *testing.T) {
	r := NewResolver("")
	issues := r.Check([]*directive.Instance{
		inst("Reasoning", directive.Compatibility{}, nil),
		inst("Tone", directive.Compatibility{}, nil),
	})
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestCheckConflictSymmetry(t *testing.T) {
	detailed := inst("Detailed", directive.Compatibility{}, nil)
	concise := inst("Concise", directive.Compatibility{Conflicts: []string{"Detailed"}}, nil)

	r := NewResolver("")
	for _, seq := range [][]*directive.Instance{
		{detailed, concise},
		{concise, detailed},
	} {
		issues := r.Check(seq)
		if len(issues) != 1 {
			t.Fatalf("Expected exactly 1 issue, got %d: %v", len(issues), issues)
		}
		if issues[0].Code != wefterrors.ErrConflict || !issues[0].Blocking() {
			t.Errorf("Expected a blocking conflict, got %+v", issues[0])
		}
	}

	// Both sides declaring the conflict still yields one issue per pair.
	alsoDetailed := inst("Detailed", directive.Compatibility{Conflicts: []string{"Concise"}}, nil)
	issues := r.Check([]*directive.Instance{alsoDetailed, concise})
	if len(issues) != 1 {
		t.Errorf("Expected 1 issue for a mutually declared conflict, got %d", len(issues))
	}
}

func TestCheckMissingRequirement(t *testing.T) {
	r := NewResolver("")

	needy := inst("CiteSources", directive.Compatibility{Requires: []string{"Academic"}}, nil)
	issues := r.Check([]*directive.Instance{needy})
	if len(issues) != 1 || issues[0].Code != wefterrors.ErrMissingRequirement {
		t.Fatalf("Expected a missing-requirement issue, got %v", issues)
	}

	// Satisfied requirement is silent.
	issues = r.Check([]*directive.Instance{
		needy,
		inst("Academic", directive.Compatibility{}, nil),
	})
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestCheckVersionPlacement(t *testing.T) {
	r := NewResolver("")

	issues := r.Check([]*directive.Instance{
		versionInst("1.0.0"),
		inst("Reasoning", directive.Compatibility{}, nil),
	})
	if len(issues) != 0 {
		t.Errorf("Version first: expected no issues, got %v", issues)
	}

	issues = r.Check([]*directive.Instance{
		inst("Reasoning", directive.Compatibility{}, nil),
		versionInst("1.0.0"),
	})
	if len(issues) != 1 || issues[0].Code != wefterrors.ErrVersionPlacement || !issues[0].Blocking() {
		t.Errorf("Version second: expected a blocking placement issue, got %v", issues)
	}
}

func TestCheckStandardRange(t *testing.T) {
	old := inst("Legacy", directive.Compatibility{MaxStandardVersion: "1.5.0"}, nil)

	issues := NewResolver("2.0.0").Check([]*directive.Instance{old})
	if len(issues) != 1 || issues[0].Code != wefterrors.ErrStandardVersion {
		t.Fatalf("Expected a standard-version issue, got %v", issues)
	}

	issues = NewResolver("1.2.0").Check([]*directive.Instance{old})
	if len(issues) != 0 {
		t.Errorf("Expected no issues under 1.2.0, got %v", issues)
	}

	// A Version annotation overrides the caller-declared standard.
	issues = NewResolver("1.2.0").Check([]*directive.Instance{versionInst("2.0.0"), old})
	if len(issues) != 1 || issues[0].Code != wefterrors.ErrStandardVersion {
		t.Errorf("Expected the annotation's standard to win, got %v", issues)
	}
}

func TestCheckInvalidStandard(t *testing.T) {
	issues := NewResolver("not-a-version").Check([]*directive.Instance{
		inst("Reasoning", directive.Compatibility{}, nil),
	})
	if len(issues) != 1 || issues[0].Code != wefterrors.ErrStandardVersion {
		t.Errorf("Expected an invalid-standard issue, got %v", issues)
	}
}

func TestCheckRedundantAdvisory(t *testing.T) {
	r := NewResolver("")
	issues := r.Check([]*directive.Instance{
		inst("Tone", directive.Compatibility{}, nil),
		inst("Tone", directive.Compatibility{}, nil),
		inst("Tone", directive.Compatibility{}, nil),
	})
	if len(issues) != 1 {
		t.Fatalf("Expected one advisory per repeated name, got %v", codesOf(issues))
	}
	issue := issues[0]
	if issue.Code != wefterrors.ErrRedundantDirective || issue.Blocking() {
		t.Errorf("Expected a non-blocking redundancy advisory, got %+v", issue)
	}
	if AnyBlocking(issues) {
		t.Error("Advisory issues must not count as blocking")
	}
	if _, found := FirstBlocking(issues); found {
		t.Error("FirstBlocking should find nothing for advisory-only issues")
	}
}

func TestActiveStandard(t *testing.T) {
	r := NewResolver("1.0.0")

	if got := r.ActiveStandard(nil); got != "1.0.0" {
		t.Errorf("ActiveStandard = %q, want caller-declared 1.0.0", got)
	}
	got := r.ActiveStandard([]*directive.Instance{versionInst("2.1.0")})
	if got != "2.1.0" {
		t.Errorf("ActiveStandard = %q, want the annotation's 2.1.0", got)
	}
}
