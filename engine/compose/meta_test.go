package compose

import (
	"strings"
	"testing"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
)

func TestOverrideEqualsDirectConstruction(t *testing.T) {
	c := testCatalog(t)
	composer := New(c, "")

	overridden, err := composer.Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Reasoning", map[string]any{"depth": "basic"}),
		mustInstance(t, c, "Override", map[string]any{
			"directive":  "Reasoning",
			"parameters": map[string]any{"depth": "comprehensive"},
		}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	direct, err := composer.Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Reasoning", map[string]any{"depth": "comprehensive"}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if overridden.Text != direct.Text {
		t.Errorf("Override output %q differs from direct construction %q", overridden.Text, direct.Text)
	}
}

func TestOverrideBehaviorText(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Reasoning", nil),
		mustInstance(t, c, "Override", map[string]any{
			"directive":  "Reasoning",
			"parameters": map[string]any{},
			"behavior":   "Number each step.",
		}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(out.Text, "Number each step.") {
		t.Errorf("Expected the behavior text appended, got %q", out.Text)
	}
}

func TestOverrideInvalidParameters(t *testing.T) {
	c := testCatalog(t)

	_, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Reasoning", nil),
		mustInstance(t, c, "Override", map[string]any{
			"directive":  "Reasoning",
			"parameters": map[string]any{"depth": "extreme"},
		}),
	})
	if err == nil {
		t.Fatal("Expected the merged parameters to fail validation")
	}
}

func TestOverrideUnknownTarget(t *testing.T) {
	c := testCatalog(t)

	_, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Reasoning", nil),
		mustInstance(t, c, "Override", map[string]any{
			"directive":  "Tone",
			"parameters": map[string]any{"style": "casual"},
		}),
	})
	if !wefterrors.IsCode(err, wefterrors.ErrUnknownMetaTarget) {
		t.Errorf("Expected unknown-meta-target error, got %v", err)
	}
}

func TestPriorityReorders(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Tone", nil),
		mustInstance(t, c, "Reasoning", nil),
		mustInstance(t, c, "Priority", map[string]any{
			"directives": []any{"Reasoning", "Tone"},
		}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	ri := strings.Index(out.Text, "Show your reasoning")
	ti := strings.Index(out.Text, "Match the requested tone")
	if ri < 0 || ti < 0 || ri > ti {
		t.Errorf("Priority order not honored: %q", out.Text)
	}
}

func TestPriorityOverrideModeFirstWins(t *testing.T) {
	c := testCatalog(t)

	// Both occupy the format category with override behavior. With
	// Priority mode=override, the prioritized one keeps the slot even
	// though PlainFormat would normally win as the later instance.
	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "OutputFormat", nil),
		mustInstance(t, c, "PlainFormat", nil),
		mustInstance(t, c, "Priority", map[string]any{
			"directives": []any{"OutputFormat"},
			"mode":       "override",
		}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(out.Text, "markdown") || strings.Contains(out.Text, "plain text") {
		t.Errorf("Expected the prioritized directive to keep its slot: %q", out.Text)
	}
}

func TestContextPrefixesInstructions(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Reasoning", nil),
		mustInstance(t, c, "Context", map[string]any{
			"domain": "medicine",
			"scope":  "terminology",
			"level":  "advanced",
		}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	want := "Within the medicine domain, adapting terminology for an advanced audience: Show your reasoning before the answer."
	if !strings.Contains(out.Text, want) {
		t.Errorf("Context prefix missing:\n got  %q\n want %q", out.Text, want)
	}
}

func TestVersionConsumed(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Version", map[string]any{"standard": "1.0.0"}),
		mustInstance(t, c, "Reasoning", nil),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if strings.Contains(out.Text, "1.0.0") {
		t.Errorf("Version should contribute no instruction text: %q", out.Text)
	}
	for _, inst := range out.Applied {
		if inst.Name() == "Version" {
			t.Error("Version should not appear in the applied list")
		}
	}
}

func TestChainSequential(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Chain", map[string]any{
			"directives": []any{"Reasoning", "Summary"},
			"showSteps":  true,
		}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !strings.Contains(out.Text, "Show your reasoning") || !strings.Contains(out.Text, "one-paragraph summary") {
		t.Errorf("Expected both chain steps applied: %q", out.Text)
	}
	if len(out.Steps) != 2 {
		t.Fatalf("Expected 2 recorded steps, got %d", len(out.Steps))
	}
	// Each step's output feeds the next: the first recorded output is a
	// proper substring state of the second.
	if !strings.Contains(out.Steps[1].Output, strings.TrimSpace(out.Steps[0].Output)) {
		t.Errorf("Step outputs not sequential:\n step1 %q\n step2 %q", out.Steps[0].Output, out.Steps[1].Output)
	}
	if len(out.Applied) != 2 {
		t.Errorf("Expected 2 applied sub-directives, got %d", len(out.Applied))
	}
}

func TestChainStopOnFailure(t *testing.T) {
	c := testCatalog(t)

	_, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Chain", map[string]any{
			"directives": []any{"Reasoning", "NoSuchDirective"},
		}),
	})
	if !wefterrors.IsCode(err, wefterrors.ErrChainStep) {
		t.Fatalf("Expected chain-step error, got %v", err)
	}

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Chain", map[string]any{
			"directives":    []any{"NoSuchDirective", "Summary"},
			"stopOnFailure": false,
		}),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(out.Text, "one-paragraph summary") {
		t.Errorf("Expected the chain to continue past the failed step: %q", out.Text)
	}
	if len(out.Steps) != 1 || !out.Steps[0].Skipped || out.Steps[0].Directive != "NoSuchDirective" {
		t.Errorf("Expected one skipped step record, got %+v", out.Steps)
	}
}
