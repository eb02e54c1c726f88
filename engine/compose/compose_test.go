package compose

import (
	"strings"
	"testing"

	"github.com/weft-lang/weft/engine/directive"
	"github.com/weft-lang/weft/engine/registry"
	"github.com/weft-lang/weft/engine/validation"
)

// testCatalog registers the builtin meta-directives plus a small set of
// regular directives covering every placement and behavior.
func testCatalog(t *testing.T) *registry.Catalog {
	t.Helper()
	c := registry.New()
	if err := registry.RegisterBuiltins(c); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}

	defs := []*directive.Definition{
		{
			Name:     "Reasoning",
			Version:  "1.0.0",
			Category: "thinking",
			Parameters: []*directive.ParameterSpec{
				{
					Name:       "depth",
					Kind:       directive.KindEnum,
					EnumValues: []string{"basic", "moderate", "comprehensive"},
					Default:    "moderate",
				},
			},
			Template: directive.CompositionTemplate{
				Instruction: "Show your reasoning before the answer.",
				Placement:   directive.PlacementPrepend,
				Behavior:    directive.BehaviorAccumulate,
				ParameterEffects: map[string]map[string]string{
					"depth": {
						"comprehensive": "Be exhaustive.",
						"basic":         "Keep it brief.",
					},
				},
			},
		},
		{
			Name:     "Tone",
			Version:  "1.0.0",
			Category: "style",
			Parameters: []*directive.ParameterSpec{
				{
					Name:       "style",
					Kind:       directive.KindEnum,
					EnumValues: []string{"formal", "casual"},
					Default:    "formal",
				},
			},
			Template: directive.CompositionTemplate{
				Instruction: "Match the requested tone.",
				Placement:   directive.PlacementPrepend,
				Behavior:    directive.BehaviorAccumulate,
				ParameterEffects: map[string]map[string]string{
					"style": {"*": "Use a {value} voice."},
				},
			},
		},
		{
			Name:     "OutputFormat",
			Version:  "1.0.0",
			Category: "format",
			Template: directive.CompositionTemplate{
				Instruction: "Answer in markdown.",
				Placement:   directive.PlacementPrepend,
				Behavior:    directive.BehaviorOverride,
			},
		},
		{
			Name:     "PlainFormat",
			Version:  "1.0.0",
			Category: "format",
			Template: directive.CompositionTemplate{
				Instruction: "Answer in plain text.",
				Placement:   directive.PlacementPrepend,
				Behavior:    directive.BehaviorOverride,
			},
		},
		{
			Name:     "Summary",
			Version:  "1.0.0",
			Category: "closing",
			Template: directive.CompositionTemplate{
				Instruction: "End with a one-paragraph summary.",
				Placement:   directive.PlacementAppend,
				Behavior:    directive.BehaviorAccumulate,
			},
		},
		{
			Name:     "Quoted",
			Version:  "1.0.0",
			Category: "framing",
			Template: directive.CompositionTemplate{
				Instruction: "Treat the following as a quoted request:",
				Placement:   directive.PlacementWrap,
				Behavior:    directive.BehaviorAccumulate,
				WrapSuffix:  "End of quoted request.",
			},
		},
		{
			Name:     "Rewrite",
			Version:  "1.0.0",
			Category: "framing",
			Template: directive.CompositionTemplate{
				Instruction: "Ignore the phrasing and answer the underlying question.",
				Placement:   directive.PlacementReplace,
				Behavior:    directive.BehaviorOverride,
			},
		},
	}
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			t.Fatalf("Register(%s) failed: %v", def.Name, err)
		}
	}
	return c
}

// mustInstance resolves name from the catalog and constructs a validated
// instance from raw.
func mustInstance(t *testing.T, c *registry.Catalog, name string, raw map[string]any) *directive.Instance {
	t.Helper()
	def, err := c.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", name, err)
	}
	inst, err := validation.Instance(def, raw)
	if err != nil {
		t.Fatalf("Instance(%s) failed: %v", name, err)
	}
	return inst
}

func TestComposeEmpty(t *testing.T) {
	c := testCatalog(t)
	out, err := New(c, "").Compose("  raw text, untouched \n", nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if out.Text != "  raw text, untouched \n" {
		t.Errorf("Expected the text unchanged, got %q", out.Text)
	}
	if len(out.Applied) != 0 {
		t.Errorf("Expected nothing applied, got %d", len(out.Applied))
	}
}

func TestComposeSinglePrepend(t *testing.T) {
	c := testCatalog(t)
	inst := mustInstance(t, c, "Reasoning", map[string]any{"depth": "comprehensive"})

	out, err := New(c, "").Compose("\nExplain X", []*directive.Instance{inst})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	want := "Show your reasoning before the answer. Be exhaustive.\n\nExplain X"
	if out.Text != want {
		t.Errorf("Compose = %q, want %q", out.Text, want)
	}
	if len(out.Applied) != 1 || out.Applied[0].Name() != "Reasoning" {
		t.Errorf("Unexpected applied list: %v", out.Applied)
	}
}

func TestComposeAccumulateOrder(t *testing.T) {
	c := testCatalog(t)
	first := mustInstance(t, c, "Reasoning", nil)
	second := mustInstance(t, c, "Tone", nil)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{first, second})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	ri := strings.Index(out.Text, "Show your reasoning")
	ti := strings.Index(out.Text, "Match the requested tone")
	if ri < 0 || ti < 0 || ri > ti {
		t.Errorf("Accumulated instructions out of order: %q", out.Text)
	}
	if !strings.HasSuffix(out.Text, "Explain X") {
		t.Errorf("Expected the prompt last, got %q", out.Text)
	}
}

func TestComposeAppendAndWrap(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Summary", nil),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if out.Text != "Explain X\n\nEnd with a one-paragraph summary." {
		t.Errorf("Append placement wrong: %q", out.Text)
	}

	out, err = New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Quoted", nil),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	want := "Treat the following as a quoted request:\n\nExplain X\n\nEnd of quoted request."
	if out.Text != want {
		t.Errorf("Wrap placement wrong: %q", out.Text)
	}
}

func TestComposeReplaceDominates(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "Reasoning", nil),
		mustInstance(t, c, "Rewrite", nil),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if strings.Contains(out.Text, "Show your reasoning") {
		t.Errorf("Replace should drop earlier blocks: %q", out.Text)
	}
	want := "Ignore the phrasing and answer the underlying question.\n\nExplain X"
	if out.Text != want {
		t.Errorf("Replace placement wrong: %q", out.Text)
	}
}

func TestComposeCategoryOverrideLastWins(t *testing.T) {
	c := testCatalog(t)

	out, err := New(c, "").Compose("Explain X", []*directive.Instance{
		mustInstance(t, c, "OutputFormat", nil),
		mustInstance(t, c, "PlainFormat", nil),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if strings.Contains(out.Text, "markdown") {
		t.Errorf("Later override-behavior directive should win its category slot: %q", out.Text)
	}
	if !strings.Contains(out.Text, "plain text") {
		t.Errorf("Expected the later directive's instruction: %q", out.Text)
	}
}

func TestComposeBlankResidual(t *testing.T) {
	c := testCatalog(t)

	// Annotation-only input leaves a whitespace residual; composition
	// emits just the instruction blocks.
	out, err := New(c, "").Compose("\n \n", []*directive.Instance{
		mustInstance(t, c, "Reasoning", nil),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if out.Text != "Show your reasoning before the answer." {
		t.Errorf("Expected only the instruction block, got %q", out.Text)
	}
}
