// Package compose applies an ordered list of directive instances to a
// text, honoring each directive's declared placement and composition
// behavior. Meta-directives (Chain, Priority, Override, Context) are
// handled in a pre-pass that reorders, retargets or qualifies the
// remaining instances before the default placement rules run.
package compose

import (
	"fmt"
	"strings"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
	"github.com/weft-lang/weft/engine/registry"
	"github.com/weft-lang/weft/engine/validation"
)

// Composer renders and combines directive instructions. The catalog is
// needed to resolve Chain sub-directives at composition time.
type Composer struct {
	catalog  *registry.Catalog
	standard string
}

// New creates a composer resolving chain steps against catalog.
// standardVersion governs which definition versions chain steps resolve
// to; empty means latest.
func New(catalog *registry.Catalog, standardVersion string) *Composer {
	return &Composer{catalog: catalog, standard: standardVersion}
}

// ChainStep records one step of a Chain expansion: either the
// intermediate output (when showSteps was requested) or why the step was
// skipped.
type ChainStep struct {
	Directive string `json:"directive"`
	Output    string `json:"output,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Output is the result of a composition: the transformed text, the
// instances actually applied in application order, and any retained
// chain steps.
type Output struct {
	Text    string
	Applied []*directive.Instance
	Steps   []ChainStep
}

// Compose applies the instances to text. An empty instance list returns
// the text unchanged. Composition aborts on the first chain failure or
// meta-directive error; compatibility checking is the caller's concern
// and happens before this point.
func (c *Composer) Compose(text string, instances []*directive.Instance) (*Output, error) {
	out := &Output{Text: text}
	if len(instances) == 0 {
		return out, nil
	}

	p, err := c.plan(instances)
	if err != nil {
		return nil, err
	}

	prefix := contextPrefix(p.contexts)
	asm := &assembler{firstWins: p.firstWins}
	current := text

	for _, item := range p.items {
		if item.chain {
			current, err = c.runChain(item.inst, current, prefix, out)
			if err != nil {
				return nil, err
			}
			continue
		}

		instr := Render(item.inst)
		if instr != "" && prefix != "" {
			instr = prefix + instr
		}
		if item.extra != "" {
			instr = strings.TrimSpace(instr + " " + item.extra)
		}
		if instr != "" {
			asm.place(item.inst.Definition(), instr)
		}
		out.Applied = append(out.Applied, item.inst)
	}

	out.Text = asm.assemble(current)
	return out, nil
}

// runChain expands a Chain instance: each named sub-directive is
// resolved with default parameters and applied to the progressively
// transformed text, so each step's output becomes the next step's input.
func (c *Composer) runChain(chain *directive.Instance, text, prefix string, out *Output) (string, error) {
	names := chain.StringSliceParameter("directives")
	showSteps := chain.BoolParameter("showSteps")
	stopOnFailure := chain.BoolParameter("stopOnFailure")

	current := text
	for _, name := range names {
		def, err := c.catalog.ResolveFor(name, c.standard)
		var inst *directive.Instance
		if err == nil {
			inst, err = validation.Instance(def, nil)
		}
		if err != nil {
			if stopOnFailure {
				return "", wefterrors.New(wefterrors.PhaseComposition, wefterrors.ErrChainStep,
					fmt.Sprintf("chain step %q failed", name)).
					WithDirective(name).
					Wrap(err)
			}
			out.Steps = append(out.Steps, ChainStep{Directive: name, Skipped: true, Reason: err.Error()})
			continue
		}

		instr := Render(inst)
		if instr != "" && prefix != "" {
			instr = prefix + instr
		}
		step := &assembler{}
		if instr != "" {
			step.place(inst.Definition(), instr)
		}
		current = step.assemble(current)
		out.Applied = append(out.Applied, inst)
		if showSteps {
			out.Steps = append(out.Steps, ChainStep{Directive: name, Output: current})
		}
	}
	return current, nil
}

// slotPart is one rendered instruction occupying a semantic slot,
// tracked by category for override behavior.
type slotPart struct {
	category string
	text     string
}

// assembler accumulates instruction blocks around the text. With
// firstWins set (Priority mode=override), an earlier instruction keeps
// its category slot against later override-behavior instructions;
// otherwise the later one wins.
type assembler struct {
	prefixes  []slotPart
	suffixes  []slotPart
	firstWins bool
}

func (a *assembler) place(def *directive.Definition, instr string) {
	tpl := def.Template
	part := slotPart{category: def.Category, text: instr}

	switch tpl.Placement {
	case directive.PlacementReplace:
		// Replace dominates: the instruction becomes the sole block.
		a.prefixes = []slotPart{part}
		a.suffixes = nil
	case directive.PlacementPrepend:
		a.add(&a.prefixes, part, tpl.Behavior)
	case directive.PlacementAppend:
		a.add(&a.suffixes, part, tpl.Behavior)
	case directive.PlacementWrap:
		if !a.claimSlot(part.category, tpl.Behavior) {
			return
		}
		a.prefixes = append(a.prefixes, part)
		a.suffixes = append(a.suffixes, slotPart{category: def.Category, text: tpl.WrapSuffix})
	}
}

func (a *assembler) add(list *[]slotPart, part slotPart, behavior directive.Behavior) {
	if !a.claimSlot(part.category, behavior) {
		return
	}
	*list = append(*list, part)
}

// claimSlot resolves the category slot for an override-behavior
// instruction: with firstWins an occupied slot is kept and the new
// instruction discarded, otherwise earlier occupants are dropped.
// Returns false when the new instruction loses the slot.
func (a *assembler) claimSlot(category string, behavior directive.Behavior) bool {
	if behavior != directive.BehaviorOverride || category == "" {
		return true
	}
	if a.firstWins && a.hasCategory(category) {
		return false
	}
	a.prefixes = dropCategory(a.prefixes, category)
	a.suffixes = dropCategory(a.suffixes, category)
	return true
}

func (a *assembler) hasCategory(category string) bool {
	for _, p := range a.prefixes {
		if p.category == category {
			return true
		}
	}
	for _, p := range a.suffixes {
		if p.category == category {
			return true
		}
	}
	return false
}

func dropCategory(parts []slotPart, category string) []slotPart {
	kept := parts[:0]
	for _, p := range parts {
		if p.category != category {
			kept = append(kept, p)
		}
	}
	return kept
}

// assemble joins the prefix blocks, the text and the suffix blocks with
// blank lines. With no blocks the text passes through untouched.
func (a *assembler) assemble(text string) string {
	if len(a.prefixes) == 0 && len(a.suffixes) == 0 {
		return text
	}
	blocks := make([]string, 0, len(a.prefixes)+1+len(a.suffixes))
	for _, p := range a.prefixes {
		blocks = append(blocks, p.text)
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		blocks = append(blocks, trimmed)
	}
	for _, p := range a.suffixes {
		blocks = append(blocks, p.text)
	}
	return strings.Join(blocks, "\n\n")
}
