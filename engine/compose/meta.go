package compose

import (
	"fmt"
	"strings"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
	"github.com/weft-lang/weft/engine/validation"
)

// plannedItem is one instance scheduled for the main composition pass,
// possibly rewritten by an Override meta-directive.
type plannedItem struct {
	inst  *directive.Instance
	extra string // Override behavior text, appended after rendering
	chain bool
}

// plan is the outcome of the meta pre-pass: the remaining instances in
// their resolved application order plus the Context instances that
// qualify every rendered instruction.
type plan struct {
	items     []*plannedItem
	contexts  []*directive.Instance
	firstWins bool
}

// plan partitions the instances into meta and regular ones, applies
// Override substitutions and Priority reordering, and collects Context
// qualifiers. Version instances are consumed here; the compatibility
// resolver has already enforced their positional rule.
func (c *Composer) plan(instances []*directive.Instance) (*plan, error) {
	p := &plan{}
	var overrides, priorities []*directive.Instance

	for _, inst := range instances {
		if inst.Definition().IsMeta() {
			switch inst.Name() {
			case directive.NameVersion:
				continue
			case directive.NameOverride:
				overrides = append(overrides, inst)
				continue
			case directive.NamePriority:
				priorities = append(priorities, inst)
				continue
			case directive.NameContext:
				p.contexts = append(p.contexts, inst)
				continue
			case directive.NameChain:
				p.items = append(p.items, &plannedItem{inst: inst, chain: true})
				continue
			}
			// A user-defined meta-category directive with no special
			// handling renders like a regular one.
		}
		p.items = append(p.items, &plannedItem{inst: inst})
	}

	for _, ov := range overrides {
		if err := applyOverride(p.items, ov); err != nil {
			return nil, err
		}
	}

	for _, pr := range priorities {
		names := pr.StringSliceParameter("directives")
		p.items = reorder(p.items, names)
		p.firstWins = pr.StringParameter("mode") == "override"
	}

	return p, nil
}

// applyOverride replaces the target instance's parameters (per-key) with
// the ones the Override supplies, re-validating the merged map against
// the target's own schema. Override is a pure pre-substitution: the
// rewritten instance renders exactly as if it had been constructed with
// those parameters directly.
func applyOverride(items []*plannedItem, ov *directive.Instance) error {
	target := ov.StringParameter("directive")

	replacement, _ := ov.Parameter("parameters")
	params, _ := replacement.(map[string]any)
	behavior := ov.StringParameter("behavior")

	found := false
	for _, item := range items {
		if item.inst.Name() != target {
			continue
		}
		found = true

		merged := item.inst.Parameters()
		for k, v := range params {
			merged[k] = v
		}
		rebuilt, err := validation.Instance(item.inst.Definition(), merged)
		if err != nil {
			return err
		}
		item.inst = rebuilt
		if behavior != "" {
			item.extra = strings.TrimSpace(item.extra + " " + behavior)
		}
	}
	if !found {
		return wefterrors.New(wefterrors.PhaseComposition, wefterrors.ErrUnknownMetaTarget,
			fmt.Sprintf("Override targets %q, which is not in the sequence", target)).
			WithDirective(directive.NameOverride).
			WithValue(target)
	}
	return nil
}

// reorder moves the instances named in the priority list to the front,
// in declared priority order; unlisted instances keep their relative
// document order after all listed ones.
func reorder(items []*plannedItem, names []string) []*plannedItem {
	taken := make([]bool, len(items))
	ordered := make([]*plannedItem, 0, len(items))

	for _, name := range names {
		for idx, item := range items {
			if !taken[idx] && item.inst.Name() == name {
				ordered = append(ordered, item)
				taken[idx] = true
			}
		}
	}
	for idx, item := range items {
		if !taken[idx] {
			ordered = append(ordered, item)
		}
	}
	return ordered
}

// contextPrefix renders the domain-qualifying prefix the Context
// meta-directives contribute. Multiple Context instances stack in
// document order. Qualification is text-level only; parameter meanings
// are never rewritten.
func contextPrefix(contexts []*directive.Instance) string {
	if len(contexts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, ctx := range contexts {
		domain := ctx.StringParameter("domain")
		scope := ctx.StringParameter("scope")
		level := ctx.StringParameter("level")
		b.WriteString(fmt.Sprintf("Within the %s domain, %s %s: ",
			domain, scopeText(scope), levelText(level)))
	}
	return b.String()
}

func scopeText(scope string) string {
	switch scope {
	case "terminology":
		return "adapting terminology"
	case "examples":
		return "adapting examples"
	case "structure":
		return "adapting structure"
	default:
		return "adapting terminology, examples, and structure"
	}
}

func levelText(level string) string {
	switch level {
	case "beginner":
		return "for a beginner audience"
	case "advanced":
		return "for an advanced audience"
	default:
		return "for an intermediate audience"
	}
}
