package compose

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/weft-lang/weft/engine/directive"
)

// Render produces the instruction text for a single instance: the
// template's base instruction followed by the fragment each set
// parameter contributes through the parameter-effect table, in declared
// parameter order. A fragment may embed the literal "{value}", replaced
// with the parameter's canonical value.
func Render(inst *directive.Instance) string {
	def := inst.Definition()
	tpl := def.Template

	parts := make([]string, 0, 1+len(def.Parameters))
	if tpl.Instruction != "" {
		parts = append(parts, tpl.Instruction)
	}

	for _, spec := range def.Parameters {
		value, ok := inst.Parameter(spec.Name)
		if !ok {
			continue
		}
		effects := tpl.ParameterEffects[spec.Name]
		if len(effects) == 0 {
			continue
		}
		canonical := CanonicalString(value)
		fragment, ok := effects[canonical]
		if !ok {
			fragment, ok = effects["*"]
		}
		if !ok || fragment == "" {
			continue
		}
		parts = append(parts, strings.ReplaceAll(fragment, "{value}", canonical))
	}

	return strings.Join(parts, " ")
}

// CanonicalString renders a coerced parameter value in its canonical
// textual form, used for effect-table lookups and cache keys.
func CanonicalString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = CanonicalString(e)
		}
		return strings.Join(elems, ",")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
