package directive

import "encoding/json"

// Instance is a runtime application of a directive: a reference to its
// definition plus a fully validated parameter map (every required
// parameter present, every optional parameter supplied-and-validated or
// defaulted). Instances are immutable once constructed; lifecycle is
// create, apply, discard.
type Instance struct {
	def    *Definition
	params map[string]any
}

// NewInstance wraps a definition and an already-validated parameter map.
// Construction normally goes through the validation package, which is the
// only caller that can guarantee the map satisfies the schema.
func NewInstance(def *Definition, params map[string]any) *Instance {
	copied := make(map[string]any, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return &Instance{def: def, params: copied}
}

// Definition returns the underlying directive definition.
func (i *Instance) Definition() *Definition {
	return i.def
}

// Name returns the directive name.
func (i *Instance) Name() string {
	return i.def.Name
}

// Version returns the directive definition version.
func (i *Instance) Version() string {
	return i.def.Version
}

// Parameter returns the validated value for the named parameter.
func (i *Instance) Parameter(name string) (any, bool) {
	v, ok := i.params[name]
	return v, ok
}

// Parameters returns a copy of the validated parameter map.
func (i *Instance) Parameters() map[string]any {
	copied := make(map[string]any, len(i.params))
	for k, v := range i.params {
		copied[k] = v
	}
	return copied
}

// StringParameter returns the named parameter as a string, or the empty
// string if absent or not a string.
func (i *Instance) StringParameter(name string) string {
	if v, ok := i.params[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// BoolParameter returns the named parameter as a bool.
func (i *Instance) BoolParameter(name string) bool {
	if v, ok := i.params[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// StringSliceParameter returns the named array parameter's elements that
// are strings.
func (i *Instance) StringSliceParameter(name string) []string {
	v, ok := i.params[name]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// encodedInstance is the wire form of an instance.
type encodedInstance struct {
	Name       string         `json:"name"`
	Version    string         `json:"version"`
	Parameters map[string]any `json:"parameters"`
}

// MarshalJSON implements json.Marshaler. Decoding lives in the engine
// package because it must re-run full validation against a catalog; a
// previously-serialized value is never trusted as pre-validated.
func (i *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodedInstance{
		Name:       i.def.Name,
		Version:    i.def.Version,
		Parameters: i.params,
	})
}
