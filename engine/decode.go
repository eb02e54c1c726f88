package engine

import (
	"encoding/json"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
	"github.com/weft-lang/weft/engine/registry"
	"github.com/weft-lang/weft/engine/validation"
)

// encodedInstance mirrors the wire form produced by Instance.MarshalJSON.
type encodedInstance struct {
	Name       string         `json:"name"`
	Version    string         `json:"version"`
	Parameters map[string]any `json:"parameters"`
}

// DecodeInstance reconstructs a directive instance from its JSON form.
// Decoding re-runs full validation against the catalog's definition; a
// previously-serialized parameter map is never trusted as pre-validated.
func DecodeInstance(catalog *registry.Catalog, data []byte) (*directive.Instance, error) {
	var enc encodedInstance
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, wefterrors.New(wefterrors.PhaseValidation, wefterrors.ErrTypeMismatch,
			"malformed instance document: "+err.Error())
	}

	var def *directive.Definition
	var err error
	if enc.Version != "" {
		def, err = catalog.ResolveVersion(enc.Name, enc.Version)
	} else {
		def, err = catalog.Resolve(enc.Name)
	}
	if err != nil {
		return nil, err
	}
	return validation.Instance(def, enc.Parameters)
}
