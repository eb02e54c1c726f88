package registry

import (
	"encoding/json"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
	"github.com/weft-lang/weft/engine/validation"
)

// DecodeDefinition decodes a directive definition from its JSON form and
// re-runs full validation. A previously-serialized definition is never
// trusted as pre-validated.
func DecodeDefinition(data []byte) (*directive.Definition, error) {
	var def directive.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidDefinition,
			"malformed definition document: "+err.Error())
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if err := validation.CheckDefaults(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// RegisterJSON decodes a JSON definition document and registers it,
// memoizing the decode by content hash when a cache is attached.
func (c *Catalog) RegisterJSON(data []byte) error {
	cache := c.Cache()
	if cache != nil {
		key := ContentKey(data)
		if def, ok := cache.Definition(key); ok {
			return c.Register(def)
		}
		def, err := DecodeDefinition(data)
		if err != nil {
			return err
		}
		// Register purges the cache, so store the decode afterwards.
		if err := c.Register(def); err != nil {
			return err
		}
		cache.PutDefinition(key, def)
		return nil
	}

	def, err := DecodeDefinition(data)
	if err != nil {
		return err
	}
	return c.Register(def)
}
