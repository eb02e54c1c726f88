package registry

import (
	"encoding/json"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/weft-lang/weft/engine/directive"
)

// Cache memoizes decoded definitions by content hash and constructed
// instances by (name, version, canonical parameter hash). It is a pure
// optimization layer: the engine behaves identically without it.
// Invalidation is explicit via Purge; the catalog purges on every
// registration so a value computed under a superseded definition is
// never returned.
type Cache struct {
	defs      *lru.Cache[string, *directive.Definition]
	instances *lru.Cache[string, *directive.Instance]
}

// DefaultCacheSize bounds each internal LRU when no size is given.
const DefaultCacheSize = 512

// NewCache creates a cache holding up to size entries per layer.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	defs, err := lru.New[string, *directive.Definition](size)
	if err != nil {
		return nil, err
	}
	instances, err := lru.New[string, *directive.Instance](size)
	if err != nil {
		return nil, err
	}
	return &Cache{defs: defs, instances: instances}, nil
}

// ContentKey returns the cache key for a raw definition document: the
// hex form of its BLAKE2b-256 digest.
func ContentKey(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return fmt.Sprintf("%x", sum)
}

// Definition returns the cached definition for a content key.
func (c *Cache) Definition(key string) (*directive.Definition, bool) {
	return c.defs.Get(key)
}

// PutDefinition stores a decoded definition under its content key.
func (c *Cache) PutDefinition(key string, def *directive.Definition) {
	c.defs.Add(key, def)
}

// Instance returns the cached instance for a definition and raw
// parameter map, if one was stored.
func (c *Cache) Instance(def *directive.Definition, raw map[string]any) (*directive.Instance, bool) {
	key, err := instanceKey(def, raw)
	if err != nil {
		return nil, false
	}
	return c.instances.Get(key)
}

// PutInstance stores a validated instance keyed by the definition and
// the raw parameter map it was constructed from.
func (c *Cache) PutInstance(def *directive.Definition, raw map[string]any, inst *directive.Instance) {
	key, err := instanceKey(def, raw)
	if err != nil {
		return
	}
	c.instances.Add(key, inst)
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.defs.Purge()
	c.instances.Purge()
}

// instanceKey builds a stable key from (name, version) plus a canonical
// JSON rendering of the raw parameters (keys sorted).
func instanceKey(def *directive.Definition, raw map[string]any) (string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		doc = append(doc, k, raw[k])
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return def.Name + "@" + def.Version + ":" + ContentKey(encoded), nil
}
