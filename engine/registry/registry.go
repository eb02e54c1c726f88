// Package registry implements the directive catalog: an immutable-per-load
// mapping from (name, version) to directive definitions, with
// standard-version-aware resolution. Registration is the only mutator and
// is expected to happen during catalog construction; lookups are pure
// reads and safe for concurrent use.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
	"github.com/weft-lang/weft/engine/validation"
)

// Catalog holds directive definitions keyed by (name, version).
type Catalog struct {
	mu     sync.RWMutex
	byName map[string][]*entry // versions sorted ascending

	cache *Cache // optional, purged on every registration
}

type entry struct {
	def *directive.Definition
	ver directive.Version
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byName: make(map[string][]*entry),
	}
}

// SetCache attaches a memoization cache. Registration purges it so a
// coerced value computed under a superseded definition is never served.
func (c *Catalog) SetCache(cache *Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = cache
}

// Register adds a definition to the catalog. It fails when the
// definition is structurally invalid, when a declared default fails its
// own constraints, or when an identical (name, version) pair is already
// present.
func (c *Catalog) Register(def *directive.Definition) error {
	if def == nil {
		return wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidDefinition, "nil definition")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if err := validation.CheckDefaults(def); err != nil {
		return err
	}
	ver, err := directive.ParseVersion(def.Version)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.byName[def.Name]
	for _, e := range entries {
		if e.ver.Compare(ver) == 0 {
			return wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrDuplicateDefinition,
				fmt.Sprintf("definition %s@%s is already registered", def.Name, def.Version)).
				WithDirective(def.Name)
		}
	}

	entries = append(entries, &entry{def: def, ver: ver})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ver.Compare(entries[j].ver) < 0
	})
	c.byName[def.Name] = entries

	if c.cache != nil {
		c.cache.Purge()
	}
	return nil
}

// Resolve returns the latest registered version of the named directive.
func (c *Catalog) Resolve(name string) (*directive.Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.byName[name]
	if len(entries) == 0 {
		return nil, c.unknown(name)
	}
	return entries[len(entries)-1].def, nil
}

// ResolveVersion returns the exact (name, version) definition. It fails
// with an unknown-directive error when no version of the name exists and
// with an incompatible-version error when the name exists but not at the
// requested version.
func (c *Catalog) ResolveVersion(name, version string) (*directive.Definition, error) {
	want, err := directive.ParseVersion(version)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.byName[name]
	if len(entries) == 0 {
		return nil, c.unknown(name)
	}
	for _, e := range entries {
		if e.ver.Compare(want) == 0 {
			return e.def, nil
		}
	}
	return nil, wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrIncompatibleVersion,
		fmt.Sprintf("no registered version of %s satisfies %s", name, version)).
		WithDirective(name).
		WithValue(version).
		WithSuggestion("registered versions: " + c.versionsLocked(name))
}

// ResolveFor returns the highest version of the named directive whose
// declared standard-version range includes standardVersion. An empty
// standardVersion resolves to the latest version.
func (c *Catalog) ResolveFor(name, standardVersion string) (*directive.Definition, error) {
	if standardVersion == "" {
		return c.Resolve(name)
	}
	std, err := directive.ParseVersion(standardVersion)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := c.byName[name]
	if len(entries) == 0 {
		return nil, c.unknown(name)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		compat := entries[i].def.Compatibility
		if std.InRange(compat.MinStandardVersion, compat.MaxStandardVersion) {
			return entries[i].def, nil
		}
	}
	return nil, wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrIncompatibleVersion,
		fmt.Sprintf("no registered version of %s supports standard %s", name, standardVersion)).
		WithDirective(name).
		WithValue(standardVersion)
}

// Has reports whether any version of the named directive is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName[name]) > 0
}

// Len returns the number of registered (name, version) pairs.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entries := range c.byName {
		n += len(entries)
	}
	return n
}

// List returns every registered definition, sorted by name then version.
// Definitions are immutable once registered; callers must not modify them.
func (c *Catalog) List() []*directive.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var defs []*directive.Definition
	for _, name := range names {
		for _, e := range c.byName[name] {
			defs = append(defs, e.def)
		}
	}
	return defs
}

// ListCategory returns every definition in the given category, sorted by
// name then version. Category is a free-form grouping label used only
// for discovery.
func (c *Catalog) ListCategory(category string) []*directive.Definition {
	var defs []*directive.Definition
	for _, def := range c.List() {
		if def.Category == category {
			defs = append(defs, def)
		}
	}
	return defs
}

// Cache returns the attached cache, or nil.
func (c *Catalog) Cache() *Cache {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache
}

func (c *Catalog) unknown(name string) error {
	return wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrUnknownDirective,
		fmt.Sprintf("unknown directive %q", name)).
		WithDirective(name)
}

// versionsLocked renders the registered versions of name; callers must
// hold at least a read lock.
func (c *Catalog) versionsLocked(name string) string {
	entries := c.byName[name]
	out := ""
	for i, e := range entries {
		if i > 0 {
			out += ", "
		}
		out += e.ver.String()
	}
	return out
}
