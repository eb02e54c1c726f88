package registry

import (
	"testing"

	"github.com/weft-lang/weft/engine/directive"
)

func TestContentKeyStable(t *testing.T) {
	a := ContentKey([]byte("same document"))
	b := ContentKey([]byte("same document"))
	if a != b {
		t.Error("Expected identical keys for identical content")
	}
	if a == ContentKey([]byte("other document")) {
		t.Error("Expected different keys for different content")
	}
	if len(a) != 64 {
		t.Errorf("Expected a 64-char hex digest, got %d chars", len(a))
	}
}

func TestCacheDefinitionRoundTrip(t *testing.T) {
	cache, err := NewCache(8)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	key := ContentKey([]byte("doc"))
	if _, ok := cache.Definition(key); ok {
		t.Fatal("Expected miss on empty cache")
	}

	def := testDef("Reasoning", "1.0.0")
	cache.PutDefinition(key, def)
	got, ok := cache.Definition(key)
	if !ok || got != def {
		t.Error("Expected the stored definition back")
	}

	cache.Purge()
	if _, ok := cache.Definition(key); ok {
		t.Error("Expected miss after purge")
	}
}

func TestCacheInstanceKeyOrderIndependent(t *testing.T) {
	cache, err := NewCache(8)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	def := testDef("Reasoning", "1.0.0")
	inst := directive.NewInstance(def, map[string]any{"depth": "basic"})

	cache.PutInstance(def, map[string]any{"a": 1.0, "b": "x"}, inst)

	// Map iteration order must not leak into the key.
	got, ok := cache.Instance(def, map[string]any{"b": "x", "a": 1.0})
	if !ok || got != inst {
		t.Error("Expected a hit for the same parameters in any order")
	}

	if _, ok := cache.Instance(def, map[string]any{"a": 2.0, "b": "x"}); ok {
		t.Error("Expected a miss for different parameter values")
	}
}

func TestRegisterPurgesCache(t *testing.T) {
	c := New()
	cache, err := NewCache(8)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	c.SetCache(cache)

	def := testDef("Reasoning", "1.0.0")
	if err := c.Register(def); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	inst := directive.NewInstance(def, nil)
	cache.PutInstance(def, map[string]any{"depth": "basic"}, inst)

	// A new registration must invalidate everything memoized before it.
	if err := c.Register(testDef("Reasoning", "1.1.0")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, ok := cache.Instance(def, map[string]any{"depth": "basic"}); ok {
		t.Error("Expected the cache to be purged by registration")
	}
}
