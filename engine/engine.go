// Package engine wires the annotation parser, the directive catalog, the
// parameter validator, the compatibility resolver and the composition
// engine into a single transformation pipeline. The engine is
// synchronous and stateless per call: every Transform is a pure function
// of its input plus the read-only catalog.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/weft-lang/weft/engine/compat"
	"github.com/weft-lang/weft/engine/compose"
	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
	"github.com/weft-lang/weft/engine/parser"
	"github.com/weft-lang/weft/engine/registry"
	"github.com/weft-lang/weft/engine/validation"
)

// Engine transforms annotated text against a directive catalog.
type Engine struct {
	catalog  *registry.Catalog
	standard string
	strict   bool
	cache    *registry.Cache
	composer *compose.Composer
	resolver *compat.Resolver
}

// Option configures an Engine.
type Option func(*Engine)

// WithStandardVersion declares the standard version the caller operates
// under. It governs definition resolution and range checks; a Version
// annotation in the text takes precedence for compatibility checking.
func WithStandardVersion(v string) Option {
	return func(e *Engine) { e.standard = v }
}

// WithLenientIssues makes blocking compatibility issues surface as
// warnings in the result instead of aborting the transform.
func WithLenientIssues() Option {
	return func(e *Engine) { e.strict = false }
}

// WithCache attaches a memoization cache of the given size to the
// engine and its catalog. The cache is never required for correctness.
func WithCache(size int) Option {
	return func(e *Engine) {
		cache, err := registry.NewCache(size)
		if err != nil {
			return
		}
		e.cache = cache
		e.catalog.SetCache(cache)
	}
}

// New creates an engine over the given catalog. The catalog should be
// fully built before the engine serves any transforms; registration
// after that point is safe but purges the cache.
func New(catalog *registry.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		strict:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.composer = compose.New(catalog, e.standard)
	e.resolver = compat.NewResolver(e.standard)
	return e
}

// AppliedDirective is the serializable record of one directive applied
// during a transform.
type AppliedDirective struct {
	Name       string         `json:"name"`
	Version    string         `json:"version"`
	Parameters map[string]any `json:"parameters"`
}

// Result is the outcome of a transform.
type Result struct {
	TraceID         string              `json:"trace_id"`
	TransformedText string              `json:"transformed_text"`
	Applied         []AppliedDirective  `json:"applied_directives"`
	Issues          []compat.Issue      `json:"issues,omitempty"`
	Steps           []compose.ChainStep `json:"steps,omitempty"`
}

// Transform runs the full pipeline on text: extract annotations, resolve
// and validate each against the catalog (collecting every failure so the
// caller can report them all at once), check compatibility, and compose.
// In strict mode a blocking compatibility issue aborts with the partial
// Result still describing the issues found.
func (e *Engine) Transform(text string) (*Result, error) {
	result := &Result{TraceID: uuid.NewString()}

	tokens, residual, err := parser.Extract(text)
	if err != nil {
		return result, err
	}

	instances, err := e.resolveTokens(tokens)
	if err != nil {
		return result, err
	}

	result.Issues = e.resolver.Check(instances)
	if e.strict {
		if issue, ok := compat.FirstBlocking(result.Issues); ok {
			return result, wefterrors.New(wefterrors.PhaseCompatibility, wefterrors.ErrBlockingIssue,
				issue.Message).WithDirective(first(issue.Directives))
		}
	}

	out, err := e.composer.Compose(residual, instances)
	if err != nil {
		return result, err
	}

	result.TransformedText = out.Text
	result.Steps = out.Steps
	result.Applied = make([]AppliedDirective, 0, len(out.Applied))
	for _, inst := range out.Applied {
		result.Applied = append(result.Applied, AppliedDirective{
			Name:       inst.Name(),
			Version:    inst.Version(),
			Parameters: inst.Parameters(),
		})
	}
	return result, nil
}

// resolveTokens looks up and validates every token, collecting the
// failures of each annotation individually.
func (e *Engine) resolveTokens(tokens []parser.Token) ([]*directive.Instance, error) {
	errs := wefterrors.NewList()
	instances := make([]*directive.Instance, 0, len(tokens))

	for _, tok := range tokens {
		def, err := e.catalog.ResolveFor(tok.Name, e.standard)
		if err != nil {
			errs.Add(withSpan(err, tok))
			continue
		}
		raw, err := parser.ParseParameters(tok.RawParameters)
		if err != nil {
			errs.Add(withSpan(err, tok))
			continue
		}
		inst, err := e.instance(def, raw)
		if err != nil {
			errs.Add(withSpan(err, tok))
			continue
		}
		instances = append(instances, inst)
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return instances, nil
}

// instance constructs a validated instance, through the cache when one
// is attached.
func (e *Engine) instance(def *directive.Definition, raw map[string]any) (*directive.Instance, error) {
	if e.cache != nil {
		if inst, ok := e.cache.Instance(def, raw); ok {
			return inst, nil
		}
	}
	inst, err := validation.Instance(def, raw)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.PutInstance(def, raw, inst)
	}
	return inst, nil
}

// Check extracts and validates the annotations in text and returns the
// compatibility issues without composing. Useful for linting annotated
// prompts.
func (e *Engine) Check(text string) ([]compat.Issue, error) {
	tokens, _, err := parser.Extract(text)
	if err != nil {
		return nil, err
	}
	instances, err := e.resolveTokens(tokens)
	if err != nil {
		return nil, err
	}
	return e.resolver.Check(instances), nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *registry.Catalog {
	return e.catalog
}

func withSpan(err error, tok parser.Token) error {
	if ee, ok := err.(*wefterrors.EngineError); ok {
		return ee.WithSpan(tok.Span.Start, tok.Span.End)
	}
	if list, ok := err.(*wefterrors.List); ok {
		for _, ee := range list.Errors {
			ee.WithSpan(tok.Span.Start, tok.Span.End)
		}
		return list
	}
	return fmt.Errorf("annotation %s: %w", tok.Name, err)
}

func first(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
