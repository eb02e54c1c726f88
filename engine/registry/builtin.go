package registry

import "github.com/weft-lang/weft/engine/directive"

// builtinVersion is the definition version of the builtin meta-directives.
const builtinVersion = "1.0.0"

// RegisterBuiltins registers the meta-directive definitions (Chain,
// Priority, Override, Context, Version) in the catalog. The composition
// engine resolves these by name during its pre-pass; their templates
// carry no instruction text of their own.
func RegisterBuiltins(c *Catalog) error {
	for _, def := range builtinDefinitions() {
		if err := c.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func builtinDefinitions() []*directive.Definition {
	one := 1
	metaTemplate := directive.CompositionTemplate{
		Placement: directive.PlacementPrepend,
		Behavior:  directive.BehaviorAccumulate,
	}

	return []*directive.Definition{
		{
			Name:        directive.NameVersion,
			Version:     builtinVersion,
			Category:    directive.CategoryMeta,
			Description: "Declares the standard version governing the whole annotation sequence. Must be the first annotation when used.",
			Parameters: []*directive.ParameterSpec{
				{
					Name:     "standard",
					Kind:     directive.KindString,
					Required: true,
					Pattern:  `^\d+\.\d+\.\d+$`,
				},
			},
			Template: metaTemplate,
		},
		{
			Name:        directive.NameChain,
			Version:     builtinVersion,
			Category:    directive.CategoryMeta,
			Description: "Applies the named directives sequentially, each step transforming the previous step's output.",
			Parameters: []*directive.ParameterSpec{
				{
					Name:      "directives",
					Kind:      directive.KindArray,
					Required:  true,
					Items:     &directive.ParameterSpec{Name: "directive", Kind: directive.KindString},
					MinLength: &one,
				},
				{
					Name:    "showSteps",
					Kind:    directive.KindBoolean,
					Default: false,
				},
				{
					Name:    "stopOnFailure",
					Kind:    directive.KindBoolean,
					Default: true,
				},
			},
			Template: metaTemplate,
		},
		{
			Name:        directive.NamePriority,
			Version:     builtinVersion,
			Category:    directive.CategoryMeta,
			Description: "Re-sorts the application order so the listed directives are processed first, in the declared order.",
			Parameters: []*directive.ParameterSpec{
				{
					Name:      "directives",
					Kind:      directive.KindArray,
					Required:  true,
					Items:     &directive.ParameterSpec{Name: "directive", Kind: directive.KindString},
					MinLength: &one,
				},
				{
					Name:       "mode",
					Kind:       directive.KindEnum,
					EnumValues: []string{"override", "merge"},
					Default:    "override",
				},
			},
			Template: metaTemplate,
		},
		{
			Name:        directive.NameOverride,
			Version:     builtinVersion,
			Category:    directive.CategoryMeta,
			Description: "Replaces the target directive's parameters before validation and rendering; an optional behavior text is appended to the target's instruction.",
			Parameters: []*directive.ParameterSpec{
				{
					Name:     "directive",
					Kind:     directive.KindString,
					Required: true,
					Pattern:  `^[A-Za-z][A-Za-z0-9_]*$`,
				},
				{
					Name:       "parameters",
					Kind:       directive.KindObject,
					Required:   true,
					AllowExtra: true,
				},
				{
					Name: "behavior",
					Kind: directive.KindString,
				},
			},
			Template: metaTemplate,
		},
		{
			Name:        directive.NameContext,
			Version:     builtinVersion,
			Category:    directive.CategoryMeta,
			Description: "Prefixes every other instruction with a domain qualification; ordering is unchanged.",
			Parameters: []*directive.ParameterSpec{
				{
					Name:     "domain",
					Kind:     directive.KindString,
					Required: true,
				},
				{
					Name:       "scope",
					Kind:       directive.KindEnum,
					EnumValues: []string{"terminology", "examples", "structure", "all"},
					Default:    "all",
				},
				{
					Name:       "level",
					Kind:       directive.KindEnum,
					EnumValues: []string{"beginner", "intermediate", "advanced"},
					Default:    "intermediate",
				},
			},
			Template: metaTemplate,
		},
	}
}
