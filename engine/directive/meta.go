package directive

// Names of the builtin meta-directives. Meta-directives reorder,
// retarget or gate other directives instead of rendering an instruction
// of their own; the composition engine special-cases them in a pre-pass.
const (
	NameChain    = "Chain"
	NamePriority = "Priority"
	NameOverride = "Override"
	NameContext  = "Context"
	NameVersion  = "Version"
)
