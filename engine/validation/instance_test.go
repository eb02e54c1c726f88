package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-lang/weft/engine/directive"
	wefterrors "github.com/weft-lang/weft/engine/errors"
)

func reasoningDef() *directive.Definition {
	return &directive.Definition{
		Name:     "Reasoning",
		Version:  "1.0.0",
		Category: "thinking",
		Parameters: []*directive.ParameterSpec{
			{
				Name:       "depth",
				Kind:       directive.KindEnum,
				EnumValues: []string{"basic", "moderate", "comprehensive"},
				Default:    "moderate",
			},
			{Name: "focus", Kind: directive.KindString, Required: true},
			{Name: "max", Kind: directive.KindNumber, Min: floatPtr(1)},
		},
		Template: directive.CompositionTemplate{
			Instruction: "Show your reasoning.",
			Placement:   directive.PlacementPrepend,
			Behavior:    directive.BehaviorAccumulate,
		},
	}
}

func TestInstanceDefaultsAndCoercion(t *testing.T) {
	inst, err := Instance(reasoningDef(), map[string]any{"focus": "tradeoffs", "max": "3"})
	require.NoError(t, err)

	depth, _ := inst.Parameter("depth")
	assert.Equal(t, "moderate", depth, "absent parameter takes its default")
	assert.Equal(t, "tradeoffs", inst.StringParameter("focus"))
	max, _ := inst.Parameter("max")
	assert.Equal(t, 3.0, max, "string number coerces to float64")
}

func TestInstanceNilValueFallsBackToDefault(t *testing.T) {
	inst, err := Instance(reasoningDef(), map[string]any{"focus": "x", "depth": nil})
	require.NoError(t, err)
	assert.Equal(t, "moderate", inst.StringParameter("depth"))
}

func TestInstanceOptionalAbsent(t *testing.T) {
	inst, err := Instance(reasoningDef(), map[string]any{"focus": "x"})
	require.NoError(t, err)

	_, ok := inst.Parameters()["max"]
	assert.False(t, ok, "optional parameter with no default stays unset")
}

func TestInstanceCollectsAllErrors(t *testing.T) {
	_, err := Instance(reasoningDef(), map[string]any{
		"depth":   "extreme", // not in enum
		"max":     0.5,       // below minimum
		"unknown": true,      // not declared
		// focus missing
	})
	require.Error(t, err)

	var list *wefterrors.List
	require.ErrorAs(t, err, &list)
	assert.Equal(t, 4, list.Count())

	codes := make(map[string]bool)
	for _, ee := range list.Errors {
		codes[ee.Code] = true
	}
	assert.True(t, codes[wefterrors.ErrNotInEnum])
	assert.True(t, codes[wefterrors.ErrOutOfRange])
	assert.True(t, codes[wefterrors.ErrUnknownParameter])
	assert.True(t, codes[wefterrors.ErrMissingParameter])
}

func TestInstanceImmutable(t *testing.T) {
	raw := map[string]any{"focus": "x"}
	inst, err := Instance(reasoningDef(), raw)
	require.NoError(t, err)

	raw["focus"] = "mutated"
	assert.Equal(t, "x", inst.StringParameter("focus"), "instance does not alias the caller's map")

	snapshot := inst.Parameters()
	snapshot["focus"] = "also mutated"
	assert.Equal(t, "x", inst.StringParameter("focus"), "Parameters() returns a copy")
}

func TestCheckDefaults(t *testing.T) {
	ok := reasoningDef()
	require.NoError(t, CheckDefaults(ok))

	bad := reasoningDef()
	bad.Parameters[0].Default = "extreme"
	err := CheckDefaults(bad)
	require.Error(t, err)
	assert.True(t, wefterrors.IsCode(err, wefterrors.ErrInvalidDefinition))
}
