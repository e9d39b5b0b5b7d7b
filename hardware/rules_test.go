package hardware

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/timzifer/vehiclesim/config"
	"github.com/timzifer/vehiclesim/vehicle"
)

func TestLinkedRuleDerivesTarget(t *testing.T) {
	h := newHarness(t)
	h.listen()

	require.Equal(t, vehicle.StatusOK, h.setValues([]vehicle.SetValueRequest{{
		RequestID: 1,
		Value: vehicle.PropValue{
			Prop:  vehicle.PropFuelLevel,
			Value: vehicle.RawValue{FloatValues: []float32{7500}},
		},
	}}))

	require.Equal(t, vehicle.StatusOK, h.getValues([]vehicle.GetValueRequest{{
		RequestID: 2,
		Prop:      vehicle.PropFuelLevelDisplayPercent,
	}}))
	require.Len(t, h.getResults, 1)
	require.Equal(t, vehicle.StatusOK, h.getResults[0].Status)
	require.InDelta(t, 50.0, float64(h.getResults[0].Value.Value.FloatValues[0]), 0.01)

	// The trigger and the derived value arrive in the same listener delivery.
	require.Len(t, h.changed, 2)
	require.Equal(t, vehicle.PropFuelLevel, h.changed[0].Prop)
	require.Equal(t, vehicle.PropFuelLevelDisplayPercent, h.changed[1].Prop)
}

func TestLinkedRuleClampsResult(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, vehicle.StatusOK, h.setValues([]vehicle.SetValueRequest{{
		RequestID: 1,
		Value: vehicle.PropValue{
			Prop:  vehicle.PropFuelLevel,
			Value: vehicle.RawValue{FloatValues: []float32{20000}},
		},
	}}))

	require.Equal(t, vehicle.StatusOK, h.getValues([]vehicle.GetValueRequest{{
		RequestID: 2,
		Prop:      vehicle.PropFuelLevelDisplayPercent,
	}}))
	require.InDelta(t, 100.0, float64(h.getResults[0].Value.Value.FloatValues[0]), 0.01)
}

func TestDisabledRuleDoesNotFire(t *testing.T) {
	cfg := &config.Config{Properties: config.DefaultProperties(), Rules: config.DefaultRules()}
	cfg.Rules[0].Disable = true
	hw, err := New(cfg, zerolog.New(io.Discard))
	require.NoError(t, err)

	var setResults []vehicle.SetValueResult
	require.Equal(t, vehicle.StatusOK, hw.SetValues(func(results []vehicle.SetValueResult) {
		setResults = append(setResults, results...)
	}, []vehicle.SetValueRequest{{
		RequestID: 1,
		Value: vehicle.PropValue{
			Prop:  vehicle.PropFuelLevel,
			Value: vehicle.RawValue{FloatValues: []float32{7500}},
		},
	}}))
	require.Len(t, setResults, 1)

	var getResults []vehicle.GetValueResult
	require.Equal(t, vehicle.StatusOK, hw.GetValues(func(results []vehicle.GetValueResult) {
		getResults = append(getResults, results...)
	}, []vehicle.GetValueRequest{{RequestID: 2, Prop: vehicle.PropFuelLevelDisplayPercent}}))
	require.Len(t, getResults, 1)
	// The seeded default remains untouched.
	require.InDelta(t, 100.0, float64(getResults[0].Value.Value.FloatValues[0]), 0.01)
}

func TestRuleCompileErrorSurfacesAtConstruction(t *testing.T) {
	cfg := &config.Config{Properties: config.DefaultProperties(), Rules: []config.RuleConfig{{
		ID:         "broken",
		Trigger:    config.PropertyRef{Prop: vehicle.PropFuelLevel},
		Target:     config.PropertyRef{Prop: vehicle.PropFuelLevelDisplayPercent},
		Expression: "value +",
	}}}
	_, err := New(cfg, zerolog.New(io.Discard))
	require.Error(t, err)
}

func TestRuleResultTypes(t *testing.T) {
	rules, err := compileRules([]config.RuleConfig{{ID: "r", Expression: "value * 2", Type: "int32"}})
	require.NoError(t, err)
	rule := rules[0]

	out, err := rule.evaluate(vehicle.PropValue{Value: vehicle.RawValue{Int32Values: []int32{21}}})
	require.NoError(t, err)
	require.Equal(t, []int32{42}, out.Int32Values)
}
