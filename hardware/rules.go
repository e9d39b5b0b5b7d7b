package hardware

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/timzifer/vehiclesim/config"
	"github.com/timzifer/vehiclesim/vehicle"
)

// linkedRule derives one property from another: whenever the trigger pair is
// successfully written, the expression runs against the new payload and its
// result is written to the target pair.
type linkedRule struct {
	cfg     config.RuleConfig
	program *vm.Program
}

func compileRules(cfgs []config.RuleConfig) ([]*linkedRule, error) {
	rules := make([]*linkedRule, 0, len(cfgs))
	for _, cfg := range cfgs {
		program, err := expr.Compile(cfg.Expression)
		if err != nil {
			return nil, fmt.Errorf("rule %s: compile expression: %w", cfg.ID, err)
		}
		rules = append(rules, &linkedRule{cfg: cfg, program: program})
	}
	return rules, nil
}

// evaluate runs the rule expression against the freshly stored trigger value
// and converts the numeric result into the target payload shape.
func (r *linkedRule) evaluate(trigger vehicle.PropValue) (vehicle.RawValue, error) {
	env := map[string]interface{}{
		"value":  numericPayload(trigger.Value),
		"area":   int(trigger.AreaID),
		"int32s": trigger.Value.Int32Values,
		"int64s": trigger.Value.Int64Values,
		"floats": trigger.Value.FloatValues,
		"string": trigger.Value.StringValue,
		"clamp": func(v, lo, hi float64) float64 {
			return math.Min(math.Max(v, lo), hi)
		},
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		return vehicle.RawValue{}, fmt.Errorf("rule %s: %w", r.cfg.ID, err)
	}
	result, err := numericResult(out)
	if err != nil {
		return vehicle.RawValue{}, fmt.Errorf("rule %s: %w", r.cfg.ID, err)
	}
	switch r.cfg.Type {
	case "int32":
		return vehicle.RawValue{Int32Values: []int32{int32(result)}}, nil
	case "int64":
		return vehicle.RawValue{Int64Values: []int64{int64(result)}}, nil
	default:
		return vehicle.RawValue{FloatValues: []float32{float32(result)}}, nil
	}
}

// numericPayload exposes the first numeric field of a payload as float64 for
// use inside rule expressions.
func numericPayload(value vehicle.RawValue) float64 {
	switch {
	case len(value.FloatValues) > 0:
		return float64(value.FloatValues[0])
	case len(value.Int32Values) > 0:
		return float64(value.Int32Values[0])
	case len(value.Int64Values) > 0:
		return float64(value.Int64Values[0])
	default:
		return 0
	}
}

func numericResult(out interface{}) (float64, error) {
	switch v := out.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid numeric result %v", v)
		}
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected numeric result, got %T", out)
	}
}
