package render

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Evaluator runs derived-metric expressions against a scenario's data.
// Expressions are plain Starlark with the scenario exposed as globals:
//
//	success_probability  float
//	iterations           int
//	positions            list of dicts (name, score, scale, rationale)
//	principles           list of dicts (name, assessment)
//	metrics              dict of extra keyed figures
//
// plus the helper builtins round(x, ndigits) and mean(seq). The thread has
// no load support and no filesystem or network access; a runaway
// expression is bounded by ExecutionSteps.
type Evaluator struct {
	globals starlark.StringDict
}

const maxEvalSteps = 100_000

// NewEvaluator builds an evaluator over one scenario. Macro modules (from
// LoadMacros) are merged into the globals under their namespaces.
func NewEvaluator(sc *Scenario, macros starlark.StringDict) (*Evaluator, error) {
	globals := starlark.StringDict{
		"round": starlark.NewBuiltin("round", builtinRound),
		"mean":  starlark.NewBuiltin("mean", builtinMean),
	}

	globals["success_probability"] = starlark.Float(sc.SuccessProbability)
	globals["iterations"] = starlark.MakeInt64(sc.Iterations)

	positions := make([]any, len(sc.Positions))
	for i, p := range sc.Positions {
		positions[i] = map[string]any{
			"name":      p.Name,
			"score":     p.Score,
			"scale":     p.Scale,
			"rationale": p.Rationale,
		}
	}
	principles := make([]any, len(sc.Principles))
	for i, p := range sc.Principles {
		principles[i] = map[string]any{
			"name":       p.Name,
			"assessment": p.Assessment,
		}
	}
	metrics := make(map[string]any, len(sc.Metrics))
	for k, v := range sc.Metrics {
		metrics[k] = v
	}

	for name, v := range map[string]any{
		"positions":  positions,
		"principles": principles,
		"metrics":    metrics,
	} {
		sv, err := goToStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: build %s global: %w", sc.Name, name, err)
		}
		globals[name] = sv
	}

	for name, mod := range macros {
		if _, clash := globals[name]; clash {
			return nil, fmt.Errorf("macro namespace %q shadows a scenario global", name)
		}
		globals[name] = mod
	}

	return &Evaluator{globals: globals}, nil
}

// Eval evaluates one expression and returns its value as a float64.
// Integer results are widened; anything else is an error, since derived
// metrics render as figures.
func (e *Evaluator) Eval(key, expr string) (float64, error) {
	thread := &starlark.Thread{
		Name:  "derive:" + key,
		Print: func(_ *starlark.Thread, _ string) {},
	}
	thread.SetMaxExecutionSteps(maxEvalSteps)

	v, err := starlark.Eval(thread, key, expr, e.globals)
	if err != nil {
		return 0, fmt.Errorf("derived metric %q: %w", key, err)
	}

	switch val := v.(type) {
	case starlark.Float:
		return float64(val), nil
	case starlark.Int:
		f, _ := starlark.AsFloat(val)
		return f, nil
	default:
		return 0, fmt.Errorf("derived metric %q: expression yields %s, want a number", key, v.Type())
	}
}

// EvalAll evaluates every derived expression of the scenario, keyed the
// same way, in sorted key order.
func EvalAll(sc *Scenario, macros starlark.StringDict) (map[string]float64, error) {
	if len(sc.Derived) == 0 {
		return nil, nil
	}
	ev, err := NewEvaluator(sc, macros)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(sc.Derived))
	for _, key := range sc.DerivedKeys() {
		v, err := ev.Eval(key, sc.Derived[key])
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// LoadMacros loads every .star file in dir as a module namespaced by its
// filename stem (stats.star exports become stats.foo). Underscore-prefixed
// names stay private. A missing directory yields empty globals.
func LoadMacros(dir string) (starlark.StringDict, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("scan macros directory: %w", err)
	}

	modules := make(starlark.StringDict)
	for _, path := range matches {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read macro: %w", err)
		}
		namespace := strings.TrimSuffix(filepath.Base(path), ".star")

		thread := &starlark.Thread{
			Name:  "macro:" + namespace,
			Print: func(_ *starlark.Thread, _ string) {},
		}
		thread.SetMaxExecutionSteps(maxEvalSteps)

		globals, err := starlark.ExecFile(thread, path, src, starlark.StringDict{
			"round": starlark.NewBuiltin("round", builtinRound),
			"mean":  starlark.NewBuiltin("mean", builtinMean),
		})
		if err != nil {
			return nil, fmt.Errorf("macro %s: %w", filepath.Base(path), err)
		}

		exports := make(starlark.StringDict, len(globals))
		for name, value := range globals {
			if !strings.HasPrefix(name, "_") {
				exports[name] = value
			}
		}
		modules[namespace] = &starlarkstruct.Module{Name: namespace, Members: exports}
	}
	return modules, nil
}

func builtinRound(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x float64
	ndigits := 0
	if err := starlark.UnpackArgs("round", args, kwargs, "x", &x, "ndigits?", &ndigits); err != nil {
		return nil, err
	}
	shift := math.Pow(10, float64(ndigits))
	return starlark.Float(math.Round(x*shift) / shift), nil
}

func builtinMean(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var seq starlark.Iterable
	if err := starlark.UnpackArgs("mean", args, kwargs, "seq", &seq); err != nil {
		return nil, err
	}

	iter := seq.Iterate()
	defer iter.Done()

	var sum float64
	var n int
	var elem starlark.Value
	for iter.Next(&elem) {
		f, ok := starlark.AsFloat(elem)
		if !ok {
			return nil, fmt.Errorf("mean: element %d is %s, want a number", n, elem.Type())
		}
		sum += f
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("mean: empty sequence")
	}
	return starlark.Float(sum / float64(n)), nil
}

// goToStarlark converts plain Go values to their Starlark counterparts.
// Only the types scenario data produces are supported.
func goToStarlark(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case nil:
		return starlark.None, nil
	case string:
		return starlark.String(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case bool:
		return starlark.Bool(val), nil
	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := goToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, item := range val {
			sv, err := goToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
