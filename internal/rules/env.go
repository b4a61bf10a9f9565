// Package rules evaluates the CEL guard expressions found in data files:
// `when` on enemy abilities, `condition` on trinket passives and `requires`
// on event choices.
package rules

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Rand is the random source behind chance().
type Rand interface {
	IntN(n int) int
}

// Registry manages the CEL environment and caches compiled programs.
type Registry struct {
	env      *cel.Env
	logger   *log.Logger
	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewRegistry builds the environment. rng may be nil, in which case
// chance(n) is true only for n >= 100.
func NewRegistry(rng Rand, logger *log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	opts := []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		cel.Function("chance",
			cel.Overload("chance_int",
				[]*cel.Type{cel.IntType},
				cel.BoolType,
				cel.UnaryBinding(func(val ref.Val) ref.Val {
					pct := val.Value().(int64)
					if pct >= 100 {
						return types.True
					}
					if pct <= 0 || rng == nil {
						return types.False
					}
					return types.Bool(int64(rng.IntN(100)) < pct)
				}),
			),
		),
		cel.Function("percent",
			cel.Overload("percent_int_int",
				[]*cel.Type{cel.IntType, cel.IntType},
				cel.IntType,
				cel.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
					part := lhs.Value().(int64)
					whole := rhs.Value().(int64)
					if whole == 0 {
						return types.Int(0)
					}
					return types.Int(part * 100 / whole)
				}),
			),
		),
	}
	for _, name := range variableNames {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env, logger: logger, programs: make(map[string]cel.Program)}, nil
}

func (r *Registry) program(expr string) (cel.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prg, ok := r.programs[expr]; ok {
		return prg, nil
	}
	ast, iss := r.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("CEL compile error in %q: %w", expr, iss.Err())
	}
	prg, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error in %q: %w", expr, err)
	}
	r.programs[expr] = prg
	return prg, nil
}

// Check compiles an expression without running it.
func (r *Registry) Check(expr string) error {
	_, err := r.program(expr)
	return err
}

// Eval runs an expression. Variables missing from vars read as their zero
// value.
func (r *Registry) Eval(expr string, vars map[string]any) (any, error) {
	prg, err := r.program(expr)
	if err != nil {
		return nil, err
	}
	out, _, err := prg.Eval(withDefaults(vars))
	if err != nil {
		return nil, fmt.Errorf("CEL eval error in %q: %w", expr, err)
	}
	return convertRefVal(out), nil
}

// Allow evaluates a guard. Errors and non-boolean results are logged and
// treated as false.
func (r *Registry) Allow(expr string, vars map[string]any) bool {
	out, err := r.Eval(expr, vars)
	if err != nil {
		r.logger.Printf("warn: guard %s", err)
		return false
	}
	b, ok := out.(bool)
	if !ok {
		r.logger.Printf("warn: guard %q returned %T, want bool", expr, out)
		return false
	}
	return b
}

// convertRefVal converts a CEL result into plain Go values.
func convertRefVal(val ref.Val) any {
	native := val.Value()
	switch v := native.(type) {
	case map[ref.Val]ref.Val:
		result := make(map[string]any, len(v))
		for mk, mv := range v {
			result[fmt.Sprintf("%v", mk.Value())] = convertRefVal(mv)
		}
		return result
	case []ref.Val:
		result := make([]any, len(v))
		for i, rv := range v {
			result[i] = convertRefVal(rv)
		}
		return result
	default:
		return native
	}
}
