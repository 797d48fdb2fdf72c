package security

import (
	"context"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"daftar/internal/core/apperror"
	"daftar/internal/core/types"
)

// ExpressionPolicy evaluates a tenant-configured CEL expression.
// The expression must return a bool: true allows the mutation.
//
// Available variables:
//
//	action  string    "post" | "modify" | "delete"
//	date    timestamp document business date
//	now     timestamp evaluation time (UTC)
//	net     double    document net amount
//
// Example: `action != "delete" || date > now - duration("720h")`
type ExpressionPolicy struct {
	source string
	prg    cel.Program
}

// NewExpressionPolicy compiles a CEL expression into a posting policy.
func NewExpressionPolicy(expr string) (*ExpressionPolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("action", cel.StringType),
		cel.Variable("date", cel.TimestampType),
		cel.Variable("now", cel.TimestampType),
		cel.Variable("net", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile policy expression: %w", iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("policy expression must return bool, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build policy program: %w", err)
	}

	return &ExpressionPolicy{source: expr, prg: prg}, nil
}

// Allow implements PostingPolicy.
func (p *ExpressionPolicy) Allow(ctx context.Context, action Action, docDate time.Time, net types.Money) error {
	netFloat, _ := net.Float64()
	out, _, err := p.prg.Eval(map[string]any{
		"action": string(action),
		"date":   docDate,
		"now":    time.Now().UTC(),
		"net":    netFloat,
	})
	if err != nil {
		return apperror.NewInternal(err).WithDetail("policy", p.source)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return apperror.NewInternal(fmt.Errorf("policy returned %T, want bool", out.Value())).
			WithDetail("policy", p.source)
	}
	if !allowed {
		return apperror.NewBusinessRule(apperror.CodePostingPolicy, "Posting policy forbids this operation").
			WithDetail("action", string(action)).
			WithDetail("date", docDate.Format("2006-01-02"))
	}
	return nil
}

// Source returns the configured expression (for diagnostics).
func (p *ExpressionPolicy) Source() string {
	return p.source
}
