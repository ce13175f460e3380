// Package policy evaluates request-admission rules for survey turns.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decision values returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA admission policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given rego policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.survey_admission.decision"),
		rego.Module("survey_admission.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input is the admission policy input for one turn.
type Input struct {
	UserInput    string `json:"user_input"`
	MaxQuestions int    `json:"max_questions"`
	MaxHistory   int    `json:"max_history"`
}

// Evaluate checks the admission policy for a turn and returns the decision
// (allow or block).
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The default policy always defines a decision; an empty result
		// means a custom policy dropped it.
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("policy returned unexpected decision type %T", results[0].Expressions[0].Value)
}

// DefaultPolicy bounds the per-turn request inputs.
const DefaultPolicy = `package survey_admission

default decision := "allow"

decision := "block" if {
	input.user_input == ""
}

decision := "block" if {
	count(input.user_input) > 8000
}

decision := "block" if {
	input.max_questions < 1
}

decision := "block" if {
	input.max_questions > 50
}

decision := "block" if {
	input.max_history < 2
}
`
