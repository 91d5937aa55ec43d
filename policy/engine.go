// Package policy admits or rejects proposals extracted from AI replies before
// they reach a session.
package policy

import (
	"context"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/rego"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

// DefaultMaxProposals bounds how many proposals one analysis may record.
const DefaultMaxProposals = 10

// Decision values produced by the policy.
const (
	DecisionAllow  = "allow"
	DecisionReject = "reject"
)

// Engine is the OPA policy engine.
type Engine struct {
	query        rego.PreparedEvalQuery
	maxProposals int
}

// Decision is the outcome of evaluating a batch of proposals.
type Decision struct {
	Decision string
	Reasons  []string
}

// Allowed reports whether the proposals may be recorded.
func (d *Decision) Allowed() bool {
	return d.Decision == DecisionAllow
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.proposal_policy.result"),
		rego.Module("proposal_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query, maxProposals: DefaultMaxProposals}, nil
}

// EvaluateProposals checks proposals and availability summaries against the
// session's current participants.
func (e *Engine) EvaluateProposals(ctx context.Context, session *domain.SchedulingSession, proposals []domain.TimeProposal, summarized []string) (*Decision, error) {
	participants := make(map[string]interface{}, len(session.Participants))
	for id := range session.Participants {
		participants[id] = true
	}

	items := make([]interface{}, 0, len(proposals))
	for _, p := range proposals {
		items = append(items, map[string]interface{}{
			"id":                      p.ID,
			"availableParticipants":   toInterfaces(p.AvailableParticipants),
			"unavailableParticipants": toInterfaces(p.UnavailableParticipants),
		})
	}

	input := map[string]interface{}{
		"participants":  participants,
		"proposals":     items,
		"summarized":    toInterfaces(summarized),
		"max_proposals": e.maxProposals,
	}
	return e.Evaluate(ctx, input)
}

// Evaluate runs the policy on a raw input document.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (*Decision, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil, fmt.Errorf("policy produced no result")
	}

	obj, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}

	decision := &Decision{Reasons: []string{}}
	decision.Decision, _ = obj["decision"].(string)
	if decision.Decision != DecisionAllow && decision.Decision != DecisionReject {
		return nil, fmt.Errorf("unexpected policy decision %q", decision.Decision)
	}
	if reasons, ok := obj["reasons"].([]interface{}); ok {
		for _, r := range reasons {
			if s, ok := r.(string); ok {
				decision.Reasons = append(decision.Reasons, s)
			}
		}
	}
	sort.Strings(decision.Reasons)
	return decision, nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package proposal_policy

default decision = "allow"

decision = "reject" {
	count(reasons) > 0
}

reasons[msg] {
	count(input.proposals) > input.max_proposals
	msg := sprintf("too many proposals: %d (max %d)", [count(input.proposals), input.max_proposals])
}

reasons[msg] {
	p := input.proposals[_]
	id := p.availableParticipants[_]
	not input.participants[id]
	msg := sprintf("proposal %s lists unknown participant %s", [p.id, id])
}

reasons[msg] {
	p := input.proposals[_]
	id := p.unavailableParticipants[_]
	not input.participants[id]
	msg := sprintf("proposal %s lists unknown participant %s", [p.id, id])
}

reasons[msg] {
	id := input.summarized[_]
	not input.participants[id]
	msg := sprintf("availability given for unknown participant %s", [id])
}

result = {"decision": decision, "reasons": reasons}
`
