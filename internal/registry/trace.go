package registry

import (
	"context"
	"strings"

	"probeid/internal/domain"
)

// Outcome is what happened at a node during a walk
type Outcome string

const (
	// OutcomeRejected means the node's claim did not match
	OutcomeRejected Outcome = "rejected"
	// OutcomeClaimed means a branch matched and is about to try its children
	OutcomeClaimed Outcome = "claimed"
	// OutcomeExhausted means a branch matched but none of its children did
	OutcomeExhausted Outcome = "exhausted"
	// OutcomeMatched means the node is part of the identified path
	OutcomeMatched Outcome = "matched"
	// OutcomeViolation means the node's descriptor could not be recorded
	OutcomeViolation Outcome = "violation"
)

// Visit is reported to a Trace for every outcome at every node
type Visit struct {
	Path    string      `json:"path"`
	Name    string      `json:"name"`
	Role    domain.Role `json:"role"`
	Depth   int         `json:"depth"`
	Outcome Outcome     `json:"outcome"`
}

// Trace is a set of hooks run during a walk. Any hook may be nil.
type Trace struct {
	NodeVisited func(Visit)
}

type traceKey struct{}

type pathKey struct{}

// WithTrace returns a context that reports walk progress to t
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// ContextTrace returns the Trace attached to ctx, or nil
func ContextTrace(ctx context.Context) *Trace {
	t, _ := ctx.Value(traceKey{}).(*Trace)
	return t
}

// enter extends the walk path with info and returns the child context plus
// a reporter for the node's outcomes
func enter(ctx context.Context, info Info) (context.Context, func(Outcome)) {
	parent, _ := ctx.Value(pathKey{}).([]string)
	path := append(parent[:len(parent):len(parent)], info.Name)
	ctx = context.WithValue(ctx, pathKey{}, path)

	t := ContextTrace(ctx)
	if t == nil || t.NodeVisited == nil {
		return ctx, func(Outcome) {}
	}

	joined := strings.Join(path, "/")
	return ctx, func(o Outcome) {
		t.NodeVisited(Visit{
			Path:    joined,
			Name:    info.Name,
			Role:    info.Role,
			Depth:   len(path) - 1,
			Outcome: o,
		})
	}
}
