package registry

import (
	"context"

	"github.com/rs/zerolog"

	"probeid/internal/domain"
	"probeid/internal/probe"
)

// Walker runs identification over an ordered set of architecture roots
type Walker struct {
	roots []Node
	log   zerolog.Logger
}

// WalkerOption configures a Walker
type WalkerOption func(*Walker)

// WithLogger sets the walker's logger
func WithLogger(l zerolog.Logger) WalkerOption {
	return func(w *Walker) {
		w.log = l
	}
}

// NewWalker creates a walker over roots, tried in the order given
func NewWalker(roots []Node, opts ...WalkerOption) *Walker {
	w := &Walker{
		roots: append([]Node(nil), roots...),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Roots returns the walker's root nodes
func (w *Walker) Roots() []Node {
	return append([]Node(nil), w.roots...)
}

// Identify walks the taxonomy against p and returns the first complete
// match. On a miss it returns a nil sequence and the zero table.
func (w *Walker) Identify(ctx context.Context, p probe.Probe) (*domain.Sequence, domain.Table, bool) {
	ctx = w.log.WithContext(ctx)

	for _, root := range w.roots {
		if root == nil {
			continue
		}
		seq, table, ok := root.Identify(ctx, p)
		if !ok {
			continue
		}
		w.log.Debug().
			Str("path", seq.String()).
			Strs("capabilities", capabilityStrings(table.Declared())).
			Msg("Target identified")
		return seq, table, true
	}

	w.log.Debug().Int("roots", len(w.roots)).Msg("No target matched")
	return nil, domain.Table{}, false
}

// WalkFunc is called for each node with the chain of its ancestors, root first
type WalkFunc func(ancestors []Info, n Node)

// Walk visits every node depth-first in declaration order
func Walk(roots []Node, fn WalkFunc) {
	for _, root := range roots {
		walk(nil, root, fn)
	}
}

func walk(ancestors []Info, n Node, fn WalkFunc) {
	if n == nil {
		return
	}
	fn(ancestors, n)
	next := append(ancestors[:len(ancestors):len(ancestors)], n.Info())
	for _, child := range n.Children() {
		walk(next, child, fn)
	}
}

func capabilityStrings(names []domain.CapabilityName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
