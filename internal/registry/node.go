package registry

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"probeid/internal/domain"
	"probeid/internal/probe"
)

// Info describes a node for tracing, printing and validation
type Info struct {
	Name         string                  `json:"name"`
	Role         domain.Role             `json:"role"`
	Type         string                  `json:"type"` // Go type of the node's descriptor
	Leaf         bool                    `json:"leaf"`
	Capabilities []domain.CapabilityName `json:"capabilities,omitempty"`
}

// Node is one entry of the target taxonomy. Identify returns the sequence
// and capability table of the leaf that claimed the hardware, or false when
// this subtree does not match.
type Node interface {
	Info() Info
	Children() []Node
	Identify(ctx context.Context, p probe.Probe) (*domain.Sequence, domain.Table, bool)
}

// ClaimFunc decides whether the attached hardware belongs to a node and, if
// so, creates the node's descriptor. I/O failures count as "not this node".
type ClaimFunc[D domain.Descriptor] func(ctx context.Context, p probe.Probe) (D, bool)

// Branch is a non-leaf node: it claims its own level and delegates the rest
// of the walk to its children in declaration order
type Branch[D domain.Descriptor] struct {
	info     Info
	claim    ClaimFunc[D]
	children []Node
}

// NewBranch declares a non-leaf node for role. Children are probed in the
// order given; the first one that matches wins.
func NewBranch[D domain.Descriptor](name string, role domain.Role, claim ClaimFunc[D], children ...Node) *Branch[D] {
	return &Branch[D]{
		info: Info{
			Name: name,
			Role: role,
			Type: typeName[D](),
		},
		claim:    claim,
		children: children,
	}
}

// Info implements Node
func (b *Branch[D]) Info() Info {
	return b.info
}

// Children implements Node
func (b *Branch[D]) Children() []Node {
	out := make([]Node, len(b.children))
	copy(out, b.children)
	return out
}

// Identify implements Node. The branch fills only its own slot, after a
// child has returned a sequence, and passes the child's table on unchanged.
func (b *Branch[D]) Identify(ctx context.Context, p probe.Probe) (*domain.Sequence, domain.Table, bool) {
	ctx, visit := enter(ctx, b.info)

	if b.claim == nil {
		visit(OutcomeRejected)
		return nil, domain.Table{}, false
	}
	d, ok := b.claim(ctx, p)
	if !ok {
		visit(OutcomeRejected)
		return nil, domain.Table{}, false
	}
	visit(OutcomeClaimed)

	for _, child := range b.children {
		if child == nil {
			continue
		}
		seq, table, ok := child.Identify(ctx, p)
		if !ok {
			continue
		}

		if err := seq.Set(b.info.Role, d); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).
				Str("node", b.info.Name).
				Str("child", child.Info().Name).
				Msg("Cannot record descriptor, discarding subtree result")
			closeLogged(ctx, seq, b.info.Name)
			release(ctx, d, b.info.Name)
			visit(OutcomeViolation)
			return nil, domain.Table{}, false
		}

		visit(OutcomeMatched)
		return seq, table, true
	}

	release(ctx, d, b.info.Name)
	visit(OutcomeExhausted)
	return nil, domain.Table{}, false
}

// Leaf is a target-role node. It is the only kind of node that creates a
// sequence and a capability table.
type Leaf[D domain.Descriptor] struct {
	info  Info
	claim ClaimFunc[D]
	caps  domain.Capabilities
}

// NewLeaf declares a target. caps should be bound to the leaf's own
// four-type path (see domain.Bind); nil entries are opted out.
func NewLeaf[D domain.Descriptor](name string, claim ClaimFunc[D], caps domain.Capabilities) *Leaf[D] {
	return &Leaf[D]{
		info: Info{
			Name:         name,
			Role:         domain.RoleTarget,
			Type:         typeName[D](),
			Leaf:         true,
			Capabilities: domain.NewTable(caps).Declared(),
		},
		claim: claim,
		caps:  caps,
	}
}

// Info implements Node
func (l *Leaf[D]) Info() Info {
	info := l.info
	info.Capabilities = append([]domain.CapabilityName(nil), l.info.Capabilities...)
	return info
}

// Children implements Node; leaves have none
func (l *Leaf[D]) Children() []Node {
	return nil
}

// Identify implements Node
func (l *Leaf[D]) Identify(ctx context.Context, p probe.Probe) (*domain.Sequence, domain.Table, bool) {
	ctx, visit := enter(ctx, l.info)

	if l.claim == nil {
		visit(OutcomeRejected)
		return nil, domain.Table{}, false
	}
	d, ok := l.claim(ctx, p)
	if !ok {
		visit(OutcomeRejected)
		return nil, domain.Table{}, false
	}

	seq := domain.NewSequence()
	if err := seq.SetTarget(d); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("node", l.info.Name).
			Msg("Cannot record target descriptor")
		release(ctx, d, l.info.Name)
		visit(OutcomeViolation)
		return nil, domain.Table{}, false
	}

	visit(OutcomeMatched)
	return seq, domain.NewTable(l.caps), true
}

// release closes a descriptor that will not be handed to a sequence
func release(ctx context.Context, d domain.Descriptor, node string) {
	c, ok := any(d).(io.Closer)
	if !ok || c == nil {
		return
	}
	if err := c.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("node", node).Msg("Failed to release descriptor")
	}
}

func closeLogged(ctx context.Context, seq *domain.Sequence, node string) {
	if err := seq.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("node", node).Msg("Failed to close discarded sequence")
	}
}

func typeName[D domain.Descriptor]() string {
	var zero D
	return fmt.Sprintf("%T", zero)
}
