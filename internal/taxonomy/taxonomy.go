package taxonomy

import (
	"context"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
	"probeid/internal/taxonomy/arm"
	"probeid/internal/taxonomy/riscv"
)

// Roots returns the architecture roots in probing order
func Roots() []registry.Node {
	return []registry.Node{
		arm.Tree(),
		riscv.Tree(),
	}
}

// NewWalker returns a walker over the declared taxonomy
func NewWalker(opts ...registry.WalkerOption) *registry.Walker {
	return registry.NewWalker(Roots(), opts...)
}

var defaultWalker = NewWalker()

// Identify walks the declared taxonomy against p with a silent logger. The
// caller owns the returned sequence and must close it.
func Identify(ctx context.Context, p probe.Probe) (*domain.Sequence, domain.Table, bool) {
	return defaultWalker.Identify(ctx, p)
}
