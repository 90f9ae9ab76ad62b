package registry

import (
	"context"

	"probeid/internal/domain"
	"probeid/internal/probe"
)

type desc struct {
	name   string
	closes int
}

func (d *desc) Name() string    { return d.name }
func (d *desc) Close() error    { d.closes++; return nil }
func (d *desc) closeCount() int { return d.closes }

type counted interface {
	domain.Descriptor
	closeCount() int
}

type armArch struct{ desc }
type riscvArch struct{ desc }
type stmManu struct{ desc }
type sifiveManu struct{ desc }
type f7Family struct{ desc }
type fe310Family struct{ desc }
type f743Target struct{ desc }
type f753Target struct{ desc }
type g002Target struct{ desc }

func (*armArch) Role() domain.Role     { return domain.RoleArchitecture }
func (*riscvArch) Role() domain.Role   { return domain.RoleArchitecture }
func (*stmManu) Role() domain.Role     { return domain.RoleManufacturer }
func (*sifiveManu) Role() domain.Role  { return domain.RoleManufacturer }
func (*f7Family) Role() domain.Role    { return domain.RoleFamily }
func (*fe310Family) Role() domain.Role { return domain.RoleFamily }
func (*f743Target) Role() domain.Role  { return domain.RoleTarget }
func (*f753Target) Role() domain.Role  { return domain.RoleTarget }
func (*g002Target) Role() domain.Role  { return domain.RoleTarget }

// board is a probe whose identity is the set of node names that claim it
type board struct {
	accepts map[string]bool
	calls   []string
	made    []counted
}

func newBoard(names ...string) *board {
	b := &board{accepts: make(map[string]bool, len(names))}
	for _, n := range names {
		b.accepts[n] = true
	}
	return b
}

func (*board) ReadIDCode(context.Context) (uint32, error)      { return 0, probe.ErrNoTarget }
func (*board) Read32(context.Context, uint32) (uint32, error)  { return 0, probe.ErrNoTarget }
func (*board) ReadDMI(context.Context, uint32) (uint32, error) { return 0, probe.ErrNoTarget }

func (b *board) closesOf(name string) int {
	total := 0
	for _, d := range b.made {
		if d.Name() == name {
			total += d.closeCount()
		}
	}
	return total
}

func claim[D counted](name string, mk func(desc) D) ClaimFunc[D] {
	return func(_ context.Context, p probe.Probe) (D, bool) {
		var zero D
		b, ok := p.(*board)
		if !ok {
			return zero, false
		}
		b.calls = append(b.calls, name)
		if !b.accepts[name] {
			return zero, false
		}
		d := mk(desc{name: name})
		b.made = append(b.made, d)
		return d, true
	}
}

func newArm(d desc) *armArch       { return &armArch{d} }
func newRiscv(d desc) *riscvArch   { return &riscvArch{d} }
func newSTM(d desc) *stmManu       { return &stmManu{d} }
func newSiFive(d desc) *sifiveManu { return &sifiveManu{d} }
func newF7(d desc) *f7Family       { return &f7Family{d} }
func newFE310(d desc) *fe310Family { return &fe310Family{d} }
func newF743(d desc) *f743Target   { return &f743Target{d} }
func newF753(d desc) *f753Target   { return &f753Target{d} }
func newG002(d desc) *g002Target   { return &g002Target{d} }

func f743Leaf() Node {
	return NewLeaf("f743", claim("f743", newF743), domain.Capabilities{
		DebugView: domain.DebugViewOf[*armArch, *stmManu, *f7Family, *f743Target](),
	})
}

func stubTree() []Node {
	return []Node{
		NewBranch("arm", domain.RoleArchitecture, claim("arm", newArm),
			NewBranch("stm", domain.RoleManufacturer, claim("stm", newSTM),
				NewBranch("f7x3", domain.RoleFamily, claim("f7x3", newF7),
					f743Leaf(),
					NewLeaf("f753", claim("f753", newF753), domain.Capabilities{}),
				),
			),
		),
		NewBranch("riscv", domain.RoleArchitecture, claim("riscv", newRiscv),
			NewBranch("sifive", domain.RoleManufacturer, claim("sifive", newSiFive),
				NewBranch("fe310", domain.RoleFamily, claim("fe310", newFE310),
					NewLeaf("fe310-g002", claim("fe310-g002", newG002), domain.Capabilities{
						DebugView: domain.DebugViewOf[*riscvArch, *sifiveManu, *fe310Family, *g002Target](),
					}),
				),
			),
		),
	}
}

// fakeNode lets validation tests build shapes the constructors refuse
type fakeNode struct {
	info     Info
	children []Node
}

func (n *fakeNode) Info() Info       { return n.info }
func (n *fakeNode) Children() []Node { return n.children }
func (n *fakeNode) Identify(context.Context, probe.Probe) (*domain.Sequence, domain.Table, bool) {
	return nil, domain.Table{}, false
}
