package arm

import (
	"context"
	"fmt"
	"io"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
)

// memAP is the access port that carries the system memory bus on every
// part in this package
const memAP uint8 = 0

// Arm is the architecture descriptor for Cortex-M parts behind an ADIv5
// debug port. It owns the MEM-AP session opened while claiming, if the
// probe hands out sessions.
type Arm struct {
	IDCode  probe.IDCode
	session io.Closer
}

// Role implements domain.Descriptor
func (*Arm) Role() domain.Role { return domain.RoleArchitecture }

// Name implements domain.Descriptor
func (*Arm) Name() string { return "arm" }

// String renders the debug port identity
func (a *Arm) String() string {
	return fmt.Sprintf("arm (dpidr %s, part 0x%04x)", a.IDCode, a.IDCode.PartNumber())
}

// Close releases the MEM-AP session; repeated calls are no-ops
func (a *Arm) Close() error {
	if a.session == nil {
		return nil
	}
	s := a.session
	a.session = nil
	if err := s.Close(); err != nil {
		return fmt.Errorf("close mem-ap session: %w", err)
	}
	return nil
}

// ClaimArm matches a debug port whose IDCODE names Arm as the designer
func ClaimArm(ctx context.Context, p probe.Probe) (*Arm, bool) {
	raw, err := p.ReadIDCode(ctx)
	if err != nil {
		return nil, false
	}
	id := probe.IDCode(raw)
	if !id.Valid() || id.Designer() != probe.JEP106ARM {
		return nil, false
	}

	a := &Arm{IDCode: id}
	if opener, ok := p.(probe.AccessPortOpener); ok {
		session, err := opener.OpenAccessPort(ctx, memAP)
		if err != nil {
			return nil, false
		}
		a.session = session
	}
	return a, true
}

// Tree returns the Arm subtree of the taxonomy
func Tree() registry.Node {
	return registry.NewBranch[*Arm]("arm", domain.RoleArchitecture, ClaimArm,
		stmTree(),
		nordicTree(),
	)
}

// claimROMDesigner builds a manufacturer claim that matches the JEP106
// designer of the processor ROM table
func claimROMDesigner[D domain.Descriptor](want probe.JEP106, mk func(probe.JEP106) D) registry.ClaimFunc[D] {
	return func(ctx context.Context, p probe.Probe) (D, bool) {
		var zero D
		designer, err := probe.ReadROMTableDesigner(ctx, p, probe.ROMTableBase)
		if err != nil || designer != want {
			return zero, false
		}
		return mk(designer), true
	}
}

// uidSpan is a run of consecutive unique ID words
type uidSpan struct {
	addr  uint32
	words int
}

// readUID reads a unique device ID stored as one or more word runs, each
// word little-endian. It returns nil if any word is unreadable.
func readUID(ctx context.Context, p probe.Probe, spans ...uidSpan) []byte {
	var uid []byte
	for _, span := range spans {
		words, err := probe.ReadWords(ctx, p, span.addr, span.words)
		if err != nil {
			return nil
		}
		for _, w := range words {
			uid = append(uid, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
		}
	}
	return uid
}

// Cortex-M cores used by the targets in this package
var (
	cortexM0Plus = domain.CoreInfo{Name: "cortex-m0+", Triple: "thumbv6m-none-eabi"}
	cortexM4F    = domain.CoreInfo{Name: "cortex-m4", Triple: "thumbv7em-none-eabihf", FPU: true}
	cortexM7F    = domain.CoreInfo{Name: "cortex-m7", Triple: "thumbv7em-none-eabihf", FPU: true}
)

func kib(n uint32) uint32 {
	return n * 1024
}
