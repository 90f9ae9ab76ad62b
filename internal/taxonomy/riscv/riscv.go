package riscv

import (
	"context"
	"fmt"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
)

// RISCV is the architecture descriptor for parts exposing a RISC-V debug
// module over DMI
type RISCV struct {
	DMVersion uint8
	IDCode    probe.IDCode
}

// Role implements domain.Descriptor
func (*RISCV) Role() domain.Role { return domain.RoleArchitecture }

// Name implements domain.Descriptor
func (*RISCV) Name() string { return "riscv" }

func (r *RISCV) String() string {
	return fmt.Sprintf("riscv (debug module v%d, idcode %s)", r.DMVersion, r.IDCode)
}

// ClaimRISCV matches a debug module implementing version 0.13 or 1.0 of the
// RISC-V debug specification
func ClaimRISCV(ctx context.Context, p probe.Probe) (*RISCV, bool) {
	dmstatus, err := p.ReadDMI(ctx, probe.DMStatus)
	if err != nil {
		return nil, false
	}
	version := probe.DebugModuleVersion(dmstatus)
	if version != 2 && version != 3 {
		return nil, false
	}

	r := &RISCV{DMVersion: version}
	if raw, err := p.ReadIDCode(ctx); err == nil {
		r.IDCode = probe.IDCode(raw)
	}
	return r, true
}

// Tree returns the RISC-V subtree of the taxonomy
func Tree() registry.Node {
	return registry.NewBranch[*RISCV]("riscv", domain.RoleArchitecture, ClaimRISCV,
		sifiveTree(),
		espressifTree(),
	)
}

// readIDCode returns the JTAG IDCODE if it is readable and well formed
func readIDCode(ctx context.Context, p probe.Probe) (probe.IDCode, bool) {
	raw, err := p.ReadIDCode(ctx)
	if err != nil {
		return 0, false
	}
	id := probe.IDCode(raw)
	return id, id.Valid()
}

// claimDesigner builds a manufacturer claim on the IDCODE designer field
func claimDesigner[D domain.Descriptor](want probe.JEP106, mk func(probe.IDCode) D) registry.ClaimFunc[D] {
	return func(ctx context.Context, p probe.Probe) (D, bool) {
		var zero D
		id, ok := readIDCode(ctx, p)
		if !ok || id.Designer() != want {
			return zero, false
		}
		return mk(id), true
	}
}

// claimPart builds a family claim on the IDCODE part number
func claimPart[D domain.Descriptor](want uint16, mk func(probe.IDCode) D) registry.ClaimFunc[D] {
	return func(ctx context.Context, p probe.Probe) (D, bool) {
		var zero D
		id, ok := readIDCode(ctx, p)
		if !ok || id.PartNumber() != want {
			return zero, false
		}
		return mk(id), true
	}
}
