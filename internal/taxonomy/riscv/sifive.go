package riscv

import (
	"context"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
)

// SiFive is the manufacturer descriptor for SiFive
type SiFive struct {
	IDCode probe.IDCode
}

// Role implements domain.Descriptor
func (*SiFive) Role() domain.Role { return domain.RoleManufacturer }

// Name implements domain.Descriptor
func (*SiFive) Name() string { return "sifive" }

// FE310 is the Freedom E310 family descriptor
type FE310 struct {
	Part uint16
}

// Role implements domain.Descriptor
func (*FE310) Role() domain.Role { return domain.RoleFamily }

// Name implements domain.Descriptor
func (*FE310) Name() string { return "fe310" }

// FE310G002 is the second FE310 silicon revision
type FE310G002 struct {
	Version uint8
}

// Role implements domain.Descriptor
func (*FE310G002) Role() domain.Role { return domain.RoleTarget }

// Name implements domain.Descriptor
func (*FE310G002) Name() string { return "fe310-g002" }

var e31 = domain.CoreInfo{Name: "e31", Triple: "riscv32imac-unknown-none-elf"}

type fe310G002Path = domain.View[*RISCV, *SiFive, *FE310, *FE310G002]

func sifiveTree() registry.Node {
	return registry.NewBranch[*SiFive]("sifive", domain.RoleManufacturer,
		claimDesigner(probe.JEP106SiFive, func(id probe.IDCode) *SiFive { return &SiFive{IDCode: id} }),
		registry.NewBranch[*FE310]("fe310", domain.RoleFamily,
			claimPart(0x0000, func(id probe.IDCode) *FE310 { return &FE310{Part: id.PartNumber()} }),
			registry.NewLeaf[*FE310G002]("fe310-g002", ClaimFE310G002, domain.Capabilities{
				DebugView: domain.DebugViewOf[*RISCV, *SiFive, *FE310, *FE310G002](),
				Core:      domain.Bind(func(fe310G002Path) (domain.CoreInfo, bool) { return e31, true }),
			}),
		),
	)
}

// ClaimFE310G002 matches IDCODE version 2
func ClaimFE310G002(ctx context.Context, p probe.Probe) (*FE310G002, bool) {
	id, ok := readIDCode(ctx, p)
	if !ok || id.Version() != 2 {
		return nil, false
	}
	return &FE310G002{Version: id.Version()}, true
}
