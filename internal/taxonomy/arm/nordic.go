package arm

import (
	"context"
	"fmt"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
)

// nRF52 factory information configuration registers (FICR)
const (
	ficrDeviceID  uint32 = 0x10000060
	ficrInfoPart  uint32 = 0x10000100
	ficrInfoRAM   uint32 = 0x1000010c
	ficrInfoFlash uint32 = 0x10000110

	nrfFlash uint32 = 0x00000000
	nrfRAM   uint32 = 0x20000000
)

// Nordic is the manufacturer descriptor for Nordic Semiconductor
type Nordic struct {
	Designer probe.JEP106
}

// Role implements domain.Descriptor
func (*Nordic) Role() domain.Role { return domain.RoleManufacturer }

// Name implements domain.Descriptor
func (*Nordic) Name() string { return "nordic" }

func (n *Nordic) String() string {
	return fmt.Sprintf("nordic (jep106 %s)", n.Designer)
}

// NRF52 is the nRF52 series family descriptor
type NRF52 struct {
	Part uint32
}

// Role implements domain.Descriptor
func (*NRF52) Role() domain.Role { return domain.RoleFamily }

// Name implements domain.Descriptor
func (*NRF52) Name() string { return "nrf52" }

func (f *NRF52) String() string { return fmt.Sprintf("nrf52 (part 0x%05x)", f.Part) }

// NRF holds the FICR contents every nRF52 target reads
type NRF struct {
	Part     uint32
	FlashKiB uint32
	RAMKiB   uint32
	DeviceID []byte
}

// UniqueID implements domain.Identifier with the 64-bit FICR DEVICEID
func (t *NRF) UniqueID() []byte {
	return t.DeviceID
}

func (t *NRF) memoryMap() domain.MemoryMap {
	return domain.MemoryMap{
		{Name: "flash", Kind: domain.MemoryFlash, Start: nrfFlash, Size: kib(t.FlashKiB)},
		{Name: "ram", Kind: domain.MemoryRAM, Start: nrfRAM, Size: kib(t.RAMKiB)},
	}
}

// NRF52832 is the nRF52832 part
type NRF52832 struct {
	NRF
}

// Role implements domain.Descriptor
func (*NRF52832) Role() domain.Role { return domain.RoleTarget }

// Name implements domain.Descriptor
func (*NRF52832) Name() string { return "nrf52832" }

// NRF52840 is the nRF52840 part
type NRF52840 struct {
	NRF
}

// Role implements domain.Descriptor
func (*NRF52840) Role() domain.Role { return domain.RoleTarget }

// Name implements domain.Descriptor
func (*NRF52840) Name() string { return "nrf52840" }

type (
	nrf52832Path = domain.View[*Arm, *Nordic, *NRF52, *NRF52832]
	nrf52840Path = domain.View[*Arm, *Nordic, *NRF52, *NRF52840]
)

func nordicTree() registry.Node {
	return registry.NewBranch[*Nordic]("nordic", domain.RoleManufacturer,
		claimROMDesigner(probe.JEP106Nordic, func(j probe.JEP106) *Nordic { return &Nordic{Designer: j} }),
		registry.NewBranch[*NRF52]("nrf52", domain.RoleFamily, ClaimNRF52,
			registry.NewLeaf[*NRF52832]("nrf52832",
				claimNRFPart(0x52832, func(t NRF) *NRF52832 { return &NRF52832{t} }),
				domain.Capabilities{
					DebugView: domain.DebugViewOf[*Arm, *Nordic, *NRF52, *NRF52832](),
					MemoryMap: domain.Bind(func(v nrf52832Path) (domain.MemoryMap, bool) {
						return v.Target.memoryMap(), true
					}),
					Core: domain.Bind(func(nrf52832Path) (domain.CoreInfo, bool) { return cortexM4F, true }),
				}),
			registry.NewLeaf[*NRF52840]("nrf52840",
				claimNRFPart(0x52840, func(t NRF) *NRF52840 { return &NRF52840{t} }),
				domain.Capabilities{
					DebugView: domain.DebugViewOf[*Arm, *Nordic, *NRF52, *NRF52840](),
					MemoryMap: domain.Bind(func(v nrf52840Path) (domain.MemoryMap, bool) {
						return v.Target.memoryMap(), true
					}),
					Core: domain.Bind(func(nrf52840Path) (domain.CoreInfo, bool) { return cortexM4F, true }),
				}),
		),
	)
}

// ClaimNRF52 matches any part whose FICR INFO.PART is in the 0x52xxx range
func ClaimNRF52(ctx context.Context, p probe.Probe) (*NRF52, bool) {
	part, err := p.Read32(ctx, ficrInfoPart)
	if err != nil || part>>12 != 0x52 {
		return nil, false
	}
	return &NRF52{Part: part}, true
}

// claimNRFPart matches the exact INFO.PART value and reads the memory sizes
// and device ID
func claimNRFPart[D domain.Descriptor](want uint32, mk func(NRF) D) registry.ClaimFunc[D] {
	return func(ctx context.Context, p probe.Probe) (D, bool) {
		var zero D
		part, err := p.Read32(ctx, ficrInfoPart)
		if err != nil || part != want {
			return zero, false
		}
		ram, err := p.Read32(ctx, ficrInfoRAM)
		if err != nil {
			return zero, false
		}
		flash, err := p.Read32(ctx, ficrInfoFlash)
		if err != nil {
			return zero, false
		}
		return mk(NRF{
			Part:     part,
			FlashKiB: flash,
			RAMKiB:   ram,
			DeviceID: readUID(ctx, p, uidSpan{ficrDeviceID, 2}),
		}), true
	}
}
