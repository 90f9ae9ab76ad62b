package arm

import (
	"context"
	"fmt"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
)

// STM32 system addresses
const (
	f7DBGMCU    uint32 = 0xe0042000
	f7FlashSize uint32 = 0x1ff0f442
	f7UID       uint32 = 0x1ff0f420

	l0DBGMCU    uint32 = 0x40015800
	l0FlashSize uint32 = 0x1ff8007c
	l0UID       uint32 = 0x1ff80050

	stm32Flash uint32 = 0x08000000
	stm32SRAM  uint32 = 0x20000000
)

// DBGMCU_IDCODE device identifiers
const (
	DevF7x3 uint16 = 0x452
	DevL0x0 uint16 = 0x457
)

// STM is the manufacturer descriptor for STMicroelectronics
type STM struct {
	Designer probe.JEP106
}

// Role implements domain.Descriptor
func (*STM) Role() domain.Role { return domain.RoleManufacturer }

// Name implements domain.Descriptor
func (*STM) Name() string { return "stm" }

func (s *STM) String() string {
	return fmt.Sprintf("stm (jep106 %s)", s.Designer)
}

// DBGMCU is a decoded DBGMCU_IDCODE register
type DBGMCU struct {
	DevID uint16
	RevID uint16
}

func (d DBGMCU) String() string {
	return fmt.Sprintf("dev 0x%03x rev 0x%04x", d.DevID, d.RevID)
}

// F7x3 is the STM32F7x3 family descriptor
type F7x3 struct {
	DBGMCU
}

// Role implements domain.Descriptor
func (*F7x3) Role() domain.Role { return domain.RoleFamily }

// Name implements domain.Descriptor
func (*F7x3) Name() string { return "f7x3" }

func (f *F7x3) String() string { return "f7x3 (" + f.DBGMCU.String() + ")" }

// L0x0 is the STM32L0x0 value line family descriptor
type L0x0 struct {
	DBGMCU
}

// Role implements domain.Descriptor
func (*L0x0) Role() domain.Role { return domain.RoleFamily }

// Name implements domain.Descriptor
func (*L0x0) Name() string { return "l0x0" }

func (f *L0x0) String() string { return "l0x0 (" + f.DBGMCU.String() + ")" }

// STM32 holds what every STM32 target reads about itself
type STM32 struct {
	FlashKiB uint16
	UID      []byte
}

// UniqueID implements domain.Identifier with the 96-bit device UID
func (t *STM32) UniqueID() []byte {
	return t.UID
}

func (t *STM32) memoryMap(ramKiB uint32) domain.MemoryMap {
	var m domain.MemoryMap
	if t.FlashKiB > 0 {
		m = append(m, domain.MemoryRegion{
			Name:  "flash",
			Kind:  domain.MemoryFlash,
			Start: stm32Flash,
			Size:  kib(uint32(t.FlashKiB)),
		})
	}
	return append(m, domain.MemoryRegion{
		Name:  "sram",
		Kind:  domain.MemoryRAM,
		Start: stm32SRAM,
		Size:  kib(ramKiB),
	})
}

// F743 is the STM32F7x3 part with 512 KiB of flash
type F743 struct {
	STM32
}

// Role implements domain.Descriptor
func (*F743) Role() domain.Role { return domain.RoleTarget }

// Name implements domain.Descriptor
func (*F743) Name() string { return "f743" }

func (t *F743) String() string { return fmt.Sprintf("f743 (%d KiB flash)", t.FlashKiB) }

// F753 is the STM32F7x3 part with 64 KiB of flash
type F753 struct {
	STM32
}

// Role implements domain.Descriptor
func (*F753) Role() domain.Role { return domain.RoleTarget }

// Name implements domain.Descriptor
func (*F753) Name() string { return "f753" }

func (t *F753) String() string { return fmt.Sprintf("f753 (%d KiB flash)", t.FlashKiB) }

// L010 is the STM32L010 value line part
type L010 struct {
	STM32
}

// Role implements domain.Descriptor
func (*L010) Role() domain.Role { return domain.RoleTarget }

// Name implements domain.Descriptor
func (*L010) Name() string { return "l010" }

func (t *L010) String() string { return fmt.Sprintf("l010 (%d KiB flash)", t.FlashKiB) }

type (
	f743Path = domain.View[*Arm, *STM, *F7x3, *F743]
	f753Path = domain.View[*Arm, *STM, *F7x3, *F753]
	l010Path = domain.View[*Arm, *STM, *L0x0, *L010]
)

func stmTree() registry.Node {
	return registry.NewBranch[*STM]("stm", domain.RoleManufacturer,
		claimROMDesigner(probe.JEP106STM, func(j probe.JEP106) *STM { return &STM{Designer: j} }),
		registry.NewBranch[*F7x3]("f7x3", domain.RoleFamily,
			claimDBGMCU(f7DBGMCU, DevF7x3, func(d DBGMCU) *F7x3 { return &F7x3{d} }),
			registry.NewLeaf[*F743]("f743",
				claimF7Flash(512, func(t STM32) *F743 { return &F743{t} }),
				domain.Capabilities{
					DebugView: domain.DebugViewOf[*Arm, *STM, *F7x3, *F743](),
					MemoryMap: domain.Bind(func(v f743Path) (domain.MemoryMap, bool) {
						return v.Target.memoryMap(256), true
					}),
					Core: domain.Bind(func(f743Path) (domain.CoreInfo, bool) { return cortexM7F, true }),
				}),
			registry.NewLeaf[*F753]("f753",
				claimF7Flash(64, func(t STM32) *F753 { return &F753{t} }),
				domain.Capabilities{
					MemoryMap: domain.Bind(func(v f753Path) (domain.MemoryMap, bool) {
						return v.Target.memoryMap(256), true
					}),
					Core: domain.Bind(func(f753Path) (domain.CoreInfo, bool) { return cortexM7F, true }),
				}),
		),
		registry.NewBranch[*L0x0]("l0x0", domain.RoleFamily,
			claimDBGMCU(l0DBGMCU, DevL0x0, func(d DBGMCU) *L0x0 { return &L0x0{d} }),
			registry.NewLeaf[*L010]("l010", ClaimL010, domain.Capabilities{
				DebugView: domain.DebugViewOf[*Arm, *STM, *L0x0, *L010](),
				MemoryMap: domain.Bind(func(v l010Path) (domain.MemoryMap, bool) {
					return v.Target.memoryMap(8), true
				}),
				Core: domain.Bind(func(l010Path) (domain.CoreInfo, bool) { return cortexM0Plus, true }),
			}),
		),
	)
}

// claimDBGMCU matches a family by the device identifier in DBGMCU_IDCODE
func claimDBGMCU[D domain.Descriptor](addr uint32, dev uint16, mk func(DBGMCU) D) registry.ClaimFunc[D] {
	return func(ctx context.Context, p probe.Probe) (D, bool) {
		var zero D
		w, err := p.Read32(ctx, addr)
		if err != nil {
			return zero, false
		}
		id := DBGMCU{DevID: uint16(w & 0xfff), RevID: uint16(w >> 16)}
		if id.DevID != dev {
			return zero, false
		}
		return mk(id), true
	}
}

// claimF7Flash matches an STM32F7 part by its flash size register
func claimF7Flash[D domain.Descriptor](want uint16, mk func(STM32) D) registry.ClaimFunc[D] {
	return func(ctx context.Context, p probe.Probe) (D, bool) {
		var zero D
		size, err := probe.Read16(ctx, p, f7FlashSize)
		if err != nil || size != want {
			return zero, false
		}
		return mk(STM32{
			FlashKiB: size,
			UID:      readUID(ctx, p, uidSpan{f7UID, 3}),
		}), true
	}
}

// ClaimL010 accepts any part of the L0x0 family. The flash size is read
// when available.
func ClaimL010(ctx context.Context, p probe.Probe) (*L010, bool) {
	t := &L010{STM32{UID: readUID(ctx, p, uidSpan{l0UID, 2}, uidSpan{l0UID + 0x14, 1})}}
	if size, err := probe.Read16(ctx, p, l0FlashSize); err == nil {
		t.FlashKiB = size
	}
	return t, true
}
