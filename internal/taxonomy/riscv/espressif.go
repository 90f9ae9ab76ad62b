package riscv

import (
	"context"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
)

// ESP32-C3 addresses
const (
	esp32c3MAC  uint32 = 0x60008844 // EFUSE_RD_MAC_SPI_SYS_0
	esp32c3IROM uint32 = 0x42000000
	esp32c3DRAM uint32 = 0x3fc80000
)

// Espressif is the manufacturer descriptor for Espressif Systems
type Espressif struct {
	IDCode probe.IDCode
}

// Role implements domain.Descriptor
func (*Espressif) Role() domain.Role { return domain.RoleManufacturer }

// Name implements domain.Descriptor
func (*Espressif) Name() string { return "espressif" }

// ESP32C is the ESP32-C series family descriptor
type ESP32C struct {
	Part uint16
}

// Role implements domain.Descriptor
func (*ESP32C) Role() domain.Role { return domain.RoleFamily }

// Name implements domain.Descriptor
func (*ESP32C) Name() string { return "esp32c" }

// ESP32C3 is the ESP32-C3 part
type ESP32C3 struct {
	MAC []byte
}

// Role implements domain.Descriptor
func (*ESP32C3) Role() domain.Role { return domain.RoleTarget }

// Name implements domain.Descriptor
func (*ESP32C3) Name() string { return "esp32c3" }

// UniqueID implements domain.Identifier with the factory MAC address
func (t *ESP32C3) UniqueID() []byte {
	return t.MAC
}

var esp32c3Core = domain.CoreInfo{Name: "esp32c3", Triple: "riscv32imc-unknown-none-elf"}

var esp32c3Memory = domain.MemoryMap{
	{Name: "irom", Kind: domain.MemoryFlash, Start: esp32c3IROM, Size: 8 << 20},
	{Name: "dram", Kind: domain.MemoryRAM, Start: esp32c3DRAM, Size: 400 << 10},
}

type esp32c3Path = domain.View[*RISCV, *Espressif, *ESP32C, *ESP32C3]

func espressifTree() registry.Node {
	return registry.NewBranch[*Espressif]("espressif", domain.RoleManufacturer,
		claimDesigner(probe.JEP106Espressif, func(id probe.IDCode) *Espressif { return &Espressif{IDCode: id} }),
		registry.NewBranch[*ESP32C]("esp32c", domain.RoleFamily,
			claimPart(0x0005, func(id probe.IDCode) *ESP32C { return &ESP32C{Part: id.PartNumber()} }),
			registry.NewLeaf[*ESP32C3]("esp32c3", ClaimESP32C3, domain.Capabilities{
				DebugView: domain.DebugViewOf[*RISCV, *Espressif, *ESP32C, *ESP32C3](),
				MemoryMap: domain.Bind(func(esp32c3Path) (domain.MemoryMap, bool) {
					return append(domain.MemoryMap(nil), esp32c3Memory...), true
				}),
				Core: domain.Bind(func(esp32c3Path) (domain.CoreInfo, bool) { return esp32c3Core, true }),
			}),
		),
	)
}

// ClaimESP32C3 accepts any part of the ESP32-C family. The MAC address is
// read from eFuse when available.
func ClaimESP32C3(ctx context.Context, p probe.Probe) (*ESP32C3, bool) {
	t := &ESP32C3{}
	lo, errLo := p.Read32(ctx, esp32c3MAC)
	hi, errHi := p.Read32(ctx, esp32c3MAC+4)
	if errLo == nil && errHi == nil {
		t.MAC = []byte{byte(hi >> 8), byte(hi), byte(lo >> 24), byte(lo >> 16), byte(lo >> 8), byte(lo)}
	}
	return t, true
}
