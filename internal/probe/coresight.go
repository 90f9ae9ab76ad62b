package probe

import (
	"context"
	"fmt"
)

// Cortex-M private peripheral bus addresses
const (
	// ROMTableBase is the base of the Cortex-M processor ROM table
	ROMTableBase uint32 = 0xe00ff000

	pidr4Offset = 0xfd0
	pidr1Offset = 0xfe4
	pidr2Offset = 0xfe8
)

// RISC-V debug module registers
const (
	// DMStatus is the DMI address of the dmstatus register
	DMStatus uint32 = 0x11
)

// DebugModuleVersion extracts the version field of dmstatus: 2 for debug
// spec 0.13, 3 for 1.0
func DebugModuleVersion(dmstatus uint32) uint8 {
	return uint8(dmstatus & 0xf)
}

// ReadROMTableDesigner decodes the JEP106 code from the CoreSight peripheral
// ID registers (PIDR0-PIDR4) of the component at base
func ReadROMTableDesigner(ctx context.Context, p Probe, base uint32) (JEP106, error) {
	pidr1, err := p.Read32(ctx, base+pidr1Offset)
	if err != nil {
		return JEP106{}, fmt.Errorf("read PIDR1: %w", err)
	}
	pidr2, err := p.Read32(ctx, base+pidr2Offset)
	if err != nil {
		return JEP106{}, fmt.Errorf("read PIDR2: %w", err)
	}
	pidr4, err := p.Read32(ctx, base+pidr4Offset)
	if err != nil {
		return JEP106{}, fmt.Errorf("read PIDR4: %w", err)
	}

	// PIDR2 bit 3 set means the JEDEC code is in use
	if pidr2&0x8 == 0 {
		return JEP106{}, fmt.Errorf("component at 0x%08x has no JEDEC designer", base)
	}

	id := uint8((pidr1>>4)&0xf) | uint8((pidr2&0x7)<<4)
	return JEP106{
		Continuation: uint8(pidr4 & 0xf),
		ID:           id,
	}, nil
}

// Read16 reads a halfword by fetching the aligned word containing it
func Read16(ctx context.Context, p Probe, addr uint32) (uint16, error) {
	word, err := p.Read32(ctx, addr&^0x3)
	if err != nil {
		return 0, err
	}
	shift := (addr & 0x2) * 8
	return uint16(word >> shift), nil
}

// ReadWords reads n consecutive words starting at addr
func ReadWords(ctx context.Context, p Probe, addr uint32, n int) ([]uint32, error) {
	words := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		w, err := p.Read32(ctx, addr+uint32(i)*4)
		if err != nil {
			return nil, fmt.Errorf("read 0x%08x: %w", addr+uint32(i)*4, err)
		}
		words = append(words, w)
	}
	return words, nil
}
