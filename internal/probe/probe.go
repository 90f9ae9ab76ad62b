package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoTarget is returned when nothing answers on the debug port
	ErrNoTarget = errors.New("no target responding")
	// ErrUnmapped is returned for reads of addresses the target does not decode
	ErrUnmapped = errors.New("address not mapped")
	// ErrFault is returned for transient transfer faults
	ErrFault = errors.New("transfer fault")
)

// Probe is the transport a taxonomy node interrogates to decide whether the
// attached hardware belongs to it. Every method may perform I/O.
type Probe interface {
	// ReadIDCode returns the debug port IDCODE (SWD DPIDR or JTAG IDCODE)
	ReadIDCode(ctx context.Context) (uint32, error)

	// Read32 reads one word from the target's memory space through the
	// default memory access port
	Read32(ctx context.Context, addr uint32) (uint32, error)

	// ReadDMI reads a RISC-V debug module register
	ReadDMI(ctx context.Context, reg uint32) (uint32, error)
}

// AccessPortOpener is implemented by probes that hand out access port
// sessions. The caller owns the returned session and must close it.
type AccessPortOpener interface {
	OpenAccessPort(ctx context.Context, ap uint8) (io.Closer, error)
}

// IDCode is a JTAG/SWD identification code
type IDCode uint32

// Designer returns the JEP106 manufacturer code in bits [11:1]
func (c IDCode) Designer() JEP106 {
	designer := (uint32(c) >> 1) & 0x7ff
	return JEP106{
		Continuation: uint8(designer >> 7),
		ID:           uint8(designer & 0x7f),
	}
}

// PartNumber returns bits [27:12]
func (c IDCode) PartNumber() uint16 {
	return uint16((uint32(c) >> 12) & 0xffff)
}

// Version returns bits [31:28]
func (c IDCode) Version() uint8 {
	return uint8(uint32(c) >> 28)
}

// Valid reports whether the mandatory bit 0 is set
func (c IDCode) Valid() bool {
	return c&1 == 1
}

// String renders the code as 0x%08x
func (c IDCode) String() string {
	return fmt.Sprintf("0x%08x", uint32(c))
}

// JEP106 is a JEDEC manufacturer identification code: a bank (continuation
// count) and a 7-bit ID within the bank
type JEP106 struct {
	Continuation uint8
	ID           uint8
}

// Known manufacturer codes
var (
	JEP106ARM       = JEP106{Continuation: 4, ID: 0x3b}
	JEP106STM       = JEP106{Continuation: 0, ID: 0x20}
	JEP106Nordic    = JEP106{Continuation: 2, ID: 0x44}
	JEP106SiFive    = JEP106{Continuation: 9, ID: 0x09}
	JEP106Espressif = JEP106{Continuation: 12, ID: 0x12}
)

var jep106Names = map[JEP106]string{
	JEP106ARM:       "ARM Ltd",
	JEP106STM:       "STMicroelectronics",
	JEP106Nordic:    "Nordic VLSI ASA",
	JEP106SiFive:    "SiFive, Inc.",
	JEP106Espressif: "Espressif Systems",
}

// Manufacturer returns the registered name for a known code, or "" if unknown
func (j JEP106) Manufacturer() string {
	return jep106Names[j]
}

// String renders the code as "cc/id", e.g. "4/0x3b"
func (j JEP106) String() string {
	if name := j.Manufacturer(); name != "" {
		return fmt.Sprintf("%d/0x%02x (%s)", j.Continuation, j.ID, name)
	}
	return fmt.Sprintf("%d/0x%02x", j.Continuation, j.ID)
}
