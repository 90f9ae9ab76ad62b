// Package probe defines the debug-probe transport consumed by the target
// taxonomy.
//
// Probe is the only I/O surface a taxonomy node sees: the debug port
// IDCODE, word reads through the default memory access port, and RISC-V
// debug module registers. Implementations talk to real hardware; this
// module ships only Sim.
//
// # Decoding Helpers
//
// IDCode and JEP106 decode JTAG/SWD identification codes.
// ReadROMTableDesigner reads the CoreSight peripheral ID registers of a ROM
// table to find the silicon manufacturer.
//
// # Retry
//
// WithRetry bounds each read with a timeout and repeats transient faults.
// Unmapped addresses are permanent and returned at once.
//
// # Simulated Boards
//
// Sim answers reads from a YAML Fixture:
//
//	name: nucleo-f743
//	idcode: 0x5ba02477
//	memory:
//	  - addr: 0xe0042000
//	    value: 0x10016452
//	    comment: DBGMCU_IDCODE
//
// Reads of addresses the fixture does not list fail with ErrUnmapped, and a
// fixture without an idcode behaves like an unpowered board.
package probe
