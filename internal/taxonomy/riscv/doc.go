// Package riscv declares the RISC-V branch of the target taxonomy.
//
// The architecture is recognised by reading dmstatus through the debug
// module interface. Manufacturer, family and target are then decoded from
// the JTAG IDCODE fields.
package riscv
