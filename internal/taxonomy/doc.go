// Package taxonomy assembles the supported targets into one tree.
//
//	arm
//	  stm
//	    f7x3: f743, f753
//	    l0x0: l010
//	  nordic
//	    nrf52: nrf52832, nrf52840
//	riscv
//	  sifive
//	    fe310: fe310-g002
//	  espressif
//	    esp32c: esp32c3
//
// Descriptor types live in the arm and riscv subpackages.
package taxonomy
