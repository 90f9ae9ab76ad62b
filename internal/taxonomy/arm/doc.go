// Package arm declares the Arm Cortex-M branch of the target taxonomy.
//
// The architecture is recognised from the debug port IDCODE. Manufacturers
// are told apart by the JEP106 designer in the processor ROM table, then
// each vendor uses its own identification registers: DBGMCU_IDCODE and the
// flash size register on STM32, FICR on nRF52.
//
// All descriptors live in this one package so that each leaf can name its
// complete four-type path when binding capabilities.
package arm
