// Package domain defines the identity types produced by a target walk.
//
// A walk over the target taxonomy (architecture, manufacturer, family,
// target) selects one descriptor per level. The descriptors are held in a
// Sequence behind the Descriptor interface so that every path through the
// taxonomy shares one return type.
//
// # Projection
//
// Project recovers a statically typed View of a Sequence when the caller
// names the exact four descriptor types. A mismatch is reported as false and
// never changes the sequence:
//
//	view, ok := domain.Project[*arm.Arm, *arm.STM, *arm.F7x3, *arm.F743](seq)
//
// # Capability Tables
//
// A Table is built by the leaf that claimed the hardware. Each entry was
// bound to the leaf's own four-type path with Bind, so callers reach leaf
// behavior without knowing the concrete types:
//
//	if v, ok := table.DebugView(seq); ok {
//		fmt.Println(v)
//	}
//
// Entries a leaf did not declare return empty. A Table never panics on a
// missing capability.
//
// # Design Principles
//
// - No probe I/O or external dependencies
// - Sentinel errors for sequence contract violations
// - Empty results, not errors, for "not this target" and projection mismatch
package domain
