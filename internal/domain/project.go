package domain

import (
	"fmt"
	"io"
)

// View is a statically typed projection of a Sequence. Its fields hold the
// values stored in the sequence; with pointer descriptors they alias the
// sequence's own descriptors.
type View[A, M, F, T Descriptor] struct {
	Architecture A
	Manufacturer M
	Family       F
	Target       T
}

// Project recovers a typed view of s when the runtime types of its four slots
// are exactly A, M, F and T. Any mismatch, empty slot, nil or closed sequence
// yields false. Project never modifies s.
//
// The view shares the stored descriptors only when they are pointer types;
// a value descriptor is copied into the view. registry.Validate rejects
// value descriptors in a taxonomy.
func Project[A, M, F, T Descriptor](s *Sequence) (View[A, M, F, T], bool) {
	var view View[A, M, F, T]
	if s == nil || s.closed {
		return view, false
	}

	a, m, f, t := s.components()

	arch, ok := a.(A)
	if !ok {
		return view, false
	}
	manu, ok := m.(M)
	if !ok {
		return view, false
	}
	fam, ok := f.(F)
	if !ok {
		return view, false
	}
	tgt, ok := t.(T)
	if !ok {
		return view, false
	}

	view.Architecture = arch
	view.Manufacturer = manu
	view.Family = fam
	view.Target = tgt
	return view, true
}

// Names returns the four descriptor names in slot order
func (v View[A, M, F, T]) Names() [roleCount]string {
	return [roleCount]string{
		v.Architecture.Name(),
		v.Manufacturer.Name(),
		v.Family.Name(),
		v.Target.Name(),
	}
}

// String renders "architecture=arm manufacturer=stm family=f7x3 target=f743"
func (v View[A, M, F, T]) String() string {
	return fmt.Sprintf("architecture=%s manufacturer=%s family=%s target=%s",
		v.Architecture.Name(), v.Manufacturer.Name(), v.Family.Name(), v.Target.Name())
}

// Format implements fmt.Formatter. %+v includes each descriptor's own
// rendering; every other verb prints String().
func (v View[A, M, F, T]) Format(st fmt.State, verb rune) {
	if verb == 'v' && st.Flag('+') {
		fmt.Fprintf(st, "{architecture: %+v, manufacturer: %+v, family: %+v, target: %+v}",
			v.Architecture, v.Manufacturer, v.Family, v.Target)
		return
	}
	io.WriteString(st, v.String())
}

// Bind turns a typed capability implementation into a table entry. The
// returned function projects the sequence onto (A, M, F, T) before calling
// fn and yields empty when the projection fails.
func Bind[A, M, F, T Descriptor, R any](fn func(View[A, M, F, T]) (R, bool)) func(*Sequence) (R, bool) {
	return func(s *Sequence) (R, bool) {
		view, ok := Project[A, M, F, T](s)
		if !ok {
			var zero R
			return zero, false
		}
		return fn(view)
	}
}

// DebugViewOf returns the stock debug_view entry for the path (A, M, F, T):
// the projected view itself
func DebugViewOf[A, M, F, T Descriptor]() DebugViewFunc {
	return Bind(func(v View[A, M, F, T]) (fmt.Stringer, bool) {
		return v, true
	})
}
