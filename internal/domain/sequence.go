package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrSlotOccupied is returned when a slot is written a second time
	ErrSlotOccupied = errors.New("slot already occupied")
	// ErrRoleMismatch is returned when a descriptor is written to another role's slot
	ErrRoleMismatch = errors.New("descriptor role does not match slot")
	// ErrNilDescriptor is returned when a nil descriptor is written
	ErrNilDescriptor = errors.New("nil descriptor")
	// ErrSequenceClosed is returned when writing to a closed sequence
	ErrSequenceClosed = errors.New("sequence closed")
	// ErrUnknownRole is returned for a role outside the four slots
	ErrUnknownRole = errors.New("unknown role")
)

// Sequence holds the four descriptors selected by a walk, one per role.
// An empty slot holds nil. A Sequence is not safe for concurrent use.
type Sequence struct {
	slots  [roleCount]Descriptor
	closed bool
}

// NewSequence creates a sequence with all four slots empty
func NewSequence() *Sequence {
	return &Sequence{}
}

// SetArchitecture writes the architecture slot
func (s *Sequence) SetArchitecture(d Descriptor) error {
	return s.Set(RoleArchitecture, d)
}

// SetManufacturer writes the manufacturer slot
func (s *Sequence) SetManufacturer(d Descriptor) error {
	return s.Set(RoleManufacturer, d)
}

// SetFamily writes the family slot
func (s *Sequence) SetFamily(d Descriptor) error {
	return s.Set(RoleFamily, d)
}

// SetTarget writes the target slot
func (s *Sequence) SetTarget(d Descriptor) error {
	return s.Set(RoleTarget, d)
}

// Set writes d into the slot for role. The slot must be empty and d must
// report the same role; on error the sequence is left unchanged.
func (s *Sequence) Set(role Role, d Descriptor) error {
	i := role.Index()
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if s.closed {
		return ErrSequenceClosed
	}
	if d == nil {
		return fmt.Errorf("%s: %w", role, ErrNilDescriptor)
	}
	if d.Role() != role {
		return fmt.Errorf("%s %q into %s slot: %w", d.Role(), d.Name(), role, ErrRoleMismatch)
	}
	if existing := s.slots[i]; existing != nil {
		return fmt.Errorf("%s slot holds %q: %w", role, existing.Name(), ErrSlotOccupied)
	}
	s.slots[i] = d
	return nil
}

// Slot returns the descriptor stored for role
func (s *Sequence) Slot(role Role) (Descriptor, bool) {
	i := role.Index()
	if s == nil || i < 0 || s.slots[i] == nil {
		return nil, false
	}
	return s.slots[i], true
}

// Complete reports whether all four slots are occupied
func (s *Sequence) Complete() bool {
	if s == nil {
		return false
	}
	for _, d := range s.slots {
		if d == nil {
			return false
		}
	}
	return true
}

// Names returns the descriptor names in slot order, "" for empty slots
func (s *Sequence) Names() [roleCount]string {
	var names [roleCount]string
	if s == nil {
		return names
	}
	for i, d := range s.slots {
		if d != nil {
			names[i] = d.Name()
		}
	}
	return names
}

// String renders the sequence as "arm/stm/f7x3/f743", with "-" for empty slots
func (s *Sequence) String() string {
	names := s.Names()
	parts := make([]string, 0, roleCount)
	for _, n := range names {
		if n == "" {
			n = "-"
		}
		parts = append(parts, n)
	}
	return strings.Join(parts, "/")
}

// components borrows all four slots at once. Only Project uses it.
func (s *Sequence) components() (a, m, f, t Descriptor) {
	return s.slots[0], s.slots[1], s.slots[2], s.slots[3]
}

// Close releases every descriptor that implements io.Closer, target first.
// Each descriptor is closed exactly once; later calls return nil.
func (s *Sequence) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := roleCount - 1; i >= 0; i-- {
		d := s.slots[i]
		if d == nil {
			continue
		}
		if c, ok := d.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s %q: %w", d.Role(), d.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Closed reports whether Close has been called
func (s *Sequence) Closed() bool {
	return s != nil && s.closed
}
