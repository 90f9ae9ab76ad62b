package domain

// Role identifies the taxonomy level a descriptor belongs to
type Role string

const (
	RoleArchitecture Role = "architecture"
	RoleManufacturer Role = "manufacturer"
	RoleFamily       Role = "family"
	RoleTarget       Role = "target"
)

// roleCount is the number of slots in a Sequence
const roleCount = 4

// Roles returns the four roles in slot order
func Roles() []Role {
	return []Role{RoleArchitecture, RoleManufacturer, RoleFamily, RoleTarget}
}

// ParseRole converts a string to a Role
func ParseRole(s string) (Role, bool) {
	switch s {
	case "architecture":
		return RoleArchitecture, true
	case "manufacturer":
		return RoleManufacturer, true
	case "family":
		return RoleFamily, true
	case "target":
		return RoleTarget, true
	default:
		return "", false
	}
}

// Index returns the slot index for the role, or -1 for an unknown role
func (r Role) Index() int {
	switch r {
	case RoleArchitecture:
		return 0
	case RoleManufacturer:
		return 1
	case RoleFamily:
		return 2
	case RoleTarget:
		return 3
	default:
		return -1
	}
}

// Valid reports whether r is one of the four roles
func (r Role) Valid() bool {
	return r.Index() >= 0
}

// Next returns the role one level deeper. The target role has no next role.
func (r Role) Next() (Role, bool) {
	i := r.Index()
	if i < 0 || i+1 >= roleCount {
		return "", false
	}
	return Roles()[i+1], true
}
