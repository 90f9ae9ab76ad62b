package domain

// Descriptor is one node of the taxonomy at one level. Each concrete
// descriptor type is bound to exactly one role.
//
// Descriptors are normally pointer types so that projections hand out the
// stored value rather than a copy.
type Descriptor interface {
	// Role returns the taxonomy level this descriptor fills
	Role() Role

	// Name returns a short lower-case identifier such as "f743"
	Name() string
}

// Identifier is implemented by descriptors that know a device-unique ID
// (for example a factory-programmed UID register)
type Identifier interface {
	UniqueID() []byte
}
