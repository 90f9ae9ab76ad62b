package registry

import (
	"errors"
	"fmt"
	"strings"

	"probeid/internal/domain"
)

// ErrInvalidTree marks every problem reported by Validate
var ErrInvalidTree = errors.New("invalid taxonomy")

// Validate checks the shape of a taxonomy without touching hardware. All
// problems are returned together.
func Validate(roots []Node) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTree}, args...)...))
	}

	if len(roots) == 0 {
		fail("no architecture roots")
	}
	for _, name := range duplicateNames(roots) {
		fail("duplicate root %q", name)
	}
	for i, root := range roots {
		if root == nil {
			fail("nil root at index %d", i)
		}
	}

	Walk(roots, func(ancestors []Info, n Node) {
		info := n.Info()
		at := label(ancestors, info)

		if info.Name == "" {
			fail("%s: empty name", at)
		}
		if !info.Role.Valid() {
			fail("%s: unknown role %q", at, info.Role)
			return
		}

		if len(ancestors) == 0 {
			if info.Role != domain.RoleArchitecture {
				fail("%s: root has role %s, want %s", at, info.Role, domain.RoleArchitecture)
			}
		} else {
			parent := ancestors[len(ancestors)-1]
			if want, ok := parent.Role.Next(); !ok || info.Role != want {
				fail("%s: role %s cannot follow %s", at, info.Role, parent.Role)
			}
		}

		if !pointerType(info.Type) {
			fail("%s: descriptor type %s is not a pointer", at, info.Type)
		}

		children := n.Children()
		switch {
		case info.Leaf && info.Role != domain.RoleTarget:
			fail("%s: leaf has role %s, want %s", at, info.Role, domain.RoleTarget)
		case !info.Leaf && info.Role == domain.RoleTarget:
			fail("%s: target role on a branch", at)
		case !info.Leaf && len(children) == 0:
			fail("%s: branch has no children", at)
		}

		for i, child := range children {
			if child == nil {
				fail("%s: nil child at index %d", at, i)
			}
		}
		for _, name := range duplicateNames(children) {
			fail("%s: duplicate child %q", at, name)
		}
	})

	return errors.Join(errs...)
}

func duplicateNames(nodes []Node) []string {
	seen := make(map[string]int, len(nodes))
	var dups []string
	for _, n := range nodes {
		if n == nil {
			continue
		}
		name := n.Info().Name
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}
	return dups
}

// pointerType reports whether a %T rendering names a pointer. Unknown types
// ("" or an interface's "<nil>") pass.
func pointerType(name string) bool {
	return name == "" || name == "<nil>" || strings.HasPrefix(name, "*")
}

func label(ancestors []Info, info Info) string {
	parts := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		parts = append(parts, a.Name)
	}
	name := info.Name
	if name == "" {
		name = "<unnamed>"
	}
	parts = append(parts, name)
	return strings.Join(parts, "/")
}
