package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probeid/internal/domain"
)

func branch(name string, role domain.Role, children ...Node) Node {
	return &fakeNode{info: Info{Name: name, Role: role}, children: children}
}

func leaf(name string, role domain.Role) Node {
	return &fakeNode{info: Info{Name: name, Role: role, Leaf: true}}
}

func TestValidate_StubTree(t *testing.T) {
	assert.NoError(t, Validate(stubTree()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		roots   []Node
		wantErr []string
	}{
		{
			name:    "no roots",
			roots:   nil,
			wantErr: []string{"no architecture roots"},
		},
		{
			name: "root is not an architecture",
			roots: []Node{
				branch("stm", domain.RoleManufacturer,
					branch("f7x3", domain.RoleFamily, leaf("f743", domain.RoleTarget))),
			},
			wantErr: []string{"stm: root has role manufacturer"},
		},
		{
			name: "skipped level",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("f7x3", domain.RoleFamily, leaf("f743", domain.RoleTarget))),
			},
			wantErr: []string{"arm/f7x3: role family cannot follow architecture"},
		},
		{
			name: "target role branch",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("stm", domain.RoleManufacturer,
						branch("f7x3", domain.RoleFamily,
							branch("f743", domain.RoleTarget, leaf("extra", domain.RoleTarget))))),
			},
			wantErr: []string{"arm/stm/f7x3/f743: target role on a branch"},
		},
		{
			name: "non-target leaf",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("stm", domain.RoleManufacturer,
						leaf("f7x3", domain.RoleFamily))),
			},
			wantErr: []string{"arm/stm/f7x3: leaf has role family"},
		},
		{
			name: "childless branch",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("stm", domain.RoleManufacturer)),
			},
			wantErr: []string{"arm/stm: branch has no children"},
		},
		{
			name: "duplicate siblings",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("stm", domain.RoleManufacturer,
						branch("f7x3", domain.RoleFamily,
							leaf("f743", domain.RoleTarget),
							leaf("f743", domain.RoleTarget)))),
			},
			wantErr: []string{`arm/stm/f7x3: duplicate child "f743"`},
		},
		{
			name: "duplicate roots and empty name",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("", domain.RoleManufacturer,
						branch("f7x3", domain.RoleFamily, leaf("f743", domain.RoleTarget)))),
				branch("arm", domain.RoleArchitecture,
					branch("stm", domain.RoleManufacturer,
						branch("f7x3", domain.RoleFamily, leaf("f743", domain.RoleTarget)))),
			},
			wantErr: []string{`duplicate root "arm"`, "arm/<unnamed>: empty name"},
		},
		{
			name: "nil child",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("stm", domain.RoleManufacturer,
						branch("f7x3", domain.RoleFamily, nil, leaf("f743", domain.RoleTarget)))),
			},
			wantErr: []string{"arm/stm/f7x3: nil child at index 0"},
		},
		{
			name: "value descriptor",
			roots: []Node{
				branch("arm", domain.RoleArchitecture,
					branch("stm", domain.RoleManufacturer,
						branch("f7x3", domain.RoleFamily,
							&fakeNode{info: Info{Name: "f743", Role: domain.RoleTarget, Leaf: true, Type: "arm.F743"}}))),
			},
			wantErr: []string{"arm/stm/f7x3/f743: descriptor type arm.F743 is not a pointer"},
		},
		{
			name:    "nil root",
			roots:   []Node{nil},
			wantErr: []string{"nil root at index 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.roots)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTree))
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
