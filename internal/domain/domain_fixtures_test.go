package domain

import "fmt"

type testArch struct{ name string }

func (d *testArch) Role() Role     { return RoleArchitecture }
func (d *testArch) Name() string   { return d.name }
func (d *testArch) String() string { return "arch:" + d.name }

type otherArch struct{}

func (otherArch) Role() Role   { return RoleArchitecture }
func (otherArch) Name() string { return "other" }

type testManu struct{ name string }

func (d *testManu) Role() Role   { return RoleManufacturer }
func (d *testManu) Name() string { return d.name }

type testFamily struct{ name string }

func (d *testFamily) Role() Role   { return RoleFamily }
func (d *testFamily) Name() string { return d.name }

type testTarget struct {
	name   string
	closes int
	err    error
}

func (d *testTarget) Role() Role   { return RoleTarget }
func (d *testTarget) Name() string { return d.name }
func (d *testTarget) Close() error {
	d.closes++
	return d.err
}

type otherTarget struct{}

func (*otherTarget) Role() Role   { return RoleTarget }
func (*otherTarget) Name() string { return "other-target" }

type closingArch struct {
	testArch
	closes int
}

func (d *closingArch) Close() error {
	d.closes++
	return nil
}

type fullPath = View[*testArch, *testManu, *testFamily, *testTarget]

func newFullSequence() (*Sequence, *testArch, *testManu, *testFamily, *testTarget) {
	a := &testArch{name: "arm"}
	m := &testManu{name: "stm"}
	f := &testFamily{name: "f7x3"}
	t := &testTarget{name: "f743"}

	s := NewSequence()
	for _, err := range []error{
		s.SetTarget(t),
		s.SetFamily(f),
		s.SetManufacturer(m),
		s.SetArchitecture(a),
	} {
		if err != nil {
			panic(fmt.Sprintf("building fixture sequence: %v", err))
		}
	}
	return s, a, m, f, t
}
