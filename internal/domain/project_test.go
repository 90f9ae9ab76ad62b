package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	t.Run("matching tuple returns the stored descriptors", func(t *testing.T) {
		s, a, m, f, tgt := newFullSequence()

		view, ok := Project[*testArch, *testManu, *testFamily, *testTarget](s)
		require.True(t, ok)
		assert.Same(t, a, view.Architecture)
		assert.Same(t, m, view.Manufacturer)
		assert.Same(t, f, view.Family)
		assert.Same(t, tgt, view.Target)

		// Writes through the view land in the sequence
		view.Target.name = "f743-renamed"
		got, _ := s.Slot(RoleTarget)
		assert.Equal(t, "f743-renamed", got.Name())
	})

	t.Run("mismatched slots return empty", func(t *testing.T) {
		s, _, _, _, _ := newFullSequence()

		_, ok := Project[otherArch, *testManu, *testFamily, *testTarget](s)
		assert.False(t, ok, "architecture mismatch")

		_, ok = Project[*testArch, *testManu, *testFamily, *otherTarget](s)
		assert.False(t, ok, "target mismatch")

		// Pointer type where nothing of that type was stored
		_, ok = Project[*otherArch, *testManu, *testFamily, *testTarget](s)
		assert.False(t, ok, "pointer to other architecture")
	})

	t.Run("failed projections leave the sequence intact", func(t *testing.T) {
		s, _, _, _, _ := newFullSequence()
		before := s.Names()

		for i := 0; i < 5; i++ {
			_, ok := Project[otherArch, *testManu, *testFamily, *otherTarget](s)
			require.False(t, ok)
			_, ok = Project[*testArch, *testManu, *testFamily, *testTarget](s)
			require.True(t, ok)
		}

		assert.Equal(t, before, s.Names())
		_, ok := Project[*testArch, *testManu, *testFamily, *testTarget](s)
		assert.True(t, ok)
	})

	t.Run("incomplete sequence returns empty", func(t *testing.T) {
		s := NewSequence()
		require.NoError(t, s.SetTarget(&testTarget{name: "f743"}))

		_, ok := Project[*testArch, *testManu, *testFamily, *testTarget](s)
		assert.False(t, ok)
	})

	t.Run("nil and closed sequences return empty", func(t *testing.T) {
		_, ok := Project[*testArch, *testManu, *testFamily, *testTarget](nil)
		assert.False(t, ok)

		s, _, _, _, _ := newFullSequence()
		require.NoError(t, s.Close())
		_, ok = Project[*testArch, *testManu, *testFamily, *testTarget](s)
		assert.False(t, ok)
	})
}

func TestView_Format(t *testing.T) {
	s, _, _, _, _ := newFullSequence()
	view, ok := Project[*testArch, *testManu, *testFamily, *testTarget](s)
	require.True(t, ok)

	want := "architecture=arm manufacturer=stm family=f7x3 target=f743"
	assert.Equal(t, want, view.String())
	assert.Equal(t, want, fmt.Sprint(view))
	assert.Equal(t, [4]string{"arm", "stm", "f7x3", "f743"}, view.Names())

	detailed := fmt.Sprintf("%+v", view)
	assert.Contains(t, detailed, "architecture: arch:arm")
	assert.Contains(t, detailed, "target:")
}

func TestBind(t *testing.T) {
	entry := Bind(func(v fullPath) (string, bool) {
		return v.Target.Name(), true
	})

	s, _, _, _, _ := newFullSequence()
	got, ok := entry(s)
	require.True(t, ok)
	assert.Equal(t, "f743", got)

	// A sequence built along another path projects as empty
	other := NewSequence()
	require.NoError(t, other.SetTarget(&otherTarget{}))
	require.NoError(t, other.SetFamily(&testFamily{name: "f7x3"}))
	require.NoError(t, other.SetManufacturer(&testManu{name: "stm"}))
	require.NoError(t, other.SetArchitecture(&testArch{name: "arm"}))

	got, ok = entry(other)
	assert.False(t, ok)
	assert.Empty(t, got)
}
