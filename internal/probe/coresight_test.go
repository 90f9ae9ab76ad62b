package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func romTableFixture(pidr0, pidr1, pidr2, pidr4 uint32) *Fixture {
	return &Fixture{
		Name:   "rom",
		IDCode: 0x5ba02477,
		Memory: []WordEntry{
			{Addr: Word(ROMTableBase + 0xfd0), Value: Word(pidr4)},
			{Addr: Word(ROMTableBase + 0xfe0), Value: Word(pidr0)},
			{Addr: Word(ROMTableBase + 0xfe4), Value: Word(pidr1)},
			{Addr: Word(ROMTableBase + 0xfe8), Value: Word(pidr2)},
		},
	}
}

func TestReadROMTableDesigner(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		fixture *Fixture
		want    JEP106
	}{
		{"stm32", romTableFixture(0x52, 0x04, 0x0a, 0x00), JEP106STM},
		{"nrf52", romTableFixture(0x06, 0x40, 0x0c, 0x02), JEP106Nordic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadROMTableDesigner(ctx, NewSim(tt.fixture), ROMTableBase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("jedec bit clear", func(t *testing.T) {
		_, err := ReadROMTableDesigner(ctx, NewSim(romTableFixture(0, 0, 0x02, 0)), ROMTableBase)
		assert.Error(t, err)
	})

	t.Run("unmapped rom table", func(t *testing.T) {
		_, err := ReadROMTableDesigner(ctx, NewSim(&Fixture{IDCode: 0x5ba02477}), ROMTableBase)
		assert.ErrorIs(t, err, ErrUnmapped)
	})
}

func TestRead16(t *testing.T) {
	p := NewSim(&Fixture{
		IDCode: 0x5ba02477,
		Memory: []WordEntry{{Addr: 0x1ff0f440, Value: 0x0200abcd}},
	})
	ctx := context.Background()

	low, err := Read16(ctx, p, 0x1ff0f440)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xabcd), low)

	high, err := Read16(ctx, p, 0x1ff0f442)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0200), high)
}

func TestReadWords(t *testing.T) {
	p := NewSim(&Fixture{
		IDCode: 0x5ba02477,
		Memory: []WordEntry{
			{Addr: 0x1ff0f420, Value: 1},
			{Addr: 0x1ff0f424, Value: 2},
			{Addr: 0x1ff0f428, Value: 3},
		},
	})

	got, err := ReadWords(context.Background(), p, 0x1ff0f420, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, got)

	_, err = ReadWords(context.Background(), p, 0x1ff0f420, 4)
	assert.ErrorIs(t, err, ErrUnmapped)
}
