package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_Reads(t *testing.T) {
	ctx := context.Background()
	sim := NewSim(&Fixture{
		Name:   "fe310",
		IDCode: 0x20000913,
		DMI:    []WordEntry{{Addr: Word(DMStatus), Value: 0x00400c82}},
	})

	id, err := sim.ReadIDCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x20000913), id)

	status, err := sim.ReadDMI(ctx, DMStatus)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), DebugModuleVersion(status))

	_, err = sim.ReadDMI(ctx, 0x10)
	assert.ErrorIs(t, err, ErrUnmapped)

	_, err = sim.Read32(ctx, 0xe0042000)
	assert.ErrorIs(t, err, ErrUnmapped)

	assert.Equal(t, 4, sim.Reads())
	assert.Equal(t, "fe310", sim.Name())
}

func TestSim_Unpowered(t *testing.T) {
	ctx := context.Background()
	sim := NewSim(nil)

	_, err := sim.ReadIDCode(ctx)
	assert.ErrorIs(t, err, ErrNoTarget)
	_, err = sim.Read32(ctx, 0)
	assert.ErrorIs(t, err, ErrNoTarget)
	_, err = sim.OpenAccessPort(ctx, 0)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestSim_Sessions(t *testing.T) {
	ctx := context.Background()
	sim := NewSim(&Fixture{IDCode: 0x5ba02477})

	first, err := sim.OpenAccessPort(ctx, 0)
	require.NoError(t, err)
	second, err := sim.OpenAccessPort(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, sim.OpenSessions())

	require.NoError(t, first.Close())
	require.NoError(t, first.Close())
	assert.Equal(t, 1, sim.OpenSessions())
	assert.Equal(t, 1, sim.Closed())

	require.NoError(t, second.Close())
	assert.Equal(t, 0, sim.OpenSessions())
}

func TestSim_Reload(t *testing.T) {
	ctx := context.Background()
	sim := NewSim(&Fixture{Name: "a", IDCode: 0x5ba02477})
	sim.Reload(&Fixture{Name: "b", IDCode: 0x20000913})

	id, err := sim.ReadIDCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x20000913), id)
	assert.Equal(t, "b", sim.Name())
}

func TestSim_LatencyHonorsContext(t *testing.T) {
	sim := NewSim(&Fixture{IDCode: 0x5ba02477}, WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sim.ReadIDCode(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
