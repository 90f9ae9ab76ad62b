package taxonomy

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
	"probeid/internal/taxonomy/arm"
	"probeid/internal/taxonomy/riscv"
)

func loadSim(t *testing.T, name string) *probe.Sim {
	t.Helper()
	f, err := probe.LoadFixture(filepath.Join("testdata", name+".yaml"))
	require.NoError(t, err)
	return probe.NewSim(f)
}

func TestRoots_Validate(t *testing.T) {
	require.NoError(t, registry.Validate(Roots()))
}

func TestIdentify_Fixtures(t *testing.T) {
	tests := []struct {
		fixture  string
		wantPath string
		wantCaps []domain.CapabilityName
	}{
		{
			fixture:  "nucleo-f743",
			wantPath: "arm/stm/f7x3/f743",
			wantCaps: []domain.CapabilityName{domain.CapabilityDebugView, domain.CapabilityMemoryMap, domain.CapabilityCore},
		},
		{
			fixture:  "nucleo-f753",
			wantPath: "arm/stm/f7x3/f753",
			wantCaps: []domain.CapabilityName{domain.CapabilityMemoryMap, domain.CapabilityCore},
		},
		{
			fixture:  "nucleo-l010",
			wantPath: "arm/stm/l0x0/l010",
			wantCaps: []domain.CapabilityName{domain.CapabilityDebugView, domain.CapabilityMemoryMap, domain.CapabilityCore},
		},
		{
			fixture:  "pca10040",
			wantPath: "arm/nordic/nrf52/nrf52832",
			wantCaps: []domain.CapabilityName{domain.CapabilityDebugView, domain.CapabilityMemoryMap, domain.CapabilityCore},
		},
		{
			fixture:  "pca10056",
			wantPath: "arm/nordic/nrf52/nrf52840",
			wantCaps: []domain.CapabilityName{domain.CapabilityDebugView, domain.CapabilityMemoryMap, domain.CapabilityCore},
		},
		{
			fixture:  "hifive1-revb",
			wantPath: "riscv/sifive/fe310/fe310-g002",
			wantCaps: []domain.CapabilityName{domain.CapabilityDebugView, domain.CapabilityCore},
		},
		{
			fixture:  "esp32-c3-devkit",
			wantPath: "riscv/espressif/esp32c/esp32c3",
			wantCaps: []domain.CapabilityName{domain.CapabilityDebugView, domain.CapabilityMemoryMap, domain.CapabilityCore},
		},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			sim := loadSim(t, tt.fixture)
			seq, table, ok := Identify(context.Background(), sim)
			require.True(t, ok)
			defer seq.Close()

			assert.True(t, seq.Complete())
			assert.Equal(t, tt.wantPath, seq.String())
			assert.Equal(t, tt.wantCaps, table.Declared())

			for _, name := range tt.wantCaps {
				_, ok := table.Invoke(name, seq)
				assert.True(t, ok, "declared capability %s must yield a result", name)
			}
		})
	}
}

func TestIdentify_Misses(t *testing.T) {
	for _, fixture := range []string{"unknown-cortex-m", "unpowered"} {
		t.Run(fixture, func(t *testing.T) {
			sim := loadSim(t, fixture)
			seq, table, ok := Identify(context.Background(), sim)
			assert.False(t, ok)
			assert.Nil(t, seq)
			assert.Empty(t, table.Declared())
			assert.Equal(t, 0, sim.OpenSessions(), "abandoned arm descriptor releases its session")
		})
	}
}

func TestIdentify_F743DebugView(t *testing.T) {
	seq, table, ok := Identify(context.Background(), loadSim(t, "nucleo-f743"))
	require.True(t, ok)
	defer seq.Close()

	view, ok := domain.Project[*arm.Arm, *arm.STM, *arm.F7x3, *arm.F743](seq)
	require.True(t, ok)
	assert.Equal(t, arm.DevF7x3, view.Family.DevID)
	assert.Equal(t, uint16(0x1001), view.Family.RevID)
	assert.Equal(t, uint16(512), view.Target.FlashKiB)
	assert.Len(t, view.Target.UniqueID(), 12)

	dbg, ok := table.DebugView(seq)
	require.True(t, ok)
	assert.Equal(t, "architecture=arm manufacturer=stm family=f7x3 target=f743", dbg.String())

	mm, ok := table.MemoryMap(seq)
	require.True(t, ok)
	flash, ok := mm.Find(0x08000000)
	require.True(t, ok)
	assert.Equal(t, uint32(512*1024), flash.Size)

	core, ok := table.Core(seq)
	require.True(t, ok)
	assert.Equal(t, "thumbv7em-none-eabihf", core.Triple)
}

func TestIdentify_F753HasNoDebugView(t *testing.T) {
	seq, table, ok := Identify(context.Background(), loadSim(t, "nucleo-f753"))
	require.True(t, ok)
	defer seq.Close()

	dbg, ok := table.DebugView(seq)
	assert.False(t, ok)
	assert.Nil(t, dbg)

	_, ok = domain.Project[*arm.Arm, *arm.STM, *arm.F7x3, *arm.F743](seq)
	assert.False(t, ok)
	view, ok := domain.Project[*arm.Arm, *arm.STM, *arm.F7x3, *arm.F753](seq)
	require.True(t, ok)
	assert.Equal(t, uint16(64), view.Target.FlashKiB)
}

func TestIdentify_RISCVFallback(t *testing.T) {
	seq, table, ok := Identify(context.Background(), loadSim(t, "hifive1-revb"))
	require.True(t, ok)
	defer seq.Close()

	view, ok := domain.Project[*riscv.RISCV, *riscv.SiFive, *riscv.FE310, *riscv.FE310G002](seq)
	require.True(t, ok)
	assert.Equal(t, uint8(2), view.Architecture.DMVersion)
	assert.Equal(t, uint8(2), view.Target.Version)

	_, ok = table.MemoryMap(seq)
	assert.False(t, ok, "fe310-g002 does not declare memory_map")
}

func TestIdentify_ESP32C3(t *testing.T) {
	seq, table, ok := Identify(context.Background(), loadSim(t, "esp32-c3-devkit"))
	require.True(t, ok)
	defer seq.Close()

	view, ok := domain.Project[*riscv.RISCV, *riscv.Espressif, *riscv.ESP32C, *riscv.ESP32C3](seq)
	require.True(t, ok)
	assert.Equal(t, uint8(3), view.Architecture.DMVersion)
	assert.Equal(t, []byte{0x7c, 0xdf, 0x2a, 0x3b, 0x4c, 0x5d}, view.Target.UniqueID())

	mm, ok := table.MemoryMap(seq)
	require.True(t, ok)
	assert.Equal(t, uint64(400<<10), mm.Total(domain.MemoryRAM))
}

func TestIdentify_NRF52840(t *testing.T) {
	seq, table, ok := Identify(context.Background(), loadSim(t, "pca10056"))
	require.True(t, ok)
	defer seq.Close()

	view, ok := domain.Project[*arm.Arm, *arm.Nordic, *arm.NRF52, *arm.NRF52840](seq)
	require.True(t, ok)
	assert.Equal(t, uint32(0x52840), view.Target.Part)
	assert.Len(t, view.Target.UniqueID(), 8)

	mm, ok := table.MemoryMap(seq)
	require.True(t, ok)
	assert.Equal(t, uint64(1024*1024), mm.Total(domain.MemoryFlash))
	assert.Equal(t, uint64(256*1024), mm.Total(domain.MemoryRAM))
}

func TestIdentify_SessionLifetime(t *testing.T) {
	sim := loadSim(t, "nucleo-f743")
	seq, _, ok := Identify(context.Background(), sim)
	require.True(t, ok)
	assert.Equal(t, 1, sim.OpenSessions(), "the arm descriptor holds the mem-ap session")

	require.NoError(t, seq.Close())
	assert.Equal(t, 0, sim.OpenSessions())
	assert.Equal(t, 1, sim.Closed())

	require.NoError(t, seq.Close())
	assert.Equal(t, 1, sim.Closed(), "second close is a no-op")
}

func TestIdentify_IndependentWalks(t *testing.T) {
	sim := loadSim(t, "nucleo-f743")
	first, _, ok := Identify(context.Background(), sim)
	require.True(t, ok)
	defer first.Close()
	second, _, ok := Identify(context.Background(), sim)
	require.True(t, ok)
	defer second.Close()

	v1, ok := domain.Project[*arm.Arm, *arm.STM, *arm.F7x3, *arm.F743](first)
	require.True(t, ok)
	v2, ok := domain.Project[*arm.Arm, *arm.STM, *arm.F7x3, *arm.F743](second)
	require.True(t, ok)
	assert.NotSame(t, v1.Architecture, v2.Architecture)
	assert.NotSame(t, v1.Target, v2.Target)
	assert.Equal(t, 2, sim.OpenSessions())
}

func TestIdentify_CancelledContextMisses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := loadSim(t, "nucleo-f743")
	seq, _, ok := Identify(ctx, sim)
	assert.False(t, ok)
	assert.Nil(t, seq)
	assert.Equal(t, 0, sim.OpenSessions())
}

func TestIdentify_RetriesTransientFaults(t *testing.T) {
	f, err := probe.LoadFixture(filepath.Join("testdata", "nucleo-f743.yaml"))
	require.NoError(t, err)

	flaky := probe.NewSim(f, probe.WithFaults(2))
	_, _, ok := Identify(context.Background(), flaky)
	assert.False(t, ok, "an unretried fault reads as not-this-target")

	flaky = probe.NewSim(f, probe.WithFaults(2))
	seq, _, ok := Identify(context.Background(), probe.WithRetry(flaky, 3, 0))
	require.True(t, ok)
	defer seq.Close()
	assert.Equal(t, "arm/stm/f7x3/f743", seq.String())
}
