package simflash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Grounded on original_source/tests.c's test_flashsim: three adjacent
// sectors, erase all, program the middle one, verify isolation, then
// re-erase and check the AND-semantics of Program.
func TestSim_eraseAndProgramSemantics(t *testing.T) {
	sim := Open(16, 0, 3)

	require.NoError(t, sim.SectorErase(0))
	require.NoError(t, sim.SectorErase(16))
	require.NoError(t, sim.SectorErase(32))

	data := make([]byte, 16)
	for i := range data {
		data[i] = 0x5a
	}
	require.NoError(t, sim.Program(16, data))

	buf := make([]byte, 48)
	require.NoError(t, sim.Read(0, buf))

	for i := 0; i < 16; i++ {
		assert.Equal(t, byte(0xff), buf[i])
	}
	for i := 16; i < 32; i++ {
		assert.Equal(t, byte(0x5a), buf[i])
	}
	for i := 32; i < 48; i++ {
		assert.Equal(t, byte(0xff), buf[i])
	}

	ones := make([]byte, 16)
	for i := range ones {
		ones[i] = 0x01
	}
	require.NoError(t, sim.Program(0, ones))

	tens := make([]byte, 16)
	for i := range tens {
		tens[i] = 0x10
	}
	require.NoError(t, sim.Program(32, tens))

	require.NoError(t, sim.SectorErase(16))

	require.NoError(t, sim.Read(0, buf))
	for i := 0; i < 16; i++ {
		assert.Equal(t, byte(0x01), buf[i])
	}
	for i := 16; i < 32; i++ {
		assert.Equal(t, byte(0xff), buf[i])
	}
	for i := 32; i < 48; i++ {
		assert.Equal(t, byte(0x10), buf[i])
	}
}

func TestSim_programOnlyClearsBits(t *testing.T) {
	sim := Open(16, 0, 1)

	require.NoError(t, sim.SectorErase(0))
	require.NoError(t, sim.Program(0, []byte{0b1010_1010}))
	require.NoError(t, sim.Program(0, []byte{0b1100_1100}))

	buf := make([]byte, 1)
	require.NoError(t, sim.Read(0, buf))

	assert.Equal(t, byte(0b1000_1000), buf[0])
}

func TestSim_snapshotRestoreRoundTrip(t *testing.T) {
	sim := Open(16, 0, 2)
	require.NoError(t, sim.SectorErase(0))
	require.NoError(t, sim.Program(0, []byte{0x01, 0x02}))

	snap := sim.Snapshot()

	require.NoError(t, sim.SectorErase(0))

	sim.Restore(snap)

	buf := make([]byte, 2)
	require.NoError(t, sim.Read(0, buf))
	assert.Equal(t, []byte{0x01, 0x02}, buf)
}

func TestSim_trace(t *testing.T) {
	sim := Open(16, 0, 1)

	var lines []string
	sim.Trace = func(line string) {
		lines = append(lines, line)
	}

	require.NoError(t, sim.SectorErase(0))
	require.NoError(t, sim.Program(0, []byte{0x01}))

	assert.GreaterOrEqual(t, len(lines), 2)
}
