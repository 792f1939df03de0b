package ringfs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kosma-labs/go-ringfs/simflash"
)

func newTestInstance(t *testing.T, sectorSize, sectorOffset, sectorCount, objectSize int) (*Instance, *simflash.Sim) {
	sim := simflash.Open(sectorSize, sectorOffset, sectorCount)

	fs, err := Init(sim, 0x42, objectSize)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	return fs, sim
}

func TestInstance_advanceSlot_wrapsSector(t *testing.T) {
	fs, _ := newTestInstance(t, 32, 0, 6, 4)

	loc := Location{Sector: 0, Slot: fs.slotsPerSector - 1}
	fs.advanceSlot(&loc)

	assert.Equal(t, Location{Sector: 1, Slot: 0}, loc)
}

func TestInstance_advanceSector_wrapsPartition(t *testing.T) {
	fs, _ := newTestInstance(t, 32, 0, 6, 4)

	loc := Location{Sector: 5, Slot: 2}
	fs.advanceSector(&loc)

	assert.Equal(t, Location{Sector: 0, Slot: 0}, loc)
}

func TestLocation_equal(t *testing.T) {
	a := Location{Sector: 1, Slot: 2}
	b := Location{Sector: 1, Slot: 2}
	c := Location{Sector: 1, Slot: 3}

	assert.True(t, a.equal(b))
	assert.False(t, a.equal(c))
}
