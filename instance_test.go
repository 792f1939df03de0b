package ringfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosma-labs/go-ringfs/simflash"
)

func TestInit_derivesSlotsPerSector(t *testing.T) {
	sim := simflash.Open(65536, 3, 13)

	fs, err := Init(sim, 0x42, 4)
	require.NoError(t, err)

	assert.Equal(t, (65536-8)/(4+4), fs.SlotsPerSector())
}

func TestInit_rejectsObjectSizeLargerThanSector(t *testing.T) {
	sim := simflash.Open(32, 0, 4)

	_, err := Init(sim, 0x42, 1024)
	assert.Error(t, err)
}

func TestInit_rejectsNonPositiveObjectSize(t *testing.T) {
	sim := simflash.Open(32, 0, 4)

	_, err := Init(sim, 0x42, 0)
	assert.Error(t, err)
}

func TestInstance_Describe(t *testing.T) {
	fs, _ := newTestInstance(t, testSectorSize, 0, testSectorCount, testObjectSize)
	require.NoError(t, fs.Format())
	require.NoError(t, fs.Append(record(0x11)))

	desc := fs.Describe()
	assert.True(t, strings.Contains(desc, "ringfs:"))
	assert.True(t, strings.Contains(desc, "capacity="))
}
