package ringfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorFree_transitionsToFree(t *testing.T) {
	fs, _ := newTestInstance(t, testSectorSize, 0, testSectorCount, testObjectSize)

	require.NoError(t, fs.sectorFree(2))

	status, err := fs.sectorStatusAt(2)
	require.NoError(t, err)
	assert.Equal(t, sectorFreeStatus, status)

	version, err := fs.sectorVersionAt(2)
	require.NoError(t, err)
	assert.Equal(t, fs.version, version)
}

func TestSectorFree_recoverableFromErasingState(t *testing.T) {
	fs, _ := newTestInstance(t, testSectorSize, 0, testSectorCount, testObjectSize)

	require.NoError(t, fs.setSectorStatus(2, sectorErasing))

	// A crash between steps 1 and 2 of _sector_free leaves ERASING. Running
	// it again must still converge on FREE.
	require.NoError(t, fs.sectorFree(2))

	status, err := fs.sectorStatusAt(2)
	require.NoError(t, err)
	assert.Equal(t, sectorFreeStatus, status)
}

func TestSetSectorStatus_onlyTouchesStatusWord(t *testing.T) {
	fs, _ := newTestInstance(t, testSectorSize, 0, testSectorCount, testObjectSize)

	require.NoError(t, fs.sectorFree(0))
	require.NoError(t, fs.setSectorStatus(0, sectorInUse))

	version, err := fs.sectorVersionAt(0)
	require.NoError(t, err)
	assert.Equal(t, fs.version, version, "programming the status word must not clear the version word")
}
