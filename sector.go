package ringfs

import (
	"github.com/dsoprea/go-logging"
)

// sectorStatus is the 32-bit status word at offset 0 of a sector header.
// Every legal forward transition only clears bits, which is what makes a
// partial program recoverable under NOR semantics.
type sectorStatus uint32

const (
	// sectorErased is the raw post-erase state.
	sectorErased sectorStatus = 0xFFFFFFFF
	// sectorFreeStatus is erased and stamped with the instance's version;
	// available for writing.
	sectorFreeStatus sectorStatus = 0xFFFFFF00
	// sectorInUse contains committed or reserved slots.
	sectorInUse sectorStatus = 0xFFFF0000
	// sectorErasing means reclamation started; the erase may have been
	// interrupted.
	sectorErasing sectorStatus = 0xFF000000
	// sectorFormatting means a whole-partition format is in progress.
	sectorFormatting sectorStatus = 0x00000000
)

// sectorStatusAt reads a sector's status word.
func (fs *Instance) sectorStatusAt(sector int) (sectorStatus, error) {
	raw := make([]byte, sectorHeaderSize)
	err := fs.flash.Read(fs.sectorAddr(sector), raw)
	if err != nil {
		return 0, log.Wrap(err)
	}

	h, err := unpackSectorHeader(raw)
	if err != nil {
		return 0, log.Wrap(err)
	}

	return sectorStatus(h.Status), nil
}

// sectorVersionAt reads a sector's version word.
func (fs *Instance) sectorVersionAt(sector int) (uint32, error) {
	raw := make([]byte, sectorHeaderSize)
	err := fs.flash.Read(fs.sectorAddr(sector), raw)
	if err != nil {
		return 0, log.Wrap(err)
	}

	h, err := unpackSectorHeader(raw)
	if err != nil {
		return 0, log.Wrap(err)
	}

	return h.Version, nil
}

// setSectorStatus programs a sector's status word. Because every legal
// forward transition only clears bits, re-applying the same status is
// always safe -- this is what makes recovery after a crash mid-program
// possible.
func (fs *Instance) setSectorStatus(sector int, status sectorStatus) error {
	raw, err := packSectorHeader(sectorHeader{Status: uint32(status)})
	if err != nil {
		return log.Wrap(err)
	}

	// Only the status word (first 4 bytes) is meant to be touched here;
	// packSectorHeader also zeroes Version, which would incorrectly clear
	// the version word already on disk. Program only the status field.
	err = fs.flash.Program(fs.sectorAddr(sector), raw[:4])
	if err != nil {
		return log.Wrap(err)
	}

	return nil
}

// setSectorVersion programs a sector's version word.
func (fs *Instance) setSectorVersion(sector int, version uint32) error {
	raw := make([]byte, 4)
	defaultEncoding.PutUint32(raw, version)

	err := fs.flash.Program(fs.sectorAddr(sector)+4, raw)
	if err != nil {
		return log.Wrap(err)
	}

	return nil
}

// sectorFree is the _sector_free contract (§4.3): the only operation that
// erases. A crash in any of these four steps is recoverable -- the next
// scan observes either ERASED (erase completed, nothing re-programmed yet)
// or ERASING (not yet erased, or just started) and re-runs the whole
// procedure; either path converges on FREE.
func (fs *Instance) sectorFree(sector int) error {
	if err := fs.setSectorStatus(sector, sectorErasing); err != nil {
		return log.Wrap(err)
	}

	if err := fs.flash.SectorErase(fs.sectorAddr(sector)); err != nil {
		return log.Wrap(err)
	}

	if err := fs.setSectorVersion(sector, fs.version); err != nil {
		return log.Wrap(err)
	}

	if err := fs.setSectorStatus(sector, sectorFreeStatus); err != nil {
		return log.Wrap(err)
	}

	return nil
}
