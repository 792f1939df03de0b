package ringfs

import (
	"github.com/dsoprea/go-logging"
)

// Format brings a possibly-wiped partition to a known empty state (§4.5).
//
// Every sector is first stamped FORMATTING -- a deliberate bit-clear that
// makes a partition half-formatted by a crash identifiable on a later Scan
// (a FORMATTING sector anywhere on disk means Scan must refuse the
// partition; see ErrPartialFormat) -- and only then freed one by one.
func (fs *Instance) Format() (err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			err = recoverPanic(errRaw)
		}
	}()

	sectorCount := fs.flash.SectorCount()

	for sector := 0; sector < sectorCount; sector++ {
		err := fs.setSectorStatus(sector, sectorFormatting)
		log.PanicIf(err)
	}

	for sector := 0; sector < sectorCount; sector++ {
		err := fs.sectorFree(sector)
		log.PanicIf(err)
	}

	fs.read = Location{}
	fs.write = Location{}
	fs.cursor = Location{}

	return nil
}

// Scan reconstructs (read, write, cursor) from on-disk state alone (§4.6).
// It fails loudly on corruption, version mismatch, a partially-formatted
// partition, or a missing FREE sector; half-erased sectors (ERASED or
// ERASING) are repaired in place by re-running sectorFree.
func (fs *Instance) Scan() (err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			err = recoverPanic(errRaw)
		}
	}()

	sectorCount := fs.flash.SectorCount()

	previousStatus := sectorFreeStatus
	readSector := 0
	writeSector := sectorCount - 1
	freeSeen := false
	usedSeen := false

	for sector := 0; sector < sectorCount; sector++ {
		status, err := fs.sectorStatusAt(sector)
		log.PanicIf(err)

		if status == sectorFormatting {
			panic(ErrPartialFormat)
		}

		if status == sectorErasing || status == sectorErased {
			err := fs.sectorFree(sector)
			log.PanicIf(err)

			status = sectorFreeStatus
		}

		if status != sectorFreeStatus && status != sectorInUse {
			panic(ErrCorrupted)
		}

		version, err := fs.sectorVersionAt(sector)
		log.PanicIf(err)

		if version != fs.version {
			panic(ErrVersionMismatch)
		}

		if status == sectorFreeStatus {
			freeSeen = true
		}

		if status == sectorInUse {
			usedSeen = true
		}

		if status == sectorInUse && previousStatus == sectorFreeStatus {
			readSector = sector
		}
		if status == sectorFreeStatus && previousStatus == sectorInUse {
			writeSector = sector - 1
		}

		previousStatus = status
	}

	if !freeSeen {
		panic(ErrNoFreeSector)
	}

	if !usedSeen {
		writeSector = 0
	}

	write := Location{Sector: writeSector, Slot: 0}
	for write.Sector == writeSector {
		status, err := fs.slotStatusAt(write)
		log.PanicIf(err)

		if status == slotErased {
			break
		}

		fs.advanceSlot(&write)
	}

	// Skip only the logically-discarded slots (GARBAGE/RESERVED); stop at
	// the first VALID slot -- that's the oldest live record -- or at an
	// ERASED slot, or once read catches up to write.
	read := Location{Sector: readSector, Slot: 0}
	for !read.equal(write) {
		status, err := fs.slotStatusAt(read)
		log.PanicIf(err)

		if status != slotGarbage && status != slotReserved {
			break
		}

		fs.advanceSlot(&read)
	}

	fs.write = write
	fs.read = read
	fs.cursor = read

	return nil
}

// Append commits record (exactly ObjectSize bytes) at the write head,
// reclaiming the sector ahead of it first if needed to preserve the
// one-free-sector invariant (§4.7). Reclamation drops an entire sector's
// worth of old records at once -- the only place old data is destroyed.
func (fs *Instance) Append(record []byte) (err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			err = recoverPanic(errRaw)
		}
	}()

	if len(record) != fs.objectSize {
		log.Panicf("ringfs: record size %d does not match object size %d", len(record), fs.objectSize)
	}

	sectorCount := fs.flash.SectorCount()

	next := (fs.write.Sector + 1) % sectorCount
	nextStatus, err := fs.sectorStatusAt(next)
	log.PanicIf(err)

	if nextStatus != sectorFreeStatus {
		if fs.read.Sector == next {
			fs.advanceSector(&fs.read)
		}
		if fs.cursor.Sector == next {
			fs.advanceSector(&fs.cursor)
		}

		err := fs.sectorFree(next)
		log.PanicIf(err)
	}

	writeStatus, err := fs.sectorStatusAt(fs.write.Sector)
	log.PanicIf(err)

	switch writeStatus {
	case sectorFreeStatus:
		err := fs.setSectorStatus(fs.write.Sector, sectorInUse)
		log.PanicIf(err)
	case sectorInUse:
		// Already writable.
	default:
		log.Panicf("ringfs: append: corrupted filesystem, sector %d status 0x%08x", fs.write.Sector, uint32(writeStatus))
	}

	err = fs.slotReserve(fs.write)
	log.PanicIf(err)

	err = fs.slotWritePayload(fs.write, record)
	log.PanicIf(err)

	err = fs.slotCommit(fs.write)
	log.PanicIf(err)

	fs.advanceSlot(&fs.write)

	return nil
}

// Fetch advances the cursor forward from its current position toward
// write, skipping any slot that isn't VALID, and delivers the first valid
// record found into buf (which must be ObjectSize bytes). It returns
// ErrEmpty if the cursor reaches write without finding one. Fetch never
// mutates flash (§4.8).
func (fs *Instance) Fetch(buf []byte) (err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			err = recoverPanic(errRaw)
		}
	}()

	if len(buf) != fs.objectSize {
		log.Panicf("ringfs: buffer size %d does not match object size %d", len(buf), fs.objectSize)
	}

	for !fs.cursor.equal(fs.write) {
		status, err := fs.slotStatusAt(fs.cursor)
		log.PanicIf(err)

		if status == slotValid {
			err := fs.flash.Read(fs.payloadAddr(fs.cursor), buf)
			log.PanicIf(err)

			fs.advanceSlot(&fs.cursor)
			return nil
		}

		fs.advanceSlot(&fs.cursor)
	}

	return ErrEmpty
}

// Discard walks from read forward to cursor, marking each slot GARBAGE,
// then sets read = cursor (§4.9). Idempotent when read == cursor.
func (fs *Instance) Discard() (err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			err = recoverPanic(errRaw)
		}
	}()

	for !fs.read.equal(fs.cursor) {
		err := fs.slotDiscard(fs.read)
		log.PanicIf(err)

		fs.advanceSlot(&fs.read)
	}

	return nil
}

// Rewind resets the cursor back to read, making every fetched-but-not-
// discarded record re-deliverable (§4.10).
func (fs *Instance) Rewind() error {
	fs.cursor = fs.read
	return nil
}

// Capacity returns (sectorCount-1) * slotsPerSector: the partition can
// never use the one sector that must always stay FREE (§4.11).
func (fs *Instance) Capacity() int {
	return fs.capacity()
}

func (fs *Instance) capacity() int {
	return (fs.flash.SectorCount() - 1) * fs.slotsPerSector
}

// CountEstimate is the O(1) ring distance from read to write, in slot
// units. It over-counts by any GARBAGE/RESERVED slots in that range;
// callers should treat it only as an upper bound (§4.11).
func (fs *Instance) CountEstimate() int {
	return fs.countEstimate()
}

func (fs *Instance) countEstimate() int {
	sectorCount := fs.flash.SectorCount()
	sectorDelta := (fs.write.Sector - fs.read.Sector + sectorCount) % sectorCount

	return sectorDelta*fs.slotsPerSector + (fs.write.Slot - fs.read.Slot)
}

// CountExact walks from read to write counting VALID slots; O(n) (§4.11).
func (fs *Instance) CountExact() (count int, err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			err = recoverPanic(errRaw)
		}
	}()

	loc := fs.read
	for !loc.equal(fs.write) {
		status, err := fs.slotStatusAt(loc)
		log.PanicIf(err)

		if status == slotValid {
			count++
		}

		fs.advanceSlot(&loc)
	}

	return count, nil
}
