package ringfs

import (
	"github.com/dsoprea/go-logging"
)

// slotStatus is the 32-bit status word at offset 0 of a slot header.
type slotStatus uint32

const (
	// slotErased means unused.
	slotErased slotStatus = 0xFFFFFFFF
	// slotReserved means a write started; the payload may be partial.
	slotReserved slotStatus = 0xFFFFFF00
	// slotValid means the payload is fully committed.
	slotValid slotStatus = 0xFFFF0000
	// slotGarbage means logically consumed, storage not yet reclaimed.
	slotGarbage slotStatus = 0xFF000000
)

// slotStatusAt reads a slot's status word.
func (fs *Instance) slotStatusAt(loc Location) (slotStatus, error) {
	raw := make([]byte, slotHeaderSize)
	err := fs.flash.Read(fs.slotAddr(loc), raw)
	if err != nil {
		return 0, log.Wrap(err)
	}

	h, err := unpackSlotHeader(raw)
	if err != nil {
		return 0, log.Wrap(err)
	}

	return slotStatus(h.Status), nil
}

// setSlotStatus programs a slot's status word.
func (fs *Instance) setSlotStatus(loc Location, status slotStatus) error {
	raw, err := packSlotHeader(slotHeader{Status: uint32(status)})
	if err != nil {
		return log.Wrap(err)
	}

	err = fs.flash.Program(fs.slotAddr(loc), raw)
	if err != nil {
		return log.Wrap(err)
	}

	return nil
}

// slotReserve is phase 1 of the three-phase commit (§4.4): mark the slot
// as write-in-progress. A crash before slotCommit leaves the slot RESERVED,
// which scan and fetch treat as logically dead and skip over.
func (fs *Instance) slotReserve(loc Location) error {
	return fs.setSlotStatus(loc, slotReserved)
}

// slotWritePayload is phase 2: program the payload bytes.
func (fs *Instance) slotWritePayload(loc Location, payload []byte) error {
	err := fs.flash.Program(fs.payloadAddr(loc), payload)
	if err != nil {
		return log.Wrap(err)
	}

	return nil
}

// slotCommit is phase 3: mark the slot VALID.
func (fs *Instance) slotCommit(loc Location) error {
	return fs.setSlotStatus(loc, slotValid)
}

// slotDiscard marks a slot GARBAGE. The payload is never re-read
// afterwards.
func (fs *Instance) slotDiscard(loc Location) error {
	return fs.setSlotStatus(loc, slotGarbage)
}
