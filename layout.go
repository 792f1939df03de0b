package ringfs

import (
	"encoding/binary"

	"github.com/dsoprea/go-logging"
	"github.com/go-restruct/restruct"
)

// defaultEncoding pins the on-disk byte order. The original C reference
// implementation wrote 32-bit words in host byte order; a device-portable
// re-implementation must commit to one, and little-endian is what every
// NOR part this is likely to run against natively uses.
var defaultEncoding = binary.LittleEndian

const (
	sectorHeaderSize = 8 // status(4) + version(4)
	slotHeaderSize   = 4 // status(4)
)

// sectorHeader is the 8-byte header at the start of every sector.
type sectorHeader struct {
	Status  uint32
	Version uint32
}

// slotHeader is the 4-byte header at the start of every slot.
type slotHeader struct {
	Status uint32
}

func packSectorHeader(h sectorHeader) ([]byte, error) {
	raw, err := restruct.Pack(defaultEncoding, &h)
	if err != nil {
		return nil, log.Wrap(err)
	}

	return raw, nil
}

func unpackSectorHeader(raw []byte) (h sectorHeader, err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			if asErr, ok := errRaw.(error); ok {
				err = log.Wrap(asErr)
			} else {
				err = log.Errorf("sector header unpack panic: %v", errRaw)
			}
		}
	}()

	err = restruct.Unpack(raw, defaultEncoding, &h)
	log.PanicIf(err)

	return h, nil
}

func packSlotHeader(h slotHeader) ([]byte, error) {
	raw, err := restruct.Pack(defaultEncoding, &h)
	if err != nil {
		return nil, log.Wrap(err)
	}

	return raw, nil
}

func unpackSlotHeader(raw []byte) (h slotHeader, err error) {
	defer func() {
		if errRaw := recover(); errRaw != nil {
			if asErr, ok := errRaw.(error); ok {
				err = log.Wrap(asErr)
			} else {
				err = log.Errorf("slot header unpack panic: %v", errRaw)
			}
		}
	}()

	err = restruct.Unpack(raw, defaultEncoding, &h)
	log.PanicIf(err)

	return h, nil
}

// sectorAddr returns the device-relative byte address of the start of
// sector s within the partition.
func (fs *Instance) sectorAddr(s int) int {
	return (fs.flash.SectorOffset() + s) * fs.flash.SectorSize()
}

// slotAddr returns the device-relative byte address of the start of the
// slot (header included) at loc.
func (fs *Instance) slotAddr(loc Location) int {
	return fs.sectorAddr(loc.Sector) + sectorHeaderSize + loc.Slot*(slotHeaderSize+fs.objectSize)
}

// payloadAddr returns the device-relative byte address of the payload
// bytes at loc, i.e. past the slot header.
func (fs *Instance) payloadAddr(loc Location) int {
	return fs.slotAddr(loc) + slotHeaderSize
}
