// Package simflash is a host-side simulation of a NOR-flash device, used
// only by this module's own tests. It is grounded directly on
// original_source/flashsim.c from the C project this module's ring engine
// was distilled from, and is not part of the ringfs package itself: RingFS
// treats any such simulator as an external collaborator supplied through
// the ringfs.Flash capability.
package simflash

import (
	"fmt"

	"github.com/dsoprea/go-logging"
)

// Sim is an in-memory byte array that implements ringfs.Flash with true NOR
// semantics: SectorErase fills a sector with 0xFF, Program ANDs new bytes
// into what's already there.
type Sim struct {
	sectorSize   int
	sectorOffset int
	sectorCount  int

	data []byte

	// Trace, if non-nil, receives a formatted line for every simulated
	// operation -- the Go counterpart of flashsim.c's cprintf trace output.
	// It is a plain callback; nothing is logged when it is nil.
	Trace func(line string)
}

// Open creates a new simulated device covering sectorOffset+sectorCount
// sectors of sectorSize bytes each, starting fully erased (0xFF).
func Open(sectorSize, sectorOffset, sectorCount int) *Sim {
	total := (sectorOffset + sectorCount) * sectorSize

	data := make([]byte, total)
	for i := range data {
		data[i] = 0xFF
	}

	return &Sim{
		sectorSize:   sectorSize,
		sectorOffset: sectorOffset,
		sectorCount:  sectorCount,
		data:         data,
	}
}

func (s *Sim) trace(format string, args ...interface{}) {
	if s.Trace == nil {
		return
	}

	s.Trace(fmt.Sprintf(format, args...))
}

// SectorSize implements ringfs.Flash.
func (s *Sim) SectorSize() int { return s.sectorSize }

// SectorOffset implements ringfs.Flash.
func (s *Sim) SectorOffset() int { return s.sectorOffset }

// SectorCount implements ringfs.Flash.
func (s *Sim) SectorCount() int { return s.sectorCount }

// SectorErase implements ringfs.Flash: it sets every byte of the whole
// sector containing addr to 0xFF.
func (s *Sim) SectorErase(addr int) error {
	start := addr &^ (s.sectorSize - 1)

	if start < 0 || start+s.sectorSize > len(s.data) {
		return log.Errorf("simflash: sector_erase out of range: addr=0x%x", addr)
	}

	s.trace("sector_erase(0x%08x) erasing sector at 0x%08x", addr, start)

	for i := start; i < start+s.sectorSize; i++ {
		s.data[i] = 0xFF
	}

	return nil
}

// Program implements ringfs.Flash: it ANDs data into the existing bytes at
// addr, the monotonic 1->0 semantics the whole ring engine depends on.
func (s *Sim) Program(addr int, data []byte) error {
	if addr < 0 || addr+len(data) > len(s.data) {
		return log.Errorf("simflash: program out of range: addr=0x%x len=%d", addr, len(data))
	}

	s.trace("program(0x%08x) + %d bytes", addr, len(data))

	for i, b := range data {
		s.data[addr+i] &= b
	}

	return nil
}

// Read implements ringfs.Flash.
func (s *Sim) Read(addr int, buf []byte) error {
	if addr < 0 || addr+len(buf) > len(s.data) {
		return log.Errorf("simflash: read out of range: addr=0x%x len=%d", addr, len(buf))
	}

	copy(buf, s.data[addr:addr+len(buf)])

	s.trace("read(0x%08x) = %d bytes", addr, len(buf))

	return nil
}

// Snapshot returns a copy of the entire underlying byte array, for crash-
// injection tests that truncate or corrupt state between operations.
func (s *Sim) Snapshot() []byte {
	out := make([]byte, len(s.data))
	copy(out, s.data)

	return out
}

// Restore replaces the underlying byte array with raw, padding with 0xFF if
// raw is shorter than the device (simulating a crash that truncated a
// write mid-sector) and truncating if longer.
func (s *Sim) Restore(raw []byte) {
	total := len(s.data)

	data := make([]byte, total)
	for i := range data {
		data[i] = 0xFF
	}

	n := len(raw)
	if n > total {
		n = total
	}
	copy(data, raw[:n])

	s.data = data
}
