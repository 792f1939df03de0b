package ringfs

import (
	"fmt"

	"github.com/dsoprea/go-logging"
	"github.com/dustin/go-humanize"
)

// Instance binds a Flash capability and an immutable geometry to a mutable
// (read, write, cursor) location triple. It owns no buffers beyond the
// location triple itself -- every record buffer is caller-provided.
//
// An Instance is not safe for concurrent use; callers must serialize access
// externally, and two instances must never be bound to the same partition
// concurrently.
type Instance struct {
	flash      Flash
	version    uint32
	objectSize int

	// slotsPerSector is derived once at Init time and cached.
	slotsPerSector int

	read   Location
	write  Location
	cursor Location
}

// Init binds geometry and a flash capability to a new Instance. No I/O is
// performed; call Format or Scan afterwards to bring the instance to a
// usable state.
func Init(flash Flash, version uint32, objectSize int) (*Instance, error) {
	if objectSize <= 0 {
		return nil, log.Errorf("ringfs: object size must be positive, got %d", objectSize)
	}

	slotSize := slotHeaderSize + objectSize
	available := flash.SectorSize() - sectorHeaderSize
	if available < slotSize {
		return nil, log.Errorf("ringfs: sector size %d too small for object size %d", flash.SectorSize(), objectSize)
	}

	fs := &Instance{
		flash:          flash,
		version:        version,
		objectSize:     objectSize,
		slotsPerSector: available / slotSize,
	}

	if fs.slotsPerSector < 1 {
		return nil, log.Errorf("ringfs: sector size %d yields zero slots per sector for object size %d", flash.SectorSize(), objectSize)
	}

	return fs, nil
}

// SlotsPerSector returns the cached, derived slots-per-sector value.
func (fs *Instance) SlotsPerSector() int {
	return fs.slotsPerSector
}

// ObjectSize returns the configured payload size per record.
func (fs *Instance) ObjectSize() int {
	return fs.objectSize
}

// Version returns the configured schema version tag.
func (fs *Instance) Version() uint32 {
	return fs.version
}

// Read returns the current read (tail) location.
func (fs *Instance) Read() Location {
	return fs.read
}

// Write returns the current write (head) location.
func (fs *Instance) Write() Location {
	return fs.write
}

// Cursor returns the current fetch cursor location.
func (fs *Instance) Cursor() Location {
	return fs.cursor
}

// Describe renders a short, human-readable summary of the instance's
// geometry and current occupancy, used by cmd/ringfs-tool.
func (fs *Instance) Describe() string {
	capacity := fs.capacity()
	estimate := fs.countEstimate()

	return fmt.Sprintf(
		"ringfs: version=0x%08x object_size=%s slots/sector=%d sectors=%d capacity=%s records read=%v write=%v cursor=%v ~%s records buffered",
		fs.version,
		humanize.Bytes(uint64(fs.objectSize)),
		fs.slotsPerSector,
		fs.flash.SectorCount(),
		humanize.Comma(int64(capacity)),
		fs.read,
		fs.write,
		fs.cursor,
		humanize.Comma(int64(estimate)),
	)
}
