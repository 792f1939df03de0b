package ringfs

// Location addresses a single slot within the ring as a (sector, slot)
// pair. It is a small copyable value -- never shared by reference, and
// never aliased between the read, write and cursor heads the engine tracks.
type Location struct {
	Sector int
	Slot   int
}

func (l Location) equal(other Location) bool {
	return l.Sector == other.Sector && l.Slot == other.Slot
}

// advanceSector resets loc to the beginning of the next sector, wrapping
// around the partition.
func (fs *Instance) advanceSector(loc *Location) {
	loc.Slot = 0
	loc.Sector++
	if loc.Sector >= fs.flash.SectorCount() {
		loc.Sector = 0
	}
}

// advanceSlot moves loc to the next slot, spilling over into the next
// sector (see advanceSector) once slotsPerSector is exhausted.
func (fs *Instance) advanceSlot(loc *Location) {
	loc.Slot++
	if loc.Slot >= fs.slotsPerSector {
		fs.advanceSector(loc)
	}
}
