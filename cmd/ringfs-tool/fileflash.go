package main

import (
	"os"

	"github.com/dsoprea/go-logging"
)

// fileFlash is a minimal flat-file-backed implementation of ringfs.Flash,
// good enough for this demo tool to inspect a partition stored as a plain
// file. It is not part of the ringfs library: the core package never
// imports it, matching spec.md's framing of the flash driver as an
// externally-supplied capability.
type fileFlash struct {
	f *os.File

	sectorSize   int
	sectorOffset int
	sectorCount  int
}

func openFileFlash(path string, sectorSize, sectorOffset, sectorCount int) (*fileFlash, error) {
	total := int64(sectorOffset+sectorCount) * int64(sectorSize)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, log.Wrap(err)
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, log.Wrap(err)
	}

	if fi.Size() < total {
		if err := f.Truncate(total); err != nil {
			return nil, log.Wrap(err)
		}

		if err := fillErased(f, fi.Size(), total); err != nil {
			return nil, log.Wrap(err)
		}
	}

	return &fileFlash{
		f:            f,
		sectorSize:   sectorSize,
		sectorOffset: sectorOffset,
		sectorCount:  sectorCount,
	}, nil
}

func fillErased(f *os.File, from, to int64) error {
	const chunkSize = 4096

	chunk := make([]byte, chunkSize)
	for i := range chunk {
		chunk[i] = 0xFF
	}

	for at := from; at < to; at += chunkSize {
		n := chunkSize
		if at+int64(n) > to {
			n = int(to - at)
		}

		if _, err := f.WriteAt(chunk[:n], at); err != nil {
			return log.Wrap(err)
		}
	}

	return nil
}

func (ff *fileFlash) Close() error {
	return ff.f.Close()
}

func (ff *fileFlash) SectorSize() int   { return ff.sectorSize }
func (ff *fileFlash) SectorOffset() int { return ff.sectorOffset }
func (ff *fileFlash) SectorCount() int  { return ff.sectorCount }

func (ff *fileFlash) SectorErase(addr int) error {
	start := addr &^ (ff.sectorSize - 1)

	blank := make([]byte, ff.sectorSize)
	for i := range blank {
		blank[i] = 0xFF
	}

	if _, err := ff.f.WriteAt(blank, int64(start)); err != nil {
		return log.Wrap(err)
	}

	return nil
}

func (ff *fileFlash) Program(addr int, data []byte) error {
	existing := make([]byte, len(data))
	if _, err := ff.f.ReadAt(existing, int64(addr)); err != nil {
		return log.Wrap(err)
	}

	for i, b := range data {
		existing[i] &= b
	}

	if _, err := ff.f.WriteAt(existing, int64(addr)); err != nil {
		return log.Wrap(err)
	}

	return nil
}

func (ff *fileFlash) Read(addr int, buf []byte) error {
	if _, err := ff.f.ReadAt(buf, int64(addr)); err != nil {
		return log.Wrap(err)
	}

	return nil
}
