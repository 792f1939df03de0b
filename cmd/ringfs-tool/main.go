// ringfs-tool is a small read-mostly inspection utility for a RingFS
// partition stored in a flat file. It plays the same ambient role the
// teacher's cmd/* tools play for exFAT images: parse a handful of flags,
// open the on-disk structure, and print a summary.
package main

import (
	"fmt"
	"os"

	"github.com/dsoprea/go-logging"
	"github.com/jessevdk/go-flags"

	"github.com/kosma-labs/go-ringfs"
)

type rootParameters struct {
	Filepath     string `short:"f" long:"filepath" description:"Path to the flat file backing the partition" required:"true"`
	SectorSize   int    `long:"sector-size" description:"Sector size, in bytes" default:"4096"`
	SectorOffset int    `long:"sector-offset" description:"Sectors of the underlying device preceding the partition" default:"0"`
	SectorCount  int    `long:"sector-count" description:"Number of sectors in the partition" required:"true"`
	ObjectSize   int    `long:"object-size" description:"Payload bytes per record" required:"true"`
	Version      uint32 `long:"version" description:"Schema version tag" default:"1"`
	Format       bool   `long:"format" description:"Format the partition instead of scanning it"`
}

var rootArguments = new(rootParameters)

func main() {
	defer func() {
		if state := recover(); state != nil {
			asErr, ok := state.(error)
			if !ok {
				asErr = log.Errorf("panic: %v", state)
			}

			log.PrintError(log.Wrap(asErr))
			os.Exit(1)
		}
	}()

	p := flags.NewParser(rootArguments, flags.Default)

	_, err := p.Parse()
	if err != nil {
		os.Exit(1)
	}

	ff, err := openFileFlash(rootArguments.Filepath, rootArguments.SectorSize, rootArguments.SectorOffset, rootArguments.SectorCount)
	log.PanicIf(err)

	defer ff.Close()

	fs, err := ringfs.Init(ff, rootArguments.Version, rootArguments.ObjectSize)
	log.PanicIf(err)

	if rootArguments.Format {
		err := fs.Format()
		log.PanicIf(err)
	} else {
		err := fs.Scan()
		log.PanicIf(err)
	}

	fmt.Println(fs.Describe())
}
