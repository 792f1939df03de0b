package ringfs

import (
	"errors"

	"github.com/dsoprea/go-logging"
)

// Sentinel errors for the taxonomy spec.md §7 describes. Callers can
// errors.Is against these to distinguish the fatal conditions from an
// ordinary capability failure.
var (
	// ErrCorrupted is returned by Scan when a sector header carries a
	// status value that isn't one of the five recognized encodings.
	ErrCorrupted = errors.New("ringfs: corrupted sector")

	// ErrVersionMismatch is returned by Scan when a sector's version word
	// disagrees with the instance's configured version.
	ErrVersionMismatch = errors.New("ringfs: incompatible version")

	// ErrPartialFormat is returned by Scan when any sector is found in the
	// FORMATTING state, meaning a prior Format call was interrupted.
	ErrPartialFormat = errors.New("ringfs: partially formatted partition")

	// ErrNoFreeSector is returned by Scan when the one-free-sector
	// invariant has been violated on disk.
	ErrNoFreeSector = errors.New("ringfs: invariant violated, no free sector")

	// ErrEmpty is returned by Fetch when there is no valid record between
	// cursor and write.
	ErrEmpty = errors.New("ringfs: no data")
)

// isTaxonomyError reports whether err is one of the sentinels above. The
// pinned github.com/go-errors/errors release go-logging wraps panics with
// predates Unwrap(), so log.Wrap-ing a sentinel would make it unreachable
// through errors.Is. Sentinels are therefore raised with a bare panic and
// recovered here by identity (Fetch returns ErrEmpty directly), never
// passed through log.Wrap.
func isTaxonomyError(err error) bool {
	switch err {
	case ErrCorrupted, ErrVersionMismatch, ErrPartialFormat, ErrNoFreeSector, ErrEmpty:
		return true
	default:
		return false
	}
}

// recoverPanic converts a value captured by recover() at the boundary of
// an exported RingFS operation into a returned error. Taxonomy sentinels
// come back unwrapped so callers can errors.Is against them; anything else
// is wrapped with log.Wrap, same as every other reported capability
// failure in this package.
func recoverPanic(errRaw interface{}) error {
	asErr, ok := errRaw.(error)
	if !ok {
		return log.Errorf("ringfs: panic: %v", errRaw)
	}

	if isTaxonomyError(asErr) {
		return asErr
	}

	return log.Wrap(asErr)
}
