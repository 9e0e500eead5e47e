package binding

import (
	"errors"

	"github.com/meigma/solid"
)

// Status is the coarse result code reported across the binding boundary.
// The numeric values are stable.
type Status int32

const (
	StatusOK         Status = 0
	StatusError      Status = 1
	StatusOpenError  Status = 2
	StatusReadError  Status = 3
	StatusWriteError Status = 4

	// StatusSeekError is part of the status space but never produced:
	// archive sources are read positionally and never seek.
	StatusSeekError Status = 5

	StatusIndexError Status = 6
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusOpenError:
		return "open error"
	case StatusReadError:
		return "read error"
	case StatusWriteError:
		return "write error"
	case StatusSeekError:
		return "seek error"
	case StatusIndexError:
		return "index error"
	default:
		return "unknown status"
	}
}

// StatusOf maps an error from the solid package to a Status.
//
// Directory and decode failures have no code of their own and report
// StatusReadError, as does a checksum mismatch.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, solid.ErrOpen):
		return StatusOpenError
	case errors.Is(err, solid.ErrIndex):
		return StatusIndexError
	case errors.Is(err, solid.ErrWrite):
		return StatusWriteError
	case errors.Is(err, solid.ErrRead),
		errors.Is(err, solid.ErrDecode),
		errors.Is(err, solid.ErrDirectory):
		return StatusReadError
	default:
		return StatusError
	}
}
