package solidtype

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrOpen is returned when the archive stream or its metadata cannot be opened,
	// or when an extraction destination cannot be created.
	ErrOpen = errors.New("solid: open failed")

	// ErrIndex is returned for entry indexes outside [0, Len()).
	ErrIndex = errors.New("solid: entry index out of range")

	// ErrRead is returned when the underlying archive stream fails during decode.
	ErrRead = errors.New("solid: read failed")

	// ErrDecode is returned when a codec rejects a block's bytes.
	ErrDecode = errors.New("solid: decode failed")

	// ErrWrite is returned when the extraction destination rejects a write.
	ErrWrite = errors.New("solid: write failed")

	// ErrDirectory is returned when extracting the payload of a directory entry.
	ErrDirectory = errors.New("solid: entry is a directory")

	// ErrClosed is returned by operations on a closed archive.
	ErrClosed = errors.New("solid: archive closed")
)

// Decode failures with a more specific cause. Both match ErrDecode.
var (
	// ErrChecksum is returned when decoded bytes do not match a recorded CRC32.
	ErrChecksum = fmt.Errorf("%w: checksum mismatch", ErrDecode)

	// ErrSizeOverflow is returned when sizes or offsets exceed supported limits
	// or point outside their block.
	ErrSizeOverflow = fmt.Errorf("%w: size overflow", ErrDecode)
)

// SourceError marks a failure of the underlying archive stream, as opposed to
// a failure of the codec reading from it. Block decoders wrap stream errors in
// a SourceError so the extraction engine can report ErrRead instead of ErrDecode.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return "source: " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
