// Package codec provides the block decompressors used by SOLID containers.
//
// Each block in a container names the codec that packed it. NewReader
// returns a streaming decoder for that codec, so callers can consume a block
// incrementally without materializing the packed bytes.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/xi2/xz"
)

// ErrUnknownCodec is returned for codec identifiers this package does not implement.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec identifies the compression algorithm of a block.
type Codec uint8

// Codecs understood by NewReader. The values match the container index encoding.
const (
	None Codec = iota
	Zstd
	Flate
	Xz
	S2
)

// String returns the human-readable name of the codec.
func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case Flate:
		return "flate"
	case Xz:
		return "xz"
	case S2:
		return "s2"
	default:
		return "unknown"
	}
}

// Valid returns a nil error iff c is a known codec.
func (c Codec) Valid() error {
	switch c {
	case None, Zstd, Flate, Xz, S2:
		return nil
	}
	return fmt.Errorf("%w: 0x%02x", ErrUnknownCodec, uint8(c))
}

// NewReader returns a decoder that reads packed bytes from r and yields the
// decoded stream. Close releases decoder resources but never closes r.
func NewReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	return defaultPool.NewReader(c, r)
}

// NewReader is like the package-level NewReader but draws zstd decoders
// from p.
func (p *Pool) NewReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Zstd:
		dec, release, err := p.Get(r)
		if err != nil {
			return nil, err
		}
		return &releaseReader{Reader: dec, release: release}, nil
	case Flate:
		return flate.NewReader(r), nil
	case Xz:
		// xz.NewReader reads the stream header eagerly.
		dec, err := xz.NewReader(r, xz.DefaultDictMax)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(dec), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	}
	return nil, c.Valid()
}

// Decode decodes an entire packed buffer. It is a convenience for small
// blocks and tests; the extraction engine uses NewReader.
func Decode(c Codec, packed []byte) ([]byte, error) {
	rc, err := NewReader(c, bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type releaseReader struct {
	io.Reader
	release func()
}

func (r *releaseReader) Close() error {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	return nil
}
