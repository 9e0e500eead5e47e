package container

import (
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/internal/solidtype"
)

// ErrUnknownBlock is returned by OpenBlock for ids outside the block table.
var ErrUnknownBlock = errors.New("container: unknown block")

// OpenBlock implements solid.BlockDecoder.
//
// The returned reader yields exactly the block's UnpackedSize bytes and
// verifies the block CRC, when recorded, as the last byte is produced.
func (idx *Index) OpenBlock(src solidtype.Source, id solidtype.BlockID) (solidtype.BlockReader, error) {
	info, ok := idx.Block(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}

	// Ranges were validated against the file size in Load.
	section := io.NewSectionReader(src, int64(info.Offset), int64(info.PackedSize)) //nolint:gosec // checked in Load
	pool := idx.pool
	var (
		dec io.ReadCloser
		err error
	)
	if pool != nil {
		dec, err = pool.NewReader(info.Codec, sourceReader{section})
	} else {
		dec, err = codec.NewReader(info.Codec, sourceReader{section})
	}
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", id, err)
	}

	return &blockReader{
		id:        id,
		dec:       dec,
		size:      int64(info.UnpackedSize), //nolint:gosec // checked in Load
		remaining: int64(info.UnpackedSize), //nolint:gosec // checked in Load
		crc:       crc32.NewIEEE(),
		wantCRC:   info.CRC32,
		checkCRC:  info.HasCRC32,
	}, nil
}

// sourceReader tags stream failures so they are not mistaken for codec errors.
type sourceReader struct {
	r io.Reader
}

func (s sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = &solidtype.SourceError{Err: err}
	}
	return n, err
}

type blockReader struct {
	id        solidtype.BlockID
	dec       io.ReadCloser
	size      int64
	remaining int64
	crc       hash.Hash32
	wantCRC   uint32
	checkCRC  bool
	decEOF    bool
	done      bool
	err       error
}

func (r *blockReader) Size() int64 {
	return r.size
}

func (r *blockReader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.remaining == 0 {
		if err := r.finish(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}

	n, err := r.dec.Read(p)
	r.crc.Write(p[:n]) //nolint:errcheck // hash.Hash never errors
	r.remaining -= int64(n)
	if err == io.EOF {
		r.decEOF = true
		if r.remaining > 0 {
			r.err = fmt.Errorf("block %d: %w (%d bytes short)", r.id, io.ErrUnexpectedEOF, r.remaining)
			return n, r.err
		}
		err = nil
	}
	if err != nil {
		r.err = err
		return n, err
	}
	if r.remaining == 0 {
		if err := r.finish(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// finish confirms the codec stream ends with the block and checks the CRC.
func (r *blockReader) finish() error {
	if r.done {
		return r.err
	}
	r.done = true

	if !r.decEOF {
		var scratch [1]byte
		for range 8 {
			n, err := r.dec.Read(scratch[:])
			if n > 0 {
				r.err = fmt.Errorf("block %d: decoded data exceeds %d bytes", r.id, r.size)
				return r.err
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				r.err = err
				return r.err
			}
		}
	}

	if r.checkCRC {
		if sum := r.crc.Sum32(); sum != r.wantCRC {
			r.err = fmt.Errorf("block %d: %w (got %08x, want %08x)", r.id, solidtype.ErrChecksum, sum, r.wantCRC)
			return r.err
		}
	}
	return nil
}

func (r *blockReader) Close() error {
	if r.dec == nil {
		return nil
	}
	err := r.dec.Close()
	r.dec = nil
	if r.err == nil {
		r.err = errors.New("container: block reader closed")
	}
	return err
}
