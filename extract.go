package solid

import (
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"

	"github.com/meigma/solid/internal/sizing"
)

// ReadFile returns the full payload of entry i.
//
// The buffer is allocated once, with the entry's exact size, from the
// Archive's Allocator and is owned by the caller; pass it to Release when
// done to recycle it. On failure no buffer is returned.
func (a *Archive) ReadFile(i int) ([]byte, error) {
	e, err := a.extractable("read", i)
	if err != nil {
		return nil, err
	}
	if a.maxBlockSize > 0 && e.size > a.maxBlockSize {
		return nil, &fs.PathError{Op: "read", Path: e.name, Err: ErrSizeOverflow}
	}
	n, err := sizing.ToInt(e.size, ErrSizeOverflow)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: e.name, Err: err}
	}

	buf := a.alloc.Alloc(n)
	s := &bufferSink{buf: buf}
	if err := a.copyEntry(&e, s); err != nil {
		a.alloc.Free(buf)
		return nil, &fs.PathError{Op: "read", Path: e.name, Err: err}
	}
	if s.n != n {
		a.alloc.Free(buf)
		return nil, &fs.PathError{Op: "read", Path: e.name, Err: fmt.Errorf("%w: short entry (%d of %d bytes)", ErrDecode, s.n, n)}
	}
	return buf, nil
}

// Release returns a buffer obtained from ReadFile to the Archive's Allocator.
func (a *Archive) Release(buf []byte) {
	if buf != nil {
		a.alloc.Free(buf)
	}
}

// Extract writes the payload of entry i to w as blocks are decoded, without
// buffering the entry. It returns the number of bytes written; bytes already
// written before a failure are not rolled back.
func (a *Archive) Extract(i int, w io.Writer) (int64, error) {
	e, err := a.extractable("extract", i)
	if err != nil {
		return 0, err
	}
	s := &streamSink{w: w}
	if err := a.copyEntry(&e, s); err != nil {
		return s.n, &fs.PathError{Op: "extract", Path: e.name, Err: err}
	}
	return s.n, nil
}

// ExtractToPath writes the payload of entry i to a file at path, creating or
// truncating it. Directory entries fail with ErrDirectory before anything is
// created. A destination that cannot be created fails with ErrOpen; a
// partially written file is left in place on later failures.
func (a *Archive) ExtractToPath(i int, path string) (int64, error) {
	e, err := a.extractable("extract", i)
	if err != nil {
		return 0, err
	}

	f, err := a.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, &fs.PathError{Op: "extract", Path: e.name, Err: fmt.Errorf("%w: %w", ErrOpen, err)}
	}

	s := &streamSink{w: f}
	err = a.copyEntry(&e, s)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: close %s: %w", ErrWrite, path, closeErr)
	}
	if err != nil {
		return s.n, &fs.PathError{Op: "extract", Path: e.name, Err: err}
	}
	return s.n, nil
}

// extractable resolves entry i and rejects directories.
func (a *Archive) extractable(op string, i int) (Entry, error) {
	if a.closed {
		return Entry{}, ErrClosed
	}
	e, err := a.Entry(i)
	if err != nil {
		return Entry{}, err
	}
	if e.isDir {
		return Entry{}, &fs.PathError{Op: op, Path: e.name, Err: ErrDirectory}
	}
	return e, nil
}

// copyEntry streams e's byte range out of its block into s.
//
// Bytes the cache already holds are copied directly; the rest is decoded
// chunk by chunk, each chunk written before the next is decoded. A decode
// failure drops the cache; a sink failure leaves it intact.
func (a *Archive) copyEntry(e *Entry, s sink) error {
	var out sink = s
	var cs checksumSink
	verify := a.verify && e.hasCRC
	if verify {
		cs = checksumSink{sink: s, h: crc32.NewIEEE()}
		out = cs
	}

	if e.size > 0 {
		if err := a.copyRange(e, out); err != nil {
			return err
		}
	}

	if verify {
		if sum := cs.h.Sum32(); sum != e.crc {
			a.releaseBlock()
			return fmt.Errorf("%w: got %08x, want %08x", ErrChecksum, sum, e.crc)
		}
	}
	return nil
}

func (a *Archive) copyRange(e *Entry, s sink) error {
	blk, err := a.block(e.block)
	if err != nil {
		return err
	}

	end64, ok := sizing.RangeEnd(e.offset, e.size, uint64(len(blk.buf)))
	if !ok {
		return fmt.Errorf("%w: range [%d, +%d) outside block %d (%d bytes)",
			ErrSizeOverflow, e.offset, e.size, e.block, len(blk.buf))
	}
	pos, end := int(e.offset), int(end64) //nolint:gosec // bounded by len(blk.buf)

	for pos < end {
		if pos < blk.filled {
			hi := min(end, blk.filled)
			if err := s.write(blk.buf[pos:hi]); err != nil {
				return err
			}
			pos = hi
			continue
		}
		n, err := blk.fill(a.chunkSize)
		a.stats.BytesDecoded += uint64(n) //nolint:gosec // n is non-negative
		if err != nil {
			a.releaseBlock()
			return err
		}
	}
	return nil
}
