package solid

import (
	"errors"
	"fmt"
	"io"

	"github.com/meigma/solid/internal/sizing"
)

// maxEmptyReads bounds consecutive (0, nil) reads from a block decoder.
const maxEmptyReads = 100

// decodedBlock is the single-block cache.
//
// buf holds the whole decoded block; only buf[:filled] is valid. rd is the
// decoder that produced it and stays open until the block is complete, so
// a later request for bytes past filled continues the same decode.
type decodedBlock struct {
	id     BlockID
	valid  bool
	buf    []byte
	filled int
	rd     BlockReader
}

// block returns the cache for id, opening a new block decode on a miss.
func (a *Archive) block(id BlockID) (*decodedBlock, error) {
	if a.cache.valid && a.cache.id == id {
		a.stats.CacheHits++
		a.log().Debug("block cache hit", "block", id, "filled", a.cache.filled)
		return &a.cache, nil
	}

	a.releaseBlock()

	rd, err := a.decoder.OpenBlock(a.src, id)
	if err != nil {
		return nil, classifyDecode(err)
	}
	size := rd.Size()
	if size < 0 || (a.maxBlockSize > 0 && uint64(size) > a.maxBlockSize) {
		_ = rd.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("%w: block %d decodes to %d bytes", ErrSizeOverflow, id, size)
	}
	n, err := sizing.ToInt(uint64(size), ErrSizeOverflow)
	if err != nil {
		_ = rd.Close() //nolint:errcheck // already failing
		return nil, err
	}

	a.stats.BlocksDecoded++
	a.log().Debug("block cache miss", "block", id, "size", size)
	a.cache = decodedBlock{
		id:    id,
		valid: true,
		buf:   a.alloc.Alloc(n),
		rd:    rd,
	}
	return &a.cache, nil
}

// releaseBlock drops the cached block, returning its buffer to the allocator.
func (a *Archive) releaseBlock() {
	c := &a.cache
	if !c.valid {
		return
	}
	if c.rd != nil {
		_ = c.rd.Close() //nolint:errcheck // decoder state is discarded either way
	}
	a.alloc.Free(c.buf)
	a.log().Debug("block released", "block", c.id)
	*c = decodedBlock{}
}

// fill decodes the next chunk of the block into buf.
func (c *decodedBlock) fill(chunk int) (int, error) {
	if c.rd == nil {
		return 0, fmt.Errorf("%w: block %d ended at %d of %d bytes", ErrDecode, c.id, c.filled, len(c.buf))
	}

	end := min(c.filled+chunk, len(c.buf))
	var (
		n   int
		err error
	)
	for range maxEmptyReads {
		n, err = c.rd.Read(c.buf[c.filled:end])
		if n > 0 || err != nil {
			break
		}
	}
	if n == 0 && err == nil {
		return 0, fmt.Errorf("%w: block %d: %w", ErrDecode, c.id, io.ErrNoProgress)
	}
	c.filled += n
	if err == io.EOF && c.filled < len(c.buf) {
		return n, fmt.Errorf("%w: block %d ended at %d of %d bytes", ErrDecode, c.id, c.filled, len(c.buf))
	}
	if err != nil && err != io.EOF {
		return n, classifyDecode(err)
	}

	if c.filled == len(c.buf) {
		if err := c.finish(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// finish drains the decoder to its end, letting it verify trailing
// checksums, and closes it. The buffer stays valid.
func (c *decodedBlock) finish() error {
	var scratch [1]byte
	var err error
	for range 8 {
		var n int
		n, err = c.rd.Read(scratch[:])
		if n > 0 {
			err = fmt.Errorf("%w: block %d decodes past %d bytes", ErrDecode, c.id, len(c.buf))
			break
		}
		if err != nil {
			break
		}
	}
	closeErr := c.rd.Close()
	c.rd = nil

	switch {
	case err == nil || errors.Is(err, io.EOF):
		if closeErr != nil {
			return classifyDecode(closeErr)
		}
		return nil
	case errors.Is(err, ErrDecode):
		return err
	default:
		return classifyDecode(err)
	}
}

// classifyDecode maps a block decoder error to ErrRead or ErrDecode.
func classifyDecode(err error) error {
	if errors.Is(err, ErrDecode) || errors.Is(err, ErrRead) {
		return err
	}
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	return fmt.Errorf("%w: %w", ErrDecode, err)
}
