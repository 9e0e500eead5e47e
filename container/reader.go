package container

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/internal/fb"
	"github.com/meigma/solid/internal/sizing"
	"github.com/meigma/solid/internal/solidtype"
)

// DefaultMaxIndexSize is the default index size limit (64MB).
const DefaultMaxIndexSize = 64 << 20

// ErrCorruptIndex is returned when the index bytes cannot be trusted.
var ErrCorruptIndex = errors.New("container: corrupt index")

// Reader parses SOLID containers. The zero value is ready to use.
type Reader struct {
	// MaxIndexSize limits the index size read into memory.
	// Zero means DefaultMaxIndexSize.
	MaxIndexSize uint64

	// Pool supplies zstd decoders to the returned Index. Nil uses a shared pool.
	Pool *codec.Pool
}

// ReadMetadata implements solid.MetadataReader.
func (r Reader) ReadMetadata(src solidtype.Source) (solidtype.Metadata, error) {
	return r.Load(src)
}

// Load reads the header and index of the container in src.
func (r Reader) Load(src solidtype.Source) (*Index, error) {
	size := src.Size()
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: file too small (%d bytes)", ErrBadMagic, size)
	}

	raw := make([]byte, HeaderSize)
	if err := readFullAt(src, raw, 0); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := h.UnmarshalBinary(raw); err != nil {
		return nil, err
	}

	limit := r.MaxIndexSize
	if limit == 0 {
		limit = DefaultMaxIndexSize
	}
	if h.IndexSize > limit {
		return nil, fmt.Errorf("%w: index size %d exceeds limit %d", ErrCorruptIndex, h.IndexSize, limit)
	}
	if _, ok := sizing.RangeEnd(h.IndexOffset, h.IndexSize, uint64(size)); !ok {
		return nil, fmt.Errorf("%w: index range [%d, +%d) outside file", ErrCorruptIndex, h.IndexOffset, h.IndexSize)
	}

	data := make([]byte, h.IndexSize)
	off, err := sizing.ToInt64(h.IndexOffset, ErrCorruptIndex)
	if err != nil {
		return nil, err
	}
	if err := readFullAt(src, data, off); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if sum := crc32.ChecksumIEEE(data); sum != h.IndexCRC {
		return nil, fmt.Errorf("%w: checksum %08x, header says %08x", ErrCorruptIndex, sum, h.IndexCRC)
	}

	idx, err := parseIndex(data, uint64(size))
	if err != nil {
		return nil, err
	}
	idx.pool = r.Pool
	return idx, nil
}

// parseIndex decodes and validates the FlatBuffers index. FlatBuffers
// accessors panic on malformed offsets, so parsing runs under recover.
func parseIndex(data []byte, fileSize uint64) (idx *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx = nil
			err = fmt.Errorf("%w: %v", ErrCorruptIndex, r)
		}
	}()
	if len(data) < 8 || string(data[4:8]) != fb.IndexIdentifier {
		return nil, fmt.Errorf("%w: missing identifier", ErrCorruptIndex)
	}

	root := fb.GetRootAsIndex(data, 0)
	if v := root.Version(); v != Version {
		return nil, fmt.Errorf("%w: index version %d", ErrUnsupportedVersion, v)
	}

	idx = &Index{version: root.Version()}

	var fbBlock fb.Block
	idx.blocks = make([]BlockInfo, root.BlocksLength())
	for i := range idx.blocks {
		if !root.Blocks(&fbBlock, i) {
			return nil, fmt.Errorf("%w: block %d unreadable", ErrCorruptIndex, i)
		}
		b, err := blockFromFlatBuffers(&fbBlock, fileSize)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		idx.blocks[i] = b
	}

	var fbEntry fb.Entry
	idx.records = make([]solidtype.Record, root.EntriesLength())
	for i := range idx.records {
		if !root.Entries(&fbEntry, i) {
			return nil, fmt.Errorf("%w: entry %d unreadable", ErrCorruptIndex, i)
		}
		rec := recordFromFlatBuffers(&fbEntry)
		if err := idx.checkRecord(&rec); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		idx.records[i] = rec
	}
	return idx, nil
}

func blockFromFlatBuffers(b *fb.Block, fileSize uint64) (BlockInfo, error) {
	info := BlockInfo{
		Offset:       b.Offset(),
		PackedSize:   b.PackedSize(),
		UnpackedSize: b.UnpackedSize(),
		Codec:        codec.Codec(b.Codec()),
	}
	if crc := b.Crc32(); crc != nil {
		info.CRC32, info.HasCRC32 = *crc, true
	}
	if err := info.Codec.Valid(); err != nil {
		return BlockInfo{}, fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	if _, ok := sizing.RangeEnd(info.Offset, info.PackedSize, fileSize); !ok {
		return BlockInfo{}, fmt.Errorf("%w: packed range outside file", ErrCorruptIndex)
	}
	if _, err := sizing.ToInt64(info.UnpackedSize, ErrCorruptIndex); err != nil {
		return BlockInfo{}, err
	}
	if info.Codec == codec.None && info.PackedSize != info.UnpackedSize {
		return BlockInfo{}, fmt.Errorf("%w: stored block sizes differ", ErrCorruptIndex)
	}
	return info, nil
}

func recordFromFlatBuffers(e *fb.Entry) solidtype.Record {
	rec := solidtype.Record{
		Name:   make([]uint16, e.NameLength()),
		Size:   e.Size(),
		IsDir:  e.IsDir(),
		Block:  solidtype.BlockID(e.Block()),
		Offset: e.Offset(),
	}
	for i := range rec.Name {
		rec.Name[i] = e.Name(i)
	}
	if v := e.Crc32(); v != nil {
		rec.CRC32, rec.HasCRC32 = *v, true
	}
	if v := e.Ctime(); v != nil {
		rec.CTime, rec.HasCTime = *v, true
	}
	if v := e.Mtime(); v != nil {
		rec.MTime, rec.HasMTime = *v, true
	}
	return rec
}

// checkRecord verifies that a payload-carrying entry lies inside its block.
func (idx *Index) checkRecord(rec *solidtype.Record) error {
	if rec.IsDir || rec.Size == 0 {
		return nil
	}
	b, ok := idx.Block(rec.Block)
	if !ok {
		return fmt.Errorf("%w: unknown block %d", ErrCorruptIndex, rec.Block)
	}
	if _, ok := sizing.RangeEnd(rec.Offset, rec.Size, b.UnpackedSize); !ok {
		return fmt.Errorf("%w: range [%d, +%d) outside block %d", ErrCorruptIndex, rec.Offset, rec.Size, rec.Block)
	}
	return nil
}

// readFullAt fills p from src at off, accepting io.EOF on a complete read.
func readFullAt(src io.ReaderAt, p []byte, off int64) error {
	n, err := src.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
