package testutil

import (
	"bytes"
	"hash/crc32"
	"testing"
	"unicode/utf16"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/container"
	"github.com/meigma/solid/internal/fb"
)

// EntryDef describes one entry of a test archive.
// Nil optional fields are omitted from the index.
type EntryDef struct {
	Name  []uint16
	Data  []byte
	Dir   bool
	Block int // index returned by Builder.Block; -1 for none
	CRC   *uint32
	CTime *uint64
	MTime *uint64
}

// BlockDef describes one solid block of a test archive.
type BlockDef struct {
	Codec codec.Codec

	// OmitCRC leaves the block CRC out of the index.
	OmitCRC bool

	// Packed, when set, is written as the block's packed bytes instead of
	// encoding the entries' data. The entries must still describe the
	// decoded content.
	Packed []byte

	// Corrupt, when set, may modify the packed bytes before they are written.
	Corrupt func(packed []byte)
}

// Builder assembles SOLID v1 archives in memory.
type Builder struct {
	Blocks  []*BlockDef
	Entries []*EntryDef
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Block adds a block packed with c and returns its id.
func (b *Builder) Block(c codec.Codec) int {
	b.Blocks = append(b.Blocks, &BlockDef{Codec: c})
	return len(b.Blocks) - 1
}

// File adds a file entry stored in block blk, with its CRC recorded.
func (b *Builder) File(name string, data []byte, blk int) *EntryDef {
	sum := crc32.ChecksumIEEE(data)
	e := &EntryDef{Name: utf16.Encode([]rune(name)), Data: data, Block: blk, CRC: &sum}
	if len(data) == 0 {
		e.Block = -1
	}
	b.Entries = append(b.Entries, e)
	return e
}

// Dir adds a directory entry.
func (b *Builder) Dir(name string) *EntryDef {
	e := &EntryDef{Name: utf16.Encode([]rune(name)), Dir: true, Block: -1}
	b.Entries = append(b.Entries, e)
	return e
}

// Build encodes the archive. Entry data is laid out in each block in entry order.
func (b *Builder) Build(tb testing.TB) []byte {
	tb.Helper()

	type layout struct {
		raw    bytes.Buffer
		offset uint64
		packed uint64
		crc    uint32
	}
	blocks := make([]layout, len(b.Blocks))
	offsets := make([]uint64, len(b.Entries))
	for i, e := range b.Entries {
		if e.Block < 0 || e.Dir {
			continue
		}
		l := &blocks[e.Block]
		offsets[i] = uint64(l.raw.Len())
		l.raw.Write(e.Data)
	}

	file := make([]byte, container.HeaderSize)
	for i, def := range b.Blocks {
		l := &blocks[i]
		packed := def.Packed
		if packed == nil {
			packed = Pack(tb, def.Codec, l.raw.Bytes())
		}
		packed = bytes.Clone(packed)
		if def.Corrupt != nil {
			def.Corrupt(packed)
		}
		l.offset = uint64(len(file))
		l.packed = uint64(len(packed))
		l.crc = crc32.ChecksumIEEE(l.raw.Bytes())
		file = append(file, packed...)
	}

	builder := flatbuffers.NewBuilder(1024)

	blockOffsets := make([]flatbuffers.UOffsetT, len(b.Blocks))
	for i := len(b.Blocks) - 1; i >= 0; i-- {
		l := &blocks[i]
		fb.BlockStart(builder)
		fb.BlockAddOffset(builder, l.offset)
		fb.BlockAddPackedSize(builder, l.packed)
		fb.BlockAddUnpackedSize(builder, uint64(l.raw.Len()))
		fb.BlockAddCodec(builder, fb.Codec(b.Blocks[i].Codec))
		if !b.Blocks[i].OmitCRC {
			fb.BlockAddCrc32(builder, l.crc)
		}
		blockOffsets[i] = fb.BlockEnd(builder)
	}

	entryOffsets := make([]flatbuffers.UOffsetT, len(b.Entries))
	for i := len(b.Entries) - 1; i >= 0; i-- {
		e := b.Entries[i]

		fb.EntryStartNameVector(builder, len(e.Name))
		for j := len(e.Name) - 1; j >= 0; j-- {
			builder.PrependUint16(e.Name[j])
		}
		nameOffset := builder.EndVector(len(e.Name))

		fb.EntryStart(builder)
		fb.EntryAddName(builder, nameOffset)
		fb.EntryAddSize(builder, uint64(len(e.Data)))
		fb.EntryAddIsDir(builder, e.Dir)
		if e.CRC != nil {
			fb.EntryAddCrc32(builder, *e.CRC)
		}
		if e.CTime != nil {
			fb.EntryAddCtime(builder, *e.CTime)
		}
		if e.MTime != nil {
			fb.EntryAddMtime(builder, *e.MTime)
		}
		if e.Block >= 0 && !e.Dir {
			fb.EntryAddBlock(builder, uint32(e.Block)) //nolint:gosec // test sizes
			fb.EntryAddOffset(builder, offsets[i])
		}
		entryOffsets[i] = fb.EntryEnd(builder)
	}

	fb.IndexStartBlocksVector(builder, len(blockOffsets))
	for i := len(blockOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(blockOffsets[i])
	}
	blocksVec := builder.EndVector(len(blockOffsets))

	fb.IndexStartEntriesVector(builder, len(entryOffsets))
	for i := len(entryOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(entryOffsets[i])
	}
	entriesVec := builder.EndVector(len(entryOffsets))

	fb.IndexStart(builder)
	fb.IndexAddVersion(builder, container.Version)
	fb.IndexAddBlocks(builder, blocksVec)
	fb.IndexAddEntries(builder, entriesVec)
	fb.FinishIndexBuffer(builder, fb.IndexEnd(builder))
	index := builder.FinishedBytes()

	h := container.Header{
		Version:     container.Version,
		IndexOffset: uint64(len(file)),
		IndexSize:   uint64(len(index)),
		IndexCRC:    crc32.ChecksumIEEE(index),
	}
	file = append(file, index...)
	raw, err := h.MarshalBinary()
	if err != nil {
		tb.Fatalf("marshal header: %v", err)
	}
	copy(file, raw)
	return file
}

// Pack encodes data with c. Xz has no encoder here; use BlockDef.Packed.
func Pack(tb testing.TB, c codec.Codec, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	switch c {
	case codec.None:
		buf.Write(data)
	case codec.Zstd:
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			tb.Fatalf("zstd writer: %v", err)
		}
		if _, err := enc.Write(data); err != nil {
			tb.Fatalf("zstd write: %v", err)
		}
		if err := enc.Close(); err != nil {
			tb.Fatalf("zstd close: %v", err)
		}
	case codec.Flate:
		enc, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			tb.Fatalf("flate writer: %v", err)
		}
		if _, err := enc.Write(data); err != nil {
			tb.Fatalf("flate write: %v", err)
		}
		if err := enc.Close(); err != nil {
			tb.Fatalf("flate close: %v", err)
		}
	case codec.S2:
		enc := s2.NewWriter(&buf)
		if _, err := enc.Write(data); err != nil {
			tb.Fatalf("s2 write: %v", err)
		}
		if err := enc.Close(); err != nil {
			tb.Fatalf("s2 close: %v", err)
		}
	default:
		tb.Fatalf("no test encoder for codec %s", c)
	}
	return buf.Bytes()
}
