package container

import (
	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/internal/solidtype"
)

// BlockInfo describes one packed solid block.
type BlockInfo struct {
	// Offset is the file offset of the packed bytes.
	Offset     uint64
	PackedSize uint64

	// UnpackedSize is the exact decoded length.
	UnpackedSize uint64

	Codec codec.Codec

	// CRC32 is the IEEE checksum of the decoded bytes, if recorded.
	CRC32    uint32
	HasCRC32 bool
}

// Index is a loaded container index.
//
// Index implements both solid.Metadata and solid.BlockDecoder. It is
// immutable after Load and safe for concurrent use; the block readers it
// returns are not.
type Index struct {
	version uint32
	blocks  []BlockInfo
	records []solidtype.Record
	pool    *codec.Pool
}

// Version returns the index format version.
func (idx *Index) Version() uint32 {
	return idx.version
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Record returns the i-th entry record in on-disk order.
// The record's Name aliases index memory and must not be modified.
func (idx *Index) Record(i int) (solidtype.Record, error) {
	if i < 0 || i >= len(idx.records) {
		return solidtype.Record{}, solidtype.ErrIndex
	}
	return idx.records[i], nil
}

// NumBlocks returns the number of solid blocks.
func (idx *Index) NumBlocks() int {
	return len(idx.blocks)
}

// Block returns the description of block id.
func (idx *Index) Block(id solidtype.BlockID) (BlockInfo, bool) {
	if uint64(id) >= uint64(len(idx.blocks)) {
		return BlockInfo{}, false
	}
	return idx.blocks[id], true
}

// Blocks returns a copy of all block descriptions.
func (idx *Index) Blocks() []BlockInfo {
	out := make([]BlockInfo, len(idx.blocks))
	copy(out, idx.blocks)
	return out
}
