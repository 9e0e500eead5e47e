// Package solidtype holds the capability types shared by the solid engine
// and the container implementation. The solid package re-exports them.
package solidtype

import "io"

// Source provides random access to the archive stream.
type Source interface {
	io.ReaderAt
	Size() int64
}

// BlockID locates a solid block in the container's block space.
type BlockID uint32

// NoBlock is the block assignment of entries that carry no payload bytes.
const NoBlock BlockID = ^BlockID(0)

// Record is one raw entry descriptor as stored by the container.
type Record struct {
	// Name holds the UTF-16 code units of the entry name.
	Name []uint16

	// Size is the exact uncompressed payload length.
	Size uint64

	IsDir bool

	CRC32    uint32
	HasCRC32 bool

	// CTime and MTime are NTFS FILETIME ticks.
	CTime    uint64
	HasCTime bool
	MTime    uint64
	HasMTime bool

	// Block is the solid block holding the payload, NoBlock when there is none.
	Block BlockID

	// Offset is the payload's byte offset within the decoded block.
	Offset uint64
}

// Metadata is a random-access table of entry records in on-disk order.
type Metadata interface {
	Len() int
	Record(i int) (Record, error)
}

// MetadataReader parses a container's structure into a Metadata table.
type MetadataReader interface {
	ReadMetadata(src Source) (Metadata, error)
}

// BlockReader streams the decoded bytes of one solid block.
type BlockReader interface {
	io.ReadCloser

	// Size is the exact decoded length of the block.
	Size() int64
}

// BlockDecoder opens solid blocks for decoding.
//
// Stream failures should be reported as *SourceError; everything else is
// treated as a codec failure.
type BlockDecoder interface {
	OpenBlock(src Source, id BlockID) (BlockReader, error)
}
