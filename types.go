package solid

import "github.com/meigma/solid/internal/solidtype"

// Re-export capability types from internal/solidtype for the public API.
type (
	// Source provides random access to the archive stream.
	Source = solidtype.Source

	// BlockID locates a solid block in the container's block space.
	BlockID = solidtype.BlockID

	// Record is one raw entry descriptor as stored by the container.
	Record = solidtype.Record

	// Metadata is a random-access table of entry records in on-disk order.
	Metadata = solidtype.Metadata

	// MetadataReader parses a container's structure into a Metadata table.
	MetadataReader = solidtype.MetadataReader

	// BlockReader streams the decoded bytes of one solid block.
	BlockReader = solidtype.BlockReader

	// BlockDecoder opens solid blocks for decoding.
	BlockDecoder = solidtype.BlockDecoder

	// SourceError marks a failure of the underlying archive stream.
	SourceError = solidtype.SourceError
)

// NoBlock is the block assignment of entries that carry no payload bytes.
const NoBlock = solidtype.NoBlock

// Sentinel errors re-exported from internal/solidtype.
var (
	// ErrOpen is returned when the archive or an extraction destination cannot be opened.
	ErrOpen = solidtype.ErrOpen

	// ErrIndex is returned for entry indexes outside [0, Len()).
	ErrIndex = solidtype.ErrIndex

	// ErrRead is returned when the archive stream fails while a block is decoded.
	ErrRead = solidtype.ErrRead

	// ErrDecode is returned when a block's bytes cannot be decoded.
	ErrDecode = solidtype.ErrDecode

	// ErrWrite is returned when an extraction destination rejects a write.
	ErrWrite = solidtype.ErrWrite

	// ErrDirectory is returned when extracting the payload of a directory entry.
	ErrDirectory = solidtype.ErrDirectory

	// ErrClosed is returned by operations on a closed Archive.
	ErrClosed = solidtype.ErrClosed

	// ErrChecksum is returned when decoded bytes fail CRC verification. It matches ErrDecode.
	ErrChecksum = solidtype.ErrChecksum

	// ErrSizeOverflow is returned when metadata sizes exceed supported limits. It matches ErrDecode.
	ErrSizeOverflow = solidtype.ErrSizeOverflow
)
