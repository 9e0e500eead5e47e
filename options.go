package solid

import (
	"log/slog"

	"github.com/spf13/afero"
)

const (
	// DefaultMaxBlockSize is the default limit on a single decoded block (1GB).
	DefaultMaxBlockSize = 1 << 30

	// DefaultChunkSize is the default number of bytes decoded per step.
	DefaultChunkSize = 32 << 10
)

// Option configures an Archive.
type Option func(*Archive)

// WithFs sets the filesystem used by Open and ExtractToPath (default: the OS).
func WithFs(fsys afero.Fs) Option {
	return func(a *Archive) {
		a.fs = fsys
	}
}

// WithLogger sets the logger for cache and lifecycle events.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithAllocator sets the allocation strategy for block caches and ReadFile
// buffers (default: HeapAllocator).
func WithAllocator(alloc Allocator) Option {
	return func(a *Archive) {
		a.alloc = alloc
	}
}

// WithMetadataReader replaces the container metadata reader.
func WithMetadataReader(r MetadataReader) Option {
	return func(a *Archive) {
		a.metaReader = r
	}
}

// WithBlockDecoder replaces the block decoder. When unset, the Metadata
// returned by the metadata reader is used if it implements BlockDecoder.
func WithBlockDecoder(d BlockDecoder) Option {
	return func(a *Archive) {
		a.decoder = d
	}
}

// WithVerifyChecksums controls whether extracted payloads are checked
// against their recorded CRC32 (default: true).
func WithVerifyChecksums(enabled bool) Option {
	return func(a *Archive) {
		a.verify = enabled
	}
}

// WithMaxBlockSize limits the decoded size of a single block.
// Set limit to 0 to disable the limit.
func WithMaxBlockSize(limit uint64) Option {
	return func(a *Archive) {
		a.maxBlockSize = limit
	}
}

// WithChunkSize sets how many bytes are decoded per step before they are
// handed to the destination. Values <= 0 use DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(a *Archive) {
		if n <= 0 {
			n = DefaultChunkSize
		}
		a.chunkSize = n
	}
}
