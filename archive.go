package solid

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/meigma/solid/container"
)

// Archive provides indexed, block-cached access to the entries of a solid
// archive.
//
// An Archive is not safe for concurrent use: the decoded block cache and the
// stream position of in-progress block decodes are unsynchronized.
type Archive struct {
	src    Source
	closer io.Closer // nil when the source is caller-owned

	meta    Metadata
	entries []Entry
	names   map[string]int

	metaReader   MetadataReader
	decoder      BlockDecoder
	alloc        Allocator
	fs           afero.Fs
	logger       *slog.Logger
	verify       bool
	maxBlockSize uint64
	chunkSize    int

	cache  decodedBlock
	stats  Stats
	closed bool
}

// Stats counts block cache activity over an Archive's lifetime.
type Stats struct {
	// BlocksDecoded is the number of times a block decoder was opened.
	BlocksDecoded int

	// CacheHits is the number of extractions served by an already open block.
	CacheHits int

	// BytesDecoded is the total number of decoded block bytes produced.
	BytesDecoded uint64
}

func newArchive(opts []Option) *Archive {
	a := &Archive{
		metaReader:   container.Reader{},
		alloc:        HeapAllocator{},
		fs:           afero.NewOsFs(),
		verify:       true,
		maxBlockSize: DefaultMaxBlockSize,
		chunkSize:    DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// Open opens the archive at path for reading.
//
// The metadata is read once, here; every failure to open the file or to
// parse its metadata is reported as ErrOpen and leaves nothing open.
func Open(path string, opts ...Option) (*Archive, error) {
	a := newArchive(opts)

	f, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("%w: stat %s: %w", ErrOpen, path, err)
	}
	if info.IsDir() {
		_ = f.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("%w: %s is a directory", ErrOpen, path)
	}

	if err := a.init(&fileSource{File: f, size: info.Size()}); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	a.closer = f
	a.log().Debug("archive opened", "path", path, "entries", len(a.entries))
	return a, nil
}

// OpenSource opens an archive over a caller-owned source.
// Close does not close src.
func OpenSource(src Source, opts ...Option) (*Archive, error) {
	a := newArchive(opts)
	if err := a.init(src); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	a.log().Debug("archive opened", "entries", len(a.entries))
	return a, nil
}

// init builds the entry index. This is the only read of the full metadata table.
func (a *Archive) init(src Source) error {
	if a.metaReader == nil {
		return errors.New("no metadata reader")
	}
	meta, err := a.metaReader.ReadMetadata(src)
	if err != nil {
		return err
	}

	n := meta.Len()
	entries := make([]Entry, n)
	names := make(map[string]int, n)
	for i := range n {
		rec, err := meta.Record(i)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = newEntry(i, &rec)
		key := NormalizePath(entries[i].name)
		if _, dup := names[key]; !dup {
			names[key] = i
		}
	}

	if a.decoder == nil {
		d, ok := meta.(BlockDecoder)
		if !ok {
			return errors.New("metadata does not provide a block decoder")
		}
		a.decoder = d
	}

	a.src = src
	a.meta = meta
	a.entries = entries
	a.names = names
	return nil
}

// Close releases the decoded block cache and the metadata, and closes the
// archive file when it was opened by Open. Close is idempotent.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.releaseBlock()
	a.entries = nil
	a.names = nil
	a.meta = nil
	a.src = nil
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Entry returns the descriptor of entry i.
func (a *Archive) Entry(i int) (Entry, error) {
	if a.closed {
		return Entry{}, ErrClosed
	}
	if i < 0 || i >= len(a.entries) {
		return Entry{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndex, i, len(a.entries))
	}
	return a.entries[i], nil
}

// Entries returns an iterator over all entries in on-disk order.
func (a *Archive) Entries() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range a.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Lookup returns the index of the first entry whose normalized name equals
// NormalizePath(name).
func (a *Archive) Lookup(name string) (int, bool) {
	i, ok := a.names[NormalizePath(name)]
	return i, ok
}

// Metadata returns the table the archive was indexed from. Callers can
// type-assert it to the container's concrete type, for example
// *container.Index, to inspect block layout.
func (a *Archive) Metadata() Metadata {
	return a.meta
}

// Stats returns block cache counters.
func (a *Archive) Stats() Stats {
	return a.stats
}

// fileSource adapts an afero.File to Source.
type fileSource struct {
	afero.File
	size int64
}

func (f *fileSource) Size() int64 {
	return f.size
}
