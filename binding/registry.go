// Package binding exposes archives through an opaque-handle API with
// explicit ownership, for callers on the far side of a foreign function
// boundary.
//
// Every value that carries storage out of the package, an EntryInfo or a
// Buffer, must be handed back through its paired free call. Outstanding
// reports how many are still live.
package binding

import (
	"log/slog"
	"sync"

	"github.com/meigma/solid"
)

// Handle identifies an open archive. The zero Handle is never valid.
type Handle uint64

// EntryInfo is a caller-owned copy of an entry descriptor.
type EntryInfo struct {
	// Name holds the entry name as UTF-16 code units followed by a NUL.
	Name []uint16

	Size  uint64
	IsDir bool

	CRC32    uint32
	HasCRC32 bool

	// CTime and MTime are NTFS FILETIME ticks.
	CTime    uint64
	HasCTime bool
	MTime    uint64
	HasMTime bool

	id uint64
}

// Buffer is a caller-owned copy of an entry payload.
type Buffer struct {
	Data []byte

	id uint64
}

// Registry maps handles to open archives.
//
// The handle table is safe for concurrent use. A single handle is not: it
// must be used by one goroutine at a time, like the Archive behind it.
type Registry struct {
	mu       sync.Mutex
	next     uint64
	archives map[Handle]*entry
	infos    map[uint64]struct{}
	buffers  map[uint64]allocation

	archiveOpts []solid.Option
	logger      *slog.Logger
}

type entry struct {
	archive *solid.Archive
	path    string
	last    Status
}

// allocation is one live Buffer. It goes back to the allocator of the
// archive that produced it.
type allocation struct {
	archive *solid.Archive
	data    []byte
}

// Option configures a Registry.
type Option func(*Registry)

// WithArchiveOptions sets the options every archive is opened with.
func WithArchiveOptions(opts ...solid.Option) Option {
	return func(r *Registry) {
		r.archiveOpts = append(r.archiveOpts, opts...)
	}
}

// WithLogger sets the logger for handle lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		archives: make(map[Handle]*entry),
		infos:    make(map[uint64]struct{}),
		buffers:  make(map[uint64]allocation),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Open opens the archive at path. On failure the Handle is zero and the
// status is StatusOpenError.
func (r *Registry) Open(path string) (Handle, Status) {
	a, err := solid.Open(path, r.archiveOpts...)
	if err != nil {
		r.log().Debug("open failed", "path", path, "error", err)
		return 0, StatusOf(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	h := Handle(r.nextID())
	r.archives[h] = &entry{archive: a, path: path, last: StatusOK}
	r.log().Debug("handle opened", "handle", h, "path", path, "entries", a.Len())
	return h, StatusOK
}

// LastStatus returns the status of the most recent operation on h.
// Unknown handles report StatusError.
func (r *Registry) LastStatus(h Handle) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.archives[h]
	if !ok {
		return StatusError
	}
	return e.last
}

func (r *Registry) lookup(h Handle) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.archives[h]
	return e, ok
}

func (r *Registry) record(e *entry, s Status) Status {
	r.mu.Lock()
	e.last = s
	r.mu.Unlock()
	return s
}

// nextID returns a fresh id. Handles and allocations share one counter.
// Callers hold r.mu.
func (r *Registry) nextID() uint64 {
	r.next++
	return r.next
}

// EntryCount returns the number of entries in h, or 0 for an unknown handle.
func (r *Registry) EntryCount(h Handle) int {
	e, ok := r.lookup(h)
	if !ok {
		return 0
	}
	r.record(e, StatusOK)
	return e.archive.Len()
}

// EntryAt returns a copy of entry i. The caller must release it with FreeEntry.
func (r *Registry) EntryAt(h Handle, i int) (EntryInfo, Status) {
	e, ok := r.lookup(h)
	if !ok {
		return EntryInfo{}, StatusError
	}
	ent, err := e.archive.Entry(i)
	if err != nil {
		return EntryInfo{}, r.record(e, StatusOf(err))
	}

	name := append(ent.RawName(), 0)
	info := EntryInfo{
		Name:  name,
		Size:  ent.Size(),
		IsDir: ent.IsDir(),
	}
	info.CRC32, info.HasCRC32 = ent.CRC32()
	if t, ok := ent.Created(); ok {
		info.CTime, info.HasCTime = solid.ToFileTime(t), true
	}
	if t, ok := ent.Modified(); ok {
		info.MTime, info.HasMTime = solid.ToFileTime(t), true
	}
	r.mu.Lock()
	info.id = r.nextID()
	r.infos[info.id] = struct{}{}
	e.last = StatusOK
	r.mu.Unlock()
	return info, StatusOK
}

// FreeEntry releases an EntryInfo returned by EntryAt. Freeing the same
// EntryInfo twice, or one not produced by this Registry, is StatusError.
func (r *Registry) FreeEntry(info EntryInfo) Status {
	r.mu.Lock()
	_, ok := r.infos[info.id]
	delete(r.infos, info.id)
	r.mu.Unlock()
	if !ok {
		r.log().Warn("free of unowned entry", "id", info.id)
		return StatusError
	}
	return StatusOK
}

// ReadToBuffer returns the payload of entry i. On failure Data is nil.
// The caller must release a successful Buffer with FreeBuffer.
func (r *Registry) ReadToBuffer(h Handle, i int) (Buffer, Status) {
	e, ok := r.lookup(h)
	if !ok {
		return Buffer{}, StatusError
	}
	data, err := e.archive.ReadFile(i)
	if err != nil {
		r.log().Debug("read failed", "handle", h, "entry", i, "error", err)
		return Buffer{}, r.record(e, StatusOf(err))
	}
	r.mu.Lock()
	id := r.nextID()
	r.buffers[id] = allocation{archive: e.archive, data: data}
	e.last = StatusOK
	r.mu.Unlock()
	return Buffer{Data: data, id: id}, StatusOK
}

// FreeBuffer releases a Buffer returned by ReadToBuffer. It stays valid
// after its archive is closed. Freeing twice is StatusError.
func (r *Registry) FreeBuffer(buf Buffer) Status {
	r.mu.Lock()
	a, ok := r.buffers[buf.id]
	delete(r.buffers, buf.id)
	r.mu.Unlock()
	if !ok {
		r.log().Warn("free of unowned buffer", "id", buf.id)
		return StatusError
	}
	a.archive.Release(a.data)
	return StatusOK
}

// ExtractToPath writes entry i to a file at path.
func (r *Registry) ExtractToPath(h Handle, i int, path string) Status {
	e, ok := r.lookup(h)
	if !ok {
		return StatusError
	}
	if _, err := e.archive.ExtractToPath(i, path); err != nil {
		r.log().Debug("extract failed", "handle", h, "entry", i, "path", path, "error", err)
		return r.record(e, StatusOf(err))
	}
	return r.record(e, StatusOK)
}

// Close closes h. Buffers and entries obtained from it remain owned by the
// caller until freed. Closing an unknown handle is StatusError.
func (r *Registry) Close(h Handle) Status {
	r.mu.Lock()
	e, ok := r.archives[h]
	delete(r.archives, h)
	r.mu.Unlock()
	if !ok {
		return StatusError
	}
	if err := e.archive.Close(); err != nil {
		r.log().Warn("close failed", "handle", h, "path", e.path, "error", err)
		return StatusError
	}
	r.log().Debug("handle closed", "handle", h)
	return StatusOK
}

// Outstanding returns the number of EntryInfo and Buffer values not yet freed.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.infos) + len(r.buffers)
}
