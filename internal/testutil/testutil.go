package testutil

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/meigma/solid/internal/solidtype"
)

// ErrInjected is returned by the failing test doubles.
var ErrInjected = errors.New("testutil: injected failure")

// MockSource implements a simple in-memory archive source for tests.
type MockSource struct {
	data []byte
}

// NewMockSource returns a source backed by the provided data.
func NewMockSource(data []byte) *MockSource {
	return &MockSource{data: data}
}

// ReadAt implements io.ReaderAt semantics over the backing slice.
func (m *MockSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if off+int64(n) >= int64(len(m.data)) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the total size of the backing data.
func (m *MockSource) Size() int64 {
	return int64(len(m.data))
}

// Bytes returns the backing slice for tests that need to mutate data.
func (m *MockSource) Bytes() []byte {
	return m.data
}

// FailingSource wraps a source; reads at or past From fail while Fail is set.
type FailingSource struct {
	solidtype.Source
	From int64
	Fail atomic.Bool
}

// ReadAt fails with ErrInjected for reads that reach From while Fail is set.
func (s *FailingSource) ReadAt(p []byte, off int64) (int, error) {
	if s.Fail.Load() && off+int64(len(p)) > s.From {
		return 0, ErrInjected
	}
	return s.Source.ReadAt(p, off)
}

// CountingDecoder wraps a block decoder and records how often each block is
// opened and how many decoded bytes are read from it.
type CountingDecoder struct {
	Decoder solidtype.BlockDecoder

	// ReadSize, when positive, caps every Read on returned readers so a
	// block decodes in many small steps.
	ReadSize int

	mu    sync.Mutex
	opens map[solidtype.BlockID]int
	bytes int64
}

// OpenBlock implements solidtype.BlockDecoder.
func (d *CountingDecoder) OpenBlock(src solidtype.Source, id solidtype.BlockID) (solidtype.BlockReader, error) {
	d.mu.Lock()
	if d.opens == nil {
		d.opens = make(map[solidtype.BlockID]int)
	}
	d.opens[id]++
	d.mu.Unlock()

	rd, err := d.Decoder.OpenBlock(src, id)
	if err != nil {
		return nil, err
	}
	return &countingReader{BlockReader: rd, d: d}, nil
}

// Opens returns how many times block id was opened.
func (d *CountingDecoder) Opens(id solidtype.BlockID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens[id]
}

// TotalOpens returns the number of block opens across all blocks.
func (d *CountingDecoder) TotalOpens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.opens {
		total += n
	}
	return total
}

// BytesRead returns the number of decoded bytes handed out.
func (d *CountingDecoder) BytesRead() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bytes
}

type countingReader struct {
	solidtype.BlockReader
	d *CountingDecoder
}

func (r *countingReader) Read(p []byte) (int, error) {
	if r.d.ReadSize > 0 && len(p) > r.d.ReadSize {
		p = p[:r.d.ReadSize]
	}
	n, err := r.BlockReader.Read(p)
	r.d.mu.Lock()
	r.d.bytes += int64(n)
	r.d.mu.Unlock()
	return n, err
}

// FailingWriter accepts Limit bytes and then fails with ErrInjected.
type FailingWriter struct {
	Limit int
	n     int
}

// Write implements io.Writer.
func (w *FailingWriter) Write(p []byte) (int, error) {
	room := w.Limit - w.n
	if room <= 0 {
		return 0, ErrInjected
	}
	if len(p) > room {
		w.n += room
		return room, ErrInjected
	}
	w.n += len(p)
	return len(p), nil
}

// Written returns the number of bytes accepted.
func (w *FailingWriter) Written() int {
	return w.n
}
