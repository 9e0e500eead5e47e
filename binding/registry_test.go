package binding

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/solid"
	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/internal/testutil"
)

func writeTestArchive(t *testing.T) string {
	t.Helper()

	b := testutil.NewBuilder()
	blk := b.Block(codec.Zstd)
	a := b.File("a.txt", []byte("hello"), blk)
	mtime := uint64(133_500_000_000_000_000)
	a.MTime = &mtime
	b.File("b.txt", []byte("world"), blk)
	b.Dir("dir/")

	path := filepath.Join(t.TempDir(), "test.solid")
	require.NoError(t, os.WriteFile(path, b.Build(t), 0o644))
	return path
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want Status
	}{
		{nil, StatusOK},
		{solid.ErrOpen, StatusOpenError},
		{fmt.Errorf("%w: %w", solid.ErrOpen, fs.ErrNotExist), StatusOpenError},
		{solid.ErrIndex, StatusIndexError},
		{solid.ErrRead, StatusReadError},
		{solid.ErrDecode, StatusReadError},
		{solid.ErrChecksum, StatusReadError},
		{&fs.PathError{Op: "extract", Path: "d", Err: solid.ErrDirectory}, StatusReadError},
		{&fs.PathError{Op: "extract", Path: "f", Err: solid.ErrWrite}, StatusWriteError},
		{solid.ErrClosed, StatusError},
		{errors.New("other"), StatusError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), "%v", tt.err)
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "seek error", StatusSeekError.String())
	assert.Equal(t, "unknown status", Status(99).String())
}

func TestRegistryLifecycle(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	h, st := r.Open(writeTestArchive(t))
	require.Equal(t, StatusOK, st)
	require.NotZero(t, h)

	assert.Equal(t, 3, r.EntryCount(h))

	info, st := r.EntryAt(h, 0)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, []uint16{'a', '.', 't', 'x', 't', 0}, info.Name)
	assert.Equal(t, uint64(5), info.Size)
	assert.False(t, info.IsDir)
	assert.True(t, info.HasCRC32)
	assert.False(t, info.HasCTime)
	assert.True(t, info.HasMTime)
	assert.Equal(t, uint64(133_500_000_000_000_000), info.MTime)

	buf, st := r.ReadToBuffer(h, 1)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, "world", string(buf.Data))
	assert.Equal(t, 2, r.Outstanding())

	assert.Equal(t, StatusOK, r.FreeEntry(info))
	assert.Equal(t, StatusError, r.FreeEntry(info), "double free")

	assert.Equal(t, StatusOK, r.Close(h))
	assert.Equal(t, StatusError, r.Close(h))
	assert.Equal(t, 0, r.EntryCount(h))

	assert.Equal(t, "world", string(buf.Data), "buffers outlive their handle")
	assert.Equal(t, StatusOK, r.FreeBuffer(buf))
	assert.Equal(t, StatusError, r.FreeBuffer(buf), "double free")
	assert.Zero(t, r.Outstanding())
}

func TestRegistryErrors(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	h, st := r.Open(filepath.Join(t.TempDir(), "missing.solid"))
	assert.Equal(t, StatusOpenError, st)
	assert.Zero(t, h)

	h, st = r.Open(writeTestArchive(t))
	require.Equal(t, StatusOK, st)
	defer r.Close(h)

	_, st = r.EntryAt(h, 3)
	assert.Equal(t, StatusIndexError, st)
	assert.Equal(t, StatusIndexError, r.LastStatus(h))

	buf, st := r.ReadToBuffer(h, 2)
	assert.Equal(t, StatusReadError, st, "directories have no payload")
	assert.Nil(t, buf.Data)

	dir := t.TempDir()
	assert.Equal(t, StatusReadError, r.ExtractToPath(h, 2, filepath.Join(dir, "dir")))
	assert.Equal(t, StatusOpenError, r.ExtractToPath(h, 0, filepath.Join(dir, "missing", "a.txt")))
	assert.Equal(t, StatusIndexError, r.ExtractToPath(h, -1, filepath.Join(dir, "x")))

	dest := filepath.Join(dir, "a.txt")
	assert.Equal(t, StatusOK, r.ExtractToPath(h, 0, dest))
	assert.Equal(t, StatusOK, r.LastStatus(h))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, st = r.EntryAt(Handle(9999), 0)
	assert.Equal(t, StatusError, st)
	assert.Equal(t, StatusError, r.LastStatus(Handle(9999)))
	assert.Equal(t, StatusError, r.FreeEntry(EntryInfo{}))
	assert.Equal(t, StatusError, r.FreeBuffer(Buffer{}))
	assert.Zero(t, r.Outstanding())
}

func TestRegistryArchiveOptions(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	data, err := os.ReadFile(writeTestArchive(t))
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(mem, "/test.solid", data, 0o644))

	r := NewRegistry(WithArchiveOptions(solid.WithFs(mem), solid.WithAllocator(solid.NewPoolAllocator())))
	h, st := r.Open("/test.solid")
	require.Equal(t, StatusOK, st)
	defer r.Close(h)

	require.Equal(t, StatusOK, r.ExtractToPath(h, 1, "/b.txt"))
	got, err := afero.ReadFile(mem, "/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))

	buf, st := r.ReadToBuffer(h, 0)
	require.Equal(t, StatusOK, st)
	assert.Equal(t, "hello", string(buf.Data))
	assert.Equal(t, StatusOK, r.FreeBuffer(buf))
}

func TestRegistryConcurrentHandles(t *testing.T) {
	t.Parallel()

	path := writeTestArchive(t)
	r := NewRegistry()

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, st := r.Open(path)
			if st != StatusOK {
				errs <- "open: " + st.String()
				return
			}
			defer r.Close(h)
			for i := range 2 {
				buf, st := r.ReadToBuffer(h, i)
				if st != StatusOK {
					errs <- "read: " + st.String()
					return
				}
				r.FreeBuffer(buf)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
	assert.Zero(t, r.Outstanding())
}
