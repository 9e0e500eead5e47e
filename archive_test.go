package solid

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/container"
	"github.com/meigma/solid/internal/testutil"
)

// openTestArchive opens file over an in-memory source with a counting decoder.
func openTestArchive(t *testing.T, file []byte, opts ...Option) (*Archive, *testutil.CountingDecoder) {
	t.Helper()

	src := testutil.NewMockSource(file)
	idx, err := container.Reader{}.Load(src)
	require.NoError(t, err)

	cd := &testutil.CountingDecoder{Decoder: idx}
	a, err := OpenSource(src, append([]Option{WithBlockDecoder(cd)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, cd
}

// threeEntryArchive holds a.txt and b.txt in block 0 and a directory.
func threeEntryArchive(t *testing.T) []byte {
	t.Helper()

	b := testutil.NewBuilder()
	blk := b.Block(codec.Zstd)
	b.File("a.txt", []byte("hello"), blk)
	b.File("b.txt", []byte("world"), blk)
	b.Dir("dir/")
	return b.Build(t)
}

func writeArchive(t *testing.T, file []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.solid")
	require.NoError(t, os.WriteFile(path, file, 0o644))
	return path
}

func TestOpen(t *testing.T) {
	t.Parallel()

	a, err := Open(writeArchive(t, threeEntryArchive(t)))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 3, a.Len())
	e, err := a.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", e.Name())
	assert.Equal(t, uint64(5), e.Size())

	idx, ok := a.Metadata().(*container.Index)
	require.True(t, ok)
	assert.Equal(t, 1, idx.NumBlocks())
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, bytes.Repeat([]byte("x"), 64), 0o644))

	for name, path := range map[string]string{
		"missing":   filepath.Join(dir, "missing.solid"),
		"directory": dir,
		"garbage":   garbage,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := Open(path)
			assert.ErrorIs(t, err, ErrOpen)
			assert.Nil(t, a)
		})
	}
}

func TestOpenBadMetadataWrapsCause(t *testing.T) {
	t.Parallel()

	file := threeEntryArchive(t)
	file[0] = 'X'

	_, err := OpenSource(testutil.NewMockSource(file))
	require.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, container.ErrBadMagic)
}

func TestOpenWithFs(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/archives/test.solid", threeEntryArchive(t), 0o644))

	a, err := Open("/archives/test.solid", WithFs(mem))
	require.NoError(t, err)
	defer a.Close()

	n, err := a.ExtractToPath(1, "/b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got, err := afero.ReadFile(mem, "/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))
}

type fixedMetadata struct {
	records []Record
}

func (m fixedMetadata) Len() int { return len(m.records) }

func (m fixedMetadata) Record(i int) (Record, error) { return m.records[i], nil }

type fixedReader struct {
	meta  Metadata
	calls int
}

func (r *fixedReader) ReadMetadata(Source) (Metadata, error) {
	r.calls++
	return r.meta, nil
}

func TestOpenRequiresDecoder(t *testing.T) {
	t.Parallel()

	r := &fixedReader{meta: fixedMetadata{}}
	_, err := OpenSource(testutil.NewMockSource(nil), WithMetadataReader(r))
	assert.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, 1, r.calls)
}

func TestMetadataReadOnce(t *testing.T) {
	t.Parallel()

	file := threeEntryArchive(t)
	src := testutil.NewMockSource(file)
	idx, err := container.Reader{}.Load(src)
	require.NoError(t, err)

	r := &fixedReader{meta: idx}
	a, err := OpenSource(src, WithMetadataReader(r))
	require.NoError(t, err)
	defer a.Close()

	for i := range a.Len() {
		_, err := a.Entry(i)
		require.NoError(t, err)
	}
	_, err = a.ReadFile(0)
	require.NoError(t, err)
	_, ok := a.Lookup("b.txt")
	assert.True(t, ok)

	assert.Equal(t, 1, r.calls)
}

func TestEntryIndexOutOfRange(t *testing.T) {
	t.Parallel()

	a, _ := openTestArchive(t, threeEntryArchive(t))

	for _, i := range []int{-1, 3, 100} {
		_, err := a.Entry(i)
		assert.ErrorIs(t, err, ErrIndex)
		_, err = a.ReadFile(i)
		assert.ErrorIs(t, err, ErrIndex)
		_, err = a.Extract(i, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrIndex)
		_, err = a.ExtractToPath(i, filepath.Join(t.TempDir(), "out"))
		assert.ErrorIs(t, err, ErrIndex)
	}
}

func TestEntries(t *testing.T) {
	t.Parallel()

	a, _ := openTestArchive(t, threeEntryArchive(t))

	var names []string
	for i, e := range a.Entries() {
		assert.Equal(t, i, e.Index())
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "dir/"}, names)

	count := 0
	for range a.Entries() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	b := testutil.NewBuilder()
	blk := b.Block(codec.None)
	b.Dir(`docs\`)
	b.File(`docs\readme.md`, []byte("first"), blk)
	b.File("docs/readme.md", []byte("second"), blk)
	a, _ := openTestArchive(t, b.Build(t))

	i, ok := a.Lookup("docs")
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = a.Lookup("/docs/readme.md")
	require.True(t, ok)
	assert.Equal(t, 1, i, "first occurrence wins")

	_, ok = a.Lookup("nope")
	assert.False(t, ok)
}

func TestClose(t *testing.T) {
	t.Parallel()

	a, err := Open(writeArchive(t, threeEntryArchive(t)))
	require.NoError(t, err)

	_, err = a.ReadFile(0)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	_, err = a.Entry(0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = a.ReadFile(0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = a.Extract(1, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 0, a.Len())
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a, _ := openTestArchive(t, threeEntryArchive(t), WithLogger(logger))

	_, err := a.ReadFile(0)
	require.NoError(t, err)
	_, err = a.ReadFile(1)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	out := buf.String()
	assert.Contains(t, out, "archive opened")
	assert.Contains(t, out, "block cache miss")
	assert.Contains(t, out, "block cache hit")
	assert.Contains(t, out, "block released")
}
